package protocol

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	testCases := []struct {
		name string
		resp *Response
		want string
	}{
		{
			name: "ボディとContent-typeあり",
			resp: &Response{Status: StatusOK, ContentType: ContentTypeHTML, Body: []byte("<h1>hi</h1>")},
			want: "HTTP/1.1 200 OK\r\nContent-type: text/html\r\n\r\n<h1>hi</h1>",
		},
		{
			name: "HEAD相当（ボディ無し）",
			resp: &Response{Status: StatusOK, ContentType: ContentTypeCSS},
			want: "HTTP/1.1 200 OK\r\nContent-type: text/css\r\n\r\n",
		},
		{
			name: "ステータスのみ",
			resp: &Response{Status: StatusNotImplemented},
			want: "HTTP/1.1 501 Not Implemented\r\n\r\n",
		},
		{
			name: "空のボディ",
			resp: &Response{Status: StatusNotFound, ContentType: ContentTypeHTML, Body: []byte{}},
			want: "HTTP/1.1 404 Not Found\r\nContent-type: text/html\r\n\r\n",
		},
		{
			name: "Content-type無しでもボディの前に終端",
			resp: &Response{Status: StatusForbidden, Body: []byte("no")},
			want: "HTTP/1.1 403 Forbidden\r\n\r\nno",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := string(Format(tc.resp)); got != tc.want {
				t.Errorf("Format() =\n%q\nwant:\n%q", got, tc.want)
			}
		})
	}
}

func TestFormat_Deterministic(t *testing.T) {
	resp := &Response{Status: StatusOK, ContentType: ContentTypePNG, Body: []byte{0x89, 'P', 'N', 'G'}}
	first := Format(resp)
	for i := 0; i < 100; i++ {
		if got := Format(resp); !bytes.Equal(got, first) {
			t.Fatalf("Format() iteration %d = %q, want %q", i, got, first)
		}
	}
}

func TestFormat_DoesNotAliasPool(t *testing.T) {
	a := Format(&Response{Status: StatusOK, Body: []byte("aaaa")})
	_ = Format(&Response{Status: StatusNotFound, Body: []byte("bbbb")})
	if !strings.HasSuffix(string(a), "aaaa") {
		t.Errorf("earlier result was overwritten: %q", a)
	}
}

func TestNewResponse_Defaults(t *testing.T) {
	resp := NewResponse()
	if resp.Status != StatusOK {
		t.Errorf("status = %v, want 200", resp.Status)
	}
	if resp.HasBody() {
		t.Error("new response should not have a body")
	}
	if resp.ContentType.IsSet() {
		t.Error("new response should not have a content type")
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestEncoder(t *testing.T) {
	var buf bytes.Buffer
	resp := &Response{Status: StatusOK, ContentType: ContentTypeText, Body: []byte("hello")}
	if err := NewEncoder(&buf).Encode(resp); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !bytes.Equal(buf.Bytes(), Format(resp)) {
		t.Errorf("Encode() wrote %q", buf.String())
	}

	if err := NewEncoder(failWriter{}).Encode(resp); err == nil {
		t.Error("Encode() should propagate write errors")
	}
}

func TestStatusCode(t *testing.T) {
	testCases := []struct {
		status StatusCode
		code   int
		text   string
	}{
		{StatusContinue, 100, "100 Continue"},
		{StatusOK, 200, "200 OK"},
		{StatusTemporaryRedirect, 307, "307 Temporary Redirect"},
		{StatusForbidden, 403, "403 Forbidden"},
		{StatusNotFound, 404, "404 Not Found"},
		{StatusExpectationFailed, 417, "417 Expectation Failed"},
		{StatusInternalServerError, 500, "500 Internal Server Error"},
		{StatusNotImplemented, 501, "501 Not Implemented"},
		{StatusHTTPVersionNotSupported, 505, "505 HTTP Version Not Supported"},
	}

	for _, tc := range testCases {
		if tc.status.Code() != tc.code {
			t.Errorf("Code() = %d, want %d", tc.status.Code(), tc.code)
		}
		if tc.status.String() != tc.text {
			t.Errorf("String() = %q, want %q", tc.status.String(), tc.text)
		}
		if !tc.status.Known() {
			t.Errorf("%d should be known", tc.code)
		}
		line := "HTTP/1.1 " + tc.text + "\r\n"
		if got := string(Format(&Response{Status: tc.status})); !strings.HasPrefix(got, line) {
			t.Errorf("status line = %q, want prefix %q", got, line)
		}
	}

	if StatusCode(418).Known() {
		t.Error("418 is not part of the vocabulary")
	}
	if got := StatusCode(418).String(); got != "418" {
		t.Errorf("String() = %q, want 418", got)
	}
}
