package protocol

import (
	"bytes"
	"strings"
)

// Version11 はサポートする唯一のHTTPバージョン
const Version11 = "HTTP/1.1"

// Request は解析済みのリクエストライン
//
// Request-Line = Method SP Request-URI SP HTTP-Version CRLF
//
// 生成後は変更できない
type Request struct {
	method  Method
	path    string
	version string
}

// NewRequest はRequestを作成する。バージョンは常に HTTP/1.1
func NewRequest(method Method, path string) *Request {
	return &Request{method: method, path: path, version: Version11}
}

// Method はリクエストメソッドを返す
func (r *Request) Method() Method { return r.method }

// Path はリクエストURIを受信したまま返す
func (r *Request) Path() string { return r.path }

// Version はHTTPバージョンを返す
func (r *Request) Version() string { return r.version }

func (r *Request) String() string {
	return r.method.String() + " " + r.path + " " + r.version
}

// RequestLine はバッファの先頭行を取り出す
// 行末のCRLF（またはLF）は取り除く。改行が無ければバッファ全体を1行とみなす
func RequestLine(buf []byte) string {
	if i := bytes.IndexByte(buf, '\n'); i >= 0 {
		buf = buf[:i]
	}
	buf = bytes.TrimRight(buf, "\r\x00")
	return string(buf)
}

// ParseRequestLine はリクエストラインを解析する
//
// 空白で区切った3つのトークン（メソッド、URI、バージョン）を要求する。
// URIはパーセントデコードも正規化もせず、形式も問わずにそのまま保持する
// （"*" や絶対URIも受け付ける。パスとして解釈できるかはリソース解決時に判断する）
func ParseRequestLine(line string) (*Request, error) {
	fields := strings.Fields(line)

	switch {
	case len(fields) < 1:
		return nil, &ParseError{Kind: MissingField, Field: FieldMethod}
	case len(fields) < 2:
		return nil, &ParseError{Kind: MissingField, Field: FieldURI}
	case len(fields) < 3:
		return nil, &ParseError{Kind: MissingField, Field: FieldVersion}
	case len(fields) > 3:
		return nil, &ParseError{Kind: MalformedRequestLine, Token: line}
	}

	method, err := ParseMethod(fields[0])
	if err != nil {
		return nil, err
	}

	if fields[2] != Version11 {
		return nil, &ParseError{Kind: UnsupportedVersion, Field: FieldVersion, Token: fields[2]}
	}

	return &Request{method: method, path: fields[1], version: Version11}, nil
}

// ParseRequest は受信バッファの先頭行をリクエストラインとして解析する
// 2行目以降（ヘッダーやボディ）は読み捨てる
func ParseRequest(buf []byte) (*Request, error) {
	return ParseRequestLine(RequestLine(buf))
}
