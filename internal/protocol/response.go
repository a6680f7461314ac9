package protocol

import (
	"io"
	"strconv"
	"sync"
)

// Response はクライアントに返すレスポンス
type Response struct {
	Status      StatusCode
	ContentType ContentType // ゼロ値ならContent-typeヘッダーを出力しない
	Body        []byte      // nil ならボディ無し
}

// NewResponse はステータス200、ボディ無しのレスポンスを作成する
func NewResponse() *Response {
	return &Response{Status: StatusOK}
}

// HasBody はボディが設定されているかどうか
// 長さ0のボディは「空のボディあり」として扱う
func (r *Response) HasBody() bool { return r.Body != nil }

// String はステータスラインとヘッダー部分を返す（ログ用）
func (r *Response) String() string {
	return string(appendHead(nil, r))
}

// bufPool はFormatで使うバッファを使い回す
var bufPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, 0, 2048)
		return &b
	},
}

// Format はレスポンスをワイヤーフォーマットに組み立てる
//
//	HTTP/1.1 <code> <reason>\r\n
//	[Content-type: <mime>\r\n]
//	\r\n
//	[<body>]
//
// 同じ値からは常に同じバイト列が得られる
func Format(resp *Response) []byte {
	bp := bufPool.Get().(*[]byte)
	buf := AppendResponse((*bp)[:0], resp)

	out := make([]byte, len(buf))
	copy(out, buf)
	*bp = buf
	bufPool.Put(bp)
	return out
}

// AppendResponse はレスポンスのワイヤーフォーマットをbufに追記する
func AppendResponse(buf []byte, resp *Response) []byte {
	buf = appendHead(buf, resp)
	if resp.HasBody() {
		buf = append(buf, resp.Body...)
	}
	return buf
}

func appendHead(buf []byte, resp *Response) []byte {
	buf = appendStatusLine(buf, resp.Status)
	if resp.ContentType.IsSet() {
		buf = append(buf, "Content-type: "...)
		buf = append(buf, resp.ContentType.MIME()...)
		buf = appendCRLF(buf)
	}
	// ヘッダーの終端は常に出力する
	return appendCRLF(buf)
}

func appendStatusLine(buf []byte, status StatusCode) []byte {
	buf = append(buf, Version11...)
	buf = append(buf, ' ')
	buf = strconv.AppendInt(buf, int64(status), 10)
	buf = append(buf, ' ')
	buf = append(buf, status.Reason()...)
	return appendCRLF(buf)
}

func appendCRLF(buf []byte) []byte {
	return append(buf, '\r', '\n')
}

// Encoder はレスポンスをストリームに書き出す
type Encoder struct {
	w io.Writer
}

// NewEncoder はwに書き出すEncoderを作成する
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode はレスポンスを1回の書き込みで出力する
func (enc *Encoder) Encode(resp *Response) error {
	_, err := enc.w.Write(Format(resp))
	return err
}
