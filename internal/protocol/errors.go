package protocol

import "fmt"

// ParseErrorKind はリクエストライン解析エラーの種別
type ParseErrorKind int

const (
	// MissingField はリクエストラインのフィールドが不足している
	MissingField ParseErrorKind = iota
	// InvalidMethod はメソッドが語彙に無い
	InvalidMethod
	// UnsupportedVersion はHTTPバージョンが HTTP/1.1 ではない
	UnsupportedVersion
	// MalformedRequestLine はフィールドが多すぎるなど、形式が崩れている
	MalformedRequestLine
)

func (k ParseErrorKind) String() string {
	switch k {
	case MissingField:
		return "missing field"
	case InvalidMethod:
		return "invalid method"
	case UnsupportedVersion:
		return "unsupported version"
	case MalformedRequestLine:
		return "malformed request line"
	default:
		return fmt.Sprintf("unknown parse error kind: %d", int(k))
	}
}

// リクエストラインのフィールド名
const (
	FieldMethod  = "method"
	FieldURI     = "uri"
	FieldVersion = "version"
)

// ParseError はリクエストラインの解析に失敗したことを表す
type ParseError struct {
	Kind  ParseErrorKind
	Field string // 問題のあったフィールド
	Token string // 問題のあったトークン（不足の場合は空）
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case MissingField:
		return fmt.Sprintf("protocol: %s が指定されていません", e.Field)
	case InvalidMethod:
		return fmt.Sprintf("protocol: 無効なHTTPメソッド: %q", e.Token)
	case UnsupportedVersion:
		return fmt.Sprintf("protocol: HTTPバージョン %q はサポートされていません", e.Token)
	default:
		return fmt.Sprintf("protocol: 不正なリクエストライン: %q", e.Token)
	}
}

// InvalidContentTypeError は拡張子に対応するContent-Typeが無いことを表す
type InvalidContentTypeError struct {
	Ext string
}

func (e *InvalidContentTypeError) Error() string {
	return fmt.Sprintf("protocol: 無効なContent-Type: %q", e.Ext)
}
