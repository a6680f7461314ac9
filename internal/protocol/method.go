package protocol

// Method はHTTPリクエストメソッド
type Method uint8

// HTTP/1.1 のメソッド。実際に処理されるのは GET と HEAD のみ
const (
	MethodOptions Method = iota
	MethodGet
	MethodHead
	MethodPost
	MethodPut
	MethodDelete
	MethodTrace
	MethodConnect
)

var methodNames = [...]string{
	MethodOptions: "OPTIONS",
	MethodGet:     "GET",
	MethodHead:    "HEAD",
	MethodPost:    "POST",
	MethodPut:     "PUT",
	MethodDelete:  "DELETE",
	MethodTrace:   "TRACE",
	MethodConnect: "CONNECT",
}

// ParseMethod はトークンをMethodに変換する
// 大文字小文字は区別する（RFC 9110 のメソッド名は大文字小文字を区別する）
func ParseMethod(token string) (Method, error) {
	switch token {
	case "OPTIONS":
		return MethodOptions, nil
	case "GET":
		return MethodGet, nil
	case "HEAD":
		return MethodHead, nil
	case "POST":
		return MethodPost, nil
	case "PUT":
		return MethodPut, nil
	case "DELETE":
		return MethodDelete, nil
	case "TRACE":
		return MethodTrace, nil
	case "CONNECT":
		return MethodConnect, nil
	default:
		return 0, &ParseError{Kind: InvalidMethod, Field: FieldMethod, Token: token}
	}
}

// String は正規の大文字表記を返す
func (m Method) String() string {
	if int(m) < len(methodNames) {
		return methodNames[m]
	}
	return "UNKNOWN"
}

// Methods は語彙に含まれる全メソッドを定義順で返す
func Methods() []Method {
	return []Method{
		MethodOptions, MethodGet, MethodHead, MethodPost,
		MethodPut, MethodDelete, MethodTrace, MethodConnect,
	}
}
