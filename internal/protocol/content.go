package protocol

import "strings"

// ContentType はレスポンスで返すメディアタイプ
// ゼロ値は「未設定」を表し、Content-typeヘッダーは出力されない
type ContentType uint8

const (
	contentTypeUnset ContentType = iota
	ContentTypeCSS
	ContentTypeHTML
	ContentTypeGIF
	ContentTypePNG
	ContentTypeJPEG
	ContentTypeText
	ContentTypeSVG
	ContentTypeXML
	ContentTypePDF
	ContentTypeICO
	ContentTypeJS
	ContentTypeJSON
	ContentTypeWebP
)

// 拡張子（小文字、ドットなし）からContentTypeへの対応表
var extContentTypes = map[string]ContentType{
	"css":  ContentTypeCSS,
	"gif":  ContentTypeGIF,
	"htm":  ContentTypeHTML,
	"html": ContentTypeHTML,
	"jpeg": ContentTypeJPEG,
	"jpg":  ContentTypeJPEG,
	"png":  ContentTypePNG,
	"svg":  ContentTypeSVG,
	"txt":  ContentTypeText,
	"xml":  ContentTypeXML,
	"pdf":  ContentTypePDF,
	"ico":  ContentTypeICO,
	"js":   ContentTypeJS,
	"json": ContentTypeJSON,
	"webp": ContentTypeWebP,
}

var mimeTypes = [...]string{
	ContentTypeCSS:  "text/css",
	ContentTypeHTML: "text/html",
	ContentTypeGIF:  "image/gif",
	ContentTypePNG:  "image/png",
	ContentTypeJPEG: "image/jpeg",
	ContentTypeText: "text/plain",
	ContentTypeSVG:  "image/svg+xml",
	ContentTypeXML:  "application/xml",
	ContentTypePDF:  "application/pdf",
	ContentTypeICO:  "image/x-icon",
	ContentTypeJS:   "application/javascript",
	ContentTypeJSON: "application/json",
	ContentTypeWebP: "image/webp",
}

// ContentTypeFromExt は拡張子からContentTypeを引く
// 先頭のドットは無視し、大文字小文字は区別しない。未知の拡張子は
// *InvalidContentTypeError を返し、既定値で代用することはない
func ContentTypeFromExt(ext string) (ContentType, error) {
	key := strings.ToLower(strings.TrimPrefix(ext, "."))
	if ct, ok := extContentTypes[key]; ok {
		return ct, nil
	}
	return contentTypeUnset, &InvalidContentTypeError{Ext: ext}
}

// IsSet はContentTypeが設定されているかどうか
func (c ContentType) IsSet() bool { return c != contentTypeUnset }

// MIME は正規のMIME文字列を返す
func (c ContentType) MIME() string {
	if c == contentTypeUnset || int(c) >= len(mimeTypes) {
		return ""
	}
	return mimeTypes[c]
}

func (c ContentType) String() string {
	if !c.IsSet() {
		return "unset"
	}
	return c.MIME()
}
