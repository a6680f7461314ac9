package resolver

import (
	"errors"
	"fmt"
	"io/fs"

	"linda/internal/protocol"
)

// ErrorKind はリソース解決時のエラー種別
type ErrorKind int

const (
	// KindNotFound はファイルが存在しない
	KindNotFound ErrorKind = iota
	// KindForbidden はファイルの読み込み権限が無い
	KindForbidden
	// KindOther はその他のI/Oエラー
	KindOther
	// KindUnknownContentType は拡張子からContent-Typeを決められない
	KindUnknownContentType
	// KindInvalidURI はURIをパスとして解釈できない
	KindInvalidURI
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindForbidden:
		return "forbidden"
	case KindOther:
		return "io error"
	case KindUnknownContentType:
		return "unknown content type"
	case KindInvalidURI:
		return "invalid uri"
	default:
		return fmt.Sprintf("unknown resolve error kind: %d", int(k))
	}
}

// Status はI/Oエラー種別に対応するステータスコードを返す
func (k ErrorKind) Status() protocol.StatusCode {
	switch k {
	case KindNotFound:
		return protocol.StatusNotFound
	case KindForbidden:
		return protocol.StatusForbidden
	case KindInvalidURI:
		return protocol.StatusBadRequest
	default:
		return protocol.StatusInternalServerError
	}
}

// Error はResolveが呼び出し元に返すエラー
// Resolveから返るのは KindUnknownContentType と KindInvalidURI のみで、
// それ以外の種別はステータスコードに変換される
type Error struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("resolver: %s: %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("resolver: %s: %s", e.Kind, e.Path)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// classify はファイルシステムのエラーを種別に分類する
func classify(err error) ErrorKind {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return KindNotFound
	case errors.Is(err, fs.ErrPermission):
		return KindForbidden
	default:
		return KindOther
	}
}
