// Package resolver はリクエストをドキュメントルート配下のファイルに対応づけ、
// レスポンスを組み立てる
//
// ファイルシステムへのアクセスはこのパッケージだけが行う。
// I/Oの失敗はステータスコードに変換し、エラーとしては返さない
package resolver

import (
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"linda/internal/protocol"
)

const (
	// DefaultIndex は "/" へのリクエストで返すファイル名
	DefaultIndex = "index.html"
	// DefaultNotFound はドキュメントルート直下に置く404ページのファイル名
	DefaultNotFound = "404.html"
)

// FileSystem はファイルの読み込み機能
// 失敗時は fs.ErrNotExist / fs.ErrPermission で判別できるエラーを返すこと
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
}

// OSFileSystem はOSのファイルシステムを使うFileSystem
type OSFileSystem struct{}

// ReadFile はファイルの内容を全て読み込む
func (OSFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// Resolver はリクエストからレスポンスを作る
// 生成後の設定変更はサーバー起動前に行うこと。Resolveは並行に呼び出してよい
type Resolver struct {
	root     string
	fs       FileSystem
	index    string
	notFound string
	sniff    bool
	logger   zerolog.Logger
}

// New は新しいResolverを作成する
// fsys が nil の場合はOSのファイルシステムを使う
func New(root string, fsys FileSystem, logger zerolog.Logger) *Resolver {
	if fsys == nil {
		fsys = OSFileSystem{}
	}
	return &Resolver{
		root:     root,
		fs:       fsys,
		index:    DefaultIndex,
		notFound: DefaultNotFound,
		logger:   logger.With().Str("component", "resolver").Logger(),
	}
}

// Root はドキュメントルートを返す
func (r *Resolver) Root() string { return r.root }

// SetIndex はインデックスファイル名を設定する
func (r *Resolver) SetIndex(name string) { r.index = name }

// SetNotFoundPage は404ページのファイル名を設定する。空文字列で無効化
func (r *Resolver) SetNotFoundPage(name string) { r.notFound = name }

// SetContentSniffing は未知の拡張子に対して内容からの判定を行うかを設定する
func (r *Resolver) SetContentSniffing(enabled bool) { r.sniff = enabled }

// Resolve はリクエストに対するレスポンスを作る
//
// GET/HEAD 以外は 501 を返す。ファイルが読めない場合は 404/403/500 を返す。
// エラーを返すのはURIがパスとして解釈できない場合と、読み込めたファイルの
// Content-Typeを決められない場合のみ
func (r *Resolver) Resolve(req *protocol.Request) (*protocol.Response, error) {
	resp := protocol.NewResponse()

	method := req.Method()
	if method != protocol.MethodGet && method != protocol.MethodHead {
		resp.Status = protocol.StatusNotImplemented
		return resp, nil
	}
	withBody := method == protocol.MethodGet

	target, err := r.targetPath(req.Path())
	if err != nil {
		return nil, err
	}

	data, err := r.fs.ReadFile(target)
	if err != nil {
		kind := classify(err)
		r.logger.Debug().Err(err).Str("path", target).Stringer("kind", kind).Msg("ファイルの読み込みに失敗")

		resp.Status = kind.Status()
		if kind == KindNotFound && withBody {
			r.attachNotFoundPage(resp)
		}
		return resp, nil
	}

	ct, err := r.contentType(target, data)
	if err != nil {
		return nil, &Error{Kind: KindUnknownContentType, Path: target, Err: err}
	}

	resp.ContentType = ct
	if withBody {
		resp.Body = data
	}
	return resp, nil
}

// targetPath はURIからドキュメントルート配下のパスを求める
func (r *Resolver) targetPath(uri string) (string, error) {
	if !strings.HasPrefix(uri, "/") || !utf8.ValidString(uri) || strings.IndexByte(uri, 0) >= 0 {
		return "", &Error{Kind: KindInvalidURI, Path: uri}
	}

	// クエリとフラグメントはファイルの特定に使わない
	if i := strings.IndexAny(uri, "?#"); i >= 0 {
		uri = uri[:i]
	}

	if uri == "/" {
		uri += r.index
	}

	// 絶対パスとして正規化し、".." でルートの外に出られないようにする
	clean := path.Clean("/" + uri)
	return filepath.Join(r.root, filepath.FromSlash(clean)), nil
}

// contentType はパスの拡張子からContent-Typeを決める
func (r *Resolver) contentType(target string, data []byte) (protocol.ContentType, error) {
	ext := strings.TrimPrefix(filepath.Ext(target), ".")
	ct, err := protocol.ContentTypeFromExt(ext)
	if err == nil || !r.sniff {
		return ct, err
	}

	detected := mimetype.Detect(data)
	if sniffed, serr := protocol.ContentTypeFromExt(detected.Extension()); serr == nil {
		r.logger.Debug().Str("path", target).Str("mime", detected.String()).Msg("内容からContent-Typeを判定しました")
		return sniffed, nil
	}
	return ct, err
}

// attachNotFoundPage は404ページがあればボディに設定する
// 無い場合は空のボディとし、エラーにはしない
func (r *Resolver) attachNotFoundPage(resp *protocol.Response) {
	resp.Body = []byte{}
	if r.notFound == "" {
		return
	}

	page, err := r.fs.ReadFile(filepath.Join(r.root, r.notFound))
	if err != nil {
		return
	}
	resp.Body = page
	resp.ContentType = protocol.ContentTypeHTML
}
