package server

import (
	"bufio"
	"errors"
	"io"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"linda/internal/config"
	"linda/internal/protocol"
	"linda/internal/resolver"
)

// Handler はひとつの接続について 受信 → 解析 → 解決 → 送信 を行う
type Handler struct {
	resolver     *resolver.Resolver
	readTimeout  time.Duration
	writeTimeout time.Duration
	bufferSize   int
	logger       zerolog.Logger
}

// NewHandler は新しいHandlerを作成する
func NewHandler(res *resolver.Resolver, cfg config.ServerConfig, logger zerolog.Logger) *Handler {
	size := cfg.ReadBufferSize
	if size <= 0 {
		size = 1024
	}
	return &Handler{
		resolver:     res,
		readTimeout:  cfg.ReadTimeout.Std(),
		writeTimeout: cfg.WriteTimeout.Std(),
		bufferSize:   size,
		logger:       logger,
	}
}

// Serve は接続を処理し、最後に必ず接続を閉じる
// 接続単位のエラーはログに出すだけで呼び出し元には返さない
func (h *Handler) Serve(conn net.Conn) {
	defer conn.Close()

	logger := h.logger.With().
		Str("conn_id", uuid.NewString()).
		Str("remote", conn.RemoteAddr().String()).
		Logger()

	buf, err := h.read(conn)
	if err != nil {
		if errors.Is(err, io.EOF) {
			logger.Debug().Msg("リクエストを受信する前に切断されました")
		} else {
			logger.Error().Err(err).Msg("リクエストの受信に失敗しました")
		}
		return
	}

	resp := h.respond(buf, logger)

	if err := h.write(conn, resp); err != nil {
		logger.Error().Err(err).Msg("レスポンスの送信に失敗しました")
		return
	}
	logger.Info().Int("status", resp.Status.Code()).Msg("レスポンスを送信しました")
}

// Reject はリクエストを読まずにステータスのみのレスポンスを返して接続を閉じる
func (h *Handler) Reject(conn net.Conn, status protocol.StatusCode) {
	defer conn.Close()
	if err := h.write(conn, &protocol.Response{Status: status}); err != nil {
		h.logger.Debug().Err(err).Msg("拒否レスポンスの送信に失敗しました")
	}
}

// read は固定長のバッファに1回だけ読み込む
func (h *Handler) read(conn net.Conn) ([]byte, error) {
	if h.readTimeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(h.readTimeout)); err != nil {
			return nil, err
		}
	}

	buf := make([]byte, h.bufferSize)
	n, err := conn.Read(buf)
	if n == 0 && err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// respond は受信データからレスポンスを作る
func (h *Handler) respond(buf []byte, logger zerolog.Logger) *protocol.Response {
	line := protocol.RequestLine(buf)
	logger.Info().Str("request_line", line).Msg("リクエストを受信しました")

	req, err := protocol.ParseRequestLine(line)
	if err != nil {
		logger.Warn().Err(err).Msg("不正なリクエスト")
		return &protocol.Response{Status: protocol.StatusBadRequest}
	}

	resp, err := h.resolver.Resolve(req)
	if err != nil {
		status := protocol.StatusInternalServerError
		var rerr *resolver.Error
		if errors.As(err, &rerr) {
			status = rerr.Kind.Status()
		}
		logger.Error().Err(err).Int("status", status.Code()).Msg("リソースの解決に失敗しました")
		return &protocol.Response{Status: status}
	}
	return resp
}

// write はレスポンスを書き出してフラッシュする
func (h *Handler) write(conn net.Conn, resp *protocol.Response) error {
	if h.writeTimeout > 0 {
		if err := conn.SetWriteDeadline(time.Now().Add(h.writeTimeout)); err != nil {
			return err
		}
	}

	w := bufio.NewWriter(conn)
	if err := protocol.NewEncoder(w).Encode(resp); err != nil {
		return err
	}
	return w.Flush()
}

// connJob はワーカープールに投入する接続処理ジョブ
type connJob struct {
	handler *Handler
	conn    net.Conn
}

func (j *connJob) Run() { j.handler.Serve(j.conn) }

// Abandon は処理されずに停止を迎えた接続を閉じる
func (j *connJob) Abandon() { _ = j.conn.Close() }
