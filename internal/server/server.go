package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/netutil"

	"linda/internal/config"
	"linda/internal/pool"
	"linda/internal/protocol"
	"linda/internal/resolver"
)

var (
	// ErrServerStarted は起動済みのサーバーで Start が呼ばれたことを表す
	ErrServerStarted = errors.New("server: サーバーは既に起動しています")
	// ErrServerClosed はシャットダウン後に Start が呼ばれたことを表す
	ErrServerClosed = errors.New("server: サーバーは停止しています")
)

// Server は静的ファイルサーバーを管理する構造体
type Server struct {
	config   *config.Config
	logger   zerolog.Logger
	resolver *resolver.Resolver
	handler  *Handler
	admin    *http.Server

	mu       sync.Mutex
	listener net.Listener
	pool     *pool.Pool
	ready    chan struct{}
	started  bool
	closed   bool

	acceptWg     sync.WaitGroup
	shutdownOnce sync.Once
	shutdownErr  error
}

// New は新しいServerインスタンスを作成する
func New(cfg *config.Config, logger zerolog.Logger) *Server {
	res := resolver.New(cfg.Static.Root, resolver.OSFileSystem{}, logger)
	res.SetIndex(cfg.Static.Index)
	res.SetNotFoundPage(cfg.Static.NotFound)
	res.SetContentSniffing(cfg.Static.SniffUnknownTypes)

	s := &Server{
		config:   cfg,
		logger:   logger,
		resolver: res,
		handler:  NewHandler(res, cfg.Server, logger),
		ready:    make(chan struct{}),
	}

	if cfg.Admin.Port != 0 {
		s.admin = &http.Server{
			Addr:    cfg.AdminAddress(),
			Handler: s.adminRouter(),
		}
	}

	return s
}

// Ready はリッスンを開始したときに閉じられるチャンネルを返す
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr はリッスンしているアドレスを返す。起動前は nil
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Start はサーバーを起動し、停止するまでブロックする
// 1つのServerで起動できるのは1回だけ
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return ErrServerClosed
	case s.started:
		s.mu.Unlock()
		return ErrServerStarted
	}
	s.started = true
	s.mu.Unlock()

	ln, err := s.listen()
	if err != nil {
		return fmt.Errorf("サーバーの起動に失敗: %w", err)
	}

	s.mu.Lock()
	if s.closed {
		// リッスン中にシャットダウンされた
		s.mu.Unlock()
		_ = ln.Close()
		return ErrServerClosed
	}
	p := pool.New(s.config.Pool.Workers, s.logger)
	p.SetMaxQueued(s.config.Pool.MaxQueued)
	s.listener = ln
	s.pool = p
	s.mu.Unlock()
	close(s.ready)

	// シャットダウン用のチャンネル
	shutdownCh := make(chan error, 2)

	s.acceptWg.Add(1)
	go func() {
		defer s.acceptWg.Done()
		s.logger.Info().Str("addr", ln.Addr().String()).Str("root", s.resolver.Root()).Msg("サーバーを起動しました")
		if err := s.acceptLoop(ln, p); err != nil {
			shutdownCh <- err
		}
	}()

	if s.admin != nil {
		go func() {
			s.logger.Info().Str("addr", s.admin.Addr).Msg("管理APIを起動しています")
			if err := s.admin.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				shutdownCh <- fmt.Errorf("管理APIの起動に失敗: %w", err)
			}
		}()
	}

	// シグナルハンドリング
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	// コンテキストかシグナルを待つ
	select {
	case <-ctx.Done():
		s.logger.Info().Msg("コンテキストがキャンセルされました")
	case sig := <-sigCh:
		s.logger.Info().Stringer("signal", sig).Msg("シグナルを受信しました")
	case err := <-shutdownCh:
		_ = s.Shutdown()
		return err
	}

	// グレースフルシャットダウン
	return s.Shutdown()
}

// listen はリスナーを作成する。同時接続数の上限があれば適用する
func (s *Server) listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.config.ServerAddress())
	if err != nil {
		return nil, err
	}
	ln = &lingerListener{Listener: ln, timeout: s.config.Server.LingerTimeout.Std()}
	if n := s.config.Server.MaxConnections; n > 0 {
		ln = netutil.LimitListener(ln, n)
	}
	return ln, nil
}

// acceptLoop は接続を受け付けてワーカープールに投入する
// リスナーが閉じられたら nil を返す
func (s *Server) acceptLoop(ln net.Listener, p *pool.Pool) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				s.logger.Warn().Err(err).Msg("接続の受け付けがタイムアウトしました")
				time.Sleep(10 * time.Millisecond)
				continue
			}
			return fmt.Errorf("接続の受け付けに失敗: %w", err)
		}

		if err := p.Submit(&connJob{handler: s.handler, conn: conn}); err != nil {
			s.logger.Warn().Err(err).Str("remote", conn.RemoteAddr().String()).Msg("接続を処理できません")
			if errors.Is(err, pool.ErrQueueFull) {
				// 拒否の送信と切断で受け付けを止めない
				s.acceptWg.Add(1)
				go func(conn net.Conn) {
					defer s.acceptWg.Done()
					s.handler.Reject(conn, protocol.StatusServiceUnavailable)
				}(conn)
			} else {
				_ = conn.Close()
			}
		}
	}
}

// Shutdown はサーバーをグレースフルにシャットダウンする
// 新規接続の受け付けを止め、実行中の接続処理の完了を待つ
func (s *Server) Shutdown() error {
	s.shutdownOnce.Do(func() {
		s.shutdownErr = s.shutdown()
	})
	return s.shutdownErr
}

func (s *Server) shutdown() error {
	s.logger.Info().Msg("サーバーをシャットダウンしています...")

	s.mu.Lock()
	s.closed = true
	ln, p := s.listener, s.pool
	s.mu.Unlock()

	var errs []error

	if ln != nil {
		if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			errs = append(errs, fmt.Errorf("リスナーのクローズに失敗: %w", err))
		}
		s.acceptWg.Wait()
	}

	if s.admin != nil {
		// 5秒のタイムアウトを設定
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.admin.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("管理APIのシャットダウンに失敗: %w", err))
		}
	}

	if p != nil {
		p.Shutdown()
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("サーバーのシャットダウンに失敗: %w", err)
	}

	s.logger.Info().Msg("サーバーが正常にシャットダウンされました")
	return nil
}

// poolStats はワーカープールの統計を返す。起動前は nil
func (s *Server) poolStats() *pool.Stats {
	s.mu.Lock()
	p := s.pool
	s.mu.Unlock()
	if p == nil {
		return nil
	}
	stats := p.Stats()
	return &stats
}
