package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"linda/internal/pool"
)

// HealthResponse はヘルスチェックのレスポンス
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// ServerInfo は配信サーバーの情報
type ServerInfo struct {
	Address string `json:"address"`
	Root    string `json:"root"`
	Workers int    `json:"workers"`
}

// StatusResponse はシステム状態のレスポンス
type StatusResponse struct {
	Status    string      `json:"status"`
	Server    ServerInfo  `json:"server"`
	Pool      *pool.Stats `json:"pool,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// adminHandler は管理APIのハンドラー
type adminHandler struct {
	server *Server
}

// HealthCheck はヘルスチェックエンドポイントの実装
func (h *adminHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
	})
}

// GetStatus はシステム状態取得エンドポイントの実装
func (h *adminHandler) GetStatus(c *gin.Context) {
	stats := h.server.poolStats()

	status := "stopped"
	if stats != nil {
		status = stats.State
	}

	address := h.server.config.ServerAddress()
	if addr := h.server.Addr(); addr != nil {
		address = addr.String()
	}

	c.JSON(http.StatusOK, StatusResponse{
		Status: status,
		Server: ServerInfo{
			Address: address,
			Root:    h.server.resolver.Root(),
			Workers: h.server.config.Pool.Workers,
		},
		Pool:      stats,
		Timestamp: time.Now(),
	})
}

// adminRouter は管理APIのルーターを作成する
func (s *Server) adminRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(s.logger))

	h := &adminHandler{server: s}
	router.GET("/health", h.HealthCheck)
	router.GET("/api/status", h.GetStatus)

	return router
}

// requestLogger は管理APIへのリクエストをログに出すミドルウェア
func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("管理APIリクエスト")
	}
}
