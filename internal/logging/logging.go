// Package logging は設定からロガーを組み立てる
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"linda/internal/config"
)

// New はログ設定に従ったロガーを作成する
// w が nil の場合は標準エラー出力に書き出す
func New(cfg config.LogConfig, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}

	if cfg.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
