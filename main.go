package main

import (
	"context"
	"log"
	"os"

	"linda/internal/config"
	"linda/internal/logging"
	"linda/internal/server"
)

func main() {
	// 設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	logger := logging.New(cfg.Log, os.Stderr)

	// サーバーを作成
	srv := server.New(cfg, logger)

	// コンテキストを作成
	ctx := context.Background()

	// サーバーを起動
	if err := srv.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("サーバーの起動に失敗しました")
	}
}
