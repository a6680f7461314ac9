// Package main はLindaサーバーコマンドの実装です
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"linda/internal/config"
	"linda/internal/logging"
	"linda/internal/server"
)

func main() {
	// コマンドラインオプション
	var (
		host     = flag.String("host", "", "サーバーのホスト (デフォルト: 0.0.0.0)")
		port     = flag.Int("port", 0, "サーバーのポート (デフォルト: 8594)")
		root     = flag.String("root", "", "ドキュメントルート (デフォルト: /var/www)")
		workers  = flag.Int("workers", 0, "ワーカー数 (デフォルト: 4)")
		confPath = flag.String("config", "", "設定ファイルのパス (YAML または TOML)")
		help     = flag.Bool("help", false, "ヘルプを表示")
	)

	flag.Parse()

	// ヘルプ表示
	if *help {
		fmt.Println("Linda - 静的ファイルサーバー")
		fmt.Println()
		fmt.Println("使用方法:")
		fmt.Println("  server [オプション]")
		fmt.Println()
		fmt.Println("オプション:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("環境変数:")
		fmt.Println("  LINDA_CONFIG, LINDA_ROOT, LINDA_WORKERS, SERVER_HOST, SERVER_PORT,")
		fmt.Println("  ADMIN_PORT, LOG_LEVEL, LOG_FORMAT")
		os.Exit(0)
	}

	if *confPath != "" {
		if err := os.Setenv("LINDA_CONFIG", *confPath); err != nil {
			log.Fatalf("設定ファイルの指定に失敗しました: %v", err)
		}
	}

	// 設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	// コマンドラインオプションで設定を上書き
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *root != "" {
		cfg.Static.Root = *root
	}
	if *workers != 0 {
		cfg.Pool.Workers = *workers
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("設定が不正です: %v", err)
	}

	logger := logging.New(cfg.Log, os.Stderr)

	srv := server.New(cfg, logger)

	// コンテキストを作成
	ctx := context.Background()

	// サーバーを起動
	logger.Info().Str("addr", cfg.ServerAddress()).Msg("Linda サーバーを起動します")
	if err := srv.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("サーバーの起動に失敗しました")
	}
}
