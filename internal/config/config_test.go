package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestConfigLoad は設定の読み込みをテストする
func TestConfigLoad(t *testing.T) {
	t.Setenv("LINDA_CONFIG", "")

	// 設定を読み込む
	cfg, err := Load()
	if err != nil {
		t.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	// 基本的な設定値を検証
	if cfg == nil {
		t.Fatal("設定がnilです")
	}

	// サーバー設定の検証
	if cfg.Server.Host == "" {
		t.Error("サーバーホストが設定されていません")
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		t.Errorf("無効なポート番号: %d", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout <= 0 {
		t.Error("読み込みタイムアウトが設定されていません")
	}
	if cfg.Server.WriteTimeout < 0 {
		t.Error("書き込みタイムアウトが負の値です")
	}
	if cfg.Server.LingerTimeout.Std() != time.Second {
		t.Errorf("切断前の読み捨て時間: got %v, want 1s", cfg.Server.LingerTimeout)
	}
	if cfg.Server.ReadBufferSize != 1024 {
		t.Errorf("読み込みバッファサイズ: got %d, want 1024", cfg.Server.ReadBufferSize)
	}

	// プール・配信設定の検証
	if cfg.Pool.Workers <= 0 {
		t.Error("ワーカー数が設定されていません")
	}
	if cfg.Static.Root == "" {
		t.Error("ドキュメントルートが設定されていません")
	}
	if cfg.Static.Index != "index.html" {
		t.Errorf("インデックスファイル: got %s, want index.html", cfg.Static.Index)
	}
}

// TestConfigValidation は設定の検証をテストする
func TestConfigValidation(t *testing.T) {
	valid := func(mutate func(c *Config)) *Config {
		c := Default()
		mutate(c)
		return c
	}

	testCases := []struct {
		name      string
		config    *Config
		expectErr bool
	}{
		{
			name:      "正常な設定",
			config:    Default(),
			expectErr: false,
		},
		{
			name:      "無効なポート番号",
			config:    valid(func(c *Config) { c.Server.Port = 99999 }),
			expectErr: true,
		},
		{
			name:      "ポート0",
			config:    valid(func(c *Config) { c.Server.Port = 0 }),
			expectErr: true,
		},
		{
			name:      "ワーカー数0",
			config:    valid(func(c *Config) { c.Pool.Workers = 0 }),
			expectErr: true,
		},
		{
			name:      "ドキュメントルートなし",
			config:    valid(func(c *Config) { c.Static.Root = "" }),
			expectErr: true,
		},
		{
			name:      "負のタイムアウト",
			config:    valid(func(c *Config) { c.Server.ReadTimeout = Duration(-time.Second) }),
			expectErr: true,
		},
		{
			name:      "負の読み捨て時間",
			config:    valid(func(c *Config) { c.Server.LingerTimeout = Duration(-time.Second) }),
			expectErr: true,
		},
		{
			name:      "未知のログレベル",
			config:    valid(func(c *Config) { c.Log.Level = "verbose" }),
			expectErr: true,
		},
		{
			name:      "管理ポートの範囲外",
			config:    valid(func(c *Config) { c.Admin.Port = 70000 }),
			expectErr: true,
		},
		{
			name:      "キュー上限あり",
			config:    valid(func(c *Config) { c.Pool.MaxQueued = 128 }),
			expectErr: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.config.Validate()
			if tc.expectErr && err == nil {
				t.Error("エラーが期待されましたが、エラーが発生しませんでした")
			}
			if !tc.expectErr && err != nil {
				t.Errorf("予期しないエラーが発生しました: %v", err)
			}
		})
	}
}

// TestServerAddress はサーバーアドレスの生成をテストする
func TestServerAddress(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{
			Host: "192.168.1.100",
			Port: 9090,
		},
		Admin: AdminConfig{
			Host: "127.0.0.1",
			Port: 9091,
		},
	}

	if actual := cfg.ServerAddress(); actual != "192.168.1.100:9090" {
		t.Errorf("サーバーアドレスが一致しません: got %s, want 192.168.1.100:9090", actual)
	}
	if actual := cfg.AdminAddress(); actual != "127.0.0.1:9091" {
		t.Errorf("管理アドレスが一致しません: got %s, want 127.0.0.1:9091", actual)
	}
}

// TestEnvironmentVariables は環境変数の処理をテストする
// 注意: このテストは環境変数を変更するため、parallelは使わない
func TestEnvironmentVariables(t *testing.T) {
	t.Setenv("LINDA_CONFIG", "")
	t.Setenv("SERVER_HOST", "test.example.com")
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("LINDA_ROOT", "/srv/site")
	t.Setenv("LINDA_WORKERS", "16")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	if cfg.Server.Host != "test.example.com" {
		t.Errorf("環境変数のホストが反映されていません: got %s, want test.example.com", cfg.Server.Host)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("環境変数のポートが反映されていません: got %d, want 9999", cfg.Server.Port)
	}
	if cfg.Static.Root != "/srv/site" {
		t.Errorf("環境変数のドキュメントルートが反映されていません: got %s", cfg.Static.Root)
	}
	if cfg.Pool.Workers != 16 {
		t.Errorf("環境変数のワーカー数が反映されていません: got %d", cfg.Pool.Workers)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("環境変数のログレベルが反映されていません: got %s", cfg.Log.Level)
	}
}

// TestEnvironmentVariables_Invalid は不正な環境変数で検証が失敗することをテストする
func TestEnvironmentVariables_Invalid(t *testing.T) {
	t.Setenv("LINDA_CONFIG", "")
	t.Setenv("LINDA_WORKERS", "0")

	if _, err := Load(); err == nil {
		t.Error("ワーカー数0でエラーが期待されました")
	}
}

// TestLoadFile は設定ファイルの読み込みをテストする
func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	files := map[string]string{
		"linda.yaml": `
server:
  port: 9000
  read_timeout: 3s
  linger_timeout: 250ms
  max_connections: 64
pool:
  workers: 8
  max_queued: 256
static:
  root: /srv/yaml
  sniff_unknown_types: true
log:
  format: console
`,
		"linda.toml": `
[server]
port = 9000
read_timeout = "3s"
linger_timeout = "250ms"
max_connections = 64

[pool]
workers = 8
max_queued = 256

[static]
root = "/srv/yaml"
sniff_unknown_types = true

[log]
format = "console"
`,
	}

	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatalf("設定ファイルの作成に失敗: %v", err)
			}

			cfg := Default()
			if err := cfg.LoadFile(path); err != nil {
				t.Fatalf("LoadFile() error = %v", err)
			}

			if cfg.Server.Port != 9000 {
				t.Errorf("port = %d, want 9000", cfg.Server.Port)
			}
			if cfg.Server.ReadTimeout.Std() != 3*time.Second {
				t.Errorf("read_timeout = %v, want 3s", cfg.Server.ReadTimeout)
			}
			if cfg.Server.LingerTimeout.Std() != 250*time.Millisecond {
				t.Errorf("linger_timeout = %v, want 250ms", cfg.Server.LingerTimeout)
			}
			if cfg.Server.MaxConnections != 64 {
				t.Errorf("max_connections = %d, want 64", cfg.Server.MaxConnections)
			}
			if cfg.Pool.Workers != 8 || cfg.Pool.MaxQueued != 256 {
				t.Errorf("pool = %+v", cfg.Pool)
			}
			if cfg.Static.Root != "/srv/yaml" || !cfg.Static.SniffUnknownTypes {
				t.Errorf("static = %+v", cfg.Static)
			}
			// ファイルに無い項目はデフォルト値のまま
			if cfg.Server.Host != "0.0.0.0" {
				t.Errorf("host = %s, want default", cfg.Server.Host)
			}
			if cfg.Server.WriteTimeout.Std() != 10*time.Second {
				t.Errorf("write_timeout = %v, want default", cfg.Server.WriteTimeout)
			}
			if cfg.Log.Format != "console" || cfg.Log.Level != "info" {
				t.Errorf("log = %+v", cfg.Log)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

// TestLoadFile_Errors は設定ファイルのエラー処理をテストする
func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	unsupported := filepath.Join(dir, "linda.ini")
	_ = os.WriteFile(unsupported, []byte("port=1"), 0o644)

	badDuration := filepath.Join(dir, "bad.yaml")
	_ = os.WriteFile(badDuration, []byte("server:\n  read_timeout: soon\n"), 0o644)

	testCases := []struct {
		name string
		path string
	}{
		{"存在しないファイル", filepath.Join(dir, "missing.yaml")},
		{"未対応の形式", unsupported},
		{"不正な時間指定", badDuration},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := Default().LoadFile(tc.path); err == nil {
				t.Error("エラーが期待されましたが、エラーが発生しませんでした")
			}
		})
	}
}

// TestLoad_ConfigFileEnv は LINDA_CONFIG と環境変数の優先順位をテストする
func TestLoad_ConfigFileEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linda.yml")
	if err := os.WriteFile(path, []byte("static:\n  root: /from/file\npool:\n  workers: 2\n"), 0o644); err != nil {
		t.Fatalf("設定ファイルの作成に失敗: %v", err)
	}

	t.Setenv("LINDA_CONFIG", path)
	t.Setenv("LINDA_ROOT", "/from/env")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("設定の読み込みに失敗しました: %v", err)
	}
	if cfg.Static.Root != "/from/env" {
		t.Errorf("環境変数がファイルより優先されていません: got %s", cfg.Static.Root)
	}
	if cfg.Pool.Workers != 2 {
		t.Errorf("ファイルの値が反映されていません: got %d", cfg.Pool.Workers)
	}
}
