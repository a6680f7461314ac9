package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config はアプリケーション全体の設定を保持する構造体
type Config struct {
	Server ServerConfig `yaml:"server" toml:"server"`
	Pool   PoolConfig   `yaml:"pool" toml:"pool"`
	Static StaticConfig `yaml:"static" toml:"static"`
	Admin  AdminConfig  `yaml:"admin" toml:"admin"`
	Log    LogConfig    `yaml:"log" toml:"log"`
}

// ServerConfig は静的ファイルサーバーの設定
type ServerConfig struct {
	Host string `yaml:"host" toml:"host" validate:"required"` // リッスンするホスト
	Port int    `yaml:"port" toml:"port" validate:"min=1,max=65535"`

	// タイムアウト設定（0で無効）
	ReadTimeout  Duration `yaml:"read_timeout" toml:"read_timeout" validate:"min=0"`
	WriteTimeout Duration `yaml:"write_timeout" toml:"write_timeout" validate:"min=0"`

	// 応答後に送信側を閉じてから、残りの受信データを読み捨てる時間の上限
	LingerTimeout Duration `yaml:"linger_timeout" toml:"linger_timeout" validate:"min=0"`

	MaxConnections int `yaml:"max_connections" toml:"max_connections" validate:"min=0"` // 同時接続数の上限（0で無制限）
	ReadBufferSize int `yaml:"read_buffer_size" toml:"read_buffer_size" validate:"min=16"`
}

// PoolConfig はワーカープールの設定
type PoolConfig struct {
	Workers   int `yaml:"workers" toml:"workers" validate:"min=1"`
	MaxQueued int `yaml:"max_queued" toml:"max_queued" validate:"min=0"` // 0で無制限
}

// StaticConfig は配信するファイルの設定
type StaticConfig struct {
	Root              string `yaml:"root" toml:"root" validate:"required"` // ドキュメントルート
	Index             string `yaml:"index" toml:"index" validate:"required"`
	NotFound          string `yaml:"not_found" toml:"not_found"`
	SniffUnknownTypes bool   `yaml:"sniff_unknown_types" toml:"sniff_unknown_types"`
}

// AdminConfig は管理用HTTPエンドポイントの設定
type AdminConfig struct {
	Host string `yaml:"host" toml:"host"`
	Port int    `yaml:"port" toml:"port" validate:"min=0,max=65535"` // 0で無効
}

// LogConfig はログ出力の設定
type LogConfig struct {
	Level  string `yaml:"level" toml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" toml:"format" validate:"oneof=json console"`
}

// Default はデフォルト設定を返す
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8594,
			ReadTimeout:    Duration(10 * time.Second),
			WriteTimeout:   Duration(10 * time.Second),
			LingerTimeout:  Duration(time.Second),
			ReadBufferSize: 1024,
		},
		Pool: PoolConfig{
			Workers: 4,
		},
		Static: StaticConfig{
			Root:     "/var/www",
			Index:    "index.html",
			NotFound: "404.html",
		},
		Admin: AdminConfig{
			Host: "127.0.0.1",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load は設定を読み込む
// デフォルト値 → 設定ファイル（LINDA_CONFIG） → 環境変数 の順に上書きし、最後に検証する
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("LINDA_CONFIG"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	// 設定の検証
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定の検証に失敗: %w", err)
	}

	return cfg, nil
}

// LoadFile は設定ファイルの内容で上書きする
// 拡張子が .yaml/.yml ならYAML、.toml ならTOMLとして読む
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("設定ファイルの読み込みに失敗: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	case ".toml":
		err = toml.Unmarshal(data, c)
	default:
		return fmt.Errorf("未対応の設定ファイル形式: %s", ext)
	}
	if err != nil {
		return fmt.Errorf("設定ファイルの解析に失敗 (%s): %w", path, err)
	}
	return nil
}

// applyEnv は環境変数で設定を上書きする
func (c *Config) applyEnv() {
	c.Server.Host = getEnvOrDefault("SERVER_HOST", c.Server.Host)
	c.Server.Port = getEnvAsIntOrDefault("SERVER_PORT", c.Server.Port)
	c.Pool.Workers = getEnvAsIntOrDefault("LINDA_WORKERS", c.Pool.Workers)
	c.Static.Root = getEnvOrDefault("LINDA_ROOT", c.Static.Root)
	c.Admin.Port = getEnvAsIntOrDefault("ADMIN_PORT", c.Admin.Port)
	c.Log.Level = getEnvOrDefault("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnvOrDefault("LOG_FORMAT", c.Log.Format)
}

var validate = validator.New()

// Validate は設定の妥当性を検証する
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// ServerAddress はサーバーのリッスンアドレスを返す
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// AdminAddress は管理用エンドポイントのリッスンアドレスを返す
func (c *Config) AdminAddress() string {
	return fmt.Sprintf("%s:%d", c.Admin.Host, c.Admin.Port)
}

// getEnvOrDefault は環境変数を取得し、設定されていない場合はデフォルト値を返す
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault は環境変数を整数として取得し、設定されていない場合はデフォルト値を返す
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var intVal int
		if _, err := fmt.Sscanf(value, "%d", &intVal); err == nil {
			return intVal
		}
	}
	return defaultValue
}
