package config

import (
	"fmt"
	"time"
)

// Duration は設定ファイルで "10s" のような文字列として書ける時間
type Duration time.Duration

// Std は time.Duration に変換する
func (d Duration) Std() time.Duration { return time.Duration(d) }

// UnmarshalText は time.ParseDuration の形式を受け付ける
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("無効な時間指定 %q: %w", text, err)
	}
	*d = Duration(v)
	return nil
}

// MarshalText は "10s" 形式で出力する
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d Duration) String() string { return time.Duration(d).String() }
