// Package coingecko はCoinGecko仮想通貨APIのクライアントを提供します。
package coingecko

import (
	"os"
	"time"
)

// Config はCoinGeckoクライアントの設定を保持します。
type Config struct {
	BaseURL string        // APIのベースURL（例: "https://api.coingecko.com/api/v3"）
	Timeout time.Duration // HTTPリクエストタイムアウト
}

// LoadConfig は環境変数からCoinGeckoの設定を読み込みます。
func LoadConfig() Config {
	cfg := Config{
		BaseURL: os.Getenv("COINGECKO_BASE_URL"),
		Timeout: 10 * time.Second,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.coingecko.com/api/v3"
	}
	return cfg
}
