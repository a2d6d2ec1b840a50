// Package alphavantage はAlpha Vantage市場データAPIのクライアントを提供します。
package alphavantage

import (
	"os"
	"time"
)

// Config はAlpha Vantage APIクライアントの設定を保持します。
type Config struct {
	APIKey  string        // 認証用APIキー（未設定時は "demo"）
	BaseURL string        // APIのベースURL（例: "https://www.alphavantage.co"）
	Timeout time.Duration // HTTPリクエストタイムアウト
}

// LoadConfig は環境変数からAlpha Vantageの設定を読み込みます。
func LoadConfig() Config {
	cfg := Config{
		APIKey:  os.Getenv("ALPHAVANTAGE_API_KEY"),
		BaseURL: os.Getenv("ALPHAVANTAGE_BASE_URL"),
		Timeout: 10 * time.Second,
	}
	if cfg.APIKey == "" {
		cfg.APIKey = "demo"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.alphavantage.co"
	}
	return cfg
}
