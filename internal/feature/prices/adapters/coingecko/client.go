package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"marketdash/internal/feature/prices/adapters/synthetic"
	"marketdash/internal/feature/prices/domain/entity"
	"marketdash/internal/feature/prices/usecase"
	symbolentity "marketdash/internal/feature/symbols/domain/entity"
)

const (
	// SourceName はこのプロバイダーの識別子です。
	SourceName = "coingecko"

	demoDays       = 30
	demoBaseMin    = 100
	demoBaseMax    = 10000
	demoVolatility = 0.05
)

// Client はCoinGecko APIから仮想通貨の日次価格データを取得するMarketSource実装です。
// ティッカー（BTC等）からCoinGeckoのcoin idへの解決には /coins/list を使い、
// 結果をプロセス内でキャッシュします。
type Client struct {
	cfg    Config
	client *http.Client

	mu      sync.RWMutex
	coinIDs map[string]string // ticker（小文字）→ coin id
}

// ClientがMarketSourceを実装していることをコンパイル時に検証します。
var _ usecase.MarketSource = (*Client)(nil)

// NewClient は指定された設定とHTTPクライアントでClientの新しいインスタンスを生成します。
func NewClient(cfg Config, client *http.Client) *Client {
	return &Client{cfg: cfg, client: client}
}

// Source はプロバイダー識別子を返します。
func (c *Client) Source() string { return SourceName }

// FetchDaily はCoinGeckoのmarket_chartエンドポイントから日次データを取得します。
// 仮想通貨以外のカテゴリ、およびあらゆる失敗は合成データへ縮退します。
func (c *Client) FetchDaily(ctx context.Context, code string, category symbolentity.Category) (*entity.FetchResult, error) {
	if category != symbolentity.CategoryCrypto {
		return c.demoResult(code, fmt.Sprintf("unsupported category %q", category)), nil
	}

	id, err := c.resolveCoinID(ctx, code)
	if err != nil {
		return c.demoResult(code, fmt.Sprintf("coin id resolution failed: %v", err)), nil
	}

	u := fmt.Sprintf("%s/coins/%s/market_chart?vs_currency=usd&days=%d", c.cfg.BaseURL, id, demoDays)
	payload, err := c.get(ctx, u)
	if err != nil {
		return c.demoResult(code, fmt.Sprintf("market chart fetch failed: %v", err)), nil
	}

	return &entity.FetchResult{Source: SourceName, Payload: payload}, nil
}

// resolveCoinID はティッカーをCoinGeckoのcoin idへ解決します。
// 同じティッカーを持つコインが複数ある場合は最初の一致を採用します。
func (c *Client) resolveCoinID(ctx context.Context, code string) (string, error) {
	ticker := strings.ToLower(code)

	c.mu.RLock()
	if c.coinIDs != nil {
		if id, ok := c.coinIDs[ticker]; ok {
			c.mu.RUnlock()
			return id, nil
		}
	}
	loaded := c.coinIDs != nil
	c.mu.RUnlock()

	if loaded {
		return "", fmt.Errorf("unknown ticker %q", code)
	}

	payload, err := c.get(ctx, c.cfg.BaseURL+"/coins/list")
	if err != nil {
		return "", err
	}

	var coins []struct {
		ID     string `json:"id"`
		Symbol string `json:"symbol"`
	}
	if err := json.Unmarshal(payload, &coins); err != nil {
		return "", fmt.Errorf("parse coins list: %w", err)
	}

	ids := make(map[string]string, len(coins))
	for _, coin := range coins {
		if _, ok := ids[coin.Symbol]; !ok {
			ids[coin.Symbol] = coin.ID
		}
	}

	c.mu.Lock()
	c.coinIDs = ids
	c.mu.Unlock()

	if id, ok := ids[ticker]; ok {
		return id, nil
	}
	return "", fmt.Errorf("unknown ticker %q", code)
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("coingecko http %d", res.StatusCode)
	}

	return io.ReadAll(res.Body)
}

func (c *Client) demoResult(code, reason string) *entity.FetchResult {
	slog.Warn("coingecko degraded to synthetic data", "symbol", code, "reason", reason)
	return &entity.FetchResult{
		Source:    SourceName,
		Records:   synthetic.Series(code, SourceName+"-demo", demoDays, demoBaseMin, demoBaseMax, demoVolatility),
		Synthetic: true,
		Reason:    reason,
	}
}
