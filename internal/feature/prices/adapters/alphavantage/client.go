package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"marketdash/internal/feature/prices/adapters/synthetic"
	"marketdash/internal/feature/prices/domain/entity"
	"marketdash/internal/feature/prices/usecase"
	symbolentity "marketdash/internal/feature/symbols/domain/entity"
)

const (
	// SourceName はこのプロバイダーの識別子です。
	SourceName = "alphavantage"

	demoDays       = 30
	demoBaseMin    = 100
	demoBaseMax    = 1000
	demoVolatility = 0.03
)

// Client はAlpha Vantage APIから日次価格データを取得するMarketSource実装です。
type Client struct {
	cfg    Config
	client *http.Client
}

// ClientがMarketSourceを実装していることをコンパイル時に検証します。
var _ usecase.MarketSource = (*Client)(nil)

// NewClient は指定された設定とHTTPクライアントでClientの新しいインスタンスを生成します。
func NewClient(cfg Config, client *http.Client) *Client {
	return &Client{cfg: cfg, client: client}
}

// Source はプロバイダー識別子を返します。
func (c *Client) Source() string { return SourceName }

// FetchDaily はカテゴリに応じたAlpha Vantageエンドポイントから日次データを取得します。
// 通信エラーおよび非2xx応答はエラーとして返し、呼び出し側のフォールバックに委ねます。
// レート制限（Note）やAPIエラー応答は合成データへ縮退します。
func (c *Client) FetchDaily(ctx context.Context, code string, category symbolentity.Category) (*entity.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(code, category), nil)
	if err != nil {
		return nil, err
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alphavantage request: %w", err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("alphavantage http %d", res.StatusCode)
	}

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("alphavantage read body: %w", err)
	}

	if reason, ok := degradeReason(payload); ok {
		slog.Warn("alphavantage degraded to synthetic data", "symbol", code, "reason", reason)
		return c.demoResult(code, reason), nil
	}

	return &entity.FetchResult{Source: SourceName, Payload: payload}, nil
}

// endpoint はカテゴリごとのリクエストURLを組み立てます。
func (c *Client) endpoint(code string, category symbolentity.Category) string {
	q := url.Values{}
	q.Set("apikey", c.cfg.APIKey)

	switch category {
	case symbolentity.CategoryCrypto:
		q.Set("function", "DIGITAL_CURRENCY_DAILY")
		q.Set("symbol", code)
		q.Set("market", "USD")
	case symbolentity.CategoryForex:
		from, to := splitPair(code)
		q.Set("function", "FX_DAILY")
		q.Set("from_symbol", from)
		q.Set("to_symbol", to)
	default:
		q.Set("function", "TIME_SERIES_DAILY")
		q.Set("symbol", code)
	}

	return fmt.Sprintf("%s/query?%s", c.cfg.BaseURL, q.Encode())
}

// splitPair は "EUR/USD" 形式の通貨ペアを分解します。
// 区切りが無い場合は対USDとみなします。
func splitPair(code string) (string, string) {
	if from, to, ok := strings.Cut(code, "/"); ok && to != "" {
		return from, to
	}
	return code, "USD"
}

// degradeReason はレスポンスが利用不能（レート制限・APIエラー・
// 時系列ブロック欠落）かどうかを判定し、縮退理由を返します。
func degradeReason(payload []byte) (string, bool) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(payload, &probe); err != nil {
		return "unparseable response", true
	}
	if _, ok := probe["Note"]; ok {
		return "rate limited", true
	}
	if _, ok := probe["Information"]; ok {
		return "rate limited", true
	}
	if _, ok := probe["Error Message"]; ok {
		return "api error", true
	}
	if !hasSeriesKey(probe) {
		return "time series block missing", true
	}
	return "", false
}

// hasSeriesKey はいずれかの時系列キーが存在するかを確認します。
func hasSeriesKey(probe map[string]json.RawMessage) bool {
	for key := range probe {
		if strings.HasPrefix(key, "Time Series") {
			return true
		}
	}
	return false
}

func (c *Client) demoResult(code, reason string) *entity.FetchResult {
	return &entity.FetchResult{
		Source:    SourceName,
		Records:   synthetic.Series(code, SourceName+"-demo", demoDays, demoBaseMin, demoBaseMax, demoVolatility),
		Synthetic: true,
		Reason:    reason,
	}
}
