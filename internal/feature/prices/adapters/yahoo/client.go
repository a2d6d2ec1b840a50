package yahoo

import (
	"context"
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
	SourceName = "yahoo"

	demoDays       = 30
	demoBaseMin    = 50
	demoBaseMax    = 550
	demoVolatility = 0.02
)

// Client はYahoo Financeチャートエンドポイントから日次価格データを取得する
// MarketSource実装です。
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

// FetchDaily はYahoo Financeのチャートエンドポイントから日次データを取得します。
// Yahooは最終フォールバック先のため、あらゆる失敗を合成データへ縮退します。
func (c *Client) FetchDaily(ctx context.Context, code string, category symbolentity.Category) (*entity.FetchResult, error) {
	sym := yahooSymbol(code, category)
	q := url.Values{}
	q.Set("interval", "1d")
	q.Set("range", "1mo")
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.cfg.BaseURL, url.PathEscape(sym), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	// UAなしのリクエストはYahoo側で弾かれることがある
	req.Header.Set("User-Agent", "Mozilla/5.0")

	res, err := c.client.Do(req)
	if err != nil {
		return c.demoResult(code, fmt.Sprintf("request failed: %v", err)), nil
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return c.demoResult(code, fmt.Sprintf("http %d", res.StatusCode)), nil
	}

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return c.demoResult(code, fmt.Sprintf("read body: %v", err)), nil
	}

	return &entity.FetchResult{Source: SourceName, Payload: payload}, nil
}

// yahooSymbol はカテゴリに応じたYahoo表記のシンボルを返します。
// 仮想通貨は -USD、為替は =X サフィックスが付きます。
func yahooSymbol(code string, category symbolentity.Category) string {
	switch category {
	case symbolentity.CategoryCrypto:
		if strings.HasSuffix(code, "-USD") {
			return code
		}
		return code + "-USD"
	case symbolentity.CategoryForex:
		if strings.HasSuffix(code, "=X") {
			return code
		}
		return strings.ReplaceAll(code, "/", "") + "=X"
	default:
		return code
	}
}

func (c *Client) demoResult(code, reason string) *entity.FetchResult {
	slog.Warn("yahoo degraded to synthetic data", "symbol", code, "reason", reason)
	return &entity.FetchResult{
		Source:    SourceName,
		Records:   synthetic.Series(code, SourceName+"-demo", demoDays, demoBaseMin, demoBaseMax, demoVolatility),
		Synthetic: true,
		Reason:    reason,
	}
}
