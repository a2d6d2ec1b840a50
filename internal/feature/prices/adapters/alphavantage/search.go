package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	symbolentity "marketdash/internal/feature/symbols/domain/entity"
	symbolusecase "marketdash/internal/feature/symbols/usecase"
)

// ClientがSearcherを実装していることをコンパイル時に検証します。
var _ symbolusecase.Searcher = (*Client)(nil)

// searchResponse はSYMBOL_SEARCHエンドポイントのレスポンスです。
type searchResponse struct {
	BestMatches []struct {
		Symbol   string `json:"1. symbol"`
		Name     string `json:"2. name"`
		Type     string `json:"3. type"`
		Region   string `json:"4. region"`
		Exchange string `json:"8. exchange"`
	} `json:"bestMatches"`
	Note         string `json:"Note"`
	ErrorMessage string `json:"Error Message"`
}

// SearchSymbols は銘柄候補を検索します。株式はAlpha VantageのSYMBOL_SEARCHを
// 呼び、仮想通貨・為替・指数はクエリから組み立てたデモ候補を返します
// （SYMBOL_SEARCHは株式中心で、これらのカテゴリには候補を返せないため）。
// 失敗時やレート制限時もデモ候補に縮退し、登録フローを止めません。
func (c *Client) SearchSymbols(ctx context.Context, query string, category symbolentity.Category) ([]symbolusecase.SearchResult, error) {
	switch category {
	case symbolentity.CategoryCrypto, symbolentity.CategoryForex, symbolentity.CategoryIndex:
		return demoSearchResults(query, category), nil
	}

	q := url.Values{}
	q.Set("function", "SYMBOL_SEARCH")
	q.Set("keywords", query)
	q.Set("apikey", c.cfg.APIKey)

	u := fmt.Sprintf("%s/query?%s", c.cfg.BaseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.client.Do(req)
	if err != nil {
		slog.Warn("alphavantage symbol search failed", "query", query, "error", err)
		return demoSearchResults(query, symbolentity.CategoryStock), nil
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		slog.Warn("alphavantage symbol search failed", "query", query, "status", res.StatusCode)
		return demoSearchResults(query, symbolentity.CategoryStock), nil
	}

	var body searchResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		slog.Warn("alphavantage symbol search failed", "query", query, "error", err)
		return demoSearchResults(query, symbolentity.CategoryStock), nil
	}
	if body.Note != "" {
		slog.Warn("alphavantage symbol search rate limited", "query", query)
		return demoSearchResults(query, symbolentity.CategoryStock), nil
	}
	if body.ErrorMessage != "" {
		slog.Warn("alphavantage symbol search error", "query", query, "message", body.ErrorMessage)
		return demoSearchResults(query, symbolentity.CategoryStock), nil
	}

	results := make([]symbolusecase.SearchResult, 0, len(body.BestMatches))
	for _, m := range body.BestMatches {
		cat := categoryFromType(m.Type)
		if category != "" && category != symbolentity.CategoryOther && cat != category {
			continue
		}
		results = append(results, symbolusecase.SearchResult{
			Symbol:   m.Symbol,
			Name:     m.Name,
			Category: cat,
			Region:   m.Region,
			Exchange: m.Exchange,
		})
	}
	return results, nil
}

// categoryFromType はAlpha Vantageの資産タイプをカテゴリに対応付けます。
func categoryFromType(t string) symbolentity.Category {
	switch strings.ToLower(t) {
	case "equity", "etf":
		return symbolentity.CategoryStock
	case "digital currency", "cryptocurrency":
		return symbolentity.CategoryCrypto
	case "physical currency", "currency":
		return symbolentity.CategoryForex
	case "index":
		return symbolentity.CategoryIndex
	default:
		return symbolentity.CategoryOther
	}
}

// demoSearchResults は外部検索が利用できない場合に返すダミー候補です。
// クエリを大文字化してカテゴリごとの定型パターンに展開します。
func demoSearchResults(query string, category symbolentity.Category) []symbolusecase.SearchResult {
	q := strings.ToUpper(query)

	switch category {
	case symbolentity.CategoryCrypto:
		return []symbolusecase.SearchResult{
			{Symbol: q + "USD", Name: q + " to US Dollar", Category: category, Exchange: "Coinbase"},
			{Symbol: q + "JPY", Name: q + " to Japanese Yen", Category: category, Exchange: "Binance"},
			{Symbol: q + "EUR", Name: q + " to Euro", Category: category, Exchange: "Kraken"},
		}
	case symbolentity.CategoryForex:
		return []symbolusecase.SearchResult{
			{Symbol: "USD" + q, Name: "US Dollar to " + q, Category: category},
			{Symbol: "EUR" + q, Name: "Euro to " + q, Category: category},
			{Symbol: "GBP" + q, Name: "British Pound to " + q, Category: category},
		}
	case symbolentity.CategoryIndex:
		return []symbolusecase.SearchResult{
			{Symbol: "^" + q, Name: q + " Index", Category: category, Region: "Global"},
			{Symbol: "^" + q + "US", Name: q + " US Index", Category: category, Region: "United States"},
			{Symbol: "^" + q + "JP", Name: q + " Japan Index", Category: category, Region: "Japan"},
		}
	default:
		return []symbolusecase.SearchResult{
			{Symbol: q, Name: q + " Corporation", Category: symbolentity.CategoryStock, Exchange: "NASDAQ", Region: "United States"},
			{Symbol: q + ".T", Name: q + " Japan Corporation", Category: symbolentity.CategoryStock, Exchange: "TSE", Region: "Japan"},
			{Symbol: q + "L", Name: q + " Limited", Category: symbolentity.CategoryStock, Exchange: "LSE", Region: "United Kingdom"},
		}
	}
}
