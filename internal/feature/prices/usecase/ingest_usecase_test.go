package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apilogentity "marketdash/internal/feature/apilog/domain/entity"
	"marketdash/internal/feature/prices/domain/entity"
	"marketdash/internal/feature/prices/normalize"
	symbolentity "marketdash/internal/feature/symbols/domain/entity"
)

var errProviderDown = errors.New("provider down")

// mockMarketSource はMarketSourceインターフェースのモック実装です。
type mockMarketSource struct {
	name           string
	FetchDailyFunc func(ctx context.Context, code string, category symbolentity.Category) (*entity.FetchResult, error)
	FetchCalls     int
}

func (m *mockMarketSource) Source() string { return m.name }

func (m *mockMarketSource) FetchDaily(ctx context.Context, code string, category symbolentity.Category) (*entity.FetchResult, error) {
	m.FetchCalls++
	if m.FetchDailyFunc != nil {
		return m.FetchDailyFunc(ctx, code, category)
	}
	return nil, errors.New("FetchDailyFunc is not implemented")
}

// mockPriceRepository はPriceRepositoryインターフェースのモック実装です。
type mockPriceRepository struct {
	dates    []time.Time
	inserted [][]entity.PriceRecord

	FindDatesErr   error
	InsertBatchErr error
}

func (m *mockPriceRepository) FindBySymbol(ctx context.Context, symbolID uint, limit int) ([]entity.PriceRecord, error) {
	return nil, nil
}

func (m *mockPriceRepository) FindDates(ctx context.Context, symbolID uint) ([]time.Time, error) {
	if m.FindDatesErr != nil {
		return nil, m.FindDatesErr
	}
	return m.dates, nil
}

func (m *mockPriceRepository) InsertBatch(ctx context.Context, symbolID uint, records []entity.PriceRecord) error {
	if m.InsertBatchErr != nil {
		return m.InsertBatchErr
	}
	m.inserted = append(m.inserted, records)
	for _, r := range records {
		m.dates = append(m.dates, r.Date)
	}
	return nil
}

func (m *mockPriceRepository) ReplaceAll(ctx context.Context, symbolID uint, records []entity.PriceRecord) error {
	return nil
}

func (m *mockPriceRepository) CountBySymbol(ctx context.Context, symbolID uint) (int64, error) {
	return 0, nil
}

// mockSymbolRepository はSymbolRepositoryインターフェースのモック実装です。
type mockSymbolRepository struct {
	symbols map[string]*symbolentity.Symbol
	active  []symbolentity.Symbol
}

func (m *mockSymbolRepository) FindByCode(ctx context.Context, code string) (*symbolentity.Symbol, error) {
	if s, ok := m.symbols[code]; ok {
		return s, nil
	}
	return nil, errors.New("symbol not found")
}

func (m *mockSymbolRepository) FindByID(ctx context.Context, id uint) (*symbolentity.Symbol, error) {
	for _, s := range m.symbols {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, errors.New("symbol not found")
}

func (m *mockSymbolRepository) ListActive(ctx context.Context, category symbolentity.Category) ([]symbolentity.Symbol, error) {
	if category == "" {
		return m.active, nil
	}
	out := make([]symbolentity.Symbol, 0)
	for _, s := range m.active {
		if s.Category == category {
			out = append(out, s)
		}
	}
	return out, nil
}

// mockLogRecorder はLogRecorderインターフェースのモック実装です。
type mockLogRecorder struct {
	logs []apilogentity.Log
}

func (m *mockLogRecorder) Record(ctx context.Context, l apilogentity.Log) error {
	m.logs = append(m.logs, l)
	return nil
}

// mockRateLimiter はRateLimiterInterfaceのモック実装です。
type mockRateLimiter struct {
	WaitIfNeededCalls int
}

func (m *mockRateLimiter) WaitIfNeeded() {
	m.WaitIfNeededCalls++
}

func avPayload(dates ...string) json.RawMessage {
	series := map[string]map[string]string{}
	for _, d := range dates {
		series[d] = map[string]string{
			"1. open": "100", "2. high": "110", "3. low": "90", "4. close": "105", "5. volume": "1000",
		}
	}
	b, _ := json.Marshal(map[string]any{"Time Series (Daily)": series})
	return b
}

func newTestIngest(sources []MarketSource, prices *mockPriceRepository,
	symbols *mockSymbolRepository, logs *mockLogRecorder) *IngestUsecase {
	return NewIngestUsecase(sources, normalize.DefaultRegistry(), prices, symbols, logs, nil)
}

// TestIngestUsecase_Ingest_Success は取得→正規化→検証→挿入→ログ記録の
// 一連のパイプラインを検証します。
func TestIngestUsecase_Ingest_Success(t *testing.T) {
	ctx := context.Background()

	av := &mockMarketSource{
		name: "alphavantage",
		FetchDailyFunc: func(ctx context.Context, code string, category symbolentity.Category) (*entity.FetchResult, error) {
			return &entity.FetchResult{Source: "alphavantage", Payload: avPayload("2024-01-15", "2024-01-16")}, nil
		},
	}
	prices := &mockPriceRepository{}
	symbols := &mockSymbolRepository{symbols: map[string]*symbolentity.Symbol{
		"AAPL": {ID: 1, Code: "AAPL", Category: symbolentity.CategoryStock},
	}}
	logs := &mockLogRecorder{}

	uc := newTestIngest([]MarketSource{av}, prices, symbols, logs)

	result, err := uc.Ingest(ctx, "AAPL", symbolentity.CategoryStock, "")

	require.NoError(t, err)
	assert.Equal(t, 2, result.InsertedCount)
	assert.Equal(t, "alphavantage", result.Source)
	assert.False(t, result.Synthetic)

	require.Len(t, prices.inserted, 1)
	assert.Len(t, prices.inserted[0], 2)

	require.Len(t, logs.logs, 1)
	assert.Equal(t, "ingest/AAPL", logs.logs[0].Endpoint)
	assert.Equal(t, apilogentity.StatusSuccess, logs.logs[0].Status)
}

// TestIngestUsecase_Ingest_FallbackToSecondProvider は1番目のプロバイダーの
// ハードエラーで2番目が試されることを検証します。
func TestIngestUsecase_Ingest_FallbackToSecondProvider(t *testing.T) {
	ctx := context.Background()

	av := &mockMarketSource{
		name: "alphavantage",
		FetchDailyFunc: func(ctx context.Context, code string, category symbolentity.Category) (*entity.FetchResult, error) {
			return nil, errProviderDown
		},
	}
	yh := &mockMarketSource{
		name: "yahoo",
		FetchDailyFunc: func(ctx context.Context, code string, category symbolentity.Category) (*entity.FetchResult, error) {
			return &entity.FetchResult{Source: "yahoo", Payload: json.RawMessage(`{
				"chart": {"result": [{
					"timestamp": [1705276800],
					"indicators": {"quote": [{"open": [100], "high": [110], "low": [90], "close": [105], "volume": [1000]}]}
				}]}
			}`)}, nil
		},
	}
	prices := &mockPriceRepository{}
	symbols := &mockSymbolRepository{symbols: map[string]*symbolentity.Symbol{
		"MSFT": {ID: 2, Code: "MSFT", Category: symbolentity.CategoryStock},
	}}

	uc := newTestIngest([]MarketSource{av, yh}, prices, symbols, &mockLogRecorder{})

	result, err := uc.Ingest(ctx, "MSFT", symbolentity.CategoryStock, "")

	require.NoError(t, err)
	assert.Equal(t, 1, av.FetchCalls)
	assert.Equal(t, 1, yh.FetchCalls)
	assert.Equal(t, "yahoo", result.Source)
	assert.Equal(t, 1, result.InsertedCount)
}

// TestIngestUsecase_Ingest_PreferredSource は優先プロバイダー指定時に
// それだけが試されることを検証します。
func TestIngestUsecase_Ingest_PreferredSource(t *testing.T) {
	ctx := context.Background()

	av := &mockMarketSource{name: "alphavantage"}
	yh := &mockMarketSource{
		name: "yahoo",
		FetchDailyFunc: func(ctx context.Context, code string, category symbolentity.Category) (*entity.FetchResult, error) {
			return nil, errProviderDown
		},
	}
	symbols := &mockSymbolRepository{symbols: map[string]*symbolentity.Symbol{
		"AAPL": {ID: 1, Code: "AAPL", Category: symbolentity.CategoryStock},
	}}

	uc := newTestIngest([]MarketSource{av, yh}, &mockPriceRepository{}, symbols, &mockLogRecorder{})

	_, err := uc.Ingest(ctx, "AAPL", symbolentity.CategoryStock, "yahoo")

	require.ErrorIs(t, err, errProviderDown)
	assert.Equal(t, 0, av.FetchCalls, "preferred source bypasses the default order")
	assert.Equal(t, 1, yh.FetchCalls)
}

// TestIngestUsecase_Ingest_InvalidBatchNeverPersisted は検証に失敗した
// バッチが挿入されず、エラーログが残ることを検証します。
func TestIngestUsecase_Ingest_InvalidBatchNeverPersisted(t *testing.T) {
	ctx := context.Background()

	// high < low の壊れたデータ
	broken := &mockMarketSource{
		name: "alphavantage",
		FetchDailyFunc: func(ctx context.Context, code string, category symbolentity.Category) (*entity.FetchResult, error) {
			return &entity.FetchResult{Source: "alphavantage", Payload: json.RawMessage(`{
				"Time Series (Daily)": {
					"2024-01-15": {"1. open": "100", "2. high": "90", "3. low": "110", "4. close": "100", "5. volume": "1000"}
				}
			}`)}, nil
		},
	}
	prices := &mockPriceRepository{}
	symbols := &mockSymbolRepository{symbols: map[string]*symbolentity.Symbol{
		"AAPL": {ID: 1, Code: "AAPL", Category: symbolentity.CategoryStock},
	}}
	logs := &mockLogRecorder{}

	uc := newTestIngest([]MarketSource{broken}, prices, symbols, logs)

	_, err := uc.Ingest(ctx, "AAPL", symbolentity.CategoryStock, "")

	var invalid *InvalidBatchError
	require.ErrorAs(t, err, &invalid)
	assert.NotEmpty(t, invalid.Violations)

	assert.Empty(t, prices.inserted, "invalid batch must never be persisted")
	require.Len(t, logs.logs, 1)
	assert.Equal(t, apilogentity.StatusError, logs.logs[0].Status)
}

// TestIngestUsecase_Ingest_SyntheticPassthrough は合成データが正規化を
// バイパスしてそのまま検証・挿入されることを検証します。
func TestIngestUsecase_Ingest_SyntheticPassthrough(t *testing.T) {
	ctx := context.Background()

	demo := &mockMarketSource{
		name: "yahoo",
		FetchDailyFunc: func(ctx context.Context, code string, category symbolentity.Category) (*entity.FetchResult, error) {
			return &entity.FetchResult{
				Source: "yahoo",
				Records: []entity.PriceRecord{
					{Date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), Close: entity.Float(100), Source: "yahoo-demo"},
				},
				Synthetic: true,
				Reason:    "http 500",
			}, nil
		},
	}
	prices := &mockPriceRepository{}
	symbols := &mockSymbolRepository{symbols: map[string]*symbolentity.Symbol{
		"NIKKEI": {ID: 3, Code: "NIKKEI", Category: symbolentity.CategoryIndex},
	}}

	uc := newTestIngest([]MarketSource{demo}, prices, symbols, &mockLogRecorder{})

	result, err := uc.Ingest(ctx, "NIKKEI", symbolentity.CategoryIndex, "")

	require.NoError(t, err)
	assert.True(t, result.Synthetic)
	assert.Equal(t, 1, result.InsertedCount)
	require.Len(t, prices.inserted, 1)
	assert.Equal(t, "yahoo-demo", prices.inserted[0][0].Source)
}

// TestIngestUsecase_Ingest_Deduplication は2回目の取り込みで既存日付が
// 挿入されないことを検証します。
func TestIngestUsecase_Ingest_Deduplication(t *testing.T) {
	ctx := context.Background()

	av := &mockMarketSource{
		name: "alphavantage",
		FetchDailyFunc: func(ctx context.Context, code string, category symbolentity.Category) (*entity.FetchResult, error) {
			return &entity.FetchResult{Source: "alphavantage", Payload: avPayload("2024-01-15", "2024-01-16")}, nil
		},
	}
	prices := &mockPriceRepository{}
	symbols := &mockSymbolRepository{symbols: map[string]*symbolentity.Symbol{
		"AAPL": {ID: 1, Code: "AAPL", Category: symbolentity.CategoryStock},
	}}

	uc := newTestIngest([]MarketSource{av}, prices, symbols, &mockLogRecorder{})

	first, err := uc.Ingest(ctx, "AAPL", symbolentity.CategoryStock, "")
	require.NoError(t, err)
	assert.Equal(t, 2, first.InsertedCount)

	second, err := uc.Ingest(ctx, "AAPL", symbolentity.CategoryStock, "")
	require.NoError(t, err)
	assert.Equal(t, 0, second.InsertedCount, "same dates are filtered on re-ingest")
	assert.Len(t, prices.inserted, 1, "no second InsertBatch for an all-duplicate batch")
}

// TestIngestUsecase_Ingest_NoProvider は利用可能なプロバイダーが無い場合の
// ErrNoProviderを検証します。
func TestIngestUsecase_Ingest_NoProvider(t *testing.T) {
	ctx := context.Background()

	symbols := &mockSymbolRepository{symbols: map[string]*symbolentity.Symbol{
		"BTC": {ID: 4, Code: "BTC", Category: symbolentity.CategoryCrypto},
	}}

	// cryptoはcoingeckoだけが対象だが、登録されていない
	av := &mockMarketSource{name: "alphavantage"}
	uc := newTestIngest([]MarketSource{av}, &mockPriceRepository{}, symbols, &mockLogRecorder{})

	_, err := uc.Ingest(ctx, "BTC", symbolentity.CategoryCrypto, "")

	require.ErrorIs(t, err, ErrNoProvider)
}

// TestIngestUsecase_IngestAll はバッチ取り込みが1銘柄の失敗で止まらないことを検証します。
func TestIngestUsecase_IngestAll(t *testing.T) {
	ctx := context.Background()

	av := &mockMarketSource{
		name: "alphavantage",
		FetchDailyFunc: func(ctx context.Context, code string, category symbolentity.Category) (*entity.FetchResult, error) {
			if code == "BROKEN" {
				return nil, errProviderDown
			}
			return &entity.FetchResult{Source: "alphavantage", Payload: avPayload("2024-01-15")}, nil
		},
	}
	prices := &mockPriceRepository{}
	symbols := &mockSymbolRepository{
		symbols: map[string]*symbolentity.Symbol{
			"AAPL":   {ID: 1, Code: "AAPL", Category: symbolentity.CategoryStock},
			"BROKEN": {ID: 2, Code: "BROKEN", Category: symbolentity.CategoryStock},
			"MSFT":   {ID: 3, Code: "MSFT", Category: symbolentity.CategoryStock},
		},
		active: []symbolentity.Symbol{
			{ID: 1, Code: "AAPL", Category: symbolentity.CategoryStock},
			{ID: 2, Code: "BROKEN", Category: symbolentity.CategoryStock},
			{ID: 3, Code: "MSFT", Category: symbolentity.CategoryStock},
		},
	}
	rl := &mockRateLimiter{}

	uc := NewIngestUsecase([]MarketSource{av}, normalize.DefaultRegistry(), prices, symbols, &mockLogRecorder{}, rl)

	results, err := uc.IngestAll(ctx, "")

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, errProviderDown)
	assert.NoError(t, results[2].Err)
	assert.Equal(t, 3, rl.WaitIfNeededCalls, "rate limiter is consulted per symbol")
}

// TestIngestUsecase_IngestAll_ContextCancelled はキャンセルで処理が
// 途中終了することを検証します。
func TestIngestUsecase_IngestAll_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	symbols := &mockSymbolRepository{
		active: []symbolentity.Symbol{{ID: 1, Code: "AAPL", Category: symbolentity.CategoryStock}},
	}
	uc := newTestIngest(nil, &mockPriceRepository{}, symbols, &mockLogRecorder{})

	results, err := uc.IngestAll(ctx, "")

	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}
