// Package usecase は価格データの取り込み・照会・リフレッシュの
// ビジネスロジックを実装します。
package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	apilogentity "marketdash/internal/feature/apilog/domain/entity"
	"marketdash/internal/feature/prices/domain/entity"
	"marketdash/internal/feature/prices/normalize"
	"marketdash/internal/feature/prices/pricedata"
	symbolentity "marketdash/internal/feature/symbols/domain/entity"
	"marketdash/internal/shared/ratelimiter"
)

// MarketSource は外部プロバイダー1つを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type MarketSource interface {
	// Source はこのプロバイダーのsourceタグを返します。
	Source() string
	// FetchDaily は日足データを取得します。デモフォールバックを持つ
	// プロバイダーはハードエラーの代わりに合成データ入りのFetchResultを返します。
	FetchDaily(ctx context.Context, symbolCode string, category symbolentity.Category) (*entity.FetchResult, error)
}

// PriceRepository は価格データの永続化層を抽象化します。
type PriceRepository interface {
	// FindBySymbol は最新日付順の価格データを返します。
	FindBySymbol(ctx context.Context, symbolID uint, limit int) ([]entity.PriceRecord, error)
	// FindDates は銘柄に保存済みの全日付を返します。重複排除に使います。
	FindDates(ctx context.Context, symbolID uint) ([]time.Time, error)
	// InsertBatch はレコード群を1トランザクションで一括挿入します。
	InsertBatch(ctx context.Context, symbolID uint, records []entity.PriceRecord) error
	// ReplaceAll は銘柄の価格履歴全体をアトミックに置き換えます。
	// 削除・挿入・銘柄のupdated_at更新・ログ記録が全て成功するか、全て適用されないかのどちらかです。
	ReplaceAll(ctx context.Context, symbolID uint, records []entity.PriceRecord) error
	// CountBySymbol は銘柄に紐づく価格データの件数を返します。
	CountBySymbol(ctx context.Context, symbolID uint) (int64, error)
}

// SymbolRepository は取り込みに必要な銘柄参照だけを抽象化します。
type SymbolRepository interface {
	FindByCode(ctx context.Context, code string) (*symbolentity.Symbol, error)
	FindByID(ctx context.Context, id uint) (*symbolentity.Symbol, error)
	ListActive(ctx context.Context, category symbolentity.Category) ([]symbolentity.Symbol, error)
}

// LogRecorder は取り込み試行の記録先を抽象化します。
type LogRecorder interface {
	Record(ctx context.Context, l apilogentity.Log) error
}

// IngestResult は1銘柄分の取り込み結果です。
type IngestResult struct {
	SymbolCode    string
	InsertedCount int
	Source        string // 実際にデータを供給したsourceタグ
	Synthetic     bool   // 合成デモデータだったかどうか
}

// BulkResult は一括取り込みにおける1銘柄分の成否です。
type BulkResult struct {
	SymbolCode string
	Inserted   int
	Err        error
}

// IngestUsecase はプロバイダー選択から永続化までの取り込みパイプラインを
// 統括します。1回の呼び出しは1銘柄・1トランザクションで完結します。
type IngestUsecase struct {
	sources     map[string]MarketSource
	registry    *normalize.Registry
	prices      PriceRepository
	symbols     SymbolRepository
	logs        LogRecorder
	rateLimiter ratelimiter.RateLimiterInterface
}

// NewIngestUsecase は新しいIngestUsecaseを作成します。
func NewIngestUsecase(sources []MarketSource, registry *normalize.Registry,
	prices PriceRepository, symbols SymbolRepository, logs LogRecorder,
	rl ratelimiter.RateLimiterInterface) *IngestUsecase {
	m := make(map[string]MarketSource, len(sources))
	for _, s := range sources {
		m[s.Source()] = s
	}
	return &IngestUsecase{
		sources:     m,
		registry:    registry,
		prices:      prices,
		symbols:     symbols,
		logs:        logs,
		rateLimiter: rl,
	}
}

// resolveSources はカテゴリと優先指定からプロバイダーの試行順を決めます。
//   - crypto: 仮想通貨特化のCoinGecko
//   - stock/forex: Alpha Vantage優先、失敗時はYahoo Finance
//   - index/その他: Yahoo Finance
//
// preferredが登録済みプロバイダーを指す場合はそれだけを試します。
func (iu *IngestUsecase) resolveSources(category symbolentity.Category, preferred string) []MarketSource {
	if preferred != "" {
		if s, ok := iu.sources[preferred]; ok {
			return []MarketSource{s}
		}
	}
	switch category {
	case symbolentity.CategoryCrypto:
		return iu.pick("coingecko")
	case symbolentity.CategoryStock, symbolentity.CategoryForex:
		return iu.pick("alphavantage", "yahoo")
	default:
		return iu.pick("yahoo")
	}
}

func (iu *IngestUsecase) pick(names ...string) []MarketSource {
	out := make([]MarketSource, 0, len(names))
	for _, n := range names {
		if s, ok := iu.sources[n]; ok {
			out = append(out, s)
		}
	}
	return out
}

// fetch は試行順にプロバイダーを呼び出し、最初に成功した結果を返します。
func (iu *IngestUsecase) fetch(ctx context.Context, code string, category symbolentity.Category, preferred string) (*entity.FetchResult, error) {
	srcs := iu.resolveSources(category, preferred)
	if len(srcs) == 0 {
		return nil, ErrNoProvider
	}
	var lastErr error
	for _, s := range srcs {
		res, err := s.FetchDaily(ctx, code, category)
		if err == nil {
			return res, nil
		}
		lastErr = err
		slog.Warn("provider fetch failed", "provider", s.Source(), "symbol", code, "error", err)
	}
	return nil, lastErr
}

// Ingest は1銘柄分の取り込みパイプラインを実行します:
// 取得 → 正規化 → 検証 → 重複排除 → 一括挿入 → ログ記録。
// 検証に失敗したバッチはどの呼び出し経路でも永続化されません。
func (iu *IngestUsecase) Ingest(ctx context.Context, symbolCode string, category symbolentity.Category, preferredSource string) (*IngestResult, error) {
	sym, err := iu.symbols.FindByCode(ctx, symbolCode)
	if err != nil {
		return nil, fmt.Errorf("find symbol %s: %w", symbolCode, err)
	}

	endpoint := "ingest/" + symbolCode
	reqBody := mustJSON(map[string]string{
		"symbol":   symbolCode,
		"category": string(category),
		"source":   preferredSource,
	})

	res, err := iu.fetch(ctx, symbolCode, category, preferredSource)
	if err != nil {
		iu.logError(ctx, endpoint, reqBody, err)
		return nil, err
	}

	records := res.Records
	if res.Synthetic {
		// 実データの取得に失敗している。取り込み自体は続行するが、
		// レコードの "<provider>-demo" sourceタグで下流に区別させる。
		slog.Warn("using synthetic price data",
			"symbol", symbolCode, "source", res.Source, "reason", res.Reason)
	} else {
		records, err = iu.registry.Normalize(res.Payload, res.Source, category)
		if err != nil {
			iu.logError(ctx, endpoint, reqBody, err)
			return nil, err
		}
	}

	// 検証に失敗したバッチは一切永続化しない
	if v := pricedata.Validate(records); !v.Valid {
		verr := &InvalidBatchError{Violations: v.Errors}
		iu.logError(ctx, endpoint, reqBody, verr)
		return nil, verr
	}

	existing, err := iu.prices.FindDates(ctx, sym.ID)
	if err != nil {
		iu.logError(ctx, endpoint, reqBody, err)
		return nil, fmt.Errorf("load existing dates: %w", err)
	}

	fresh := pricedata.FilterNonDuplicate(records, existing)
	if len(fresh) > 0 {
		if err := iu.prices.InsertBatch(ctx, sym.ID, fresh); err != nil {
			iu.logError(ctx, endpoint, reqBody, err)
			return nil, fmt.Errorf("insert price records: %w", err)
		}
	}

	iu.logSuccess(ctx, endpoint, reqBody, len(fresh))
	slog.Info("ingest finished",
		"symbol", symbolCode, "source", res.Source,
		"fetched", len(records), "inserted", len(fresh))

	return &IngestResult{
		SymbolCode:    symbolCode,
		InsertedCount: len(fresh),
		Source:        res.Source,
		Synthetic:     res.Synthetic,
	}, nil
}

// IngestAll は対象カテゴリ（空なら全カテゴリ）のアクティブ銘柄を順番に
// 取り込みます。1銘柄の失敗は記録したうえで残りの処理を継続します。
// 銘柄ごとにトランザクションが独立しているため、途中失敗が他の銘柄の
// 結果を巻き戻すことはありません。銘柄間でキャンセルを確認します。
func (iu *IngestUsecase) IngestAll(ctx context.Context, category symbolentity.Category) ([]BulkResult, error) {
	symbols, err := iu.symbols.ListActive(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list active symbols: %w", err)
	}

	results := make([]BulkResult, 0, len(symbols))
	for _, s := range symbols {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if iu.rateLimiter != nil {
			iu.rateLimiter.WaitIfNeeded()
		}
		r, err := iu.Ingest(ctx, s.Code, s.Category, "")
		if err != nil {
			// 1銘柄の失敗でバッチ全体を止めない
			slog.Error("failed to ingest symbol", "symbol", s.Code, "error", err)
			results = append(results, BulkResult{SymbolCode: s.Code, Err: err})
			continue
		}
		results = append(results, BulkResult{SymbolCode: s.Code, Inserted: r.InsertedCount})
	}
	return results, nil
}

func (iu *IngestUsecase) logSuccess(ctx context.Context, endpoint, reqBody string, count int) {
	l := apilogentity.Log{
		Endpoint:    endpoint,
		Status:      apilogentity.StatusSuccess,
		StatusCode:  200,
		RequestBody: reqBody,
		Response:    fmt.Sprintf(`{"success":true,"count":%d}`, count),
	}
	if err := iu.logs.Record(ctx, l); err != nil {
		slog.Warn("failed to record ingestion log", "endpoint", endpoint, "error", err)
	}
}

func (iu *IngestUsecase) logError(ctx context.Context, endpoint, reqBody string, cause error) {
	l := apilogentity.Log{
		Endpoint:    endpoint,
		Status:      apilogentity.StatusError,
		StatusCode:  500,
		RequestBody: reqBody,
		Response:    cause.Error(),
	}
	if err := iu.logs.Record(ctx, l); err != nil {
		slog.Warn("failed to record ingestion log", "endpoint", endpoint, "error", err)
	}
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}
