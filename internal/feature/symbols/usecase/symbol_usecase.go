// Package usecase はsymbolsフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"

	"marketdash/internal/feature/symbols/domain/entity"
)

const (
	// DefaultPageSize は銘柄一覧のデフォルトページサイズです。
	DefaultPageSize = 20
	// MaxPageSize は銘柄一覧の最大ページサイズです。
	MaxPageSize = 100
)

// SymbolFilter は銘柄一覧の検索条件です。
type SymbolFilter struct {
	Search   string // コードまたは名前の部分一致
	Category entity.Category
	IsActive *bool
	Page     int
	Limit    int
}

// SymbolRepository は銘柄の永続化層を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type SymbolRepository interface {
	List(ctx context.Context, f SymbolFilter) ([]entity.Symbol, int64, error)
	FindByID(ctx context.Context, id uint) (*entity.Symbol, error)
	FindByCode(ctx context.Context, code string) (*entity.Symbol, error)
	Create(ctx context.Context, s *entity.Symbol) error
	Update(ctx context.Context, s *entity.Symbol) error
	Delete(ctx context.Context, id uint) error
	SetActiveBulk(ctx context.Context, ids []uint, active bool) (int64, error)
}

// PriceCounter は銘柄に紐づく価格データの件数参照を抽象化します。
// 価格データが残っている銘柄の削除をブロックするために使います。
type PriceCounter interface {
	CountBySymbol(ctx context.Context, symbolID uint) (int64, error)
}

// SearchResult は外部検索が返す銘柄候補です。
type SearchResult struct {
	Symbol   string
	Name     string
	Category entity.Category
	Region   string
	Exchange string
}

// Searcher は検索補助付き登録のための外部銘柄検索を抽象化します。
type Searcher interface {
	SearchSymbols(ctx context.Context, query string, category entity.Category) ([]SearchResult, error)
}

// SymbolDetail は銘柄と紐づく価格データ件数をまとめた照会結果です。
type SymbolDetail struct {
	Symbol     entity.Symbol
	PriceCount int64
}

// symbolUsecase は銘柄のCRUDと検索補助登録を提供します。
type symbolUsecase struct {
	symbols  SymbolRepository
	prices   PriceCounter
	searcher Searcher
}

// NewSymbolUsecase はsymbolUsecaseの新しいインスタンスを生成します。
func NewSymbolUsecase(symbols SymbolRepository, prices PriceCounter, searcher Searcher) *symbolUsecase {
	return &symbolUsecase{symbols: symbols, prices: prices, searcher: searcher}
}

// List は検索条件に一致する銘柄の一覧と総件数を返します。
func (u *symbolUsecase) List(ctx context.Context, f SymbolFilter) ([]entity.Symbol, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > MaxPageSize {
		f.Limit = DefaultPageSize
	}
	return u.symbols.List(ctx, f)
}

// Get は銘柄の詳細（価格データ件数付き）を返します。
func (u *symbolUsecase) Get(ctx context.Context, id uint) (*SymbolDetail, error) {
	sym, err := u.symbols.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := u.prices.CountBySymbol(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count prices for symbol %d: %w", id, err)
	}
	return &SymbolDetail{Symbol: *sym, PriceCount: count}, nil
}

// Create は新しい銘柄を登録します。コードが既に存在する場合は
// ErrDuplicateCodeを返します。
func (u *symbolUsecase) Create(ctx context.Context, s *entity.Symbol) error {
	s.Category = entity.ParseCategory(string(s.Category))
	return u.symbols.Create(ctx, s)
}

// Update は銘柄を更新します。コード変更時は他の銘柄との衝突を拒否します。
func (u *symbolUsecase) Update(ctx context.Context, s *entity.Symbol) error {
	current, err := u.symbols.FindByID(ctx, s.ID)
	if err != nil {
		return err
	}
	if s.Code != current.Code {
		if dup, err := u.symbols.FindByCode(ctx, s.Code); err == nil && dup.ID != s.ID {
			return ErrDuplicateCode
		}
	}
	s.Category = entity.ParseCategory(string(s.Category))
	return u.symbols.Update(ctx, s)
}

// Delete は銘柄を削除します。価格データが1件でも残っている銘柄は
// 削除できません（ErrSymbolHasPrices）。
func (u *symbolUsecase) Delete(ctx context.Context, id uint) error {
	if _, err := u.symbols.FindByID(ctx, id); err != nil {
		return err
	}
	count, err := u.prices.CountBySymbol(ctx, id)
	if err != nil {
		return fmt.Errorf("count prices for symbol %d: %w", id, err)
	}
	if count > 0 {
		return ErrSymbolHasPrices
	}
	return u.symbols.Delete(ctx, id)
}

// SetActiveBulk は複数銘柄のアクティブ状態を一括更新し、更新件数を返します。
func (u *symbolUsecase) SetActiveBulk(ctx context.Context, ids []uint, active bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return u.symbols.SetActiveBulk(ctx, ids, active)
}

// Search は外部プロバイダーで銘柄候補を検索します（検索補助付き登録用）。
func (u *symbolUsecase) Search(ctx context.Context, query string, category entity.Category) ([]SearchResult, error) {
	if query == "" {
		return []SearchResult{}, nil
	}
	return u.searcher.SearchSymbols(ctx, query, category)
}
