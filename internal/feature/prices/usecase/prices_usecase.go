package usecase

import (
	"context"
	"fmt"

	"marketdash/internal/feature/prices/adapters/synthetic"
	"marketdash/internal/feature/prices/domain/entity"
	symbolentity "marketdash/internal/feature/symbols/domain/entity"
)

const (
	// DefaultOutputSize は価格照会のデフォルト返却件数です。
	DefaultOutputSize = 30
	// MaxOutputSize は価格照会の最大返却件数です。
	MaxOutputSize = 1000
	// DefaultRefreshDays はリフレッシュで生成する系列のデフォルト日数です。
	DefaultRefreshDays = 30
	// MaxRefreshDays はリフレッシュで生成できる最大日数です。
	MaxRefreshDays = 365
)

// pricesUsecase は保存済み価格データの照会と全量リフレッシュを提供します。
type pricesUsecase struct {
	prices  PriceRepository
	symbols SymbolRepository
}

// NewPricesUsecase はpricesUsecaseの新しいインスタンスを生成します。
func NewPricesUsecase(prices PriceRepository, symbols SymbolRepository) *pricesUsecase {
	return &pricesUsecase{prices: prices, symbols: symbols}
}

// GetPrices は最新日付順の価格データを返します。
func (pu *pricesUsecase) GetPrices(ctx context.Context, symbolID uint, limit int) ([]entity.PriceRecord, error) {
	if limit <= 0 || limit > MaxOutputSize {
		limit = DefaultOutputSize
	}
	return pu.prices.FindBySymbol(ctx, symbolID, limit)
}

// Refresh は銘柄の価格履歴を決定論的なデモ系列でアトミックに置き換え、
// 挿入件数を返します。削除と挿入は1トランザクションで行われ、途中で
// 失敗した場合は元のデータがそのまま残ります。
func (pu *pricesUsecase) Refresh(ctx context.Context, symbolID uint, days int) (int, error) {
	if days <= 0 || days > MaxRefreshDays {
		days = DefaultRefreshDays
	}

	sym, err := pu.symbols.FindByID(ctx, symbolID)
	if err != nil {
		return 0, fmt.Errorf("find symbol %d: %w", symbolID, err)
	}

	// カテゴリに応じた価格帯で生成する（仮想通貨は桁が大きい）
	minBase, maxBase := 50.0, 550.0
	if sym.Category == symbolentity.CategoryCrypto {
		minBase, maxBase = 1000.0, 51000.0
	}
	records := synthetic.Series(sym.Code, "demo", days, minBase, maxBase, 0.02)

	if err := pu.prices.ReplaceAll(ctx, symbolID, records); err != nil {
		return 0, fmt.Errorf("replace price history: %w", err)
	}
	return len(records), nil
}
