// Package adapters はpricesフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	apilogentity "marketdash/internal/feature/apilog/domain/entity"
	"marketdash/internal/feature/prices/domain/entity"
	"marketdash/internal/feature/prices/usecase"
	symbolentity "marketdash/internal/feature/symbols/domain/entity"
)

// priceGorm はPriceRepositoryインターフェースのGORM実装です。
type priceGorm struct {
	db *gorm.DB
}

var _ usecase.PriceRepository = (*priceGorm)(nil)

// NewPriceRepository は指定されたDB接続でpriceGormリポジトリの新しいインスタンスを生成します。
func NewPriceRepository(db *gorm.DB) *priceGorm {
	return &priceGorm{db: db}
}

// PriceModel は価格データの永続化モデルです。
// (symbol_id, date)の複合ユニークインデックスが「1銘柄・1暦日・1レコード」の
// 不変条件をデータベース側でも保証します。
type PriceModel struct {
	ID       uint      `gorm:"primaryKey"`
	SymbolID uint      `gorm:"not null;uniqueIndex:price_symbol_date,priority:1"`
	Date     time.Time `gorm:"not null;uniqueIndex:price_symbol_date,priority:2"`

	Open   *float64
	High   *float64
	Low    *float64
	Close  float64 `gorm:"not null"`
	Volume *int64
	Source string `gorm:"size:50;not null;default:api"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName はGORMに使わせるテーブル名を返します。
func (PriceModel) TableName() string { return "prices" }

func toModel(symbolID uint, r entity.PriceRecord) PriceModel {
	m := PriceModel{
		SymbolID: symbolID,
		Date:     r.Date.UTC(),
		Open:     r.Open,
		High:     r.High,
		Low:      r.Low,
		Volume:   r.Volume,
		Source:   r.Source,
	}
	// closeカラムはNOT NULL。検証済みバッチではnilにならないが、
	// 生の挿入経路でもパニックさせない。
	if r.Close != nil {
		m.Close = *r.Close
	}
	return m
}

func toRecord(m PriceModel) entity.PriceRecord {
	c := m.Close
	return entity.PriceRecord{
		Date:   m.Date,
		Open:   m.Open,
		High:   m.High,
		Low:    m.Low,
		Close:  &c,
		Volume: m.Volume,
		Source: m.Source,
	}
}

// FindBySymbol は最新日付順の価格データを返します。
func (r *priceGorm) FindBySymbol(ctx context.Context, symbolID uint, limit int) ([]entity.PriceRecord, error) {
	var rows []PriceModel
	q := r.db.WithContext(ctx).
		Where("symbol_id = ?", symbolID).
		Order("date DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.PriceRecord, 0, len(rows))
	for _, m := range rows {
		out = append(out, toRecord(m))
	}
	return out, nil
}

// FindDates は銘柄に保存済みの全日付を返します。
func (r *priceGorm) FindDates(ctx context.Context, symbolID uint) ([]time.Time, error) {
	var dates []time.Time
	if err := r.db.WithContext(ctx).
		Model(&PriceModel{}).
		Where("symbol_id = ?", symbolID).
		Pluck("date", &dates).Error; err != nil {
		return nil, err
	}
	return dates, nil
}

// InsertBatch はレコード群を1トランザクションで一括挿入します。
// 空のバッチはストレージに触れません。
func (r *priceGorm) InsertBatch(ctx context.Context, symbolID uint, records []entity.PriceRecord) error {
	if len(records) == 0 {
		return nil
	}
	ms := make([]PriceModel, 0, len(records))
	for _, rec := range records {
		ms = append(ms, toModel(symbolID, rec))
	}
	return r.db.WithContext(ctx).Create(&ms).Error
}

// ReplaceAll は銘柄の価格履歴全体をアトミックに置き換えます。
// 1トランザクション内で (1)既存行の削除 (2)置換系列の一括挿入
// (3)銘柄のupdated_at更新 (4)成功ログの記録 を行い、どこかで失敗した
// 場合は全てロールバックされます（部分的な削除は起こりません）。
// 失敗時のエラーログはロールバック後にトランザクション外で記録します。
func (r *priceGorm) ReplaceAll(ctx context.Context, symbolID uint, records []entity.PriceRecord) error {
	endpoint := fmt.Sprintf("symbols/%d/refresh", symbolID)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("symbol_id = ?", symbolID).Delete(&PriceModel{}).Error; err != nil {
			return err
		}

		if len(records) > 0 {
			ms := make([]PriceModel, 0, len(records))
			for _, rec := range records {
				ms = append(ms, toModel(symbolID, rec))
			}
			if err := tx.Create(&ms).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&symbolentity.Symbol{}).
			Where("id = ?", symbolID).
			Update("updated_at", time.Now()).Error; err != nil {
			return err
		}

		return tx.Create(&apilogentity.Log{
			Endpoint:    endpoint,
			Status:      apilogentity.StatusSuccess,
			StatusCode:  200,
			RequestBody: fmt.Sprintf(`{"count":%d}`, len(records)),
			Response:    fmt.Sprintf(`{"success":true,"count":%d}`, len(records)),
		}).Error
	})
	if err != nil {
		// ロールバック済み。記録だけ残す（ここでの失敗は握りつぶす）。
		_ = r.db.WithContext(ctx).Create(&apilogentity.Log{
			Endpoint:    endpoint,
			Status:      apilogentity.StatusError,
			StatusCode:  500,
			RequestBody: fmt.Sprintf(`{"symbolId":%d}`, symbolID),
			Response:    err.Error(),
		}).Error
		return err
	}
	return nil
}

// CountBySymbol は銘柄に紐づく価格データの件数を返します。
// 銘柄削除のブロック判定にも使われます。
func (r *priceGorm) CountBySymbol(ctx context.Context, symbolID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&PriceModel{}).
		Where("symbol_id = ?", symbolID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
