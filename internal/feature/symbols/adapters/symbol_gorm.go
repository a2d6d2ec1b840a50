// Package adapters はsymbolsフィーチャーの永続化アダプターを提供します。
package adapters

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"marketdash/internal/feature/symbols/domain/entity"
	"marketdash/internal/feature/symbols/usecase"
)

// symbolGorm はGORMを使用したSymbolRepository実装です。
type symbolGorm struct {
	db *gorm.DB
}

// symbolGormがSymbolRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.SymbolRepository = (*symbolGorm)(nil)

// NewSymbolGorm は指定されたDB接続でsymbolGormの新しいインスタンスを生成します。
func NewSymbolGorm(db *gorm.DB) *symbolGorm {
	return &symbolGorm{db: db}
}

// List は検索条件に一致する銘柄と総件数を返します。
func (r *symbolGorm) List(ctx context.Context, f usecase.SymbolFilter) ([]entity.Symbol, int64, error) {
	q := r.db.WithContext(ctx).Model(&entity.Symbol{})

	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("code LIKE ? OR name LIKE ?", like, like)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.IsActive != nil {
		q = q.Where("is_active = ?", *f.IsActive)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var symbols []entity.Symbol
	offset := (f.Page - 1) * f.Limit
	if err := q.Order("code ASC").Offset(offset).Limit(f.Limit).Find(&symbols).Error; err != nil {
		return nil, 0, err
	}
	return symbols, total, nil
}

// FindByID はIDで銘柄を1件取得します。
func (r *symbolGorm) FindByID(ctx context.Context, id uint) (*entity.Symbol, error) {
	var s entity.Symbol
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrSymbolNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindByCode はコードで銘柄を1件取得します。
func (r *symbolGorm) FindByCode(ctx context.Context, code string) (*entity.Symbol, error) {
	var s entity.Symbol
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrSymbolNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Create は銘柄を登録します。コード重複はErrDuplicateCodeに変換します。
func (r *symbolGorm) Create(ctx context.Context, s *entity.Symbol) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		if isDuplicateEntry(err) {
			return usecase.ErrDuplicateCode
		}
		return err
	}
	return nil
}

// Update は銘柄を更新します。
func (r *symbolGorm) Update(ctx context.Context, s *entity.Symbol) error {
	if err := r.db.WithContext(ctx).Save(s).Error; err != nil {
		if isDuplicateEntry(err) {
			return usecase.ErrDuplicateCode
		}
		return err
	}
	return nil
}

// ListActive はアクティブな銘柄をコード順に返します。
// categoryが空の場合は全カテゴリが対象です。
func (r *symbolGorm) ListActive(ctx context.Context, category entity.Category) ([]entity.Symbol, error) {
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var symbols []entity.Symbol
	if err := q.Order("code ASC").Find(&symbols).Error; err != nil {
		return nil, err
	}
	return symbols, nil
}

// Delete は銘柄を削除します。
func (r *symbolGorm) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.Symbol{}, id).Error
}

// SetActiveBulk は複数銘柄のアクティブ状態を一括更新し、更新件数を返します。
func (r *symbolGorm) SetActiveBulk(ctx context.Context, ids []uint, active bool) (int64, error) {
	res := r.db.WithContext(ctx).Model(&entity.Symbol{}).
		Where("id IN ?", ids).
		Update("is_active", active)
	return res.RowsAffected, res.Error
}

// isDuplicateEntry はMySQLの一意制約違反（エラー1062）かどうかを判定します。
// SQLite（テスト用）はgorm.ErrDuplicatedKeyで報告されます。
func isDuplicateEntry(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
