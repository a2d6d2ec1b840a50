// Package adapters はapilogフィーチャーの永続化アダプターを提供します。
package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"

	"marketdash/internal/feature/apilog/domain/entity"
	"marketdash/internal/feature/apilog/usecase"
)

// apilogGorm はGORMを使用したLogRepository実装です。
type apilogGorm struct {
	db *gorm.DB
}

// apilogGormがLogRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.LogRepository = (*apilogGorm)(nil)

// NewApilogGorm は指定されたDB接続でapilogGormの新しいインスタンスを生成します。
func NewApilogGorm(db *gorm.DB) *apilogGorm {
	return &apilogGorm{db: db}
}

// Record はAPIログを1件記録します。
func (r *apilogGorm) Record(ctx context.Context, l entity.Log) error {
	return r.db.WithContext(ctx).Create(&l).Error
}

// List は検索条件に一致するログを新着順に返します。
func (r *apilogGorm) List(ctx context.Context, f usecase.LogFilter) ([]entity.Log, int64, error) {
	q := r.db.WithContext(ctx).Model(&entity.Log{})

	if f.Endpoint != "" {
		q = q.Where("endpoint LIKE ?", f.Endpoint+"%")
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if !f.Since.IsZero() {
		q = q.Where("created_at >= ?", f.Since)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []entity.Log
	offset := (f.Page - 1) * f.Limit
	if err := q.Order("created_at DESC").Offset(offset).Limit(f.Limit).Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// PurgeBefore は指定時刻より古いログを削除し、削除件数を返します。
func (r *apilogGorm) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&entity.Log{})
	return res.RowsAffected, res.Error
}
