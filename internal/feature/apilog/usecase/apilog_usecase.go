// Package usecase はapilogフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"time"

	"marketdash/internal/feature/apilog/domain/entity"
)

const (
	// DefaultPageSize はログ一覧のデフォルトページサイズです。
	DefaultPageSize = 50
	// MaxPageSize はログ一覧の最大ページサイズです。
	MaxPageSize = 200
	// DefaultRetention はPurgeOldのデフォルト保持期間です。
	DefaultRetention = 30 * 24 * time.Hour
)

// LogFilter はAPIログ一覧の検索条件です。
type LogFilter struct {
	Endpoint string // 前方一致
	Status   string // success / error
	Since    time.Time
	Page     int
	Limit    int
}

// LogRepository はAPIログの永続化層を抽象化します。
type LogRepository interface {
	Record(ctx context.Context, l entity.Log) error
	List(ctx context.Context, f LogFilter) ([]entity.Log, int64, error)
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// logUsecase はAPIログの照会と古いログの掃除を提供します。
type logUsecase struct {
	logs LogRepository
	now  func() time.Time
}

// NewLogUsecase はlogUsecaseの新しいインスタンスを生成します。
func NewLogUsecase(logs LogRepository) *logUsecase {
	return &logUsecase{logs: logs, now: time.Now}
}

// List は検索条件に一致するログと総件数を返します。
func (u *logUsecase) List(ctx context.Context, f LogFilter) ([]entity.Log, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > MaxPageSize {
		f.Limit = DefaultPageSize
	}
	return u.logs.List(ctx, f)
}

// PurgeOld は保持期間を過ぎたログを削除し、削除件数を返します。
// retentionが0以下の場合はDefaultRetentionを使います。
func (u *logUsecase) PurgeOld(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return u.logs.PurgeBefore(ctx, u.now().Add(-retention))
}
