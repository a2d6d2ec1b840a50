// Package adapters はfavoritesフィーチャーの永続化アダプターを提供します。
package adapters

import (
	"context"

	"gorm.io/gorm"

	"marketdash/internal/feature/favorites/domain/entity"
	"marketdash/internal/feature/favorites/usecase"
)

// favoriteGorm はGORMを使用したFavoriteRepository実装です。
type favoriteGorm struct {
	db *gorm.DB
}

// favoriteGormがFavoriteRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.FavoriteRepository = (*favoriteGorm)(nil)

// NewFavoriteGorm は指定されたDB接続でfavoriteGormの新しいインスタンスを生成します。
func NewFavoriteGorm(db *gorm.DB) *favoriteGorm {
	return &favoriteGorm{db: db}
}

// Add はお気に入りを追加します。(user_id, symbol_id) の一意制約により、
// 既存の組み合わせはFirstOrCreateで既存行がそのまま返ります。
func (r *favoriteGorm) Add(ctx context.Context, userID, symbolID uint) (*entity.Favorite, error) {
	fav := entity.Favorite{UserID: userID, SymbolID: symbolID}
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND symbol_id = ?", userID, symbolID).
		FirstOrCreate(&fav).Error; err != nil {
		return nil, err
	}
	return &fav, nil
}

// Remove はお気に入りを削除します。対象が存在しない場合はErrFavoriteNotFoundを返します。
func (r *favoriteGorm) Remove(ctx context.Context, userID, symbolID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND symbol_id = ?", userID, symbolID).
		Delete(&entity.Favorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrFavoriteNotFound
	}
	return nil
}

// ListByUser はユーザーのお気に入りを銘柄情報付きで新着順に返します。
func (r *favoriteGorm) ListByUser(ctx context.Context, userID uint) ([]entity.Favorite, error) {
	var favorites []entity.Favorite
	if err := r.db.WithContext(ctx).
		Preload("Symbol").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error; err != nil {
		return nil, err
	}
	return favorites, nil
}
