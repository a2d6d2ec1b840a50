// Package usecase はfavoritesフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"

	"marketdash/internal/feature/favorites/domain/entity"
	symbolusecase "marketdash/internal/feature/symbols/usecase"
)

// ErrFavoriteNotFound は指定されたお気に入りが存在しないことを示します。
var ErrFavoriteNotFound = errors.New("favorite not found")

// FavoriteRepository はお気に入りの永続化層を抽象化します。
type FavoriteRepository interface {
	// Add は追加し、既に存在する場合は既存の行を返します（冪等）。
	Add(ctx context.Context, userID, symbolID uint) (*entity.Favorite, error)
	Remove(ctx context.Context, userID, symbolID uint) error
	ListByUser(ctx context.Context, userID uint) ([]entity.Favorite, error)
}

// favoriteUsecase はお気に入りの追加・削除・一覧を提供します。
type favoriteUsecase struct {
	favorites FavoriteRepository
	symbols   symbolusecase.SymbolRepository
}

// NewFavoriteUsecase はfavoriteUsecaseの新しいインスタンスを生成します。
func NewFavoriteUsecase(favorites FavoriteRepository, symbols symbolusecase.SymbolRepository) *favoriteUsecase {
	return &favoriteUsecase{favorites: favorites, symbols: symbols}
}

// Add はお気に入りを追加します。既に登録済みの場合もエラーにはせず、
// 既存の行を返します。
func (u *favoriteUsecase) Add(ctx context.Context, userID, symbolID uint) (*entity.Favorite, error) {
	if _, err := u.symbols.FindByID(ctx, symbolID); err != nil {
		return nil, err
	}
	return u.favorites.Add(ctx, userID, symbolID)
}

// Remove はお気に入りを削除します。
func (u *favoriteUsecase) Remove(ctx context.Context, userID, symbolID uint) error {
	return u.favorites.Remove(ctx, userID, symbolID)
}

// List はユーザーのお気に入り一覧を銘柄情報付きで返します。
func (u *favoriteUsecase) List(ctx context.Context, userID uint) ([]entity.Favorite, error) {
	return u.favorites.ListByUser(ctx, userID)
}
