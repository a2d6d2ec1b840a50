package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketdash/internal/feature/favorites/domain/entity"
	symbolentity "marketdash/internal/feature/symbols/domain/entity"
	symbolusecase "marketdash/internal/feature/symbols/usecase"
)

// mockFavoriteRepository はFavoriteRepositoryインターフェースのモック実装です。
type mockFavoriteRepository struct {
	AddFunc    func(ctx context.Context, userID, symbolID uint) (*entity.Favorite, error)
	RemoveFunc func(ctx context.Context, userID, symbolID uint) error
	ListFunc   func(ctx context.Context, userID uint) ([]entity.Favorite, error)
	AddCalls   int
}

func (m *mockFavoriteRepository) Add(ctx context.Context, userID, symbolID uint) (*entity.Favorite, error) {
	m.AddCalls++
	if m.AddFunc != nil {
		return m.AddFunc(ctx, userID, symbolID)
	}
	return &entity.Favorite{ID: 1, UserID: userID, SymbolID: symbolID}, nil
}

func (m *mockFavoriteRepository) Remove(ctx context.Context, userID, symbolID uint) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, userID, symbolID)
	}
	return nil
}

func (m *mockFavoriteRepository) ListByUser(ctx context.Context, userID uint) ([]entity.Favorite, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID)
	}
	return nil, nil
}

// mockSymbolRepository はシンボル存在チェックに必要な部分だけを実装します。
type mockSymbolRepository struct {
	FindByIDFunc func(ctx context.Context, id uint) (*symbolentity.Symbol, error)
}

func (m *mockSymbolRepository) FindByID(ctx context.Context, id uint) (*symbolentity.Symbol, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return &symbolentity.Symbol{ID: id}, nil
}

func (m *mockSymbolRepository) List(ctx context.Context, f symbolusecase.SymbolFilter) ([]symbolentity.Symbol, int64, error) {
	return nil, 0, nil
}

func (m *mockSymbolRepository) FindByCode(ctx context.Context, code string) (*symbolentity.Symbol, error) {
	return nil, symbolusecase.ErrSymbolNotFound
}

func (m *mockSymbolRepository) Create(ctx context.Context, s *symbolentity.Symbol) error { return nil }

func (m *mockSymbolRepository) Update(ctx context.Context, s *symbolentity.Symbol) error { return nil }

func (m *mockSymbolRepository) Delete(ctx context.Context, id uint) error { return nil }

func (m *mockSymbolRepository) SetActiveBulk(ctx context.Context, ids []uint, active bool) (int64, error) {
	return 0, nil
}

func TestFavoriteUsecase_Add(t *testing.T) {
	favorites := &mockFavoriteRepository{}
	uc := NewFavoriteUsecase(favorites, &mockSymbolRepository{})

	fav, err := uc.Add(context.Background(), 1, 2)

	require.NoError(t, err)
	assert.Equal(t, uint(1), fav.UserID)
	assert.Equal(t, uint(2), fav.SymbolID)
	assert.Equal(t, 1, favorites.AddCalls)
}

func TestFavoriteUsecase_Add_SymbolNotFound(t *testing.T) {
	favorites := &mockFavoriteRepository{}
	symbols := &mockSymbolRepository{
		FindByIDFunc: func(ctx context.Context, id uint) (*symbolentity.Symbol, error) {
			return nil, symbolusecase.ErrSymbolNotFound
		},
	}
	uc := NewFavoriteUsecase(favorites, symbols)

	_, err := uc.Add(context.Background(), 1, 999)

	require.ErrorIs(t, err, symbolusecase.ErrSymbolNotFound)
	assert.Equal(t, 0, favorites.AddCalls, "nothing is added for an unknown symbol")
}

func TestFavoriteUsecase_Remove(t *testing.T) {
	favorites := &mockFavoriteRepository{
		RemoveFunc: func(ctx context.Context, userID, symbolID uint) error {
			if symbolID == 999 {
				return ErrFavoriteNotFound
			}
			return nil
		},
	}
	uc := NewFavoriteUsecase(favorites, &mockSymbolRepository{})

	assert.NoError(t, uc.Remove(context.Background(), 1, 2))
	assert.ErrorIs(t, uc.Remove(context.Background(), 1, 999), ErrFavoriteNotFound)
}

func TestFavoriteUsecase_List(t *testing.T) {
	listErr := errors.New("db is down")
	favorites := &mockFavoriteRepository{
		ListFunc: func(ctx context.Context, userID uint) ([]entity.Favorite, error) {
			if userID == 2 {
				return nil, listErr
			}
			return []entity.Favorite{{ID: 1, UserID: userID, SymbolID: 3}}, nil
		},
	}
	uc := NewFavoriteUsecase(favorites, &mockSymbolRepository{})

	got, err := uc.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 1)

	_, err = uc.List(context.Background(), 2)
	assert.ErrorIs(t, err, listErr)
}
