package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"marketdash/internal/feature/favorites/domain/entity"
	"marketdash/internal/feature/favorites/usecase"
	symbolentity "marketdash/internal/feature/symbols/domain/entity"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(&symbolentity.Symbol{}, &entity.Favorite{})
	require.NoError(t, err, "failed to migrate tables")

	return db
}

// seedSymbol creates a test symbol in the database for testing.
func seedSymbol(t *testing.T, db *gorm.DB, code string) *symbolentity.Symbol {
	t.Helper()

	sym := &symbolentity.Symbol{Code: code, Name: code + " Inc.", Category: symbolentity.CategoryStock, IsActive: true}
	err := db.Create(sym).Error
	require.NoError(t, err, "failed to seed symbol")

	return sym
}

func TestFavoriteGorm_Add_Idempotent(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewFavoriteGorm(db)
	ctx := context.Background()

	sym := seedSymbol(t, db, "AAPL")

	first, err := repo.Add(ctx, 1, sym.ID)
	require.NoError(t, err)
	require.NotZero(t, first.ID)

	second, err := repo.Add(ctx, 1, sym.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "re-adding returns the existing row")

	var count int64
	require.NoError(t, db.Model(&entity.Favorite{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFavoriteGorm_Remove(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewFavoriteGorm(db)
	ctx := context.Background()

	sym := seedSymbol(t, db, "AAPL")
	_, err := repo.Add(ctx, 1, sym.ID)
	require.NoError(t, err)

	err = repo.Remove(ctx, 1, sym.ID)
	require.NoError(t, err)

	err = repo.Remove(ctx, 1, sym.ID)
	assert.ErrorIs(t, err, usecase.ErrFavoriteNotFound, "removing twice reports not found")
}

func TestFavoriteGorm_ListByUser(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewFavoriteGorm(db)
	ctx := context.Background()

	aapl := seedSymbol(t, db, "AAPL")
	btc := seedSymbol(t, db, "BTC")

	// created_at降順を固定するため明示的に時刻をずらして作成する
	older := entity.Favorite{UserID: 1, SymbolID: aapl.ID, CreatedAt: time.Now().Add(-time.Hour)}
	require.NoError(t, db.Create(&older).Error)
	newer := entity.Favorite{UserID: 1, SymbolID: btc.ID, CreatedAt: time.Now()}
	require.NoError(t, db.Create(&newer).Error)
	other := entity.Favorite{UserID: 2, SymbolID: aapl.ID, CreatedAt: time.Now()}
	require.NoError(t, db.Create(&other).Error)

	got, err := repo.ListByUser(ctx, 1)

	require.NoError(t, err)
	require.Len(t, got, 2, "other users' favorites are excluded")
	assert.Equal(t, "BTC", got[0].Symbol.Code, "newest first, symbol preloaded")
	assert.Equal(t, "AAPL", got[1].Symbol.Code)
}
