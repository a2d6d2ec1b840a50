package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"marketdash/internal/feature/symbols/domain/entity"
	"marketdash/internal/feature/symbols/usecase"
)

// setupTestDB prepares an in-memory SQLite database for testing.
// TranslateError makes SQLite report unique violations as gorm.ErrDuplicatedKey.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(&entity.Symbol{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

// seedSymbol creates a test symbol in the database for testing.
func seedSymbol(t *testing.T, db *gorm.DB, code string, category entity.Category, active bool) *entity.Symbol {
	t.Helper()

	sym := &entity.Symbol{
		Code:     code,
		Name:     code + " Inc.",
		Category: category,
		IsActive: active,
	}
	err := db.Create(sym).Error
	require.NoError(t, err, "failed to seed symbol")

	return sym
}

func TestSymbolGorm_List(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewSymbolGorm(db)
	ctx := context.Background()

	seedSymbol(t, db, "AAPL", entity.CategoryStock, true)
	seedSymbol(t, db, "BTC", entity.CategoryCrypto, true)
	seedSymbol(t, db, "MSFT", entity.CategoryStock, false)

	t.Run("全件をコード順で返す", func(t *testing.T) {
		got, total, err := repo.List(ctx, usecase.SymbolFilter{Page: 1, Limit: 10})

		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, got, 3)
		assert.Equal(t, "AAPL", got[0].Code)
		assert.Equal(t, "BTC", got[1].Code)
		assert.Equal(t, "MSFT", got[2].Code)
	})

	t.Run("カテゴリで絞り込む", func(t *testing.T) {
		got, total, err := repo.List(ctx, usecase.SymbolFilter{Category: entity.CategoryStock, Page: 1, Limit: 10})

		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, got, 2)
	})

	t.Run("アクティブ状態で絞り込む", func(t *testing.T) {
		active := false
		got, total, err := repo.List(ctx, usecase.SymbolFilter{IsActive: &active, Page: 1, Limit: 10})

		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, got, 1)
		assert.Equal(t, "MSFT", got[0].Code)
	})

	t.Run("コード・名前の部分一致検索", func(t *testing.T) {
		got, total, err := repo.List(ctx, usecase.SymbolFilter{Search: "AAP", Page: 1, Limit: 10})

		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, got, 1)
		assert.Equal(t, "AAPL", got[0].Code)
	})

	t.Run("ページングは総件数を変えない", func(t *testing.T) {
		got, total, err := repo.List(ctx, usecase.SymbolFilter{Page: 2, Limit: 2})

		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, got, 1)
		assert.Equal(t, "MSFT", got[0].Code)
	})
}

func TestSymbolGorm_FindByIDAndCode(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewSymbolGorm(db)
	ctx := context.Background()

	sym := seedSymbol(t, db, "AAPL", entity.CategoryStock, true)

	got, err := repo.FindByID(ctx, sym.ID)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", got.Code)

	got, err = repo.FindByCode(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, sym.ID, got.ID)

	_, err = repo.FindByID(ctx, 9999)
	assert.ErrorIs(t, err, usecase.ErrSymbolNotFound)

	_, err = repo.FindByCode(ctx, "NOPE")
	assert.ErrorIs(t, err, usecase.ErrSymbolNotFound)
}

func TestSymbolGorm_Create_DuplicateCode(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewSymbolGorm(db)
	ctx := context.Background()

	seedSymbol(t, db, "AAPL", entity.CategoryStock, true)

	err := repo.Create(ctx, &entity.Symbol{Code: "AAPL", Name: "Duplicate", Category: entity.CategoryStock})

	assert.ErrorIs(t, err, usecase.ErrDuplicateCode)
}

func TestSymbolGorm_Update(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewSymbolGorm(db)
	ctx := context.Background()

	sym := seedSymbol(t, db, "AAPL", entity.CategoryStock, true)
	sym.Name = "Apple Inc."
	sym.IsActive = false

	err := repo.Update(ctx, sym)

	require.NoError(t, err)
	got, err := repo.FindByID(ctx, sym.ID)
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", got.Name)
	assert.False(t, got.IsActive)
}

func TestSymbolGorm_ListActive(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewSymbolGorm(db)
	ctx := context.Background()

	seedSymbol(t, db, "AAPL", entity.CategoryStock, true)
	seedSymbol(t, db, "BTC", entity.CategoryCrypto, true)
	seedSymbol(t, db, "MSFT", entity.CategoryStock, false)

	got, err := repo.ListActive(ctx, "")
	require.NoError(t, err)
	require.Len(t, got, 2, "inactive symbols are excluded")

	got, err = repo.ListActive(ctx, entity.CategoryCrypto)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "BTC", got[0].Code)
}

func TestSymbolGorm_Delete(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewSymbolGorm(db)
	ctx := context.Background()

	sym := seedSymbol(t, db, "AAPL", entity.CategoryStock, true)

	err := repo.Delete(ctx, sym.ID)

	require.NoError(t, err)
	_, err = repo.FindByID(ctx, sym.ID)
	assert.ErrorIs(t, err, usecase.ErrSymbolNotFound)
}

func TestSymbolGorm_SetActiveBulk(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewSymbolGorm(db)
	ctx := context.Background()

	a := seedSymbol(t, db, "AAPL", entity.CategoryStock, true)
	b := seedSymbol(t, db, "MSFT", entity.CategoryStock, true)
	seedSymbol(t, db, "BTC", entity.CategoryCrypto, true)

	updated, err := repo.SetActiveBulk(ctx, []uint{a.ID, b.ID, 9999}, false)

	require.NoError(t, err)
	assert.Equal(t, int64(2), updated, "unknown ids are skipped, not errors")

	got, err := repo.ListActive(ctx, "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "BTC", got[0].Code)
}
