package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"marketdash/internal/app/di"
	apilogadapters "marketdash/internal/feature/apilog/adapters"
	priceadapters "marketdash/internal/feature/prices/adapters"
	"marketdash/internal/feature/prices/normalize"
	"marketdash/internal/feature/prices/usecase"
	symboladapters "marketdash/internal/feature/symbols/adapters"
	symbolentity "marketdash/internal/feature/symbols/domain/entity"
	infradb "marketdash/internal/platform/db"
	"marketdash/internal/shared/ratelimiter"
)

func main() {
	categoryFlag := flag.String("category", "", "limit the run to one category (stock/crypto/forex/index)")
	flag.Parse()

	category, err := parseCategoryFlag(*categoryFlag)
	if err != nil {
		slog.Error("invalid -category flag", "error", err)
		os.Exit(1)
	}

	_ = godotenv.Load()

	db, err := infradb.OpenDB()
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	priceRepo := priceadapters.NewPriceRepository(db)
	symbolRepo := symboladapters.NewSymbolGorm(db)
	logRepo := apilogadapters.NewApilogGorm(db)

	rl := ratelimiter.NewRateLimiter(5, time.Minute)
	uc := usecase.NewIngestUsecase(di.NewMarketSources(), normalize.DefaultRegistry(),
		priceRepo, symbolRepo, logRepo, rl)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	results, err := uc.IngestAll(ctx, category)
	if err != nil {
		slog.Error("ingest failed", "error", err)
		os.Exit(1)
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			slog.Error("symbol ingest failed", "symbol", r.SymbolCode, "error", r.Err)
		}
	}
	slog.Info("ingest finished", "total", len(results), "failed", failed)
	if failed > 0 {
		os.Exit(1)
	}
}

// parseCategoryFlag は-categoryフラグの値を検証します。未知の値は対象0件の
// まま正常終了してしまうため、変換せず拒否します。空文字列は全カテゴリです。
func parseCategoryFlag(s string) (symbolentity.Category, error) {
	if s == "" {
		return "", nil
	}
	cat := symbolentity.Category(s)
	if symbolentity.ParseCategory(s) != cat {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return cat, nil
}
