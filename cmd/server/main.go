package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"marketdash/internal/app/di"
	"marketdash/internal/app/router"
	apilogadapters "marketdash/internal/feature/apilog/adapters"
	apiloghandler "marketdash/internal/feature/apilog/transport/handler"
	apilogusecase "marketdash/internal/feature/apilog/usecase"
	authadapters "marketdash/internal/feature/auth/adapters"
	authhandler "marketdash/internal/feature/auth/transport/handler"
	authusecase "marketdash/internal/feature/auth/usecase"
	favoriteadapters "marketdash/internal/feature/favorites/adapters"
	favoritehandler "marketdash/internal/feature/favorites/transport/handler"
	favoriteusecase "marketdash/internal/feature/favorites/usecase"
	priceadapters "marketdash/internal/feature/prices/adapters"
	"marketdash/internal/feature/prices/normalize"
	pricehandler "marketdash/internal/feature/prices/transport/handler"
	priceusecase "marketdash/internal/feature/prices/usecase"
	symboladapters "marketdash/internal/feature/symbols/adapters"
	symbolhandler "marketdash/internal/feature/symbols/transport/handler"
	symbolusecase "marketdash/internal/feature/symbols/usecase"
	"marketdash/internal/platform/cache"
	infradb "marketdash/internal/platform/db"
	jwtmw "marketdash/internal/platform/jwt"
	infraredis "marketdash/internal/platform/redis"
	"marketdash/internal/shared/ratelimiter"
)

func main() {
	// .envがあれば読み込む（本番では環境変数をそのまま使う）
	_ = godotenv.Load()

	// db
	db, err := infradb.OpenDB()
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		slog.Warn("Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// Repository
	userRepo := authadapters.NewUserGorm(db)
	symbolRepo := symboladapters.NewSymbolGorm(db)
	priceRepo := priceadapters.NewPriceRepository(db)
	favoriteRepo := favoriteadapters.NewFavoriteGorm(db)
	logRepo := apilogadapters.NewApilogGorm(db)

	// Redisキャッシュでラップ（日次データなのでUTC日付の切り替わりまで）
	ttl := cache.TimeUntilNextMidnightUTC()
	cachedPriceRepo := cache.NewCachingPriceRepository(rdb, ttl, priceRepo, "prices")

	// Usecase
	jwtGen := jwtmw.NewGenerator(os.Getenv(jwtmw.EnvKeyJWTSecret), 24*time.Hour)
	authUC := authusecase.NewAuthUsecase(userRepo, jwtGen)
	symbolUC := symbolusecase.NewSymbolUsecase(symbolRepo, priceRepo, di.NewAlphaVantage())
	pricesUC := priceusecase.NewPricesUsecase(cachedPriceRepo, symbolRepo)
	favoriteUC := favoriteusecase.NewFavoriteUsecase(favoriteRepo, symbolRepo)
	logUC := apilogusecase.NewLogUsecase(logRepo)

	rl := ratelimiter.NewRateLimiter(5, time.Minute)
	ingestUC := priceusecase.NewIngestUsecase(di.NewMarketSources(), normalize.DefaultRegistry(),
		cachedPriceRepo, symbolRepo, logRepo, rl)

	// Handler
	handlers := router.Handlers{
		Auth:      authhandler.NewAuthHandler(authUC),
		Symbols:   symbolhandler.NewSymbolHandler(symbolUC),
		Prices:    pricehandler.NewPriceHandler(pricesUC, ingestUC),
		Favorites: favoritehandler.NewFavoriteHandler(favoriteUC),
		Logs:      apiloghandler.NewLogHandler(logUC),
	}

	// ルータ生成
	r := router.NewRouter(handlers)

	// JWT_SECRETチェック（開発中の注意喚起）
	if os.Getenv(jwtmw.EnvKeyJWTSecret) == "" {
		slog.Warn("JWT_SECRET is not set. Set a strong secret in production.")
	}

	if err := r.Run(":8080"); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
