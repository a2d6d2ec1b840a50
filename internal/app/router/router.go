package router

import (
	"github.com/gin-gonic/gin"

	apiloghandler "marketdash/internal/feature/apilog/transport/handler"
	authhandler "marketdash/internal/feature/auth/transport/handler"
	favoritehandler "marketdash/internal/feature/favorites/transport/handler"
	pricehandler "marketdash/internal/feature/prices/transport/handler"
	symbolhandler "marketdash/internal/feature/symbols/transport/handler"
	"marketdash/internal/platform/http/handler"
	jwtmw "marketdash/internal/platform/jwt"
)

// Handlers はルーターに登録する全ハンドラーをまとめます。
type Handlers struct {
	Auth      *authhandler.AuthHandler
	Symbols   *symbolhandler.SymbolHandler
	Prices    *pricehandler.PriceHandler
	Favorites *favoritehandler.FavoriteHandler
	Logs      *apiloghandler.LogHandler
}

// NewRouter は全エンドポイントを登録したginエンジンを返します。
func NewRouter(h Handlers) *gin.Engine {
	r := gin.Default()

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)
	// 新規ユーザー登録
	r.POST("/signup", h.Auth.Signup)
	// ログイン（JWT 発行）
	r.POST("/login", h.Auth.Login)

	// 認証必須のルート
	// jwtmw.AuthRequired() ミドルウェアを適用
	// → リクエストヘッダーに JWT が必要になる
	auth := r.Group("/")
	auth.Use(jwtmw.AuthRequired())
	{
		// 銘柄照会
		auth.GET("/symbols", h.Symbols.List)
		auth.GET("/symbols/:id", h.Symbols.Get)
		auth.GET("/symbols/:id/prices", h.Prices.GetPrices)
		// 外部プロバイダー検索（検索補助付き登録用）
		auth.GET("/search/symbols", h.Symbols.Search)
		// お気に入り
		auth.GET("/favorites", h.Favorites.List)
		auth.POST("/favorites", h.Favorites.Add)
		auth.DELETE("/favorites/:symbolId", h.Favorites.Remove)
	}

	// 管理者のみのルート
	admin := r.Group("/")
	admin.Use(jwtmw.AuthRequired(), jwtmw.AdminRequired())
	{
		// 銘柄管理
		admin.POST("/symbols", h.Symbols.Create)
		admin.PUT("/symbols/:id", h.Symbols.Update)
		admin.DELETE("/symbols/:id", h.Symbols.Delete)
		admin.PATCH("/symbols/active", h.Symbols.SetActiveBulk)
		// 価格データの取り込みと再生成
		admin.POST("/ingest", h.Prices.Ingest)
		admin.POST("/admin/ingest", h.Prices.IngestAll)
		admin.POST("/symbols/:id/refresh", h.Prices.Refresh)
		// APIログ
		admin.GET("/admin/logs", h.Logs.List)
		admin.DELETE("/admin/logs", h.Logs.Purge)
	}

	return r
}
