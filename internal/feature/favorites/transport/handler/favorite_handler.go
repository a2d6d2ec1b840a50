// Package handler はfavoritesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"marketdash/internal/feature/favorites/domain/entity"
	"marketdash/internal/feature/favorites/transport/http/dto"
	"marketdash/internal/feature/favorites/usecase"
	symbolusecase "marketdash/internal/feature/symbols/usecase"
	jwtmw "marketdash/internal/platform/jwt"
	"marketdash/internal/shared/httpapi"
)

// FavoriteUsecase はお気に入り操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type FavoriteUsecase interface {
	Add(ctx context.Context, userID, symbolID uint) (*entity.Favorite, error)
	Remove(ctx context.Context, userID, symbolID uint) error
	List(ctx context.Context, userID uint) ([]entity.Favorite, error)
}

// FavoriteHandler はお気に入りのHTTPリクエストを処理します。
type FavoriteHandler struct {
	uc FavoriteUsecase
}

// NewFavoriteHandler は指定されたusecaseでFavoriteHandlerの新しいインスタンスを生成します。
func NewFavoriteHandler(uc FavoriteUsecase) *FavoriteHandler {
	return &FavoriteHandler{uc: uc}
}

// List は認証済みユーザーのお気に入り一覧を返します。
//
// エンドポイント例:
// GET /favorites
func (h *FavoriteHandler) List(c *gin.Context) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, httpapi.ErrorResponse{Error: "unauthorized"})
		return
	}

	favorites, err := h.uc.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpapi.ErrorResponse{Error: "failed to list favorites"})
		return
	}

	out := make([]dto.FavoriteResponse, 0, len(favorites))
	for _, f := range favorites {
		out = append(out, toFavoriteResponse(f))
	}
	c.JSON(http.StatusOK, out)
}

// Add はお気に入りを追加します。既に登録済みでも200を返します（冪等）。
//
// エンドポイント例:
// POST /favorites  {"symbol_id":1}
func (h *FavoriteHandler) Add(c *gin.Context) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, httpapi.ErrorResponse{Error: "unauthorized"})
		return
	}

	var req dto.FavoriteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpapi.ErrorResponse{Error: "invalid request"})
		return
	}

	fav, err := h.uc.Add(c.Request.Context(), userID, req.SymbolID)
	if err != nil {
		if errors.Is(err, symbolusecase.ErrSymbolNotFound) {
			c.JSON(http.StatusNotFound, httpapi.ErrorResponse{Error: "symbol not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, httpapi.ErrorResponse{Error: "failed to add favorite"})
		return
	}
	c.JSON(http.StatusOK, toFavoriteResponse(*fav))
}

// Remove はお気に入りを削除します。
//
// エンドポイント例:
// DELETE /favorites/:symbolId
func (h *FavoriteHandler) Remove(c *gin.Context) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, httpapi.ErrorResponse{Error: "unauthorized"})
		return
	}

	symbolID, err := strconv.ParseUint(c.Param("symbolId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpapi.ErrorResponse{Error: "invalid symbol id"})
		return
	}

	if err := h.uc.Remove(c.Request.Context(), userID, uint(symbolID)); err != nil {
		if errors.Is(err, usecase.ErrFavoriteNotFound) {
			c.JSON(http.StatusNotFound, httpapi.ErrorResponse{Error: "favorite not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, httpapi.ErrorResponse{Error: "failed to remove favorite"})
		return
	}
	c.JSON(http.StatusOK, httpapi.MessageResponse{Message: "ok"})
}

func toFavoriteResponse(f entity.Favorite) dto.FavoriteResponse {
	return dto.FavoriteResponse{
		ID:           f.ID,
		SymbolID:     f.SymbolID,
		SymbolCode:   f.Symbol.Code,
		SymbolName:   f.Symbol.Name,
		Category:     string(f.Symbol.Category),
		RegisteredAt: f.CreatedAt,
	}
}
