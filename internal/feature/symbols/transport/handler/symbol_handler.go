// Package handler はsymbolsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"marketdash/internal/feature/symbols/domain/entity"
	"marketdash/internal/feature/symbols/transport/http/dto"
	"marketdash/internal/feature/symbols/usecase"
	"marketdash/internal/shared/httpapi"
)

// SymbolUsecase は銘柄管理のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type SymbolUsecase interface {
	List(ctx context.Context, f usecase.SymbolFilter) ([]entity.Symbol, int64, error)
	Get(ctx context.Context, id uint) (*usecase.SymbolDetail, error)
	Create(ctx context.Context, s *entity.Symbol) error
	Update(ctx context.Context, s *entity.Symbol) error
	Delete(ctx context.Context, id uint) error
	SetActiveBulk(ctx context.Context, ids []uint, active bool) (int64, error)
	Search(ctx context.Context, query string, category entity.Category) ([]usecase.SearchResult, error)
}

// SymbolHandler は銘柄管理のHTTPリクエストを処理します。
type SymbolHandler struct {
	uc SymbolUsecase
}

// NewSymbolHandler は指定されたusecaseでSymbolHandlerの新しいインスタンスを生成します。
func NewSymbolHandler(uc SymbolUsecase) *SymbolHandler {
	return &SymbolHandler{uc: uc}
}

// List は銘柄一覧をページング付きで返します。
//
// エンドポイント例:
// GET /symbols?search=BTC&category=crypto&is_active=true&page=1&limit=20
func (h *SymbolHandler) List(c *gin.Context) {
	f := usecase.SymbolFilter{
		Search:   c.Query("search"),
		Category: entity.Category(c.Query("category")),
	}
	if v := c.Query("is_active"); v != "" {
		active := v == "true"
		f.IsActive = &active
	}
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "0"))

	symbols, total, err := h.uc.List(c.Request.Context(), f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpapi.ErrorResponse{Error: "failed to list symbols"})
		return
	}

	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > usecase.MaxPageSize {
		f.Limit = usecase.DefaultPageSize
	}
	resp := dto.SymbolListResponse{
		Symbols: make([]dto.SymbolResponse, 0, len(symbols)),
		Total:   total,
		Page:    f.Page,
		Limit:   f.Limit,
	}
	for _, s := range symbols {
		resp.Symbols = append(resp.Symbols, toSymbolResponse(s))
	}
	c.JSON(http.StatusOK, resp)
}

// Get は銘柄の詳細を価格データ件数付きで返します。
//
// エンドポイント例:
// GET /symbols/:id
func (h *SymbolHandler) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	detail, err := h.uc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrSymbolNotFound) {
			c.JSON(http.StatusNotFound, httpapi.ErrorResponse{Error: "symbol not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, httpapi.ErrorResponse{Error: "failed to load symbol"})
		return
	}
	c.JSON(http.StatusOK, dto.SymbolDetailResponse{
		SymbolResponse: toSymbolResponse(detail.Symbol),
		PriceCount:     detail.PriceCount,
	})
}

// Create は新しい銘柄を登録します。コード重複時は409を返します。
//
// エンドポイント例:
// POST /symbols
func (h *SymbolHandler) Create(c *gin.Context) {
	var req dto.CreateSymbolReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpapi.ErrorResponse{Error: "invalid request"})
		return
	}

	sym := entity.Symbol{
		Code:        req.Code,
		Name:        req.Name,
		Category:    entity.ParseCategory(req.Category),
		IsActive:    true,
		Description: req.Description,
	}
	if err := h.uc.Create(c.Request.Context(), &sym); err != nil {
		if errors.Is(err, usecase.ErrDuplicateCode) {
			c.JSON(http.StatusConflict, httpapi.ErrorResponse{Error: "symbol code already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, httpapi.ErrorResponse{Error: "failed to create symbol"})
		return
	}
	c.JSON(http.StatusCreated, toSymbolResponse(sym))
}

// Update は銘柄を更新します。
//
// エンドポイント例:
// PUT /symbols/:id
func (h *SymbolHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.UpdateSymbolReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpapi.ErrorResponse{Error: "invalid request"})
		return
	}

	sym := entity.Symbol{
		ID:          id,
		Code:        req.Code,
		Name:        req.Name,
		Category:    entity.ParseCategory(req.Category),
		IsActive:    true,
		Description: req.Description,
	}
	if req.IsActive != nil {
		sym.IsActive = *req.IsActive
	}
	if err := h.uc.Update(c.Request.Context(), &sym); err != nil {
		switch {
		case errors.Is(err, usecase.ErrSymbolNotFound):
			c.JSON(http.StatusNotFound, httpapi.ErrorResponse{Error: "symbol not found"})
		case errors.Is(err, usecase.ErrDuplicateCode):
			c.JSON(http.StatusConflict, httpapi.ErrorResponse{Error: "symbol code already exists"})
		default:
			c.JSON(http.StatusInternalServerError, httpapi.ErrorResponse{Error: "failed to update symbol"})
		}
		return
	}
	c.JSON(http.StatusOK, toSymbolResponse(sym))
}

// Delete は銘柄を削除します。価格データが残っている場合は409を返します。
//
// エンドポイント例:
// DELETE /symbols/:id
func (h *SymbolHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.uc.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, usecase.ErrSymbolNotFound):
			c.JSON(http.StatusNotFound, httpapi.ErrorResponse{Error: "symbol not found"})
		case errors.Is(err, usecase.ErrSymbolHasPrices):
			c.JSON(http.StatusConflict, httpapi.ErrorResponse{Error: "symbol still has price data"})
		default:
			c.JSON(http.StatusInternalServerError, httpapi.ErrorResponse{Error: "failed to delete symbol"})
		}
		return
	}
	c.JSON(http.StatusOK, httpapi.MessageResponse{Message: "ok"})
}

// SetActiveBulk は複数銘柄のアクティブ状態を一括更新します。
//
// エンドポイント例:
// PATCH /symbols/active  {"ids":[1,2,3],"is_active":false}
func (h *SymbolHandler) SetActiveBulk(c *gin.Context) {
	var req dto.BulkActiveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpapi.ErrorResponse{Error: "invalid request"})
		return
	}
	updated, err := h.uc.SetActiveBulk(c.Request.Context(), req.IDs, req.IsActive)
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpapi.ErrorResponse{Error: "failed to update symbols"})
		return
	}
	c.JSON(http.StatusOK, dto.BulkActiveResponse{Updated: updated})
}

// Search は外部プロバイダーで銘柄候補を検索します。
//
// エンドポイント例:
// GET /search/symbols?q=apple&category=stock
func (h *SymbolHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, httpapi.ErrorResponse{Error: "query parameter q is required"})
		return
	}
	results, err := h.uc.Search(c.Request.Context(), query, entity.Category(c.Query("category")))
	if err != nil {
		c.JSON(http.StatusBadGateway, httpapi.ErrorResponse{Error: "search failed"})
		return
	}

	out := make([]dto.SearchResultResponse, 0, len(results))
	for _, r := range results {
		out = append(out, dto.SearchResultResponse{
			Symbol:   r.Symbol,
			Name:     r.Name,
			Category: string(r.Category),
			Region:   r.Region,
			Exchange: r.Exchange,
		})
	}
	c.JSON(http.StatusOK, out)
}

func toSymbolResponse(s entity.Symbol) dto.SymbolResponse {
	return dto.SymbolResponse{
		ID:          s.ID,
		Code:        s.Code,
		Name:        s.Name,
		Category:    string(s.Category),
		IsActive:    s.IsActive,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpapi.ErrorResponse{Error: "invalid symbol id"})
		return 0, false
	}
	return uint(id), true
}
