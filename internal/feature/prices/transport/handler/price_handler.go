// Package handler はpricesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"marketdash/internal/feature/prices/domain/entity"
	"marketdash/internal/feature/prices/transport/http/dto"
	"marketdash/internal/feature/prices/usecase"
	symbolentity "marketdash/internal/feature/symbols/domain/entity"
	symbolusecase "marketdash/internal/feature/symbols/usecase"
	"marketdash/internal/shared/httpapi"
)

// PricesUsecase は価格データ照会のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type PricesUsecase interface {
	GetPrices(ctx context.Context, symbolID uint, limit int) ([]entity.PriceRecord, error)
	Refresh(ctx context.Context, symbolID uint, days int) (int, error)
}

// IngestUsecase は価格データ取り込みのユースケースインターフェースを定義します。
type IngestUsecase interface {
	Ingest(ctx context.Context, symbolCode string, category symbolentity.Category, preferredSource string) (*usecase.IngestResult, error)
	IngestAll(ctx context.Context, category symbolentity.Category) ([]usecase.BulkResult, error)
}

// PriceHandler は価格データのHTTPリクエストを処理します。
type PriceHandler struct {
	prices PricesUsecase
	ingest IngestUsecase
}

// NewPriceHandler は指定されたusecaseでPriceHandlerの新しいインスタンスを生成します。
func NewPriceHandler(prices PricesUsecase, ingest IngestUsecase) *PriceHandler {
	return &PriceHandler{prices: prices, ingest: ingest}
}

// GetPrices は銘柄の日次価格データを新しい順にJSONで返します。
//
// エンドポイント例:
// GET /symbols/:id/prices?limit=30
func (h *PriceHandler) GetPrices(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpapi.ErrorResponse{Error: "invalid symbol id"})
		return
	}
	// 未指定の場合はデフォルト値を使用
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	records, err := h.prices.GetPrices(c.Request.Context(), uint(id), limit)
	if err != nil {
		if errors.Is(err, symbolusecase.ErrSymbolNotFound) {
			c.JSON(http.StatusNotFound, httpapi.ErrorResponse{Error: "symbol not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, httpapi.ErrorResponse{Error: "failed to load prices"})
		return
	}

	out := make([]dto.PriceResponse, 0, len(records))
	for _, r := range records {
		out = append(out, dto.PriceResponse{
			Date:   r.DateKey(),
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,
			Source: r.Source,
		})
	}
	c.JSON(http.StatusOK, out)
}

// Refresh は銘柄の価格データを合成データで再生成します。
//
// エンドポイント例:
// POST /symbols/:id/refresh?days=30
func (h *PriceHandler) Refresh(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpapi.ErrorResponse{Error: "invalid symbol id"})
		return
	}
	days, _ := strconv.Atoi(c.DefaultQuery("days", "0"))

	count, err := h.prices.Refresh(c.Request.Context(), uint(id), days)
	if err != nil {
		if errors.Is(err, symbolusecase.ErrSymbolNotFound) {
			c.JSON(http.StatusNotFound, httpapi.ErrorResponse{Error: "symbol not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, httpapi.ErrorResponse{Error: "refresh failed"})
		return
	}
	c.JSON(http.StatusOK, dto.RefreshResponse{SymbolID: uint(id), Count: count})
}

// Ingest は1銘柄の価格データを外部プロバイダーから取り込みます。
//
// エンドポイント例:
// POST /ingest  {"symbol":"AAPL","category":"stock","source":"alphavantage"}
func (h *PriceHandler) Ingest(c *gin.Context) {
	var req dto.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpapi.ErrorResponse{Error: "invalid request"})
		return
	}

	result, err := h.ingest.Ingest(c.Request.Context(), req.Symbol, symbolentity.ParseCategory(req.Category), req.Source)
	if err != nil {
		var invalid *usecase.InvalidBatchError
		switch {
		case errors.Is(err, symbolusecase.ErrSymbolNotFound):
			c.JSON(http.StatusNotFound, httpapi.ErrorResponse{Error: "symbol not found"})
		case errors.As(err, &invalid):
			c.JSON(http.StatusUnprocessableEntity, httpapi.ErrorResponse{Error: invalid.Error()})
		case errors.Is(err, usecase.ErrNoProvider):
			c.JSON(http.StatusBadRequest, httpapi.ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusBadGateway, httpapi.ErrorResponse{Error: "ingest failed"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.IngestResponse{
		Symbol:    result.SymbolCode,
		Inserted:  result.InsertedCount,
		Source:    result.Source,
		Synthetic: result.Synthetic,
	})
}

// IngestAll は全アクティブ銘柄（またはカテゴリで絞った銘柄）を一括で取り込みます。
//
// エンドポイント例:
// POST /admin/ingest?category=crypto
func (h *PriceHandler) IngestAll(c *gin.Context) {
	category := symbolentity.Category(c.Query("category"))

	results, err := h.ingest.IngestAll(c.Request.Context(), category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpapi.ErrorResponse{Error: "bulk ingest failed"})
		return
	}

	resp := dto.BulkIngestResponse{Total: len(results), Results: make([]dto.BulkIngestItem, 0, len(results))}
	for _, r := range results {
		item := dto.BulkIngestItem{Symbol: r.SymbolCode, Inserted: r.Inserted}
		if r.Err != nil {
			item.Error = r.Err.Error()
			resp.Failed++
		}
		resp.Results = append(resp.Results, item)
	}
	c.JSON(http.StatusOK, resp)
}
