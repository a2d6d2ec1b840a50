// Package handler はapilogフィーチャーの管理者向けHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"marketdash/internal/feature/apilog/domain/entity"
	"marketdash/internal/feature/apilog/usecase"
	"marketdash/internal/shared/httpapi"
)

// LogUsecase はAPIログ照会のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type LogUsecase interface {
	List(ctx context.Context, f usecase.LogFilter) ([]entity.Log, int64, error)
	PurgeOld(ctx context.Context, retention time.Duration) (int64, error)
}

// LogHandler はAPIログのHTTPリクエストを処理します。
type LogHandler struct {
	uc LogUsecase
}

// NewLogHandler は指定されたusecaseでLogHandlerの新しいインスタンスを生成します。
func NewLogHandler(uc LogUsecase) *LogHandler {
	return &LogHandler{uc: uc}
}

// List は検索条件に一致するAPIログを新着順に返します。
//
// エンドポイント例:
// GET /admin/logs?endpoint=ingest&status=error&page=1&limit=50
func (h *LogHandler) List(c *gin.Context) {
	f := usecase.LogFilter{
		Endpoint: c.Query("endpoint"),
		Status:   c.Query("status"),
	}
	if v := c.Query("since"); v != "" {
		since, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpapi.ErrorResponse{Error: "since must be RFC3339"})
			return
		}
		f.Since = since
	}
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "0"))

	logs, total, err := h.uc.List(c.Request.Context(), f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpapi.ErrorResponse{Error: "failed to list logs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs, "total": total})
}

// Purge は保持期間を過ぎたAPIログを削除します。
//
// エンドポイント例:
// DELETE /admin/logs?retention_days=30
func (h *LogHandler) Purge(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("retention_days", "0"))

	deleted, err := h.uc.PurgeOld(c.Request.Context(), time.Duration(days)*24*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpapi.ErrorResponse{Error: "failed to purge logs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
