package jobs

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Source はジョブ状態の取得元です。*Store が実装します。
type Source interface {
	Get(ctx context.Context, jobID string) (*Record, error)
	ListActive(ctx context.Context) ([]*Record, error)
}

// ActiveDownloadsHandler は GET /active-downloads のハンドラーを返します。
func ActiveDownloadsHandler(src Source) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := src.ListActive(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "進行中のダウンロード一覧の取得に失敗しました。",
			})
			return
		}

		c.Header("Cache-Control", "no-store")
		c.JSON(http.StatusOK, BuildSnapshot(records))
	}
}

// DownloadHandler は GET /download/:id のハンドラーを返します。
func DownloadHandler(src Source) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID := c.Param("id")
		if strings.TrimSpace(jobID) == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    "INVALID_INPUT",
				"message": "jobId を指定してください。",
			})
			return
		}

		record, err := src.Get(c.Request.Context(), jobID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "ジョブ情報の取得に失敗しました。",
			})
			return
		}
		if record == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"code":    "JOB_NOT_FOUND",
				"message": "指定されたジョブは存在しません。",
			})
			return
		}

		payload := gin.H{
			"jobId":     record.JobID,
			"bookTitle": record.BookTitle,
			"status":    record.Status,
			"progress":  record.Progress,
			"updatedAt": record.UpdatedAt,
		}
		if record.Error != nil {
			payload["error"] = record.Error
		}

		c.JSON(http.StatusOK, payload)
	}
}
