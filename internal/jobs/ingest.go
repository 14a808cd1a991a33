package jobs

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Recorder はダウンローダーからの進捗報告を保存します。*Store が実装します。
type Recorder interface {
	Upsert(ctx context.Context, record *Record) error
	UpdateProgress(ctx context.Context, jobID string, current, total int, message string) error
	MarkDone(ctx context.Context, jobID string, message string) error
	MarkFailed(ctx context.Context, jobID string, errInfo *ErrorInfo) error
}

type createRequest struct {
	JobID     string `json:"job_id"`
	BookTitle string `json:"book_title" binding:"required"`
	Total     int    `json:"total" binding:"min=0"`
	Message   string `json:"message"`
}

type progressRequest struct {
	Current int    `json:"current" binding:"min=0"`
	Total   int    `json:"total" binding:"min=0"`
	Message string `json:"message"`
}

type doneRequest struct {
	Message string `json:"message"`
}

type failedRequest struct {
	Code    string `json:"code"`
	Message string `json:"message" binding:"required"`
}

func invalidInput(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"code":    "INVALID_INPUT",
		"message": message,
	})
}

func respondUpdateError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    "JOB_NOT_FOUND",
			"message": "指定されたジョブは存在しません。",
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"code":    "INTERNAL_ERROR",
		"message": "ジョブ情報の更新に失敗しました。",
	})
}

// CreateHandler は POST /downloads のハンドラーを返します。
func CreateHandler(rec Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.BookTitle) == "" {
			invalidInput(c, "book_title を JSON で送ってください。")
			return
		}

		record := &Record{
			JobID:     strings.TrimSpace(req.JobID),
			BookTitle: req.BookTitle,
			Status:    StatusQueued,
			Progress: ProgressInfo{
				Total:   req.Total,
				Message: req.Message,
			},
		}
		if err := rec.Upsert(c.Request.Context(), record); err != nil {
			respondUpdateError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"jobId": record.JobID})
	}
}

// ProgressHandler は POST /downloads/:id/progress のハンドラーを返します。
func ProgressHandler(rec Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req progressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			invalidInput(c, "current と total を JSON で送ってください。")
			return
		}
		if err := rec.UpdateProgress(c.Request.Context(), c.Param("id"), req.Current, req.Total, req.Message); err != nil {
			respondUpdateError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// DoneHandler は POST /downloads/:id/done のハンドラーを返します。
func DoneHandler(rec Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req doneRequest
		// 本文は省略可能
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				invalidInput(c, "本文は JSON で送ってください。")
				return
			}
		}
		if err := rec.MarkDone(c.Request.Context(), c.Param("id"), req.Message); err != nil {
			respondUpdateError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// FailedHandler は POST /downloads/:id/failed のハンドラーを返します。
func FailedHandler(rec Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req failedRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			invalidInput(c, "message を JSON で送ってください。")
			return
		}
		code := req.Code
		if code == "" {
			code = "DOWNLOAD_FAILED"
		}
		if err := rec.MarkFailed(c.Request.Context(), c.Param("id"), &ErrorInfo{Code: code, Message: req.Message}); err != nil {
			respondUpdateError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// RegisterIngestRoutes はダウンローダー向けの書き込みルートを登録します。
func RegisterIngestRoutes(router gin.IRouter, rec Recorder) {
	downloads := router.Group("/downloads")
	{
		downloads.POST("", CreateHandler(rec))
		downloads.POST("/:id/progress", ProgressHandler(rec))
		downloads.POST("/:id/done", DoneHandler(rec))
		downloads.POST("/:id/failed", FailedHandler(rec))
	}
}
