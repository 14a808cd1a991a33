// Package main はジョブパネルとダウンロード状態APIを提供するサーバーのエントリーポイントです。
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Armed-Dockers/audiobook-downloader/internal/config"
	"github.com/Armed-Dockers/audiobook-downloader/internal/jobs"
	"github.com/Armed-Dockers/audiobook-downloader/internal/widget"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, redisClient, err := setupStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to set up job store: %v", err)
	}
	defer redisClient.Close()

	gin.SetMode(cfg.GinMode)
	router := gin.Default()
	router.GET("/health", handleHealth)
	setupStatusRoutes(router, cfg, store)
	jobs.RegisterIngestRoutes(router, store)

	doc, jobsWidget := setupWidget(cfg)
	widget.RegisterRoutes(router, doc, refreshSeconds(cfg.PollInterval()))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Starting server on %s (mode: %s)", srv.Addr, cfg.GinMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// ポーリングはサーバーの寿命と同じだけ続ける
	log.Printf("Polling %s every %v", cfg.PollBaseURL(), cfg.PollInterval())
	go jobsWidget.Run(ctx)

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown failed: %v", err)
	}
}

// handleHealth はヘルスチェックエンドポイントのハンドラーです。
func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "audiobook-downloader-jobs",
		"version": "0.1.0",
	})
}

// refreshSeconds はページの自動再読み込み間隔（秒）です。ポーリング間隔を切り上げます。
func refreshSeconds(interval time.Duration) int {
	seconds := int((interval + time.Second - 1) / time.Second)
	if seconds < 1 {
		return 1
	}
	return seconds
}
