package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"

	"github.com/Armed-Dockers/audiobook-downloader/internal/config"
	"github.com/Armed-Dockers/audiobook-downloader/internal/dom"
	"github.com/Armed-Dockers/audiobook-downloader/internal/jobs"
	"github.com/Armed-Dockers/audiobook-downloader/internal/widget"
)

func setupStore(ctx context.Context, cfg *config.Config) (*jobs.Store, *redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	redisClient := redis.NewClient(opt)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		redisClient.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return jobs.NewStore(redisClient, cfg.JobTTL()), redisClient, nil
}

// setupWidget はジョブパネルのホストページを作り、ウィジェットを結び付けます。
func setupWidget(cfg *config.Config) (*dom.Document, *widget.Widget) {
	doc := dom.NewJobsPanelDocument()
	client := jobs.NewClient(cfg.PollBaseURL(), &http.Client{Timeout: cfg.PollTimeout()})
	w := widget.Mount(doc, client, widget.Options{
		Interval: cfg.PollInterval(),
	})
	return doc, w
}

// setupStatusRoutes は /active-downloads と /download/:id を登録します。
func setupStatusRoutes(router *gin.Engine, cfg *config.Config, src jobs.Source) {
	corsConfig := cors.DefaultConfig()
	if origins := cfg.AllowedOrigins(); len(origins) > 0 {
		corsConfig.AllowOrigins = origins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{http.MethodGet}

	status := router.Group("")
	status.Use(cors.New(corsConfig))
	{
		status.GET(jobs.ActiveDownloadsPath, jobs.ActiveDownloadsHandler(src))
		status.GET("/download/:id", jobs.DownloadHandler(src))
	}
}
