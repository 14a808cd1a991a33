// Package config は環境変数から設定を読み込み、アプリケーション全体で使用する設定を提供します。
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config はアプリケーションの設定を保持する構造体です。
type Config struct {
	// サーバー設定
	Port    string // HTTPサーバーのポート番号
	GinMode string // Ginの実行モード (debug, release, test)

	// CORS設定
	CORSAllowedOrigins string // /active-downloads の CORS 許可オリジン（カンマ区切り）

	// ジョブ状態の保存先
	RedisURL         string // ジョブ状態を保持する Redis の接続URL
	JobExpireMinutes int    // ジョブ情報の有効期限（分）

	// ジョブパネル（ポーリング）設定
	ActiveDownloadsBaseURL string // ウィジェットがポーリングするAPIのベースURL（空なら自サーバー）
	PollIntervalMillis     int    // ポーリング間隔（ミリ秒）
	PollTimeoutSeconds     int    // 1回のポーリングのタイムアウト（秒、0 なら無制限）
}

// Load は環境変数から設定を読み込みます。
// .env.local ファイルが存在する場合はそこから読み込みます。
func Load() (*Config, error) {
	loadEnvFile()

	config := &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),

		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),

		RedisURL:         getEnv("REDIS_URL", "redis://127.0.0.1:6379/0"),
		JobExpireMinutes: getEnvAsInt("JOB_EXPIRE_MINUTES", 60),

		ActiveDownloadsBaseURL: getEnv("ACTIVE_DOWNLOADS_BASE_URL", ""),
		PollIntervalMillis:     getEnvAsInt("POLL_INTERVAL_MS", 2000),
		PollTimeoutSeconds:     getEnvAsInt("POLL_TIMEOUT_SECONDS", 0),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func loadEnvFile() {
	if err := godotenv.Load(".env.local"); err == nil {
		return
	}

	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	parent := filepath.Dir(cwd)
	if parent == "" || parent == cwd {
		return
	}

	_ = godotenv.Load(filepath.Join(parent, ".env.local"))
}

// Validate は設定の妥当性を検証します。
func (c *Config) Validate() error {
	if c.PollIntervalMillis <= 0 {
		return fmt.Errorf("POLL_INTERVAL_MS must be positive, got %d", c.PollIntervalMillis)
	}
	if c.PollTimeoutSeconds < 0 {
		return fmt.Errorf("POLL_TIMEOUT_SECONDS must not be negative, got %d", c.PollTimeoutSeconds)
	}

	// 本番環境では保存先を明示させる
	if c.GinMode == "release" {
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required in release mode")
		}
	}

	return nil
}

// PollInterval はポーリング間隔を time.Duration で返します。
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMillis) * time.Millisecond
}

// PollTimeout は1回のポーリングのタイムアウトを返します（0 は無制限）。
func (c *Config) PollTimeout() time.Duration {
	return time.Duration(c.PollTimeoutSeconds) * time.Second
}

// JobTTL はジョブ情報の有効期限を返します。
func (c *Config) JobTTL() time.Duration {
	minutes := c.JobExpireMinutes
	if minutes <= 0 {
		minutes = 60
	}
	return time.Duration(minutes) * time.Minute
}

// PollBaseURL はウィジェットが叩くベースURLを返します。
// 未設定の場合は自サーバーのループバックアドレスを使います。
func (c *Config) PollBaseURL() string {
	if c.ActiveDownloadsBaseURL != "" {
		return strings.TrimRight(c.ActiveDownloadsBaseURL, "/")
	}
	return "http://127.0.0.1:" + c.Port
}

// AllowedOrigins は CORS 許可オリジンを配列で返します。
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.CORSAllowedOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します。
func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt は環境変数を整数として取得します。
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
