// Package config 由環境變數 (與選用的 YAML 檔) 載入服務設定。
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DatabaseURL   string `mapstructure:"database_url"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	WorkerCount   int    `mapstructure:"worker_count"`

	HTTPAddr        string `mapstructure:"http_addr"`
	LogLevel        string `mapstructure:"log_level"`
	LogFormat       string `mapstructure:"log_format"`
	PublicBaseURL   string `mapstructure:"public_base_url"`
	SuccessRedirect string `mapstructure:"success_redirect"`
	CookieSecure    bool   `mapstructure:"cookie_secure"`

	Apple AppleConfig `mapstructure:",squash"`
}

// AppleConfig 缺少憑證時服務仍可啟動，直到第一次簽署 client assertion 才會失敗
type AppleConfig struct {
	TeamID          string        `mapstructure:"apple_team_id"`
	ClientID        string        `mapstructure:"apple_client_id"`
	KeyID           string        `mapstructure:"apple_key_id"`
	PrivateKey      string        `mapstructure:"apple_private_key"`
	VerifySignature bool          `mapstructure:"apple_verify_signature"`
	ExchangeTimeout time.Duration `mapstructure:"apple_exchange_timeout"`
}

var defaults = map[string]any{
	"database_url":           "",
	"redis_addr":             "",
	"redis_password":         "",
	"redis_db":               0,
	"worker_count":           runtime.NumCPU(),
	"http_addr":              ":8080",
	"log_level":              "info",
	"log_format":             "console",
	"public_base_url":        "http://localhost:8080",
	"success_redirect":       "/",
	"cookie_secure":          true,
	"apple_team_id":          "",
	"apple_client_id":        "",
	"apple_key_id":           "",
	"apple_private_key":      "",
	"apple_verify_signature": false,
	"apple_exchange_timeout": "10s",
}

// Load 讀取設定；CONFIG_FILE 指向的 YAML 會被環境變數覆寫
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if file := v.GetString("config_file"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("讀取設定檔 %s 失敗: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析設定失敗: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("環境變數 DATABASE_URL 未設定")
	}
	if c.RedisAddr == "" {
		return fmt.Errorf("環境變數 REDIS_ADDR 未設定")
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("無效的 WORKER_COUNT: %d", c.WorkerCount)
	}
	if c.RedisDB < 0 {
		return fmt.Errorf("無效的 REDIS_DB: %d", c.RedisDB)
	}
	return nil
}
