// File: cmd/service/main.go
// @title        Starter Auth API
// @version      1.0
// @description  密碼登入、server-side session 與 Sign in with Apple 的後端 API 文件
// @host         localhost:8080
// @BasePath     /api
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"starter-auth/internal/apple"
	"starter-auth/internal/cache"
	"starter-auth/internal/config"
	"starter-auth/internal/database"
	"starter-auth/internal/handler/auth"
	"starter-auth/internal/logger"
	"starter-auth/internal/router"
	"starter-auth/internal/service"
	"starter-auth/internal/store"
	"starter-auth/internal/worker"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	_ "starter-auth/docs" // 引入 swag 產出的 docs
)

// CustomValidator wraps go-playground/validator for Echo
// swagger:ignore
type CustomValidator struct {
	validator *validator.Validate
}

// Validate calls the underlying validator
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

var (
	loadConfig      = config.Load
	newLogger       = logger.New
	newPgxPool      = database.NewPgxPool
	newRedisClient  = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	startServer     = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	newWorkerPool   = worker.NewPool
	exitFunc        = os.Exit
)

// newEcho 建立 Echo 實例並以 zap 記錄每個請求
func newEcho(l *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURIPath:  true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("path", v.URIPath),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				l.Error("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			l.Info("request", fields...)
			return nil
		},
	}))
	return e
}

func newAppleClient(cfg config.AppleConfig) *apple.Client {
	var verifier apple.SignatureVerifier = apple.AcceptAll{}
	if cfg.VerifySignature {
		verifier = apple.NewJWKSVerifier(context.Background(), apple.KeysURL)
	}
	return apple.NewClient(apple.Config{
		Credentials: apple.Credentials{
			TeamID:     cfg.TeamID,
			ClientID:   cfg.ClientID,
			KeyID:      cfg.KeyID,
			PrivateKey: cfg.PrivateKey,
		},
		ExchangeTimeout: cfg.ExchangeTimeout,
		Verifier:        verifier,
	})
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	l, err := newLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("Logger 建立失敗: %v", err)
	}
	defer func() { _ = l.Sync() }()

	db, err := newPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %v", err)
	}
	defer db.Close()

	rdb, err := newRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return fmt.Errorf("Redis 連線失敗: %v", err)
	}
	defer rdb.Close()

	if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("Migration 執行失敗: %v", err)
	}

	wp := newWorkerPool(cfg.WorkerCount)
	defer wp.Stop()

	pg := store.NewPostgres(db)
	if cfg.Apple.TeamID == "" || cfg.Apple.ClientID == "" || cfg.Apple.KeyID == "" || cfg.Apple.PrivateKey == "" {
		l.Warn("apple credentials are incomplete; sign in with apple will fail until configured")
	}
	authSvc := service.NewAuthService(service.AuthDeps{
		Users:         pg,
		Hasher:        service.NewPasswordHasher(wp),
		Sessions:      service.NewSessionManager(pg, pg),
		External:      newAppleClient(cfg.Apple),
		States:        cache.NewStateStore(rdb),
		PublicBaseURL: cfg.PublicBaseURL,
		Logger:        l.Named("auth"),
	})

	e := newEcho(l)
	router.Setup(e, router.Deps{
		DB:              db,
		Cache:           rdb,
		Auth:            authSvc,
		Users:           pg,
		Log:             l.Named("http"),
		Cookies:         auth.Cookies{Secure: cfg.CookieSecure},
		SuccessRedirect: cfg.SuccessRedirect,
	})

	l.Info("starting server", zap.String("addr", cfg.HTTPAddr), zap.Int("workers", cfg.WorkerCount))
	return startServer(e, cfg.HTTPAddr)
}

func main() {
	if err := run(); err != nil {
		log.Print(err)
		exitFunc(1)
	}
}
