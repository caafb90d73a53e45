// File: internal/handler/auth/auth.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"starter-auth/internal/api"
	"starter-auth/internal/autherr"
	"starter-auth/internal/model"
	"starter-auth/internal/service"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Service 是 handler 需要的 AuthService 方法，由 *service.AuthService 實作
type Service interface {
	Register(ctx context.Context, email, password string, name *string) (*service.Authenticated, error)
	Login(ctx context.Context, email, password string) (*service.Authenticated, error)
	Logout(ctx context.Context, sessionID string) error
	CurrentUser(ctx context.Context, sessionID string) (*model.User, error)
	BeginExternalSignin(ctx context.Context) (authURL, state string, err error)
	CompleteExternalSignin(ctx context.Context, cb service.ExternalCallback) (*service.Authenticated, error)
}

var _ Service = (*service.AuthService)(nil)

// statusFor 依錯誤種類決定 HTTP 狀態碼與可公開的訊息
func statusFor(err error) (int, string) {
	var e *autherr.Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError, "internal server error"
	}
	msg := e.Message
	if e.Reason != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Reason)
	}
	switch e.Kind {
	case autherr.KindValidation, autherr.KindCSRF, autherr.KindTokenValidation:
		return http.StatusBadRequest, msg
	case autherr.KindAuthentication:
		return http.StatusUnauthorized, msg
	case autherr.KindConflict:
		return http.StatusConflict, msg
	case autherr.KindExternalService:
		// 不回傳 Apple 的原始內容
		return http.StatusBadGateway, "apple sign-in failed"
	case autherr.KindConfiguration:
		return http.StatusInternalServerError, "apple sign-in is not configured"
	}
	return http.StatusInternalServerError, "internal server error"
}

func respondError(c echo.Context, log *zap.Logger, err error) error {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		fields := []zap.Field{
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Error(err),
		}
		var e *autherr.Error
		if errors.As(err, &e) && e.Body != "" {
			fields = append(fields, zap.String("body", e.Body))
		}
		log.Error("request failed", fields...)
	}
	return c.JSON(status, api.ErrorResponse{Message: msg})
}
