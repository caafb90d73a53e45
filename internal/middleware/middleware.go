package middleware

import (
	"context"
	"net/http"

	"starter-auth/internal/autherr"
	"starter-auth/internal/handler/auth"
	"starter-auth/internal/model"

	"github.com/labstack/echo/v4"
)

const ContextUserKey = "user"

// SessionResolver 由 *service.AuthService 實作
type SessionResolver interface {
	CurrentUser(ctx context.Context, sessionID string) (*model.User, error)
}

// RequireSession 依 session cookie 載入使用者並放入 context
func RequireSession(r SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, err := r.CurrentUser(c.Request().Context(), auth.SessionID(c))
			if err != nil {
				if autherr.KindOf(err) == autherr.KindAuthentication {
					return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
				}
				return echo.NewHTTPError(http.StatusInternalServerError, "session lookup failed").SetInternal(err)
			}
			c.Set(ContextUserKey, u)
			return next(c)
		}
	}
}

// RequireAdmin 必須接在 RequireSession 之後
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		u := CurrentUser(c)
		if u == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
		}
		if !u.IsAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin privileges required")
		}
		return next(c)
	}
}

// CurrentUser 取出 RequireSession 放入的使用者
func CurrentUser(c echo.Context) *model.User {
	u, _ := c.Get(ContextUserKey).(*model.User)
	return u
}
