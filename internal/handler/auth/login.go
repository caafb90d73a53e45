// File: internal/handler/auth/login.go
package auth

import (
	"net/http"

	"starter-auth/internal/api"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// LoginHandler 使用 Email/Password 驗證並設定 session cookie
// @Summary     登入使用者
// @Description 帳號不存在與密碼錯誤回傳相同的 401
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.LoginRequest true "登入資料"
// @Success     200  {object} api.AuthResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /auth/login [post]
func LoginHandler(svc Service, cookies Cookies, log *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LoginRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		res, err := svc.Login(c.Request().Context(), req.Email, req.Password)
		if err != nil {
			return respondError(c, log, err)
		}
		cookies.SetSession(c, res.SessionID)
		return c.JSON(http.StatusOK, api.AuthResponse{User: api.NewUserResponse(res.User)})
	}
}

// LogoutHandler 撤銷 cookie 中的 session；一律回傳 204
// @Summary     登出
// @Tags        auth
// @Success     204
// @Router      /auth/logout [post]
func LogoutHandler(svc Service, cookies Cookies, log *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := svc.Logout(c.Request().Context(), SessionID(c)); err != nil {
			log.Warn("logout failed", zap.Error(err))
		}
		cookies.ClearSession(c)
		return c.NoContent(http.StatusNoContent)
	}
}

// MeHandler 回傳目前登入的使用者
// @Summary     取得目前使用者
// @Tags        auth
// @Produce     json
// @Success     200 {object} api.AuthResponse
// @Failure     401 {object} api.ErrorResponse
// @Router      /auth/me [get]
func MeHandler(svc Service, log *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		u, err := svc.CurrentUser(c.Request().Context(), SessionID(c))
		if err != nil {
			return respondError(c, log, err)
		}
		return c.JSON(http.StatusOK, api.AuthResponse{User: api.NewUserResponse(u)})
	}
}
