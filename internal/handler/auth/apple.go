// File: internal/handler/auth/apple.go
package auth

import (
	"net/http"

	"starter-auth/internal/api"
	"starter-auth/internal/service"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AppleStartHandler 發出 CSRF state 並導向 Apple 授權頁
// @Summary     開始 Sign in with Apple
// @Tags        auth
// @Success     302
// @Failure     500 {object} api.ErrorResponse
// @Router      /auth/apple [get]
func AppleStartHandler(svc Service, cookies Cookies, log *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		authURL, state, err := svc.BeginExternalSignin(c.Request().Context())
		if err != nil {
			return respondError(c, log, err)
		}
		cookies.SetState(c, state)
		return c.Redirect(http.StatusFound, authURL)
	}
}

// AppleCallbackHandler 接收 Apple form_post 回呼，成功後設定 session 並導向 successRedirect
// @Summary     Sign in with Apple 回呼
// @Tags        auth
// @Accept      application/x-www-form-urlencoded
// @Param       code     formData string true  "authorization code"
// @Param       state    formData string true  "CSRF state"
// @Param       user     formData string false "第一次授權時的使用者資料 (JSON)"
// @Success     302
// @Failure     400 {object} api.ErrorResponse
// @Failure     502 {object} api.ErrorResponse
// @Router      /auth/apple/callback [post]
func AppleCallbackHandler(svc Service, cookies Cookies, successRedirect string, log *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		stored := cookieValue(c, StateCookie)
		// state cookie 只能使用一次
		cookies.ClearState(c)

		var req api.AppleCallbackRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
		}
		if req.Error != "" {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "apple sign-in was not completed: " + req.Error})
		}

		res, err := svc.CompleteExternalSignin(c.Request().Context(), service.ExternalCallback{
			Code:        req.Code,
			State:       req.State,
			StoredState: stored,
			User:        req.User,
		})
		if err != nil {
			return respondError(c, log, err)
		}
		cookies.SetSession(c, res.SessionID)
		return c.Redirect(http.StatusFound, successRedirect)
	}
}
