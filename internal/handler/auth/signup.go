// File: internal/handler/auth/signup.go
package auth

import (
	"net/http"

	"starter-auth/internal/api"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SignupHandler 建立密碼帳號並登入
// @Summary     註冊使用者
// @Description 以 Email 與密碼建立帳號 (Email 會轉小寫)，成功後設定 session cookie
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.SignupRequest true "註冊資料"
// @Success     201  {object} api.AuthResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     409  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /auth/signup [post]
func SignupHandler(svc Service, cookies Cookies, log *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.SignupRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		res, err := svc.Register(c.Request().Context(), req.Email, req.Password, req.Name)
		if err != nil {
			return respondError(c, log, err)
		}
		cookies.SetSession(c, res.SessionID)
		return c.JSON(http.StatusCreated, api.AuthResponse{User: api.NewUserResponse(res.User)})
	}
}
