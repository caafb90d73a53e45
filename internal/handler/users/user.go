package users

import (
	"errors"
	"net/http"

	"starter-auth/internal/api"
	"starter-auth/internal/store"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// GetUserHandler 透過使用者 ID 取得使用者資訊 (管理員)
// @Summary     Get a user by ID
// @Description 透過 ID 查詢並回傳使用者資料，不含密碼摘要
// @Tags        users
// @Produce     json
// @Param       id  path     string true "使用者 ID"
// @Success     200 {object} api.AdminUserResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse "使用者不存在"
// @Failure     500 {object} api.ErrorResponse
// @Router      /users/{id} [get]
func GetUserHandler(users store.Users, log *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Param("id")
		if id == "" {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid user ID"})
		}

		user, err := users.GetUserByID(c.Request().Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "user not found"})
		}
		if err != nil {
			log.Error("get user failed", zap.String("id", id), zap.Error(err))
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "internal server error"})
		}
		return c.JSON(http.StatusOK, api.NewAdminUserResponse(user))
	}
}
