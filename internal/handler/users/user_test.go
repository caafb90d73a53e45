package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"starter-auth/internal/api"
	"starter-auth/internal/model"
	"starter-auth/internal/store"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newParamCtx(e *echo.Echo, val string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/users/"+val, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/users/:id")
	c.SetParamNames("id")
	c.SetParamValues(val)
	return c, rec
}

// brokenUsers 讓所有查詢失敗
type brokenUsers struct{ store.Users }

func (brokenUsers) GetUserByID(context.Context, string) (*model.User, error) {
	return nil, errors.New("conn reset")
}

func TestGetUserHandler(t *testing.T) {
	e := echo.New()
	mem := store.NewMemory()
	u, err := mem.CreateUser(context.Background(), &model.User{
		Email: "a@x.com",
		Auth:  model.Both{PasswordDigest: "00:00", ProviderID: "apple.1"},
	})
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		ctx, rec := newParamCtx(e, u.ID)
		require.NoError(t, GetUserHandler(mem, zap.NewNop())(ctx))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp api.AdminUserResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, u.ID, resp.ID)
		require.True(t, resp.HasPassword)
		require.True(t, resp.AppleLinked)
		require.NotContains(t, rec.Body.String(), "00:00")
		require.NotContains(t, rec.Body.String(), "apple.1")
	})

	t.Run("not found", func(t *testing.T) {
		ctx, rec := newParamCtx(e, "missing")
		require.NoError(t, GetUserHandler(mem, zap.NewNop())(ctx))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("empty id", func(t *testing.T) {
		ctx, rec := newParamCtx(e, "")
		require.NoError(t, GetUserHandler(mem, zap.NewNop())(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("store error", func(t *testing.T) {
		ctx, rec := newParamCtx(e, u.ID)
		core, logs := observer.New(zapcore.ErrorLevel)
		require.NoError(t, GetUserHandler(brokenUsers{}, zap.New(core))(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Equal(t, 1, logs.FilterMessage("get user failed").Len())
	})
}
