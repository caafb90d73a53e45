package auth

import (
	"net/http"
	"time"

	"starter-auth/internal/service"

	"github.com/labstack/echo/v4"
)

const (
	SessionCookie = "session"
	StateCookie   = "apple_oauth_state"
)

// Cookies 寫入與清除認證相關 cookie；Secure 只應在本機開發時關閉
type Cookies struct {
	Secure bool
}

func (k Cookies) write(c echo.Context, name, value string, maxAge time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		HttpOnly: true,
		Secure:   k.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (k Cookies) clear(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   k.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (k Cookies) SetSession(c echo.Context, id string) {
	k.write(c, SessionCookie, id, service.SessionTTL)
}

func (k Cookies) ClearSession(c echo.Context) { k.clear(c, SessionCookie) }

func (k Cookies) SetState(c echo.Context, state string) {
	k.write(c, StateCookie, state, service.StateTTL)
}

func (k Cookies) ClearState(c echo.Context) { k.clear(c, StateCookie) }

// SessionID 讀取 session cookie，不存在時回傳空字串
func SessionID(c echo.Context) string {
	return cookieValue(c, SessionCookie)
}

func cookieValue(c echo.Context, name string) string {
	ck, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return ck.Value
}
