package context

import (
	"library/internal/domain/entity"

	"github.com/labstack/echo/v4"
)

const sessionKey = "library.session"

// SetSession records the account authenticated from the session cookie.
func SetSession(c echo.Context, session *entity.Session) {
	c.Set(sessionKey, session)
}

// GetSession reports the authenticated session; anonymous requests get false.
func GetSession(c echo.Context) (*entity.Session, bool) {
	session, ok := c.Get(sessionKey).(*entity.Session)

	return session, ok && session != nil
}
