package middleware

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"library/config"
	"library/internal/delivery/api/response"
	deliverycontext "library/internal/delivery/context"
	"library/internal/domain/entity"
	domainerrors "library/internal/domain/errors"
	"library/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// LoginPath is where unauthenticated requests are sent.
const LoginPath = "/login/"

// SessionMiddlewareParams holds dependencies for SessionMiddleware, injected by Fx.
type SessionMiddlewareParams struct {
	fx.In

	MemberUC usecase.MemberUsecase
	AdminUC  usecase.AdminUsecase
	Cfg      *config.Config
	Logger   *slog.Logger
}

// SessionMiddleware resolves the session cookie and guards authenticated routes.
type SessionMiddleware struct {
	memberUC usecase.MemberUsecase
	adminUC  usecase.AdminUsecase
	cfg      *config.SessionConfig
	logger   *slog.Logger
}

// NewSessionMiddleware is the constructor for SessionMiddleware.
func NewSessionMiddleware(params SessionMiddlewareParams) *SessionMiddleware {
	return &SessionMiddleware{
		memberUC: params.MemberUC,
		adminUC:  params.AdminUC,
		cfg:      params.Cfg.Session,
		logger:   params.Logger,
	}
}

// Load attaches the session of a valid cookie to the request. A stale cookie is cleared
// and the request continues anonymously.
func (m *SessionMiddleware) Load(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(m.cfg.CookieName)
		if err != nil || cookie.Value == "" {
			return next(c)
		}

		session, _, err := m.memberUC.Authenticate(c.Request().Context(), cookie.Value)
		if err != nil {
			deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger).
				Debug("Discarding session cookie", slog.Any("error", err))
			m.ClearCookie(c)

			return next(c)
		}

		deliverycontext.SetSession(c, session)

		return next(c)
	}
}

// RequireLogin redirects anonymous requests to the login page, keeping the original URI in next.
func (m *SessionMiddleware) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := deliverycontext.GetSession(c); !ok {
			return response.Redirect(c, LoginURL(c.Request().RequestURI))
		}

		return next(c)
	}
}

// RequireStaff must run after RequireLogin.
func (m *SessionMiddleware) RequireStaff(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		session, ok := deliverycontext.GetSession(c)
		if !ok {
			return response.HandleAppError(c, domainerrors.ErrLoginRequired)
		}

		if err := m.adminUC.AuthorizeStaff(c.Request().Context(), session.AccountID); err != nil {
			return response.HandleAppError(c, err)
		}

		return next(c)
	}
}

// WriteCookie stores a freshly issued session token.
func (m *SessionMiddleware) WriteCookie(c echo.Context, token string, expiresAt time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(entity.SessionTTL / time.Second),
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie on the client.
func (m *SessionMiddleware) ClearCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// LoginURL builds the login redirect for the given request URI.
func LoginURL(next string) string {
	if next == "" {
		return LoginPath
	}

	return LoginPath + "?next=" + url.QueryEscape(next)
}

// SafeNext returns next when it is a local path, otherwise "/".
func SafeNext(next string) string {
	if next == "" {
		return "/"
	}

	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" || next[0] != '/' {
		return "/"
	}
	// "//host" and "/\host" are treated as network paths by browsers
	if len(next) > 1 && (next[1] == '/' || next[1] == '\\') {
		return "/"
	}

	return next
}
