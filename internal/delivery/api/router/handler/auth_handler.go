package handler

import (
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"library/internal/delivery/api/middleware"
	"library/internal/delivery/api/response"
	deliverycontext "library/internal/delivery/context"
	domainerrors "library/internal/domain/errors"
	"library/internal/infra/metrics"
	"library/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// AuthHandlerParams holds dependencies for AuthHandler, injected by Fx.
type AuthHandlerParams struct {
	fx.In

	MemberUC usecase.MemberUsecase
	Session  *middleware.SessionMiddleware
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

// AuthHandler serves login, logout and self-registration.
type AuthHandler struct {
	memberUC usecase.MemberUsecase
	session  *middleware.SessionMiddleware
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler
func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		memberUC: params.MemberUC,
		session:  params.Session,
		metrics:  params.Metrics,
		logger:   params.Logger,
	}
}

// registerRequest mirrors usecase.RegisterInput for form binding. The auto renew
// checkbox arrives as "on", which echo cannot bind to a bool.
type registerRequest struct {
	Username  string `form:"username" json:"username"`
	Password1 string `form:"password1" json:"password1"`
	Password2 string `form:"password2" json:"password2"`
	FirstName string `form:"first_name" json:"first_name"`
	LastName  string `form:"last_name" json:"last_name"`
	Email     string `form:"email" json:"email"`
	Status    string `form:"status" json:"status"`
	Address   string `form:"address" json:"address"`
	City      string `form:"city" json:"city"`
	Province  string `form:"province" json:"province"`
	AutoRenew string `form:"auto_renew" json:"auto_renew"`
}

// LoginPage returns the login form state, or sends an authenticated visitor home.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	if _, ok := deliverycontext.GetSession(c); ok {
		return response.Redirect(c, "/")
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"next": middleware.SafeNext(c.QueryParam("next")),
	})
}

// Login checks the credentials, sets the session cookie and redirects to next.
func (h *AuthHandler) Login(c echo.Context) error {
	if _, ok := deliverycontext.GetSession(c); ok {
		return response.Redirect(c, "/")
	}

	var req usecase.LoginInput
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}

	out, err := h.memberUC.Login(c.Request().Context(), req)
	if err != nil {
		h.metrics.LoginsTotal.WithLabelValues(loginOutcome(err)).Inc()

		return response.HandleAppError(c, err)
	}
	h.metrics.LoginsTotal.WithLabelValues("success").Inc()

	h.session.WriteCookie(c, out.Token, out.Session.ExpiresAt)

	return response.Redirect(c, middleware.SafeNext(req.Next))
}

// Logout drops the session cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.session.ClearCookie(c)

	return response.Redirect(c, "/")
}

// RegisterForm returns the membership statuses to choose from.
func (h *AuthHandler) RegisterForm(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]any{
		"statuses": h.memberUC.RegisterForm().Statuses,
	})
}

// Register creates the account and member, then sends the visitor to the login page.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}

	input := usecase.RegisterInput{
		Username:  req.Username,
		Password1: req.Password1,
		Password2: req.Password2,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Status:    req.Status,
		Address:   req.Address,
		City:      req.City,
		Province:  req.Province,
		AutoRenew: checkboxValue(req.AutoRenew),
	}

	fileHeader, err := c.FormFile("profile_image")
	switch {
	case err == nil:
		file, openErr := fileHeader.Open()
		if openErr != nil {
			return response.BindingError(c, "INVALID_INPUT", "Invalid profile image")
		}
		defer closeQuietly(file)

		input.ProfileImage = &usecase.Upload{
			Filename: fileHeader.Filename,
			Size:     fileHeader.Size,
			Content:  file,
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}

	member, err := h.memberUC.Register(c.Request().Context(), input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	deliverycontext.GetLoggerOrDefault(c.Request().Context(), h.logger).Info("Member registered",
		slog.Uint64("member_id", uint64(member.ID)),
		slog.String("username", member.Username()),
	)

	return response.Redirect(c, middleware.LoginPath)
}

func loginOutcome(err error) string {
	switch {
	case errors.Is(err, domainerrors.ErrInvalidCredentials), errors.Is(err, domainerrors.ErrValidationFailed):
		return "invalid"
	case errors.Is(err, domainerrors.ErrAccountDisabled):
		return "disabled"
	default:
		return "error"
	}
}

// checkboxValue follows HTML checkbox semantics: any value other than an explicit false is checked.
func checkboxValue(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "false", "0", "off", "no":
		return false
	default:
		return true
	}
}

func closeQuietly(f multipart.File) {
	_ = f.Close()
}
