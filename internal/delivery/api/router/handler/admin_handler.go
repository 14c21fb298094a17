package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"library/internal/delivery/api/response"
	deliverycontext "library/internal/delivery/context"
	"library/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AdminHandlerParams holds dependencies for AdminHandler, injected by Fx.
type AdminHandlerParams struct {
	fx.In

	AdminUC usecase.AdminUsecase
	Logger  *slog.Logger
}

// AdminHandler serves the staff back office.
type AdminHandler struct {
	adminUC usecase.AdminUsecase
	logger  *slog.Logger
}

// NewAdminHandler is the constructor for AdminHandler
func NewAdminHandler(params AdminHandlerParams) *AdminHandler {
	return &AdminHandler{
		adminUC: params.AdminUC,
		logger:  params.Logger,
	}
}

func (h *AdminHandler) ListPublishers(c echo.Context) error {
	rows, err := h.adminUC.ListPublishers(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]any{"publishers": rows})
}

func (h *AdminHandler) CreatePublisher(c echo.Context) error {
	var req usecase.PublisherInput
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid publisher input")
	}

	publisher, err := h.adminUC.CreatePublisher(c.Request().Context(), req)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, newPublisherView(publisher))
}

func (h *AdminHandler) ListBooks(c echo.Context) error {
	rows, err := h.adminUC.ListBooks(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]any{"books": rows})
}

func (h *AdminHandler) CreateBook(c echo.Context) error {
	var req usecase.BookInput
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid book input")
	}

	book, err := h.adminUC.CreateBook(c.Request().Context(), req)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, newBookView(book))
}

// UpdateBook replaces the editable fields of a book. The review count is kept.
func (h *AdminHandler) UpdateBook(c echo.Context) error {
	bookID, err := bookIDParam(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req usecase.BookInput
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid book input")
	}

	book, err := h.adminUC.UpdateBook(c.Request().Context(), bookID, req)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newBookView(book))
}

// IncreasePrices adds the fixed increment to every selected book.
func (h *AdminHandler) IncreasePrices(c echo.Context) error {
	var req usecase.PriceIncreaseInput
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid book selection")
	}

	updated, err := h.adminUC.IncreaseBookPrices(c.Request().Context(), req.Books)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if session, ok := deliverycontext.GetSession(c); ok {
		deliverycontext.GetLoggerOrDefault(c.Request().Context(), h.logger).Info("Book prices increased",
			slog.Uint64("account_id", uint64(session.AccountID)),
			slog.Int64("updated", updated),
		)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"updated": updated,
		"message": strconv.FormatInt(updated, 10) + " book(s) updated.",
	})
}

func (h *AdminHandler) ListMembers(c echo.Context) error {
	rows, err := h.adminUC.ListMembers(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]any{"members": rows})
}

func (h *AdminHandler) ListOrders(c echo.Context) error {
	rows, err := h.adminUC.ListOrders(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]any{"orders": rows})
}

func (h *AdminHandler) ListReviews(c echo.Context) error {
	rows, err := h.adminUC.ListReviews(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]any{"reviews": rows})
}
