package handler

import (
	"log/slog"
	"net/http"

	"library/internal/delivery/api/response"
	deliverycontext "library/internal/delivery/context"
	"library/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// CatalogHandlerParams holds dependencies for CatalogHandler, injected by Fx.
type CatalogHandlerParams struct {
	fx.In

	CatalogUC usecase.CatalogUsecase
	Logger    *slog.Logger
}

// CatalogHandler serves the public book pages and the review check.
type CatalogHandler struct {
	catalogUC usecase.CatalogUsecase
	logger    *slog.Logger
}

// NewCatalogHandler is the constructor for CatalogHandler
func NewCatalogHandler(params CatalogHandlerParams) *CatalogHandler {
	return &CatalogHandler{
		catalogUC: params.CatalogUC,
		logger:    params.Logger,
	}
}

// Index lists the first books of the catalog with the visitor's last login marker.
func (h *CatalogHandler) Index(c echo.Context) error {
	books, err := h.catalogUC.RecentBooks(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	lastLogin := ""
	if session, ok := deliverycontext.GetSession(c); ok {
		lastLogin = session.LastLogin
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"books":      newBookViews(books),
		"last_login": lastLogin,
	})
}

// Detail shows one book with its reviews and average rating.
func (h *CatalogHandler) Detail(c echo.Context) error {
	bookID, err := bookIDParam(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	detail, err := h.catalogUC.BookDetail(c.Request().Context(), bookID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	reviews := make([]ReviewView, 0, len(detail.Reviews))
	for _, r := range detail.Reviews {
		reviews = append(reviews, newReviewView(r))
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"book":       newBookView(detail.Book),
		"reviews":    reviews,
		"avg_rating": detail.AverageRating,
	})
}

// SearchForm returns the choices of the search form.
func (h *CatalogHandler) SearchForm(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]any{
		"categories": h.catalogUC.CategoryChoices(),
	})
}

// Search filters books by maximum price and optional category.
func (h *CatalogHandler) Search(c echo.Context) error {
	var req usecase.SearchInput
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid search input")
	}

	result, err := h.catalogUC.Search(c.Request().Context(), req)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"name":     result.Name,
		"category": result.Category,
		"books":    newBookViews(result.Books),
	})
}

// CheckReviews reports the average rating of a book, -1 when it has none.
func (h *CatalogHandler) CheckReviews(c echo.Context) error {
	bookID, err := bookIDParam(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	summary, err := h.catalogUC.CheckReviews(c.Request().Context(), bookID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"book":       newBookView(summary.Book),
		"avg_rating": summary.AverageRating,
	})
}
