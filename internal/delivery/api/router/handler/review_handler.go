package handler

import (
	"log/slog"
	"net/http"

	"library/internal/delivery/api/response"
	deliverycontext "library/internal/delivery/context"
	domainerrors "library/internal/domain/errors"
	"library/internal/infra/metrics"
	"library/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// ReviewHandlerParams holds dependencies for ReviewHandler, injected by Fx.
type ReviewHandlerParams struct {
	fx.In

	ReviewUC  usecase.ReviewUsecase
	CatalogUC usecase.CatalogUsecase
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

// ReviewHandler serves the review form of eligible members.
type ReviewHandler struct {
	reviewUC  usecase.ReviewUsecase
	catalogUC usecase.CatalogUsecase
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewReviewHandler is the constructor for ReviewHandler
func NewReviewHandler(params ReviewHandlerParams) *ReviewHandler {
	return &ReviewHandler{
		reviewUC:  params.ReviewUC,
		catalogUC: params.CatalogUC,
		metrics:   params.Metrics,
		logger:    params.Logger,
	}
}

// ReviewForm returns the reviewable books once the member is known to be eligible.
func (h *ReviewHandler) ReviewForm(c echo.Context) error {
	session, ok := deliverycontext.GetSession(c)
	if !ok {
		return response.HandleAppError(c, domainerrors.ErrLoginRequired)
	}

	ctx := c.Request().Context()
	if _, err := h.reviewUC.CheckEligibility(ctx, session.AccountID); err != nil {
		return response.HandleAppError(c, err)
	}

	books, err := h.catalogUC.AllBooks(ctx)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"books": newBookViews(books),
	})
}

// SubmitReview stores a review and sends the member back to the index.
func (h *ReviewHandler) SubmitReview(c echo.Context) error {
	session, ok := deliverycontext.GetSession(c)
	if !ok {
		return response.HandleAppError(c, domainerrors.ErrLoginRequired)
	}

	var req usecase.ReviewInput
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid review input")
	}

	review, err := h.reviewUC.SubmitReview(c.Request().Context(), session.AccountID, req)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	h.metrics.ReviewsSubmitted.Inc()

	deliverycontext.GetLoggerOrDefault(c.Request().Context(), h.logger).Debug("Review stored",
		slog.Uint64("review_id", uint64(review.ID)),
		slog.Uint64("book_id", uint64(review.BookID)),
	)

	return response.Redirect(c, "/")
}
