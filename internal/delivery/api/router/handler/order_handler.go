package handler

import (
	"net/http"

	"library/internal/delivery/api/response"
	deliverycontext "library/internal/delivery/context"
	domainerrors "library/internal/domain/errors"
	"library/internal/infra/metrics"
	"library/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// OrderHandlerParams holds dependencies for OrderHandler, injected by Fx.
type OrderHandlerParams struct {
	fx.In

	OrderUC usecase.OrderUsecase
	Metrics *metrics.Metrics
}

// OrderHandler serves order placement and the member's order history.
type OrderHandler struct {
	orderUC usecase.OrderUsecase
	metrics *metrics.Metrics
}

// NewOrderHandler is the constructor for OrderHandler
func NewOrderHandler(params OrderHandlerParams) *OrderHandler {
	return &OrderHandler{
		orderUC: params.OrderUC,
		metrics: params.Metrics,
	}
}

// OrderForm returns the books and order types to choose from.
func (h *OrderHandler) OrderForm(c echo.Context) error {
	form, err := h.orderUC.OrderForm(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"books":       newBookViews(form.Books),
		"order_types": form.OrderTypes,
	})
}

// PlaceOrder creates an order for the logged-in member.
func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	session, ok := deliverycontext.GetSession(c)
	if !ok {
		return response.HandleAppError(c, domainerrors.ErrLoginRequired)
	}

	var req usecase.OrderInput
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid order input")
	}

	placed, err := h.orderUC.PlaceOrder(c.Request().Context(), session.AccountID, req)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	h.metrics.OrdersPlaced.WithLabelValues(placed.Order.OrderType.Label()).Inc()

	return response.Success(c, http.StatusCreated, map[string]any{
		"order": newOrderView(placed.Order, placed.Order.Titles()),
		"books": newBookViews(placed.Books),
	})
}

// MyOrders lists the orders of the logged-in member.
func (h *OrderHandler) MyOrders(c echo.Context) error {
	session, ok := deliverycontext.GetSession(c)
	if !ok {
		return response.HandleAppError(c, domainerrors.ErrLoginRequired)
	}

	orders, err := h.orderUC.MyOrders(c.Request().Context(), session.AccountID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, newOrderView(o.Order, o.Titles))
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"orders": views,
	})
}
