package usecase

import (
	"context"

	"library/internal/domain/entity"
)

// OrderForm holds the choices of the order form.
type OrderForm struct {
	Books      []*entity.Book
	OrderTypes []Choice
}

// PlaceOrderOutput confirms a placed order.
type PlaceOrderOutput struct {
	Order *entity.Order
	Books []*entity.Book
}

// MemberOrder pairs an order with its joined book titles.
type MemberOrder struct {
	Order  *entity.Order
	Titles string
}

// OrderUsecase defines order placement and listing for members.
type OrderUsecase interface {
	OrderForm(ctx context.Context) (*OrderForm, error)
	PlaceOrder(ctx context.Context, accountID uint, input OrderInput) (*PlaceOrderOutput, error)
	MyOrders(ctx context.Context, accountID uint) ([]*MemberOrder, error)
}
