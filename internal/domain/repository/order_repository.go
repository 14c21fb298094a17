package repository

import (
	"context"

	"library/internal/domain/entity"
)

// OrderRepository defines persistence for orders.
type OrderRepository interface {
	// Create stores the order and links its books.
	Create(ctx context.Context, order *entity.Order) error

	// ListByMember returns the member's orders with books, ordered by id.
	ListByMember(ctx context.Context, memberID uint) ([]*entity.Order, error)

	// List returns every order with member and books, ordered by id.
	List(ctx context.Context) ([]*entity.Order, error)
}

// ReviewRepository defines persistence for reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	ListByBook(ctx context.Context, bookID uint) ([]*entity.Review, error)
	CountByBook(ctx context.Context, bookID uint) (int64, error)
	List(ctx context.Context) ([]*entity.Review, error)
}
