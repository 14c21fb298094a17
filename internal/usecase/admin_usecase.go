package usecase

import (
	"context"
	"time"

	"library/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// PublisherRow is a publisher list row.
type PublisherRow struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Website string `json:"website"`
	City    string `json:"city"`
}

// BookRow is a book list row.
type BookRow struct {
	ID       uint            `json:"id"`
	Title    string          `json:"title"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
}

// MemberRow is a member list row.
type MemberRow struct {
	ID         uint   `json:"id"`
	Username   string `json:"username"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Status     string `json:"status"`
	BooksTitle string `json:"books_title"`
}

// OrderRow is an order list row.
type OrderRow struct {
	ID         uint      `json:"id"`
	Member     string    `json:"member"`
	OrderType  string    `json:"order_type"`
	OrderDate  time.Time `json:"order_date"`
	TotalItems int       `json:"total_items"`
}

// ReviewRow is a review list row.
type ReviewRow struct {
	ID       uint      `json:"id"`
	Reviewer string    `json:"reviewer"`
	Book     string    `json:"book"`
	Rating   int       `json:"rating"`
	Date     time.Time `json:"date"`
}

// AdminUsecase defines the back-office operations. Callers must pass AuthorizeStaff first.
type AdminUsecase interface {
	AuthorizeStaff(ctx context.Context, accountID uint) error

	ListPublishers(ctx context.Context) ([]*PublisherRow, error)
	CreatePublisher(ctx context.Context, input PublisherInput) (*entity.Publisher, error)

	ListBooks(ctx context.Context) ([]*BookRow, error)
	CreateBook(ctx context.Context, input BookInput) (*entity.Book, error)
	UpdateBook(ctx context.Context, bookID uint, input BookInput) (*entity.Book, error)

	// IncreaseBookPrices adds entity.PriceIncrement to every listed book. The result is not clamped.
	IncreaseBookPrices(ctx context.Context, bookIDs []uint) (int64, error)

	ListMembers(ctx context.Context) ([]*MemberRow, error)
	ListOrders(ctx context.Context) ([]*OrderRow, error)
	ListReviews(ctx context.Context) ([]*ReviewRow, error)
}
