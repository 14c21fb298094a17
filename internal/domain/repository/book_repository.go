// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"library/internal/domain/entity"

	"github.com/shopspring/decimal"
)

var (
	// ErrBookNotFound is returned when a book is not found.
	ErrBookNotFound = errors.New("book not found")
	// ErrPublisherNotFound is returned when a publisher is not found.
	ErrPublisherNotFound = errors.New("publisher not found")
)

// PublisherRepository defines persistence for publishers.
type PublisherRepository interface {
	FindByID(ctx context.Context, id uint) (*entity.Publisher, error)
	List(ctx context.Context) ([]*entity.Publisher, error)
	Create(ctx context.Context, publisher *entity.Publisher) error
	Update(ctx context.Context, publisher *entity.Publisher) error
}

// BookRepository defines persistence for books.
type BookRepository interface {
	// FindByID returns the book with its publisher.
	FindByID(ctx context.Context, id uint) (*entity.Book, error)

	// FindByIDs returns the books that exist among ids, ordered by id.
	FindByIDs(ctx context.Context, ids []uint) ([]*entity.Book, error)

	// ListFirst returns up to limit books with the lowest ids, ascending.
	ListFirst(ctx context.Context, limit int) ([]*entity.Book, error)

	// List returns every book ordered by id.
	List(ctx context.Context) ([]*entity.Book, error)

	// Search returns books matching filter, ordered by id.
	Search(ctx context.Context, filter entity.BookFilter) ([]*entity.Book, error)

	Create(ctx context.Context, book *entity.Book) error
	Update(ctx context.Context, book *entity.Book) error

	// IncrementReviewCount atomically adds one to the stored review count.
	IncrementReviewCount(ctx context.Context, id uint) error

	// IncreasePrice atomically adds amount to the price of each listed book
	// and returns the number of rows changed.
	IncreasePrice(ctx context.Context, ids []uint, amount decimal.Decimal) (int64, error)
}
