// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"library/internal/domain/entity"
)

// Choice is a selectable option of a form field.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// BookDetail is a book with its reviews and their average.
type BookDetail struct {
	Book          *entity.Book
	Reviews       []*entity.Review
	AverageRating float64
}

// ReviewSummary is the outcome of a review check.
type ReviewSummary struct {
	Book          *entity.Book
	AverageRating float64
}

// SearchOutput carries the matching books and the query that produced them.
type SearchOutput struct {
	Name     string
	Category string
	Books    []*entity.Book
}

// CatalogUsecase defines the read side of the catalog.
type CatalogUsecase interface {
	RecentBooks(ctx context.Context) ([]*entity.Book, error)
	// AllBooks lists the whole catalog, as offered by the review form.
	AllBooks(ctx context.Context) ([]*entity.Book, error)
	BookDetail(ctx context.Context, bookID uint) (*BookDetail, error)
	Search(ctx context.Context, input SearchInput) (*SearchOutput, error)
	CheckReviews(ctx context.Context, bookID uint) (*ReviewSummary, error)
	CategoryChoices() []Choice
}
