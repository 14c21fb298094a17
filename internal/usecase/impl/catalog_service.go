// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "library/internal/delivery/context"
	"library/internal/domain/entity"
	domainerrors "library/internal/domain/errors"
	"library/internal/domain/repository"
	"library/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// catalogService implements the CatalogUsecase interface.
type catalogService struct {
	bookRepo   repository.BookRepository
	reviewRepo repository.ReviewRepository
	logger     *slog.Logger
}

// CatalogServiceParams holds dependencies for CatalogService, injected by Fx.
type CatalogServiceParams struct {
	fx.In

	BookRepo   repository.BookRepository
	ReviewRepo repository.ReviewRepository
	Logger     *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(params CatalogServiceParams) usecase.CatalogUsecase {
	return &catalogService{
		bookRepo:   params.BookRepo,
		reviewRepo: params.ReviewRepo,
		logger:     params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// RecentBooks returns the books with the lowest ids.
func (srv *catalogService) RecentBooks(ctx context.Context) ([]*entity.Book, error) {
	books, err := srv.bookRepo.ListFirst(ctx, entity.RecentBooksLimit)
	if err != nil {
		srv.log(ctx).Error("Failed to list recent books", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list recent books")
	}

	return books, nil
}

func (srv *catalogService) AllBooks(ctx context.Context) ([]*entity.Book, error) {
	books, err := srv.bookRepo.List(ctx)
	if err != nil {
		srv.log(ctx).Error("Failed to list books", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list books")
	}

	return books, nil
}

// BookDetail loads a book and averages its reviews.
func (srv *catalogService) BookDetail(ctx context.Context, bookID uint) (*usecase.BookDetail, error) {
	book, err := srv.findBook(ctx, "book_detail", bookID)
	if err != nil {
		return nil, err
	}

	reviews, err := srv.reviewRepo.ListByBook(ctx, bookID)
	if err != nil {
		srv.log(ctx).Error("Failed to list book reviews", slog.Uint64("bookID", uint64(bookID)), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list book reviews")
	}

	return &usecase.BookDetail{
		Book:          book,
		Reviews:       reviews,
		AverageRating: entity.AverageRating(reviews),
	}, nil
}

// Search validates the form and filters the catalog.
func (srv *catalogService) Search(ctx context.Context, input usecase.SearchInput) (*usecase.SearchOutput, error) {
	query, err := usecase.ValidateSearch(input)
	if err != nil {
		return nil, err
	}

	books, err := srv.bookRepo.Search(ctx, query.Filter)
	if err != nil {
		srv.log(ctx).Error("Failed to search books", slog.String("maxPrice", query.Filter.MaxPrice.String()), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to search books")
	}

	return &usecase.SearchOutput{
		Name:     query.Name,
		Category: input.Category,
		Books:    books,
	}, nil
}

// CheckReviews averages the reviews of a book. The stored review count
// short-circuits the lookup when it is zero.
func (srv *catalogService) CheckReviews(ctx context.Context, bookID uint) (*usecase.ReviewSummary, error) {
	book, err := srv.findBook(ctx, "check_reviews", bookID)
	if err != nil {
		return nil, err
	}

	summary := &usecase.ReviewSummary{Book: book, AverageRating: entity.NoRating}
	if book.NumReviews == 0 {
		return summary, nil
	}

	reviews, err := srv.reviewRepo.ListByBook(ctx, bookID)
	if err != nil {
		srv.log(ctx).Error("Failed to list book reviews", slog.Uint64("bookID", uint64(bookID)), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list book reviews")
	}
	if len(reviews) == 0 {
		srv.log(ctx).Warn("Review count has no matching reviews", slog.Uint64("bookID", uint64(bookID)), slog.Uint64("numReviews", uint64(book.NumReviews)))

		return nil, domainerrors.ErrNoReviewsAvailable
	}

	summary.AverageRating = entity.AverageRating(reviews)

	return summary, nil
}

// CategoryChoices lists the categories for the search form.
func (srv *catalogService) CategoryChoices() []usecase.Choice {
	choices := make([]usecase.Choice, 0, len(entity.Categories))
	for _, c := range entity.Categories {
		choices = append(choices, usecase.Choice{Value: c.String(), Label: c.Label()})
	}

	return choices
}

func (srv *catalogService) findBook(ctx context.Context, operation string, bookID uint) (*entity.Book, error) {
	book, err := srv.bookRepo.FindByID(ctx, bookID)
	if err == nil {
		return book, nil
	}

	if errors.Is(err, repository.ErrBookNotFound) {
		srv.log(ctx).Warn("Book not found", slog.String("operation", operation), slog.Uint64("bookID", uint64(bookID)))

		return nil, domainerrors.ErrBookNotFound
	}

	srv.log(ctx).Error("Failed to find book", slog.String("operation", operation), slog.Uint64("bookID", uint64(bookID)), slog.Any("error", err))

	return nil, errors.Wrap(err, "failed to find book")
}
