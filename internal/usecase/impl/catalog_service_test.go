package impl

import (
	"context"
	"fmt"
	"testing"

	"library/internal/domain/entity"
	domainerrors "library/internal/domain/errors"
	"library/internal/infra/persistence/postgres"
	"library/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_RecentBooks(t *testing.T) {
	env := newTestEnv(t, nil)
	publisher := env.publisher(t)
	for i := 1; i <= 12; i++ {
		env.book(t, publisher.ID, fmt.Sprintf("Book %02d", i), entity.CategoryFiction, "10.00")
	}

	books, err := env.catalog.RecentBooks(context.Background())
	require.NoError(t, err)
	require.Len(t, books, entity.RecentBooksLimit)
	assert.Equal(t, "Book 01", books[0].Title)
	assert.Equal(t, "Book 10", books[9].Title)
	for i := 1; i < len(books); i++ {
		assert.Less(t, books[i-1].ID, books[i].ID)
	}

	all, err := env.catalog.AllBooks(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 12)
}

func TestCatalogService_BookDetail(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	publisher := env.publisher(t)
	book := env.book(t, publisher.ID, "Dune", entity.CategoryFiction, "12.50")

	t.Run("no reviews reports the sentinel", func(t *testing.T) {
		detail, err := env.catalog.BookDetail(ctx, book.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dune", detail.Book.Title)
		assert.Empty(t, detail.Reviews)
		assert.Equal(t, entity.NoRating, detail.AverageRating)
	})

	t.Run("averages stored reviews", func(t *testing.T) {
		reviewRepo := postgres.NewReviewRepository(env.db)
		for _, rating := range []int{4, 5} {
			require.NoError(t, reviewRepo.Create(ctx, &entity.Review{Reviewer: "a@b.com", BookID: book.ID, Rating: rating, Date: env.now}))
		}

		detail, err := env.catalog.BookDetail(ctx, book.ID)
		require.NoError(t, err)
		assert.Len(t, detail.Reviews, 2)
		assert.InDelta(t, 4.5, detail.AverageRating, 1e-9)
	})

	t.Run("missing book", func(t *testing.T) {
		_, err := env.catalog.BookDetail(ctx, 9999)
		assert.True(t, errors.Is(err, domainerrors.ErrBookNotFound))
	})
}

func TestCatalogService_Search(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	publisher := env.publisher(t)
	cheapFiction := env.book(t, publisher.ID, "Cheap Fiction", entity.CategoryFiction, "19.99")
	boundFiction := env.book(t, publisher.ID, "Bound Fiction", entity.CategoryFiction, "20.00")
	env.book(t, publisher.ID, "Dear Fiction", entity.CategoryFiction, "20.01")
	cheapTravel := env.book(t, publisher.ID, "Cheap Travel", entity.CategoryTravel, "5.00")

	t.Run("category and price", func(t *testing.T) {
		out, err := env.catalog.Search(ctx, usecase.SearchInput{Name: "me", Category: "F", MaxPrice: "20.00"})
		require.NoError(t, err)
		assert.Equal(t, []uint{cheapFiction.ID, boundFiction.ID}, bookIDs(out.Books))
		assert.Equal(t, "me", out.Name)
		assert.Equal(t, "F", out.Category)
	})

	t.Run("no category filters by price only", func(t *testing.T) {
		out, err := env.catalog.Search(ctx, usecase.SearchInput{MaxPrice: "20"})
		require.NoError(t, err)
		assert.Equal(t, []uint{cheapFiction.ID, boundFiction.ID, cheapTravel.ID}, bookIDs(out.Books))
	})

	t.Run("invalid form", func(t *testing.T) {
		_, err := env.catalog.Search(ctx, usecase.SearchInput{MaxPrice: "-1"})
		var validationErr *domainerrors.ValidationError
		require.True(t, errors.As(err, &validationErr))
		assert.Contains(t, validationErr.Fields(), "max_price")
	})
}

func TestCatalogService_CheckReviews(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	publisher := env.publisher(t)
	book := env.book(t, publisher.ID, "Dune", entity.CategoryFiction, "12.50")
	bookRepo := postgres.NewBookRepository(env.db)

	t.Run("zero count reports the sentinel", func(t *testing.T) {
		summary, err := env.catalog.CheckReviews(ctx, book.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.NoRating, summary.AverageRating)
	})

	t.Run("count without reviews", func(t *testing.T) {
		require.NoError(t, bookRepo.IncrementReviewCount(ctx, book.ID))

		_, err := env.catalog.CheckReviews(ctx, book.ID)
		assert.True(t, errors.Is(err, domainerrors.ErrNoReviewsAvailable))
	})

	t.Run("average of reviews", func(t *testing.T) {
		require.NoError(t, postgres.NewReviewRepository(env.db).Create(ctx, &entity.Review{Reviewer: "a@b.com", BookID: book.ID, Rating: 3, Date: env.now}))

		summary, err := env.catalog.CheckReviews(ctx, book.ID)
		require.NoError(t, err)
		assert.InDelta(t, 3.0, summary.AverageRating, 1e-9)
	})

	t.Run("missing book", func(t *testing.T) {
		_, err := env.catalog.CheckReviews(ctx, 9999)
		assert.True(t, errors.Is(err, domainerrors.ErrBookNotFound))
		assert.False(t, errors.Is(err, domainerrors.ErrNoReviewsAvailable))
	})
}

func TestCatalogService_CategoryChoices(t *testing.T) {
	env := newTestEnv(t, nil)

	choices := env.catalog.CategoryChoices()
	require.Len(t, choices, 5)
	assert.Equal(t, usecase.Choice{Value: "S", Label: "Science&Tech"}, choices[0])
	assert.Equal(t, usecase.Choice{Value: "O", Label: "Other"}, choices[4])
}

func bookIDs(books []*entity.Book) []uint {
	ids := make([]uint, 0, len(books))
	for _, b := range books {
		ids = append(ids, b.ID)
	}

	return ids
}
