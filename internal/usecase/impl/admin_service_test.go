package impl

import (
	"context"
	"testing"

	"library/internal/domain/entity"
	domainerrors "library/internal/domain/errors"
	"library/internal/infra/persistence/model"
	"library/internal/infra/persistence/postgres"
	"library/internal/usecase"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminService_AuthorizeStaff(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	reader := env.account(t, "reader", "irrelevant-pass", true, entity.MemberStatusRegular)
	staff := env.account(t, "staff", "irrelevant-pass", true, 0)
	require.NoError(t, env.db.Model(&model.AccountModel{}).Where("id = ?", staff.ID).Update("is_staff", true).Error)

	assert.NoError(t, env.admin.AuthorizeStaff(ctx, staff.ID))
	assert.True(t, errors.Is(env.admin.AuthorizeStaff(ctx, reader.ID), domainerrors.ErrForbidden))
	assert.True(t, errors.Is(env.admin.AuthorizeStaff(ctx, 999), domainerrors.ErrLoginRequired))
}

func TestAdminService_Publishers(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	publisher, err := env.admin.CreatePublisher(ctx, usecase.PublisherInput{Name: "Tor", Website: "https://tor.example", City: "New York"})
	require.NoError(t, err)
	assert.Equal(t, "USA", publisher.Country)

	_, err = env.admin.CreatePublisher(ctx, usecase.PublisherInput{Website: "not a url"})
	var validationErr *domainerrors.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Contains(t, validationErr.Fields(), "name")
	assert.Contains(t, validationErr.Fields(), "website")

	rows, err := env.admin.ListPublishers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []*usecase.PublisherRow{{ID: publisher.ID, Name: "Tor", Website: "https://tor.example", City: "New York"}}, rows)
}

func TestAdminService_Books(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	publisher := env.publisher(t)

	book, err := env.admin.CreateBook(ctx, usecase.BookInput{Title: "Foundation", Category: "F", Price: "1000", Publisher: publisher.ID})
	require.NoError(t, err)
	assert.EqualValues(t, entity.DefaultNumPages, book.NumPages)

	t.Run("price bounds", func(t *testing.T) {
		for _, price := range []string{"-0.01", "1000.01", "abc", "1.005"} {
			_, err := env.admin.CreateBook(ctx, usecase.BookInput{Title: "Bad", Price: price, Publisher: publisher.ID})

			var validationErr *domainerrors.ValidationError
			require.True(t, errors.As(err, &validationErr), price)
			assert.Contains(t, validationErr.Fields(), "price", price)
		}
	})

	t.Run("unknown publisher", func(t *testing.T) {
		_, err := env.admin.CreateBook(ctx, usecase.BookInput{Title: "Orphan", Price: "1", Publisher: 999})

		var validationErr *domainerrors.ValidationError
		require.True(t, errors.As(err, &validationErr))
		assert.Equal(t, usecase.InvalidChoiceMessage, validationErr.Fields()["publisher"])
	})

	t.Run("update keeps the review count", func(t *testing.T) {
		require.NoError(t, postgres.NewBookRepository(env.db).IncrementReviewCount(ctx, book.ID))

		updated, err := env.admin.UpdateBook(ctx, book.ID, usecase.BookInput{
			Title: "Foundation", Category: "S", NumPages: "320", Price: "0", Publisher: publisher.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, entity.CategoryScience, updated.Category)

		stored, err := postgres.NewBookRepository(env.db).FindByID(ctx, book.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 320, stored.NumPages)
		assert.True(t, stored.Price.IsZero())
		assert.EqualValues(t, 1, stored.NumReviews)
	})

	t.Run("update missing book", func(t *testing.T) {
		_, err := env.admin.UpdateBook(ctx, 999, usecase.BookInput{Title: "X", Price: "1", Publisher: publisher.ID})
		assert.True(t, errors.Is(err, domainerrors.ErrBookNotFound))
	})

	rows, err := env.admin.ListBooks(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Science&Tech", rows[0].Category)
}

func TestAdminService_IncreaseBookPrices(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	publisher := env.publisher(t)
	cheap := env.book(t, publisher.ID, "Cheap", entity.CategoryOther, "5.00")
	dear := env.book(t, publisher.ID, "Dear", entity.CategoryOther, "999.50")
	untouched := env.book(t, publisher.ID, "Untouched", entity.CategoryOther, "7.00")

	changed, err := env.admin.IncreaseBookPrices(ctx, []uint{cheap.ID, dear.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, changed)

	bookRepo := postgres.NewBookRepository(env.db)
	for id, want := range map[uint]string{cheap.ID: "15.00", dear.ID: "1009.50", untouched.ID: "7.00"} {
		stored, err := bookRepo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString(want).Equal(stored.Price), "book %d: got %s", id, stored.Price)
	}

	_, err = env.admin.IncreaseBookPrices(ctx, nil)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestAdminService_ListRows(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	publisher := env.publisher(t)
	b1 := env.book(t, publisher.ID, "B1-title", entity.CategoryFiction, "10.00")
	b2 := env.book(t, publisher.ID, "B2-title", entity.CategoryFiction, "11.00")
	account := env.account(t, "reader", "irrelevant-pass", true, entity.MemberStatusRegular)

	_, err := env.orders.PlaceOrder(ctx, account.ID, usecase.OrderInput{Books: []uint{b1.ID, b2.ID}, OrderType: "1"})
	require.NoError(t, err)
	_, err = env.reviews.SubmitReview(ctx, account.ID, usecase.ReviewInput{Reviewer: "r@example.com", Book: b1.ID, Rating: "5"})
	require.NoError(t, err)

	members, err := env.admin.ListMembers(ctx)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "reader", members[0].Username)
	assert.Equal(t, "Regular member", members[0].Status)
	assert.Equal(t, "B1-title, B2-title", members[0].BooksTitle)

	orders, err := env.admin.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "reader", orders[0].Member)
	assert.Equal(t, "Borrow", orders[0].OrderType)
	assert.Equal(t, 2, orders[0].TotalItems)

	reviews, err := env.admin.ListReviews(ctx)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "B1-title", reviews[0].Book)
	assert.Equal(t, 5, reviews[0].Rating)
}
