package impl

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"library/internal/domain/entity"
	domainerrors "library/internal/domain/errors"
	"library/internal/infra/persistence/model"
	"library/internal/infra/persistence/postgres"
	"library/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewService_SubmitReview(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	publisher := env.publisher(t)
	book := env.book(t, publisher.ID, "Dune", entity.CategoryFiction, "12.50")
	account := env.account(t, "reader", "irrelevant-pass", true, entity.MemberStatusRegular)

	review, err := env.reviews.SubmitReview(ctx, account.ID, usecase.ReviewInput{
		Reviewer: "reader@example.com",
		Book:     book.ID,
		Rating:   "4",
		Comments: "Great",
	})
	require.NoError(t, err)
	assert.NotZero(t, review.ID)
	assert.Equal(t, env.now, review.Date)

	stored, err := postgres.NewBookRepository(env.db).FindByID(ctx, book.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stored.NumReviews)
}

func TestReviewService_RatingBounds(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	publisher := env.publisher(t)
	book := env.book(t, publisher.ID, "Dune", entity.CategoryFiction, "12.50")
	account := env.account(t, "reader", "irrelevant-pass", true, entity.MemberStatusPremium)

	for _, rating := range []string{"0", "6"} {
		t.Run(rating, func(t *testing.T) {
			_, err := env.reviews.SubmitReview(ctx, account.ID, usecase.ReviewInput{Reviewer: "a@b.com", Book: book.ID, Rating: rating})

			var validationErr *domainerrors.ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, "rating must be between 1 and 5", validationErr.Fields()["rating"])
		})
	}

	t.Run("unknown book", func(t *testing.T) {
		_, err := env.reviews.SubmitReview(ctx, account.ID, usecase.ReviewInput{Reviewer: "a@b.com", Book: 999, Rating: "3"})

		var validationErr *domainerrors.ValidationError
		require.True(t, errors.As(err, &validationErr))
		assert.Equal(t, usecase.InvalidChoiceMessage, validationErr.Fields()["book"])
	})

	assertReviewCount(t, env, 0)
}

func TestReviewService_Eligibility(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	publisher := env.publisher(t)
	book := env.book(t, publisher.ID, "Dune", entity.CategoryFiction, "12.50")
	guest := env.account(t, "guest", "irrelevant-pass", true, entity.MemberStatusGuest)
	noMember := env.account(t, "admin", "irrelevant-pass", true, 0)

	for _, accountID := range []uint{guest.ID, noMember.ID} {
		_, err := env.reviews.CheckEligibility(ctx, accountID)
		assert.True(t, errors.Is(err, domainerrors.ErrNotEligible))

		_, err = env.reviews.SubmitReview(ctx, accountID, usecase.ReviewInput{Reviewer: "a@b.com", Book: book.ID, Rating: "5"})
		assert.True(t, errors.Is(err, domainerrors.ErrNotEligible))
	}

	assertReviewCount(t, env, 0)

	stored, err := postgres.NewBookRepository(env.db).FindByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.NumReviews)
}

func TestReviewService_ConcurrentSubmissions(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	publisher := env.publisher(t)
	book := env.book(t, publisher.ID, "Dune", entity.CategoryFiction, "12.50")
	account := env.account(t, "reader", "irrelevant-pass", true, entity.MemberStatusRegular)

	const submissions = 20

	var wg sync.WaitGroup
	errs := make(chan error, submissions)
	for i := 0; i < submissions; i++ {
		wg.Add(1)
		go func(rating int) {
			defer wg.Done()

			_, err := env.reviews.SubmitReview(ctx, account.ID, usecase.ReviewInput{
				Reviewer: "reader@example.com",
				Book:     book.ID,
				Rating:   strconv.Itoa(rating%5 + 1),
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	stored, err := postgres.NewBookRepository(env.db).FindByID(ctx, book.ID)
	require.NoError(t, err)
	count, err := postgres.NewReviewRepository(env.db).CountByBook(ctx, book.ID)
	require.NoError(t, err)
	assert.EqualValues(t, submissions, count)
	assert.EqualValues(t, count, stored.NumReviews)
}

func assertReviewCount(t *testing.T, env *testEnv, want int64) {
	t.Helper()

	var count int64
	require.NoError(t, env.db.Model(&model.ReviewModel{}).Count(&count).Error)
	assert.Equal(t, want, count)
}
