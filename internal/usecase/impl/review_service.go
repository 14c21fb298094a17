package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "library/internal/delivery/context"
	"library/internal/domain/entity"
	domainerrors "library/internal/domain/errors"
	"library/internal/domain/repository"
	"library/internal/usecase"
	"library/internal/validation"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// reviewService implements the ReviewUsecase interface.
type reviewService struct {
	txManager  repository.TransactionManager
	memberRepo repository.MemberRepository
	now        func() time.Time
	logger     *slog.Logger
}

// ReviewServiceParams holds dependencies for ReviewService, injected by Fx.
type ReviewServiceParams struct {
	fx.In

	TxManager  repository.TransactionManager
	MemberRepo repository.MemberRepository
	Logger     *slog.Logger
}

// NewReviewService is the constructor for reviewService.
func NewReviewService(params ReviewServiceParams) usecase.ReviewUsecase {
	return &reviewService{
		txManager:  params.TxManager,
		memberRepo: params.MemberRepo,
		now:        time.Now,
		logger:     params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *reviewService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CheckEligibility allows regular and premium members. A missing member is ineligible too.
func (srv *reviewService) CheckEligibility(ctx context.Context, accountID uint) (*entity.Member, error) {
	member, err := srv.memberRepo.FindByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			srv.log(ctx).Warn("No member for account", slog.Uint64("accountID", uint64(accountID)))

			return nil, domainerrors.ErrNotEligible
		}
		srv.log(ctx).Error("Failed to find member", slog.Uint64("accountID", uint64(accountID)), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to find member")
	}

	if !member.Status.CanReview() {
		srv.log(ctx).Info("Member not eligible to review", slog.Uint64("memberID", uint64(member.ID)), slog.String("status", member.Status.Label()))

		return nil, domainerrors.ErrNotEligible
	}

	return member, nil
}

// SubmitReview checks eligibility before the form, then stores the review
// and increments the book's review count in one transaction.
func (srv *reviewService) SubmitReview(ctx context.Context, accountID uint, input usecase.ReviewInput) (*entity.Review, error) {
	if _, err := srv.CheckEligibility(ctx, accountID); err != nil {
		return nil, err
	}

	req, err := usecase.ValidateReview(input)
	if err != nil {
		return nil, err
	}

	review := &entity.Review{
		Reviewer: req.Reviewer,
		BookID:   req.BookID,
		Rating:   req.Rating,
		Comments: req.Comments,
		Date:     srv.now(),
	}

	err = srv.txManager.Execute(ctx, func(tx repository.Tx) error {
		if err := tx.Reviews().Create(ctx, review); err != nil {
			if errors.Is(err, repository.ErrBookNotFound) {
				return bookChoiceError()
			}

			return errors.Wrap(err, "failed to create review")
		}

		if err := tx.Books().IncrementReviewCount(ctx, review.BookID); err != nil {
			if errors.Is(err, repository.ErrBookNotFound) {
				return bookChoiceError()
			}

			return errors.Wrap(err, "failed to increment review count")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to submit review", slog.Uint64("accountID", uint64(accountID)), slog.Uint64("bookID", uint64(req.BookID)), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to submit review")
	}

	srv.log(ctx).Info("Review submitted", slog.Uint64("reviewID", uint64(review.ID)), slog.Uint64("bookID", uint64(review.BookID)), slog.Int("rating", review.Rating))

	return review, nil
}

func bookChoiceError() error {
	fields := validation.FieldErrors{}
	fields.Add("book", usecase.InvalidChoiceMessage)

	return fields.Err()
}
