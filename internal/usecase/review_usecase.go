package usecase

import (
	"context"

	"library/internal/domain/entity"
)

// ReviewUsecase defines review eligibility and submission.
type ReviewUsecase interface {
	// CheckEligibility returns the member when allowed to review, otherwise ErrNotEligible.
	CheckEligibility(ctx context.Context, accountID uint) (*entity.Member, error)

	// SubmitReview stores the review and bumps the book's review count in one transaction.
	SubmitReview(ctx context.Context, accountID uint, input ReviewInput) (*entity.Review, error)
}
