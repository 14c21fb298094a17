package usecase

import (
	"context"

	"library/internal/domain/entity"
)

// LoginOutput returns the signed session of a successful login.
type LoginOutput struct {
	Token   string
	Session *entity.Session
	Account *entity.Account
}

// RegisterForm holds the choices of the registration form.
type RegisterForm struct {
	Statuses []Choice
}

// MemberUsecase defines authentication and self-registration.
type MemberUsecase interface {
	Login(ctx context.Context, input LoginInput) (*LoginOutput, error)

	// Authenticate resolves a session token to its active account.
	Authenticate(ctx context.Context, token string) (*entity.Session, *entity.Account, error)

	RegisterForm() *RegisterForm
	Register(ctx context.Context, input RegisterInput) (*entity.Member, error)
}
