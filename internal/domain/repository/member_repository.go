package repository

import (
	"context"
	"errors"
	"time"

	"library/internal/domain/entity"
)

var (
	// ErrAccountNotFound is returned when an account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrUsernameTaken is returned when creating an account with a used username.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrMemberNotFound is returned when no member profile exists.
	ErrMemberNotFound = errors.New("member not found")
)

// AccountRepository defines persistence for authentication accounts.
type AccountRepository interface {
	FindByID(ctx context.Context, id uint) (*entity.Account, error)
	FindByUsername(ctx context.Context, username string) (*entity.Account, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, account *entity.Account) error
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
}

// MemberRepository defines persistence for members and their borrowed books.
type MemberRepository interface {
	// FindByAccountID returns the member with account and borrowed books loaded.
	FindByAccountID(ctx context.Context, accountID uint) (*entity.Member, error)

	// List returns every member with account and borrowed books loaded.
	List(ctx context.Context) ([]*entity.Member, error)

	Create(ctx context.Context, member *entity.Member) error

	// AddBorrowedBooks unions bookIDs into the member's borrowed set.
	AddBorrowedBooks(ctx context.Context, memberID uint, bookIDs []uint) error
}
