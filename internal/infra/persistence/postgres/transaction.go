// Package postgres implements the domain repositories on GORM.
// PostgreSQL is the production target; SQLite is accepted for local runs and tests.
package postgres

import (
	"context"

	"library/internal/domain/repository"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type txManager struct {
	db *gorm.DB
}

// NewTransactionManager is provided to fx for the use cases that write
// across more than one table.
func NewTransactionManager(db *gorm.DB) repository.TransactionManager {
	return &txManager{db: db}
}

// Execute delegates to gorm.DB.Transaction, which also rolls back when fn panics.
func (m *txManager) Execute(ctx context.Context, fn func(tx repository.Tx) error) error {
	var fnErr error
	err := m.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		fnErr = fn(boundTx{db: db})

		return fnErr
	})

	switch {
	case err == nil:
		return nil
	case fnErr != nil:
		// domain errors from fn pass through untouched
		return fnErr
	default:
		return errors.Wrap(err, "transaction")
	}
}

type boundTx struct {
	db *gorm.DB
}

func (t boundTx) Publishers() repository.PublisherRepository { return NewPublisherRepository(t.db) }
func (t boundTx) Books() repository.BookRepository           { return NewBookRepository(t.db) }
func (t boundTx) Accounts() repository.AccountRepository     { return NewAccountRepository(t.db) }
func (t boundTx) Members() repository.MemberRepository       { return NewMemberRepository(t.db) }
func (t boundTx) Orders() repository.OrderRepository         { return NewOrderRepository(t.db) }
func (t boundTx) Reviews() repository.ReviewRepository       { return NewReviewRepository(t.db) }
