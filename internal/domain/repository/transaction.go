package repository

import "context"

// TransactionManager runs fn atomically. fn's error rolls everything back
// and is returned unchanged.
type TransactionManager interface {
	Execute(ctx context.Context, fn func(tx Tx) error) error
}

// Tx hands out repositories that all write through one open transaction.
type Tx interface {
	Publishers() PublisherRepository
	Books() BookRepository
	Accounts() AccountRepository
	Members() MemberRepository
	Orders() OrderRepository
	Reviews() ReviewRepository
}
