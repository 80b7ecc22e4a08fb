package domain

import "context"

// TransactionManager runs a function inside a database transaction. The
// transaction travels in the context; repositories pick it up and fall back
// to the plain connection when none is present.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
