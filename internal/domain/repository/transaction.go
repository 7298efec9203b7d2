package repository

import "context"

// TxManager runs fn as one unit of work. Repository calls made with the ctx
// passed to fn join the transaction; fn returning an error, or panicking,
// rolls everything back.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
