package transaction

import "context"

// Transactor runs fn inside a single store transaction. Repositories called
// with the ctx handed to fn take part in that transaction. If fn returns an
// error every write made through ctx is rolled back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
