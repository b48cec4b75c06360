// Package ports - transaction boundary contract.
package ports

import "context"

// UnitOfWork runs a function inside a single database transaction.
// The context passed to fn carries the transaction; every repository call
// inside fn must use that context. An error from fn rolls the transaction
// back, nil commits it.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(context.Context) error) error
}
