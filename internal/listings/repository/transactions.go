package repository

import (
	"context"
	"time"

	mongotx "nestbay/pkg/db/mongo"

	"go.mongodb.org/mongo-driver/mongo"
)

func (r *mongoListingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

// withTimeout bounds a store call unless we are already inside a
// transaction, where wrapping the SessionContext would break session
// semantics.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
