package mocks

import (
	"context"

	"github.com/choosemycollege/cmc-core/internal/store"
)

// PassthroughTxRunner returns a store.TxRunner that invokes the function
// directly with a nil transaction. The mock stores ignore WithTx, so
// services under test behave as if every operation committed immediately.
func PassthroughTxRunner() store.TxRunner {
	return func(ctx context.Context, fn store.TxFn) error {
		return fn(ctx, nil)
	}
}

// FailingTxRunner returns a store.TxRunner whose transactions always fail
// with the given error before the function runs.
func FailingTxRunner(err error) store.TxRunner {
	return func(ctx context.Context, fn store.TxFn) error {
		return err
	}
}
