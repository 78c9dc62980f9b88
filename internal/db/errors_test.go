package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/surrealdb/surrealdb.go"
)

func TestWrapQueryError(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		assert.NoError(t, wrapQueryError(nil))
	})

	t.Run("transaction conflict mapped to sentinel", func(t *testing.T) {
		err := wrapQueryError(&surrealdb.QueryError{Message: "Transaction conflict: the record was written by another transaction"})
		assert.ErrorIs(t, err, ErrTransactionConflict)
	})

	t.Run("wrapped query error still detected", func(t *testing.T) {
		inner := &surrealdb.QueryError{Message: "Transaction conflict"}
		err := wrapQueryError(fmt.Errorf("query: %w", inner))
		assert.ErrorIs(t, err, ErrTransactionConflict)
	})

	t.Run("other query errors pass through", func(t *testing.T) {
		inner := &surrealdb.QueryError{Message: "Parse error: unexpected token"}
		err := wrapQueryError(inner)
		assert.NotErrorIs(t, err, ErrTransactionConflict)
	})

	t.Run("plain errors pass through", func(t *testing.T) {
		plain := errors.New("connection reset")
		assert.Same(t, plain, wrapQueryError(plain))
	})
}

func TestRetryOnConflict(t *testing.T) {
	t.Run("conflict retried once", func(t *testing.T) {
		calls := 0
		err := retryOnConflict(func() error {
			calls++
			if calls == 1 {
				return fmt.Errorf("save: %w", ErrTransactionConflict)
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("persistent conflict surfaces after one retry", func(t *testing.T) {
		calls := 0
		err := retryOnConflict(func() error {
			calls++
			return ErrTransactionConflict
		})
		assert.ErrorIs(t, err, ErrTransactionConflict)
		assert.Equal(t, 2, calls)
	})

	t.Run("other errors not retried", func(t *testing.T) {
		calls := 0
		err := retryOnConflict(func() error {
			calls++
			return errors.New("boom")
		})
		assert.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}
