package tx

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithTx(t *testing.T) {
	t.Run("nil tx leaves context untouched", func(t *testing.T) {
		ctx := context.Background()
		assert.Equal(t, ctx, WithTx(ctx, nil))

		_, ok := From(ctx)
		assert.False(t, ok)
	})

	t.Run("round trips the transaction", func(t *testing.T) {
		tx := &sql.Tx{}
		got, ok := From(WithTx(context.Background(), tx))
		assert.True(t, ok)
		assert.Same(t, tx, got)
	})

	t.Run("executor prefers the bound transaction", func(t *testing.T) {
		db := &sql.DB{}
		tx := &sql.Tx{}
		assert.Same(t, db, ExecutorFor(context.Background(), db))
		assert.Same(t, tx, ExecutorFor(WithTx(context.Background(), tx), db))
	})
}
