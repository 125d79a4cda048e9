//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"immat/internal/registration/models"
	"immat/pkg/testutil/containers"
)

func TestSequenceCache(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	ctx := context.Background()
	c := NewSequenceCache(rc.Client, time.Minute)
	key := models.CounterKey{DepartmentID: 4, Class: "TAXI"}

	t.Run("miss on empty cache", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))
		_, ok, err := c.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("round trips a counter under its key", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))
		want := models.Counter{Key: key, Cursor: 42, Suffix: 'C', Version: 9}
		require.NoError(t, c.Set(ctx, want))

		got, ok, err := c.Get(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, want, got)

		ttl, err := rc.Client.PTTL(ctx, "seq:4:TAXI").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
	})

	t.Run("older versions never overwrite newer ones", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))
		require.NoError(t, c.Set(ctx, models.Counter{Key: key, Cursor: 5, Suffix: 'A', Version: 5}))
		require.NoError(t, c.Set(ctx, models.Counter{Key: key, Cursor: 4, Suffix: 'A', Version: 4}))

		got, ok, err := c.Get(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 5, got.Cursor)
	})
}
