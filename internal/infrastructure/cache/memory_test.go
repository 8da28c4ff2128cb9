package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipecart/backend/internal/domain"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		c := NewMemoryCache()
		require.NoError(t, c.Set(ctx, "key", "value", time.Minute))

		got, err := c.Get(ctx, "key")
		require.NoError(t, err)
		assert.Equal(t, "value", got)
	})

	t.Run("miss on unknown key", func(t *testing.T) {
		c := NewMemoryCache()
		_, err := c.Get(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("miss after expiry", func(t *testing.T) {
		c := NewMemoryCache()
		require.NoError(t, c.Set(ctx, "key", "value", 10*time.Millisecond))

		time.Sleep(30 * time.Millisecond)
		_, err := c.Get(ctx, "key")
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("delete", func(t *testing.T) {
		c := NewMemoryCache()
		require.NoError(t, c.Set(ctx, "key", "value", time.Minute))
		require.NoError(t, c.Delete(ctx, "key"))

		_, err := c.Get(ctx, "key")
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("values round-trip through json", func(t *testing.T) {
		c := NewMemoryCache()
		candidates := []domain.ProductCandidate{
			{ProductID: "p1", DisplayName: "Melk", Price: 119, Confidence: 0.9},
		}
		require.NoError(t, c.Set(ctx, "key", candidates, time.Minute))

		got, err := c.Get(ctx, "key")
		require.NoError(t, err)

		// Stored as generic JSON values, not the original slice type.
		list, ok := got.([]interface{})
		require.True(t, ok)
		require.Len(t, list, 1)
		first, ok := list[0].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "p1", first["productId"])
	})

	t.Run("unencodable value rejected", func(t *testing.T) {
		c := NewMemoryCache()
		err := c.Set(ctx, "key", make(chan int), time.Minute)
		assert.Error(t, err)
		assert.Equal(t, 0, c.Size())
	})

	t.Run("size", func(t *testing.T) {
		c := NewMemoryCache()
		assert.Equal(t, 0, c.Size())
		require.NoError(t, c.Set(ctx, "a", 1, time.Minute))
		require.NoError(t, c.Set(ctx, "b", 2, time.Minute))
		assert.Equal(t, 2, c.Size())
	})
}
