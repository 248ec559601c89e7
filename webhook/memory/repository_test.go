package memory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/marcelsud/webhook-stream/webhook"
	"github.com/marcelsud/webhook-stream/webhook/memory"
	"github.com/marcelsud/webhook-stream/webhook/payload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWebhook(id string) webhook.Webhook {
	return webhook.Webhook{
		ID:      id,
		Method:  "POST",
		URL:     "http://localhost/webhook",
		Headers: webhook.NewHeaders(webhook.Header{Name: "Content-Type", Value: "application/json"}),
		Body:    payload.ObjectValue(payload.Member{Key: "id", Value: payload.StringValue(id)}),
	}
}

func ids(webhooks []webhook.Webhook) []string {
	result := make([]string, 0, len(webhooks))
	for _, wh := range webhooks {
		result = append(result, wh.ID)
	}
	return result
}

func TestNewRepository(t *testing.T) {
	t.Run("uses given capacity", func(t *testing.T) {
		assert.Equal(t, 3, memory.NewRepository(3).Capacity())
	})

	t.Run("falls back to default capacity", func(t *testing.T) {
		assert.Equal(t, memory.DefaultCapacity, memory.NewRepository(0).Capacity())
		assert.Equal(t, memory.DefaultCapacity, memory.NewRepository(-5).Capacity())
	})
}

func TestRepository_Store(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the webhook id", func(t *testing.T) {
		repo := memory.NewRepository(2)
		id, err := repo.Store(ctx, newWebhook("a"))
		require.NoError(t, err)
		assert.Equal(t, "a", id)
	})

	t.Run("error - missing id", func(t *testing.T) {
		repo := memory.NewRepository(2)
		_, err := repo.Store(ctx, webhook.Webhook{Method: "POST"})
		require.Error(t, err)

		all, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("size never exceeds capacity", func(t *testing.T) {
		for _, capacity := range []int{1, 2, 5} {
			repo := memory.NewRepository(capacity)
			for n := 1; n <= 12; n++ {
				_, err := repo.Store(ctx, newWebhook(fmt.Sprintf("wh-%d", n)))
				require.NoError(t, err)

				all, err := repo.List(ctx)
				require.NoError(t, err)
				assert.Len(t, all, min(n, capacity))
			}
		}
	})

	t.Run("evicts the oldest first", func(t *testing.T) {
		repo := memory.NewRepository(3)
		for n := 1; n <= 4; n++ {
			_, err := repo.Store(ctx, newWebhook(fmt.Sprintf("wh-%d", n)))
			require.NoError(t, err)
		}

		all, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"wh-2", "wh-3", "wh-4"}, ids(all))

		_, err = repo.Get(ctx, "wh-1")
		assert.ErrorIs(t, err, webhook.ErrNotFound)
	})

	t.Run("keeps insertion order across many wraps", func(t *testing.T) {
		repo := memory.NewRepository(4)
		for n := 1; n <= 23; n++ {
			_, err := repo.Store(ctx, newWebhook(fmt.Sprintf("wh-%d", n)))
			require.NoError(t, err)
		}

		all, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"wh-20", "wh-21", "wh-22", "wh-23"}, ids(all))
	})
}

func TestRepository_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("scenario - capacity 2, three appends", func(t *testing.T) {
		repo := memory.NewRepository(2)
		a, b, c := newWebhook("a"), newWebhook("b"), newWebhook("c")
		for _, wh := range []webhook.Webhook{a, b, c} {
			_, err := repo.Store(ctx, wh)
			require.NoError(t, err)
		}

		all, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []webhook.Webhook{b, c}, all)

		_, err = repo.Get(ctx, a.ID)
		assert.ErrorIs(t, err, webhook.ErrNotFound)

		got, err := repo.Get(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, c, got)
	})

	t.Run("not found - never stored", func(t *testing.T) {
		repo := memory.NewRepository(2)
		_, err := repo.Get(ctx, "missing")
		require.Error(t, err)
		assert.ErrorIs(t, err, webhook.ErrNotFound)
		assert.Contains(t, err.Error(), "missing")
	})
}

func TestRepository_List(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store returns empty slice", func(t *testing.T) {
		repo := memory.NewRepository(2)
		all, err := repo.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, all)
		assert.Empty(t, all)
	})

	t.Run("snapshot is not affected by later writes", func(t *testing.T) {
		repo := memory.NewRepository(2)
		_, _ = repo.Store(ctx, newWebhook("a"))
		_, _ = repo.Store(ctx, newWebhook("b"))

		snapshot, err := repo.List(ctx)
		require.NoError(t, err)

		_, _ = repo.Store(ctx, newWebhook("c"))
		_, _ = repo.Store(ctx, newWebhook("d"))

		assert.Equal(t, []string{"a", "b"}, ids(snapshot))
	})
}

func TestRepository_Stats(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository(2)
	for n := 1; n <= 5; n++ {
		_, err := repo.Store(ctx, newWebhook(fmt.Sprintf("wh-%d", n)))
		require.NoError(t, err)
	}

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Stored)
	assert.Equal(t, int64(2), stats.Capacity)
	assert.Equal(t, int64(5), stats.Captured)
	assert.Equal(t, int64(3), stats.Evicted)
}

func TestRepository_Concurrency(t *testing.T) {
	ctx := context.Background()
	const (
		capacity  = 10
		writers   = 8
		perWriter = 50
	)
	repo := memory.NewRepository(capacity)

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for n := 0; n < perWriter; n++ {
				_, err := repo.Store(ctx, newWebhook(fmt.Sprintf("wh-%d-%d", w, n)))
				assert.NoError(t, err)
			}
		}(w)

		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < perWriter; n++ {
				all, err := repo.List(ctx)
				assert.NoError(t, err)
				assert.LessOrEqual(t, len(all), capacity)
			}
		}()
	}
	wg.Wait()

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(capacity), stats.Stored)
	assert.Equal(t, int64(writers*perWriter), stats.Captured)
	assert.Equal(t, stats.Captured-stats.Stored, stats.Evicted)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	seen := make(map[string]bool, len(all))
	for _, wh := range all {
		assert.False(t, seen[wh.ID], "duplicate id %s", wh.ID)
		seen[wh.ID] = true
	}
}
