package conversation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiox-platform/intake/internal/facts"
)

type testClock struct{ t time.Time }

func (c *testClock) now() time.Time          { return c.t }
func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func setupRedisStore(t *testing.T, ttl time.Duration, maxTurns int) (*Store, *testClock) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	clock := &testClock{t: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	store := NewStore(NewRedisStorage(client, ttl), ttl, maxTurns)
	store.now = clock.now
	return store, clock
}

func setupSQLiteStore(t *testing.T, ttl time.Duration, maxTurns int) (*Store, *testClock) {
	t.Helper()
	storage, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { storage.Close() })

	clock := &testClock{t: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	store := NewStore(storage, ttl, maxTurns)
	store.now = clock.now
	return store, clock
}

func eachBackend(t *testing.T, ttl time.Duration, maxTurns int, fn func(t *testing.T, store *Store, clock *testClock)) {
	t.Run("redis", func(t *testing.T) {
		store, clock := setupRedisStore(t, ttl, maxTurns)
		fn(t, store, clock)
	})
	t.Run("sqlite", func(t *testing.T) {
		store, clock := setupSQLiteStore(t, ttl, maxTurns)
		fn(t, store, clock)
	})
}

func TestStore_GetCreatesFreshRecord(t *testing.T) {
	eachBackend(t, time.Hour, 10, func(t *testing.T, store *Store, _ *testClock) {
		rec, err := store.Get(context.Background(), "E1", "S1")
		require.NoError(t, err)
		assert.Equal(t, "E1_S1", rec.ID)
		assert.Empty(t, rec.History)
		assert.False(t, rec.Greeted)
		assert.True(t, rec.Facts.Empty())
	})
}

func TestStore_AppendPersists(t *testing.T) {
	eachBackend(t, time.Hour, 10, func(t *testing.T, store *Store, _ *testClock) {
		ctx := context.Background()
		rec, err := store.Get(ctx, "E1", "S1")
		require.NoError(t, err)

		rec.Facts.Intervention.SetIfAbsent("rhinoplastie")
		rec.Greeted = true
		require.NoError(t, store.Append(ctx, rec, RoleUser, "Bonjour"))
		require.NoError(t, store.Append(ctx, rec, RoleAssistant, "Bonjour, comment puis-je vous aider ?"))

		loaded, err := store.Get(ctx, "E1", "S1")
		require.NoError(t, err)
		require.Len(t, loaded.History, 2)
		assert.Equal(t, RoleUser, loaded.History[0].Role)
		assert.Equal(t, "Bonjour", loaded.History[0].Text)
		assert.Equal(t, RoleAssistant, loaded.History[1].Role)
		assert.True(t, loaded.Greeted)
		v, ok := loaded.Facts.Intervention.Get()
		assert.True(t, ok)
		assert.Equal(t, "rhinoplastie", v)
	})
}

func TestStore_HistoryBounded(t *testing.T) {
	eachBackend(t, time.Hour, 3, func(t *testing.T, store *Store, _ *testClock) {
		ctx := context.Background()
		rec, err := store.Get(ctx, "E1", "S1")
		require.NoError(t, err)

		for i := 0; i < 5; i++ {
			require.NoError(t, store.Append(ctx, rec, RoleUser, fmt.Sprintf("m%d", i)))
		}

		loaded, err := store.Get(ctx, "E1", "S1")
		require.NoError(t, err)
		require.Len(t, loaded.History, 3)
		assert.Equal(t, "m2", loaded.History[0].Text)
		assert.Equal(t, "m3", loaded.History[1].Text)
		assert.Equal(t, "m4", loaded.History[2].Text)
	})
}

func TestStore_StaleRecordReplaced(t *testing.T) {
	eachBackend(t, time.Hour, 10, func(t *testing.T, store *Store, clock *testClock) {
		ctx := context.Background()
		rec, err := store.Get(ctx, "E1", "S1")
		require.NoError(t, err)
		rec.Facts.Budget.SetIfAbsent(facts.Budget{Kind: facts.BudgetMax, Amount: 3000})
		rec.Greeted = true
		rec.Summary = "faits: budget=max 3000€"
		require.NoError(t, store.Append(ctx, rec, RoleUser, "budget 3000€"))

		clock.advance(59 * time.Minute)
		_, err = store.Find(ctx, "E1", "S1")
		require.NoError(t, err)

		clock.advance(2 * time.Minute)
		_, err = store.Find(ctx, "E1", "S1")
		assert.ErrorIs(t, err, ErrNotFound)

		fresh, err := store.Get(ctx, "E1", "S1")
		require.NoError(t, err)
		assert.Empty(t, fresh.History)
		assert.True(t, fresh.Facts.Empty())
		assert.False(t, fresh.Greeted)
		assert.Empty(t, fresh.Summary)
	})
}

func TestStore_ConversationsIsolated(t *testing.T) {
	eachBackend(t, time.Hour, 10, func(t *testing.T, store *Store, _ *testClock) {
		ctx := context.Background()
		a, err := store.Get(ctx, "E1", "S1")
		require.NoError(t, err)
		b, err := store.Get(ctx, "E1", "S2")
		require.NoError(t, err)

		require.NoError(t, store.Append(ctx, a, RoleUser, "pour S1"))
		require.NoError(t, store.Append(ctx, b, RoleUser, "pour S2"))

		a, err = store.Get(ctx, "E1", "S1")
		require.NoError(t, err)
		require.Len(t, a.History, 1)
		assert.Equal(t, "pour S1", a.History[0].Text)

		other, err := store.Get(ctx, "E2", "S1")
		require.NoError(t, err)
		assert.Empty(t, other.History)
	})
}

func TestStore_Reset(t *testing.T) {
	eachBackend(t, time.Hour, 10, func(t *testing.T, store *Store, _ *testClock) {
		ctx := context.Background()
		rec, err := store.Get(ctx, "E1", "S1")
		require.NoError(t, err)
		require.NoError(t, store.Append(ctx, rec, RoleUser, "salut"))

		require.NoError(t, store.Reset(ctx, "E1", "S1"))
		_, err = store.Find(ctx, "E1", "S1")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSQLiteStorage_Prune(t *testing.T) {
	storage, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer storage.Close()
	ctx := context.Background()

	require.NoError(t, storage.Put(ctx, "k1", []byte(`{}`)))
	n, err := storage.Prune(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = storage.Get(ctx, "k1")
	assert.ErrorIs(t, err, ErrNotFound)
}
