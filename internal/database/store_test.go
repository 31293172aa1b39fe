package repository

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo/options"

	"DnsBot/bot/chat"
)

type storedDialogue struct {
	WorkflowID string         `json:"workflow_id"`
	StepIndex  int            `json:"step_index"`
	Data       map[string]any `json:"data"`
}

// testSessionStore runs the behaviour every backend must share.
func testSessionStore(t *testing.T, store chat.SessionStore) {
	ctx := context.Background()
	alice := chat.ChatKey{Platform: "telegram", ChatID: "100"}
	bob := chat.ChatKey{Platform: "telegram", ChatID: "200"}

	t.Run("missing", func(t *testing.T) {
		var out storedDialogue
		found, err := store.Get(ctx, alice, "dialogue", &out)
		require.NoError(t, err)
		assert.False(t, found)

		has, err := store.Has(ctx, alice, "dialogue")
		require.NoError(t, err)
		assert.False(t, has)
	})

	t.Run("round trip", func(t *testing.T) {
		in := storedDialogue{
			WorkflowID: "create_record",
			StepIndex:  2,
			Data: map[string]any{
				"draft": map[string]any{"name": "www", "ttl": 3600},
			},
		}
		require.NoError(t, store.Set(ctx, alice, "dialogue", in))

		var out storedDialogue
		found, err := store.Get(ctx, alice, "dialogue", &out)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "create_record", out.WorkflowID)
		assert.Equal(t, 2, out.StepIndex)
		draft := out.Data["draft"].(map[string]any)
		assert.Equal(t, "www", draft["name"])
		assert.Equal(t, float64(3600), draft["ttl"])

		has, err := store.Has(ctx, alice, "dialogue")
		require.NoError(t, err)
		assert.True(t, has)
	})

	t.Run("isolated by chat and key", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, alice, "wizard", map[string]any{"step": 1}))

		has, err := store.Has(ctx, bob, "dialogue")
		require.NoError(t, err)
		assert.False(t, has)

		var out map[string]any
		found, err := store.Get(ctx, alice, "wizard", &out)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, float64(1), out["step"])
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, alice, "dialogue", storedDialogue{WorkflowID: "delete_record"}))

		var out storedDialogue
		_, err := store.Get(ctx, alice, "dialogue", &out)
		require.NoError(t, err)
		assert.Equal(t, "delete_record", out.WorkflowID)
		assert.Zero(t, out.StepIndex)
	})

	t.Run("clear", func(t *testing.T) {
		require.NoError(t, store.Clear(ctx, alice, "dialogue"))
		require.NoError(t, store.Clear(ctx, alice, "dialogue"))

		has, err := store.Has(ctx, alice, "dialogue")
		require.NoError(t, err)
		assert.False(t, has)

		has, err = store.Has(ctx, alice, "wizard")
		require.NoError(t, err)
		assert.True(t, has)
	})
}

func setupRedisStore(t *testing.T, opts ...RedisOption) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisStore(client, opts...), mr
}

func TestRedisStore(t *testing.T) {
	store, _ := setupRedisStore(t)
	testSessionStore(t, store)
}

func TestRedisStore_PrefixAndTTL(t *testing.T) {
	store, mr := setupRedisStore(t, WithPrefix("test"), WithTTL(time.Hour))
	ctx := context.Background()
	key := chat.ChatKey{Platform: "telegram", ChatID: "1"}

	require.NoError(t, store.Set(ctx, key, "dialogue", map[string]any{"a": 1}))
	assert.True(t, mr.Exists("test:session:telegram:1:dialogue"))
	assert.Equal(t, time.Hour, mr.TTL("test:session:telegram:1:dialogue"))

	mr.FastForward(2 * time.Hour)
	has, err := store.Has(ctx, key, "dialogue")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestRedisStore_CorruptValue(t *testing.T) {
	store, mr := setupRedisStore(t)
	require.NoError(t, mr.Set("dnsbot:session:telegram:1:dialogue", "{not json"))

	var out map[string]any
	_, err := store.Get(context.Background(), chat.ChatKey{Platform: "telegram", ChatID: "1"}, "dialogue", &out)
	assert.Error(t, err)
}

func TestRedisStore_Unavailable(t *testing.T) {
	store, mr := setupRedisStore(t)
	mr.Close()

	err := store.Set(context.Background(), chat.ChatKey{Platform: "telegram", ChatID: "1"}, "dialogue", 1)
	assert.ErrorContains(t, err, "redis set failed")
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore(0)
	testSessionStore(t, store)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore(20 * time.Millisecond)
	ctx := context.Background()
	key := chat.ChatKey{Platform: "telegram", ChatID: "1"}

	require.NoError(t, store.Set(ctx, key, "dialogue", 1))
	assert.Eventually(t, func() bool {
		has, _ := store.Has(ctx, key, "dialogue")
		return !has
	}, time.Second, 10*time.Millisecond)
}

// TestMongoStore needs a live server: MONGO_TEST_URI=mongodb://127.0.0.1:27017
func TestMongoStore(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	ctx := context.Background()
	database := "dnsbot_test_" + time.Now().Format("150405")

	m, err := newMongo(ctx, options.Client().ApplyURI(uri), database, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = m.client.Database(database).Drop(ctx)
		_ = m.Close(ctx)
	})

	testSessionStore(t, m)

	key := chat.ChatKey{Platform: "telegram", ChatID: "100"}
	m.DialogueEvent(chat.Event{Type: chat.EventStarted, Platform: "telegram", ChatID: "100", Time: time.Now()})
	m.DialogueEvent(chat.Event{Type: chat.EventCompleted, Platform: "telegram", ChatID: "100", Time: time.Now().Add(time.Second)})

	events, err := m.RecentEvents(ctx, key, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, chat.EventCompleted, events[0].Type)
}
