package services

import (
	"context"
	"testing"

	"robosnap_server/schemas"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Under the owner-nested layout each side of a pair keeps its own copy of the
// conversation, so the same pair has two threads. Migration folds both into the
// single pair thread.
func TestChat_MigrateNestedThreads(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.register(t, "alice")
	env.register(t, "bob")

	shared := schemas.MessageSchema{ID: "m1", Sender: "alice", Text: "hi", Timestamp: 100}

	require.NoError(t, env.records.PutFriend(ctx, "alice", schemas.FriendRecord{
		Key: "k_alice_bob", Name: "bob", Created: 1,
		Chats: []schemas.MessageSchema{shared, {ID: "m2", Sender: "alice", Text: "you there?", Timestamp: 300}},
	}))
	require.NoError(t, env.records.PutFriend(ctx, "bob", schemas.FriendRecord{
		Key: "k_bob_alice", Name: "alice", Created: 1,
		Chats: []schemas.MessageSchema{shared, {ID: "m3", Sender: "bob", Text: "yes", Timestamp: 200}, {ID: "m4", Sender: "bob", Text: "  ", Timestamp: 250}},
	}))

	t.Run("nested copies diverge before migration", func(t *testing.T) {
		aliceSide, err := env.records.Friends(ctx, "alice")
		require.NoError(t, err)
		bobSide, err := env.records.Friends(ctx, "bob")
		require.NoError(t, err)

		var aliceChats, bobChats []schemas.MessageSchema
		for _, f := range aliceSide {
			aliceChats = append(aliceChats, f.Chats...)
		}
		for _, f := range bobSide {
			bobChats = append(bobChats, f.Chats...)
		}
		assert.NotEqual(t, aliceChats, bobChats)
		assert.Equal(t, 0, env.chains.Count())
	})

	report, err := env.Chat.MigrateNestedThreads(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, schemas.MigrationSchema{Threads: 1, Moved: 2, Skipped: 0}, report)

	report, err = env.Chat.MigrateNestedThreads(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, schemas.MigrationSchema{Threads: 1, Moved: 1, Skipped: 2}, report)

	t.Run("one thread holds the union", func(t *testing.T) {
		assert.Equal(t, 1, env.chains.Count())

		chain, err := env.Chat.Messages(ctx, "alice", "bob")
		require.NoError(t, err)
		var ids []string
		for _, msg := range chain {
			ids = append(ids, msg.ID)
		}
		assert.Equal(t, []string{"m1", "m3", "m2"}, ids)
	})

	t.Run("nested copies are cleared", func(t *testing.T) {
		for _, owner := range []string{"alice", "bob"} {
			friends, err := env.records.Friends(ctx, owner)
			require.NoError(t, err)
			for _, f := range friends {
				assert.Empty(t, f.Chats)
			}
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		report, err := env.Chat.MigrateNestedThreads(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, schemas.MigrationSchema{}, report)

		chain, err := env.Chat.Messages(ctx, "alice", "bob")
		require.NoError(t, err)
		assert.Len(t, chain, 3)
	})

	t.Run("edges to vanished peers are skipped", func(t *testing.T) {
		require.NoError(t, env.records.PutFriend(ctx, "alice", schemas.FriendRecord{
			Key: "k_ghost", Name: "ghost", Created: 2,
			Chats: []schemas.MessageSchema{{ID: "g1", Sender: "alice", Text: "boo", Timestamp: 1}},
		}))

		report, err := env.Chat.MigrateNestedThreads(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, schemas.MigrationSchema{Skipped: 1}, report)
	})
}
