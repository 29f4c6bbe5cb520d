package services

import (
	"context"
	"testing"
	"time"

	"robosnap_server/errors"
	"robosnap_server/schemas"
	"robosnap_server/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresence_UpdateLocation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.register(t, "alice")

	t.Run("happy path", func(t *testing.T) {
		require.NoError(t, env.Presence.UpdateLocation(ctx, "alice", 48.85, 2.35))

		robot, _, err := env.records.GetRobot(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, 48.85, robot.Latitude)
		assert.Equal(t, 2.35, robot.Longitude)

		user, _, err := env.records.GetUser(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, 48.85, user.Latitude)
	})

	t.Run("sad path - out of range", func(t *testing.T) {
		err := env.Presence.UpdateLocation(ctx, "alice", 91, 0)
		assert.True(t, errors.Is(err, errors.CodeInvalidArgument))
		err = env.Presence.UpdateLocation(ctx, "alice", 0, -180.5)
		assert.True(t, errors.Is(err, errors.CodeInvalidArgument))
	})

	t.Run("sad path - unknown user", func(t *testing.T) {
		err := env.Presence.UpdateLocation(ctx, "ghost", 0, 0)
		assert.True(t, errors.Is(err, errors.CodeNotFound))
	})
}

func TestPresence_Snapshot(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.register(t, "zed")
	env.register(t, "alice")

	snapshot, err := env.Presence.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, []schemas.PresenceSchema{
		{Name: "Default", Latitude: 1, Longitude: 2, IsBot: true},
		{Name: "alice"},
		{Name: "zed"},
	}, snapshot)
}

func TestPresence_Subscribe(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")

	ctx, cancel := context.WithCancel(context.Background())

	snapshots, err := env.Presence.Subscribe(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, env.broker.Subscribers(store.PresenceTopic))

	first := <-snapshots
	assert.Len(t, first, 2)

	require.NoError(t, env.Presence.UpdateLocation(context.Background(), "alice", 5, 6))

	second := <-snapshots
	require.Len(t, second, 2)
	assert.Equal(t, 5.0, second[1].Latitude, "every delivery is the full collection")

	cancel()
	for range snapshots {
	}
	assert.Eventually(t, func() bool {
		return env.broker.Subscribers(store.PresenceTopic) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestPresence_ResolveMarker(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.register(t, "alice")
	env.register(t, "bob")
	env.register(t, "carol")

	friend, err := env.Friends.Add(ctx, "alice", "bob")
	require.NoError(t, err)

	marker, err := env.Presence.ResolveMarker(ctx, "alice", "alice")
	require.NoError(t, err)
	assert.Equal(t, schemas.MarkerSelf, marker.Kind)

	marker, err = env.Presence.ResolveMarker(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, schemas.MarkerFriend, marker.Kind)
	assert.Equal(t, friend.Key, marker.FriendKey)
	assert.True(t, marker.CanChat)

	marker, err = env.Presence.ResolveMarker(ctx, "alice", "carol")
	require.NoError(t, err)
	assert.Equal(t, schemas.MarkerStranger, marker.Kind)
	assert.False(t, marker.CanChat)

	_, err = env.Presence.ResolveMarker(ctx, "alice", "ghost")
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}
