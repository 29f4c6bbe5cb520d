package client

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"net"
	"testing"
	"time"

	"robosnap_server/config"
	"robosnap_server/errors"
	"robosnap_server/handlers"
	"robosnap_server/helpers"
	"robosnap_server/routes"
	"robosnap_server/schemas"
	"robosnap_server/services"
	"robosnap_server/socket"
	"robosnap_server/store"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startServer runs the whole API on a loopback port and returns its base url
func startServer(t *testing.T) (string, *socket.Hub) {
	t.Helper()

	config.Config.Version = "v1"

	private, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	records := store.NewMemoryRecords()
	s := services.New(&services.Deps{
		Records:  records,
		Sessions: records,
		Chains:   store.NewMemoryChains(),
		Objects:  store.NewMemoryObjects(),
		Broker:   store.NewMemoryBroker(),
		Keys:     helpers.JWTKeys{Private: private, Public: &private.PublicKey},
		Default:  config.DefaultConfig{BotName: "Default"},
	})
	require.NoError(t, s.Identity.EnsureDefaultBot(context.Background()))

	hub := socket.NewHub(s)
	app := fiber.New(fiber.Config{JSONEncoder: jsoniter.Marshal, DisableStartupMessage: true})
	routes.SetRoutes(app, handlers.New(s, hub), s.Identity)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go app.Listener(ln)
	t.Cleanup(func() { app.Shutdown() })

	return "http://" + ln.Addr().String() + "/v1", hub
}

func TestClient_Sessions(t *testing.T) {
	base, _ := startServer(t)

	keyring := NewMemoryKeyring()
	c := New(base, keyring)

	t.Run("nothing remembered restores nothing", func(t *testing.T) {
		session, err := c.RestoreSession()
		require.NoError(t, err)
		assert.Nil(t, session)
	})

	session, err := c.Register("alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "alice", session.Username())
	require.Len(t, session.User().Friends, 1)

	username, ok, _ := keyring.Get(SlotUsername)
	assert.True(t, ok)
	assert.Equal(t, "alice", username)

	t.Run("sad path - duplicate register", func(t *testing.T) {
		_, err := New(base, NewMemoryKeyring()).Register("alice", "pw2")
		assert.True(t, errors.Is(err, errors.CodeAlreadyExists), "got %v", err)
	})

	t.Run("sad path - wrong password is not remembered", func(t *testing.T) {
		other := NewMemoryKeyring()
		_, err := New(base, other).Login("alice", "nope")
		assert.True(t, errors.Is(err, errors.CodeWrongCredential))
		_, ok, _ := other.Get(SlotUsername)
		assert.False(t, ok)
	})

	t.Run("restore logs in silently", func(t *testing.T) {
		restored, err := c.RestoreSession()
		require.NoError(t, err)
		require.NotNil(t, restored)
		assert.Equal(t, "alice", restored.Username())
		assert.NotEqual(t, session.ID(), restored.ID())
	})

	t.Run("refresh keeps the session usable", func(t *testing.T) {
		require.NoError(t, session.Refresh())
		_, err := session.Reload()
		require.NoError(t, err)
	})

	t.Run("logout forgets the credentials", func(t *testing.T) {
		require.NoError(t, session.Logout())
		_, ok, _ := keyring.Get(SlotUsername)
		assert.False(t, ok)

		restored, err := c.RestoreSession()
		require.NoError(t, err)
		assert.Nil(t, restored)

		_, err = session.Friends()
		assert.True(t, errors.Is(err, errors.CodeUnauthorized), "got %v", err)
	})
}

func TestClient_FriendsChatMedia(t *testing.T) {
	base, _ := startServer(t)

	_, err := New(base, NewMemoryKeyring()).Register("alice", "pw1")
	require.NoError(t, err)
	bob, err := New(base, NewMemoryKeyring()).Register("bob", "pw2")
	require.NoError(t, err)

	results, err := bob.Search("ali")
	require.NoError(t, err)
	require.Len(t, results, 1)

	friend, err := bob.AddFriend("alice")
	require.NoError(t, err)
	friends, err := bob.Friends()
	require.NoError(t, err)
	assert.Len(t, friends, 2)

	marker, err := bob.ResolveMarker("alice")
	require.NoError(t, err)
	assert.True(t, marker.CanChat)

	require.NoError(t, bob.RemoveFriend(friend.Key))
	require.NoError(t, bob.RemoveFriend(friend.Key))
	friends, err = bob.Friends()
	require.NoError(t, err)
	assert.Len(t, friends, 1)

	_, err = bob.Send("alice", "  ")
	assert.True(t, errors.Is(err, errors.CodeInvalidArgument))

	thread, err := bob.EnsureThread("alice")
	require.NoError(t, err)
	assert.Equal(t, "alice:bob", thread.ID)

	_, err = bob.Send("alice", "hello")
	require.NoError(t, err)
	chain, err := bob.Messages("alice")
	require.NoError(t, err)
	require.Len(t, chain, 1)
	assert.Equal(t, "bob", chain[0].Sender)

	report, err := bob.MigrateThreads()
	require.NoError(t, err)
	assert.Equal(t, schemas.MigrationSchema{}, report)

	flow := NewCaptureFlow(&fakeCamera{photo: halfImage(t)}, bob)
	require.NoError(t, flow.Shutter())
	photo, err := flow.Save()
	require.NoError(t, err)
	assert.True(t, flow.Saved())

	photos, err := bob.Photos()
	require.NoError(t, err)
	require.Len(t, photos, 1)
	assert.Equal(t, photo.ID, photos[0].ID)
}

func TestClient_ShareLocation(t *testing.T) {
	base, _ := startServer(t)
	alice, err := New(base, NewMemoryKeyring()).Register("alice", "pw1")
	require.NoError(t, err)

	t.Run("sad path - permission denied shares nothing", func(t *testing.T) {
		_, err := alice.ShareLocation(StaticLocator{Granted: false, Position: schemas.LocationSchema{Latitude: 9, Longitude: 9}})
		assert.True(t, errors.Is(err, errors.CodePermissionDenied))

		snapshot, err := alice.Presence()
		require.NoError(t, err)
		for _, p := range snapshot {
			assert.NotEqual(t, 9.0, p.Latitude)
		}
	})

	t.Run("granted", func(t *testing.T) {
		position, err := alice.ShareLocation(StaticLocator{Granted: true, Position: schemas.LocationSchema{Latitude: 35.68, Longitude: 139.69}})
		require.NoError(t, err)
		assert.Equal(t, 35.68, position.Latitude)

		marker, err := alice.ResolveMarker("alice")
		require.NoError(t, err)
		assert.Equal(t, schemas.MarkerSelf, marker.Kind)

		snapshot, err := alice.Presence()
		require.NoError(t, err)
		var found bool
		for _, p := range snapshot {
			if p.Name == "alice" {
				found = true
				assert.Equal(t, 139.69, p.Longitude)
			}
		}
		assert.True(t, found)
	})
}

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "stream closed")
		return v
	case <-time.After(5 * time.Second):
		t.Fatal("no snapshot")
	}
	var zero T
	return zero
}

func TestClient_Streams(t *testing.T) {
	base, hub := startServer(t)

	alice, err := New(base, NewMemoryKeyring()).Register("alice", "pw1")
	require.NoError(t, err)
	bob, err := New(base, NewMemoryKeyring()).Register("bob", "pw2")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t.Run("presence", func(t *testing.T) {
		presence, err := alice.SubscribePresence(ctx)
		require.NoError(t, err)
		assert.Len(t, receive(t, presence), 3)

		require.NoError(t, bob.UpdateLocation(1.5, 2.5))
		snapshot := receive(t, presence)
		require.Len(t, snapshot, 3)
		assert.Equal(t, 1.5, snapshot[2].Latitude)
	})

	t.Run("thread", func(t *testing.T) {
		thread, err := alice.SubscribeThread(ctx, "bob")
		require.NoError(t, err)
		assert.Empty(t, receive(t, thread))

		_, err = bob.Send("alice", "hey")
		require.NoError(t, err)
		chain := receive(t, thread)
		require.Len(t, chain, 1)
		assert.Equal(t, "hey", chain[0].Text)
	})

	t.Run("friends", func(t *testing.T) {
		friends, err := bob.SubscribeFriends(ctx)
		require.NoError(t, err)
		assert.Len(t, receive(t, friends), 1)

		_, err = bob.AddFriend("alice")
		require.NoError(t, err)
		assert.Len(t, receive(t, friends), 2)
	})

	t.Run("sad path - unknown peer", func(t *testing.T) {
		_, err := alice.SubscribeThread(ctx, "ghost")
		assert.True(t, errors.Is(err, errors.CodeNotFound), "got %v", err)
	})

	t.Run("logout closes the session's streams", func(t *testing.T) {
		assert.Eventually(t, func() bool { return hub.Count() == 3 }, 5*time.Second, 10*time.Millisecond)

		own, err := bob.SubscribeFriends(context.Background())
		require.NoError(t, err)
		receive(t, own)

		require.NoError(t, bob.Logout())

		assert.Eventually(t, func() bool {
			select {
			case _, ok := <-own:
				return !ok
			default:
				return false
			}
		}, 5*time.Second, 10*time.Millisecond)

		assert.Eventually(t, func() bool { return hub.Count() == 2 }, 5*time.Second, 10*time.Millisecond)
	})
}

func TestClient_StreamReconnects(t *testing.T) {
	base, hub := startServer(t)

	alice, err := New(base, NewMemoryKeyring()).Register("alice", "pw1")
	require.NoError(t, err)

	for i := 0; i < 200; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		presence, err := alice.SubscribePresence(ctx)
		require.NoError(t, err, "attempt %d", i)
		receive(t, presence)
		cancel()
		for range presence {
		}
	}

	assert.Eventually(t, func() bool { return hub.Count() == 0 }, 5*time.Second, 10*time.Millisecond)

	t.Run("a stream still works after the churn", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		presence, err := alice.SubscribePresence(ctx)
		require.NoError(t, err)
		assert.Len(t, receive(t, presence), 2)

		require.NoError(t, alice.UpdateLocation(3, 4))
		assert.Len(t, receive(t, presence), 2)
	})
}
