package services

import (
	"context"
	Errors "errors"
	"strings"
	"testing"

	"robosnap_server/errors"
	"robosnap_server/schemas"
	"robosnap_server/store"
	"robosnap_server/store/mocks"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBackend = Errors.New("connection refused")

type backendMocks struct {
	records *mocks.MockRecords
	chains  *mocks.MockChains
	objects *mocks.MockObjects
}

// newMockedEnv runs the services over mocked stores. fail sets the failing
// expectations; every other call falls through to the memory stores.
func newMockedEnv(t *testing.T, fail func(m backendMocks)) *testEnv {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := backendMocks{
		records: mocks.NewMockRecords(ctrl),
		chains:  mocks.NewMockChains(ctrl),
		objects: mocks.NewMockObjects(ctrl),
	}
	fail(m)

	env := newMemoryEnv()
	fallThroughRecords(m.records, env.records)
	fallThroughChains(m.chains, env.chains)
	fallThroughObjects(m.objects, env.objects)

	env.start(t, m.records, m.chains, m.objects)
	return env
}

func fallThroughRecords(m *mocks.MockRecords, r *store.MemoryRecords) {
	g := m.EXPECT()
	g.CreateUser(gomock.Any(), gomock.Any()).DoAndReturn(r.CreateUser).AnyTimes()
	g.GetUser(gomock.Any(), gomock.Any()).DoAndReturn(r.GetUser).AnyTimes()
	g.PutUser(gomock.Any(), gomock.Any()).DoAndReturn(r.PutUser).AnyTimes()
	g.DeleteUser(gomock.Any(), gomock.Any()).DoAndReturn(r.DeleteUser).AnyTimes()
	g.PutFriend(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(r.PutFriend).AnyTimes()
	g.Friends(gomock.Any(), gomock.Any()).DoAndReturn(r.Friends).AnyTimes()
	g.RemoveFriend(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(r.RemoveFriend).AnyTimes()
	g.PutRobot(gomock.Any(), gomock.Any()).DoAndReturn(r.PutRobot).AnyTimes()
	g.GetRobot(gomock.Any(), gomock.Any()).DoAndReturn(r.GetRobot).AnyTimes()
	g.Robots(gomock.Any()).DoAndReturn(r.Robots).AnyTimes()
}

func fallThroughChains(m *mocks.MockChains, c *store.MemoryChains) {
	g := m.EXPECT()
	g.EnsureChain(gomock.Any(), gomock.Any()).DoAndReturn(c.EnsureChain).AnyTimes()
	g.GetChain(gomock.Any(), gomock.Any()).DoAndReturn(c.GetChain).AnyTimes()
	g.AppendMessage(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(c.AppendMessage).AnyTimes()
	g.Messages(gomock.Any(), gomock.Any()).DoAndReturn(c.Messages).AnyTimes()
}

func fallThroughObjects(m *mocks.MockObjects, o *store.MemoryObjects) {
	g := m.EXPECT()
	g.Put(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(o.Put).AnyTimes()
	g.List(gomock.Any(), gomock.Any()).DoAndReturn(o.List).AnyTimes()
	g.URL(gomock.Any(), gomock.Any()).DoAndReturn(o.URL).AnyTimes()
}

func TestIdentity_RegisterRollsBack(t *testing.T) {
	ctx := context.Background()

	assertGone := func(t *testing.T, env *testEnv) {
		_, exists, err := env.records.GetUser(ctx, "alice")
		require.NoError(t, err)
		assert.False(t, exists)

		friends, err := env.records.Friends(ctx, "alice")
		require.NoError(t, err)
		assert.Empty(t, friends)

		_, err = env.Identity.Login(ctx, "alice", "pw1")
		assert.True(t, errors.Is(err, errors.CodeNotFound), "got %v", err)
	}

	t.Run("sad path - directory write fails", func(t *testing.T) {
		env := newMockedEnv(t, func(m backendMocks) {
			m.records.EXPECT().PutRobot(gomock.Any(), schemas.RobotRecord{Name: "alice"}).Return(errBackend).Times(1)
		})

		_, err := env.Identity.Register(ctx, "alice", "pw1")
		assert.True(t, errors.Is(err, errors.CodeTransportFailure), "got %v", err)
		assertGone(t, env)

		t.Run("retry completes the user", func(t *testing.T) {
			_, err := env.Identity.Register(ctx, "alice", "pw1")
			require.NoError(t, err)

			_, exists, err := env.records.GetRobot(ctx, "alice")
			require.NoError(t, err)
			assert.True(t, exists)

			env.register(t, "bob")
			results, err := env.Friends.Search(ctx, "bob", "alice")
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Equal(t, "alice", results[0].Name)
		})
	})

	t.Run("sad path - default friend write fails", func(t *testing.T) {
		env := newMockedEnv(t, func(m backendMocks) {
			m.records.EXPECT().PutFriend(gomock.Any(), "alice", gomock.Any()).Return(errBackend).Times(1)
		})

		_, err := env.Identity.Register(ctx, "alice", "pw1")
		assert.True(t, errors.Is(err, errors.CodeTransportFailure), "got %v", err)
		assertGone(t, env)

		_, exists, err := env.records.GetRobot(ctx, "alice")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("sad path - rollback fails too", func(t *testing.T) {
		env := newMockedEnv(t, func(m backendMocks) {
			m.records.EXPECT().PutRobot(gomock.Any(), schemas.RobotRecord{Name: "alice"}).Return(errBackend).Times(1)
			m.records.EXPECT().DeleteUser(gomock.Any(), "alice").Return(errBackend).Times(1)
		})

		_, err := env.Identity.Register(ctx, "alice", "pw1")
		assert.True(t, errors.Is(err, errors.CodeTransportFailure), "got %v", err)
	})
}

func TestChat_SendTransportFailure(t *testing.T) {
	ctx := context.Background()

	env := newMockedEnv(t, func(m backendMocks) {
		m.chains.EXPECT().AppendMessage(gomock.Any(), "alice:bob", gomock.Any()).Return(errBackend).Times(1)
	})
	env.register(t, "alice")
	env.register(t, "bob")

	_, err := env.Chat.Send(ctx, "alice", "bob", "lost")
	assert.True(t, errors.Is(err, errors.CodeTransportFailure), "got %v", err)

	chain, err := env.Chat.Messages(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Empty(t, chain)

	_, err = env.Chat.Send(ctx, "alice", "bob", "kept")
	require.NoError(t, err)

	chain, err = env.Chat.Messages(ctx, "bob", "alice")
	require.NoError(t, err)
	require.Len(t, chain, 1)
	assert.Equal(t, "kept", chain[0].Text)
}

func TestMedia_UploadTransportFailure(t *testing.T) {
	ctx := context.Background()

	env := newMockedEnv(t, func(m backendMocks) {
		m.objects.EXPECT().
			Put(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(int64(0), errBackend).
			Times(1)
	})
	env.register(t, "alice")

	_, err := env.Media.Upload(ctx, "alice", strings.NewReader("photo"), 5, nil)
	assert.True(t, errors.Is(err, errors.CodeTransportFailure), "got %v", err)

	photos, err := env.Media.List(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, photos)

	_, err = env.Media.Upload(ctx, "alice", strings.NewReader("photo"), 5, nil)
	require.NoError(t, err)
}
