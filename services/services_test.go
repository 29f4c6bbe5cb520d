package services

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"sync"
	"testing"
	"time"

	"robosnap_server/config"
	"robosnap_server/helpers"
	"robosnap_server/store"

	"github.com/stretchr/testify/require"
)

var (
	keysOnce sync.Once
	keys     helpers.JWTKeys
)

func testJWTKeys(t *testing.T) helpers.JWTKeys {
	t.Helper()
	keysOnce.Do(func() {
		private, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic(err)
		}
		keys = helpers.JWTKeys{Private: private, Public: &private.PublicKey}
	})
	return keys
}

// stepClock advances a millisecond on every read so timestamps never collide
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Millisecond)
	return c.t
}

type testEnv struct {
	*Services
	records *store.MemoryRecords
	chains  *store.MemoryChains
	objects *store.MemoryObjects
	broker  *store.MemoryBroker
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := newMemoryEnv()
	env.start(t, env.records, env.chains, env.objects)
	return env
}

func newMemoryEnv() *testEnv {
	return &testEnv{
		records: store.NewMemoryRecords(),
		chains:  store.NewMemoryChains(),
		objects: store.NewMemoryObjects(),
		broker:  store.NewMemoryBroker(),
	}
}

// start builds the services over the given stores; sessions always stay in memory
func (env *testEnv) start(t *testing.T, records store.Records, chains store.Chains, objects store.Objects) {
	t.Helper()

	clock := &stepClock{t: time.Date(2022, 5, 1, 12, 0, 0, 0, time.UTC)}

	env.Services = New(&Deps{
		Records:  records,
		Sessions: env.records,
		Chains:   chains,
		Objects:  objects,
		Broker:   env.broker,
		Keys:     testJWTKeys(t),
		Default:  config.DefaultConfig{BotName: "Default", Latitude: 1, Longitude: 2},
		Now:      clock.Now,
	})

	require.NoError(t, env.Identity.EnsureDefaultBot(context.Background()))
}

func (env *testEnv) register(t *testing.T, name string) {
	t.Helper()
	_, err := env.Identity.Register(context.Background(), name, "pw_"+name)
	require.NoError(t, err)
}
