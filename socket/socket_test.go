package socket

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_CloseSession(t *testing.T) {
	hub := NewHub(nil)

	var contexts []context.Context
	var WSIDs []string
	for _, sessionID := range []string{"s1", "s1", "s2"} {
		ctx, cancel := context.WithCancel(context.Background())
		WSID, err := hub.create_connection("alice", sessionID, cancel)
		require.NoError(t, err)
		contexts = append(contexts, ctx)
		WSIDs = append(WSIDs, WSID)
	}
	assert.Equal(t, 3, hub.Count())
	assert.NotEqual(t, WSIDs[0], WSIDs[1])

	assert.Equal(t, 2, hub.CloseSession("s1"))
	assert.Equal(t, 1, hub.Count())
	assert.Error(t, contexts[0].Err())
	assert.Error(t, contexts[1].Err())
	assert.NoError(t, contexts[2].Err())

	assert.Equal(t, 0, hub.CloseSession("s1"))

	hub.delete_connection(WSIDs[2])
	assert.Equal(t, 0, hub.Count())
	assert.Error(t, contexts[2].Err())

	hub.delete_connection(WSIDs[2])
}

func TestHub_ConcurrentConnections(t *testing.T) {
	hub := NewHub(nil)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, cancel := context.WithCancel(context.Background())
			_, err := hub.create_connection("bob", "s", cancel)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, hub.Count())
	assert.Equal(t, 100, hub.CloseSession("s"))
	assert.Equal(t, 0, hub.Count())
}

func TestConstructMessage(t *testing.T) {
	msg := construct_ws_message(OP_THREAD, []string{"x"})
	assert.Equal(t, OP_THREAD, msg.Op)
	assert.Equal(t, "chat", topicOf(msg.Op))
	assert.Equal(t, "error", topicOf(OP_ERROR))
}
