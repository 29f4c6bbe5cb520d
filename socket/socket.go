package socket

import (
	"context"
	"sync"
	"time"

	"robosnap_server/helpers"
	"robosnap_server/services"

	"github.com/aidarkhanov/nanoid/v2"
	"github.com/segmentio/fasthash/fnv1a"
)

const CONCURRENCY = 32
const MAX_WS_CONNECTION_TIME = 1 * time.Hour
const MAX_WRITE_TIME = 10 * time.Second

type ws_stream struct {
	username  string
	sessionID string
	cancel    context.CancelFunc
}

type conc_ws_id_table struct {
	table map[string]*ws_stream
	sync.RWMutex
}
type conc_ws_id_table_shards []*conc_ws_id_table

func (ct conc_ws_id_table_shards) get_shard(id string) *conc_ws_id_table {
	return ct[fnv1a.HashString32(id)%CONCURRENCY]
}

// Hub tracks every open stream so a logout can tear them down
type Hub struct {
	services *services.Services
	shards   conc_ws_id_table_shards
}

func NewHub(s *services.Services) *Hub {

	shards := make(conc_ws_id_table_shards, CONCURRENCY)
	for i := 0; i < CONCURRENCY; i++ {
		shards[i] = &conc_ws_id_table{table: make(map[string]*ws_stream)}
	}

	return &Hub{services: s, shards: shards}
}

func (h *Hub) create_connection(username string, sessionID string, cancel context.CancelFunc) (string, error) {

	for {
		WSID, err := nanoid.GenerateString(helpers.VALID_NANOID_CHAR, 10)
		if err != nil {
			return "", err
		}

		shard := h.shards.get_shard(WSID)

		shard.Lock()
		if _, exists := shard.table[WSID]; !exists {
			shard.table[WSID] = &ws_stream{username: username, sessionID: sessionID, cancel: cancel}
			shard.Unlock()
			return WSID, nil
		}
		shard.Unlock()
	}
}

func (h *Hub) delete_connection(WSID string) {

	shard := h.shards.get_shard(WSID)

	shard.Lock()
	stream := shard.table[WSID]
	delete(shard.table, WSID)
	shard.Unlock()

	if stream != nil {
		stream.cancel()
	}
}

// CloseSession ends every stream opened with sessionID and reports how many there were
func (h *Hub) CloseSession(sessionID string) int {

	var WSIDs []string

	for _, shard := range h.shards {
		shard.RLock()
		for WSID, stream := range shard.table {
			if stream.sessionID == sessionID {
				WSIDs = append(WSIDs, WSID)
			}
		}
		shard.RUnlock()
	}

	for _, WSID := range WSIDs {
		h.delete_connection(WSID)
	}

	return len(WSIDs)
}

// Count returns how many streams are open
func (h *Hub) Count() int {
	n := 0
	for _, shard := range h.shards {
		shard.RLock()
		n += len(shard.table)
		shard.RUnlock()
	}
	return n
}
