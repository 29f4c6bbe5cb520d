package store

import (
	"context"
	"io"
	"io/ioutil"
	"sort"
	"strings"
	"sync"
	"time"

	"robosnap_server/schemas"
)

// MemoryRecords implements Records and Sessions in process memory.
type MemoryRecords struct {
	mu       sync.RWMutex
	users    map[string]schemas.UserRecord
	friends  map[string]map[string]schemas.FriendRecord
	robots   map[string]schemas.RobotRecord
	sessions map[string]memorySession
}

type memorySession struct {
	rec     schemas.SessionRecord
	expires time.Time
}

func NewMemoryRecords() *MemoryRecords {
	return &MemoryRecords{
		users:    make(map[string]schemas.UserRecord),
		friends:  make(map[string]map[string]schemas.FriendRecord),
		robots:   make(map[string]schemas.RobotRecord),
		sessions: make(map[string]memorySession),
	}
}

func (m *MemoryRecords) CreateUser(ctx context.Context, rec schemas.UserRecord) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[rec.Name]; ok {
		return false, nil
	}
	m.users[rec.Name] = rec
	return true, nil
}

func (m *MemoryRecords) GetUser(ctx context.Context, name string) (schemas.UserRecord, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.users[name]
	return rec, ok, nil
}

func (m *MemoryRecords) PutUser(ctx context.Context, rec schemas.UserRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[rec.Name] = rec
	return nil
}

func (m *MemoryRecords) DeleteUser(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, name)
	delete(m.friends, name)
	delete(m.robots, name)
	return nil
}

func (m *MemoryRecords) PutFriend(ctx context.Context, owner string, friend schemas.FriendRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.friends[owner] == nil {
		m.friends[owner] = make(map[string]schemas.FriendRecord)
	}
	friend.Chats = append([]schemas.MessageSchema(nil), friend.Chats...)
	m.friends[owner][friend.Key] = friend
	return nil
}

func (m *MemoryRecords) Friends(ctx context.Context, owner string) ([]schemas.FriendRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	friends := make([]schemas.FriendRecord, 0, len(m.friends[owner]))
	for _, f := range m.friends[owner] {
		f.Chats = append([]schemas.MessageSchema(nil), f.Chats...)
		friends = append(friends, f)
	}
	return friends, nil
}

func (m *MemoryRecords) RemoveFriend(ctx context.Context, owner string, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.friends[owner][key]; !ok {
		return false, nil
	}
	delete(m.friends[owner], key)
	return true, nil
}

func (m *MemoryRecords) PutRobot(ctx context.Context, robot schemas.RobotRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.robots[robot.Name] = robot
	return nil
}

func (m *MemoryRecords) GetRobot(ctx context.Context, name string) (schemas.RobotRecord, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	robot, ok := m.robots[name]
	return robot, ok, nil
}

func (m *MemoryRecords) Robots(ctx context.Context) ([]schemas.RobotRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	robots := make([]schemas.RobotRecord, 0, len(m.robots))
	for _, robot := range m.robots {
		robots = append(robots, robot)
	}
	return robots, nil
}

func (m *MemoryRecords) PutSession(ctx context.Context, sessionID string, rec schemas.SessionRecord, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionID] = memorySession{rec: rec, expires: time.Now().Add(ttl)}
	return nil
}

func (m *MemoryRecords) GetSession(ctx context.Context, sessionID string) (schemas.SessionRecord, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sessionID]
	if !ok || time.Now().After(s.expires) {
		return schemas.SessionRecord{}, false, nil
	}
	return s.rec, true, nil
}

func (m *MemoryRecords) DeleteSession(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

// MemoryChains implements Chains in process memory.
type MemoryChains struct {
	mu       sync.Mutex
	threads  map[string]schemas.ThreadSchema
	messages map[string][]schemas.MessageSchema
}

func NewMemoryChains() *MemoryChains {
	return &MemoryChains{
		threads:  make(map[string]schemas.ThreadSchema),
		messages: make(map[string][]schemas.MessageSchema),
	}
}

func (m *MemoryChains) EnsureChain(ctx context.Context, thread schemas.ThreadSchema) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.threads[thread.ID]; ok {
		return false, nil
	}
	m.threads[thread.ID] = thread
	return true, nil
}

func (m *MemoryChains) GetChain(ctx context.Context, chainID string) (schemas.ThreadSchema, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	thread, ok := m.threads[chainID]
	return thread, ok, nil
}

// AppendMessage keeps rows unique on (timestamp, id) the way the clustering key does
func (m *MemoryChains) AppendMessage(ctx context.Context, chainID string, msg schemas.MessageSchema) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.messages[chainID] {
		if existing.ID == msg.ID && existing.Timestamp == msg.Timestamp {
			m.messages[chainID][i] = msg
			return nil
		}
	}
	m.messages[chainID] = append(m.messages[chainID], msg)
	return nil
}

func (m *MemoryChains) Messages(ctx context.Context, chainID string) ([]schemas.MessageSchema, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]schemas.MessageSchema{}, m.messages[chainID]...), nil
}

// Count returns how many threads exist
func (m *MemoryChains) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.threads)
}

// MemoryObjects implements Objects in process memory.
type MemoryObjects struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemoryObjects() *MemoryObjects {
	return &MemoryObjects{objects: make(map[string][]byte)}
}

func (m *MemoryObjects) Put(ctx context.Context, name string, r io.Reader, size int64, contentType string, progress io.Reader) (int64, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return 0, err
	}
	if progress != nil {
		if _, err = io.CopyN(ioutil.Discard, progress, int64(len(data))); err != nil && err != io.EOF {
			return 0, err
		}
	}
	m.mu.Lock()
	m.objects[name] = data
	m.mu.Unlock()
	return int64(len(data)), nil
}

func (m *MemoryObjects) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	objects := []ObjectInfo{}
	for name, data := range m.objects {
		if strings.HasPrefix(name, prefix) {
			objects = append(objects, ObjectInfo{Name: name, Size: int64(len(data))})
		}
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Name < objects[j].Name })
	return objects, nil
}

func (m *MemoryObjects) URL(ctx context.Context, name string) (string, error) {
	return "memory://" + name, nil
}

// Get returns a copy of a stored object
func (m *MemoryObjects) Get(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[name]
	return append([]byte(nil), data...), ok
}

// MemoryBroker implements Broker in process memory.
type MemoryBroker struct {
	mu   sync.Mutex
	subs map[string]map[*memorySubscription]struct{}
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{subs: make(map[string]map[*memorySubscription]struct{})}
}

func (b *MemoryBroker) Publish(ctx context.Context, topic string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs[topic] {
		select {
		case sub.c <- struct{}{}:
		default:
		}
	}
	return nil
}

func (b *MemoryBroker) Subscribe(ctx context.Context, topic string) (Subscription, error) {
	sub := &memorySubscription{broker: b, topic: topic, c: make(chan struct{}, 1)}
	b.mu.Lock()
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[*memorySubscription]struct{})
	}
	b.subs[topic][sub] = struct{}{}
	b.mu.Unlock()
	return sub, nil
}

// Subscribers returns how many live subscriptions a topic has
func (b *MemoryBroker) Subscribers(topic string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[topic])
}

type memorySubscription struct {
	broker *MemoryBroker
	topic  string
	c      chan struct{}
}

func (s *memorySubscription) C() <-chan struct{} {
	return s.c
}

func (s *memorySubscription) Close() error {
	s.broker.mu.Lock()
	delete(s.broker.subs[s.topic], s)
	s.broker.mu.Unlock()
	return nil
}
