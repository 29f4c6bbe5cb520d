// Package store holds the storage contracts the services run against and their
// backends: Redis for records, sessions and change notifications, ScyllaDB for chat
// threads, MinIO for photos, plus in-memory versions of each.
package store

//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks

import (
	"context"
	"io"
	"time"

	"robosnap_server/schemas"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Records is the record tree: Users/{name}, Users/{name}/friends/{key} and Robots/{name}.
type Records interface {
	// CreateUser stores rec unless a user with that name exists; it reports whether it wrote.
	CreateUser(ctx context.Context, rec schemas.UserRecord) (bool, error)
	GetUser(ctx context.Context, name string) (schemas.UserRecord, bool, error)
	PutUser(ctx context.Context, rec schemas.UserRecord) error
	// DeleteUser drops the user with its friend edges and directory entry.
	DeleteUser(ctx context.Context, name string) error

	PutFriend(ctx context.Context, owner string, friend schemas.FriendRecord) error
	Friends(ctx context.Context, owner string) ([]schemas.FriendRecord, error)
	// RemoveFriend reports whether the key existed.
	RemoveFriend(ctx context.Context, owner string, key string) (bool, error)

	PutRobot(ctx context.Context, robot schemas.RobotRecord) error
	GetRobot(ctx context.Context, name string) (schemas.RobotRecord, bool, error)
	Robots(ctx context.Context) ([]schemas.RobotRecord, error)
}

// Sessions keeps refresh tokens by session id.
type Sessions interface {
	PutSession(ctx context.Context, sessionID string, rec schemas.SessionRecord, ttl time.Duration) error
	GetSession(ctx context.Context, sessionID string) (schemas.SessionRecord, bool, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// Chains keeps chat threads and their messages.
type Chains interface {
	// EnsureChain creates the thread if absent, atomically; it reports whether it created it.
	EnsureChain(ctx context.Context, thread schemas.ThreadSchema) (bool, error)
	GetChain(ctx context.Context, chainID string) (schemas.ThreadSchema, bool, error)
	AppendMessage(ctx context.Context, chainID string, msg schemas.MessageSchema) error
	Messages(ctx context.Context, chainID string) ([]schemas.MessageSchema, error)
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Name string
	Size int64
}

// Objects is a namespaced blob store.
type Objects interface {
	// Put uploads r; progress, when set, is read as bytes are sent.
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string, progress io.Reader) (int64, error)
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	URL(ctx context.Context, name string) (string, error)
}

// Subscription delivers a signal whenever its topic changes. Signals coalesce.
type Subscription interface {
	C() <-chan struct{}
	Close() error
}

// Broker fans change notifications out to subscribers.
type Broker interface {
	Publish(ctx context.Context, topic string) error
	Subscribe(ctx context.Context, topic string) (Subscription, error)
}

// Topics
const PresenceTopic = "presence"

func FriendsTopic(owner string) string {
	return "friends:" + owner
}

func ChatTopic(chainID string) string {
	return "chat:" + chainID
}
