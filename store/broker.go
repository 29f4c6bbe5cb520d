package store

import (
	"context"
	"sync"

	"github.com/go-redis/redis/v8"
)

const channelPrefix = "robosnap:"

// RedisBroker publishes change notifications over redis pub/sub, so every server
// instance sees writes made by the others.
type RedisBroker struct {
	client *redis.Client
}

func NewRedisBroker(client *redis.Client) *RedisBroker {
	return &RedisBroker{client: client}
}

func (b *RedisBroker) Publish(ctx context.Context, topic string) error {
	return b.client.Publish(ctx, channelPrefix+topic, "1").Err()
}

func (b *RedisBroker) Subscribe(ctx context.Context, topic string) (Subscription, error) {

	pubsub := b.client.Subscribe(ctx, channelPrefix+topic)

	// wait for the subscription confirmation so no publish after return is missed
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, err
	}

	sub := &redisSubscription{
		pubsub: pubsub,
		c:      make(chan struct{}, 1),
		done:   make(chan struct{}),
	}

	go sub.run()

	return sub, nil
}

type redisSubscription struct {
	pubsub *redis.PubSub
	c      chan struct{}
	done   chan struct{}
	once   sync.Once
}

func (s *redisSubscription) run() {
	msgs := s.pubsub.Channel()
	for {
		select {
		case _, ok := <-msgs:
			if !ok {
				return
			}
			select {
			case s.c <- struct{}{}:
			default:
			}
		case <-s.done:
			return
		}
	}
}

func (s *redisSubscription) C() <-chan struct{} {
	return s.c
}

func (s *redisSubscription) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = s.pubsub.Close()
	})
	return err
}
