package client

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"robosnap_server/errors"
	"robosnap_server/global"
	"robosnap_server/schemas"

	"github.com/fasthttp/websocket"
	jsoniter "github.com/json-iterator/go"
)

// Stream frame ops
const (
	OpPresence = 1001
	OpFriends  = 1002
	OpThread   = 1003
	OpError    = 3000
)

func (s *Session) streamURL(topic string) string {
	base := s.client.BaseURL
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + "/stream?token=" + url.QueryEscape(s.accessToken()) + "&topic=" + url.QueryEscape(topic)
}

// subscribe opens a stream on topic. The first frame is read before returning
// so a refused topic is reported as an error. Later snapshots arrive on the
// channel until ctx ends or the server closes the stream.
func subscribe[T any](ctx context.Context, s *Session, topic string, op int) (<-chan T, error) {

	conn, _, err := websocket.DefaultDialer.Dial(s.streamURL(topic), nil)
	if err != nil {
		return nil, errors.Transport("stream dial", err)
	}

	first, err := readFrame[T](conn, op)
	if err != nil {
		conn.Close()
		return nil, err
	}

	out := make(chan T)
	done := make(chan struct{})
	var once sync.Once
	closeConn := func() { once.Do(func() { conn.Close() }) }

	go func() {
		select {
		case <-ctx.Done():
			closeConn()
		case <-done:
		}
	}()

	go func() {
		defer close(out)
		defer close(done)
		defer closeConn()

		snapshot := first
		for {
			select {
			case out <- snapshot:
			case <-ctx.Done():
				return
			}

			next, err := readFrame[T](conn, op)
			if err != nil {
				if ctx.Err() == nil {
					global.MonitorLogger.Println("Stream closed; Topic: " + topic + "; Error: " + err.Error())
				}
				return
			}
			snapshot = next
		}
	}()

	return out, nil
}

func readFrame[T any](conn *websocket.Conn, op int) (T, error) {

	var data T

	for {
		mt, b, err := conn.ReadMessage()
		if err != nil {
			return data, errors.Transport("stream read", err)
		}
		if mt != websocket.TextMessage || string(b) == "PONG" {
			continue
		}

		switch jsoniter.Get(b, "Op").ToInt() {
		case op:
			jsoniter.Get(b, "Data").ToVal(&data)
			return data, nil
		case OpError:
			res := new(schemas.ErrorResponse)
			jsoniter.Get(b, "Data").ToVal(res)
			return data, errors.New(errors.Code(res.Type), res.Problem)
		}
	}
}

// SubscribePresence streams every identity's position, a full snapshot per change
func (s *Session) SubscribePresence(ctx context.Context) (<-chan []schemas.PresenceSchema, error) {
	return subscribe[[]schemas.PresenceSchema](ctx, s, "presence", OpPresence)
}

// SubscribeFriends streams the session user's friend list
func (s *Session) SubscribeFriends(ctx context.Context) (<-chan []schemas.FriendSchema, error) {
	return subscribe[[]schemas.FriendSchema](ctx, s, "friends", OpFriends)
}

// SubscribeThread streams the whole thread with peer, oldest first
func (s *Session) SubscribeThread(ctx context.Context, peer string) (<-chan []schemas.MessageSchema, error) {
	return subscribe[[]schemas.MessageSchema](ctx, s, "chat:"+peer, OpThread)
}
