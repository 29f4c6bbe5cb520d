package socket

import (
	"context"
	"strings"
	"sync"
	"time"

	"robosnap_server/errors"
	"robosnap_server/global"

	"github.com/gofiber/websocket/v2"
	jsoniter "github.com/json-iterator/go"
)

type ws_writer struct {
	ws *websocket.Conn
	sync.Mutex
}

func (w *ws_writer) write(mt int, b []byte) error {
	w.Lock()
	defer w.Unlock()
	if err := w.ws.SetWriteDeadline(time.Now().Add(MAX_WRITE_TIME)); err != nil {
		return err
	}
	return w.ws.WriteMessage(mt, b)
}

func (w *ws_writer) write_message(code op_type, data interface{}) error {

	b, err := jsoniter.Marshal(construct_ws_message(code, data))
	if err != nil {
		handleWebsocketError(w.ws, "jsoniter_marshal", err.Error())
		return err
	}

	return w.write(websocket.TextMessage, b)
}

func handleWebsocketError(c *websocket.Conn, problem string, err string) {
	global.WebsocketLogger.Println("ip: " + c.RemoteAddr().String() + "; Problem: " + problem + "; Error: " + err)
}

func pump[T any](ctx context.Context, w *ws_writer, op op_type, snapshots <-chan T) {
	for {
		select {
		case <-ctx.Done():
			return
		case snapshot, ok := <-snapshots:
			if !ok {
				return
			}
			if err := w.write_message(op, snapshot); err != nil {
				handleWebsocketError(w.ws, "write op:"+topicOf(op), err.Error())
				return
			}
		}
	}
}

func topicOf(op op_type) string {
	switch op {
	case OP_PRESENCE:
		return "presence"
	case OP_FRIENDS:
		return "friends"
	case OP_THREAD:
		return "chat"
	}
	return "error"
}

// subscribe opens the snapshot feed for topic and returns the pump that writes it
func (h *Hub) subscribe(ctx context.Context, w *ws_writer, username string, topic string) (func(), error) {

	switch {
	case topic == "presence":
		snapshots, err := h.services.Presence.Subscribe(ctx)
		if err != nil {
			return nil, err
		}
		return func() { pump(ctx, w, OP_PRESENCE, snapshots) }, nil
	case topic == "friends":
		snapshots, err := h.services.Friends.Subscribe(ctx, username)
		if err != nil {
			return nil, err
		}
		return func() { pump(ctx, w, OP_FRIENDS, snapshots) }, nil
	case strings.HasPrefix(topic, "chat:"):
		snapshots, err := h.services.Chat.Subscribe(ctx, username, strings.TrimPrefix(topic, "chat:"))
		if err != nil {
			return nil, err
		}
		return func() { pump(ctx, w, OP_THREAD, snapshots) }, nil
	}

	return nil, errors.InvalidArgument("Topic")
}

// Stream serves one authenticated websocket. It pushes full snapshots of the
// requested topic until the client disconnects or the session logs out.
func (h *Hub) Stream(ws *websocket.Conn) {

	defer func() {
		if ws != nil && ws.Conn != nil {
			ws.Close()
		}
	}()

	username, _ := ws.Locals("username").(string)
	sessionID, _ := ws.Locals("sessionid").(string)
	topic, _ := ws.Locals("topic").(string)

	ctx, cancel := context.WithCancel(global.Context)
	defer cancel()

	WSID, err := h.create_connection(username, sessionID, cancel)
	if err != nil {
		handleWebsocketError(ws, "create_connection", err.Error())
		return
	}
	defer h.delete_connection(WSID)

	w := &ws_writer{ws: ws}

	run, err := h.subscribe(ctx, w, username, topic)
	if err != nil {
		w.write_message(OP_ERROR, error_data{
			Type:    string(errors.CodeOf(err)),
			Problem: err.Error(),
		})
		return
	}

	// ws is recycled once Stream returns, nothing may touch it after that
	var wg sync.WaitGroup
	done := make(chan struct{})
	defer func() {
		close(done)
		cancel()
		// unblocks a pump stuck in a write
		ws.Close()
		wg.Wait()
	}()

	wg.Add(2)
	go func() {
		defer wg.Done()
		run()
	}()
	// unblocks the read loop when the stream is closed from the hub
	go func() {
		defer wg.Done()
		select {
		case <-ctx.Done():
			ws.Close()
		case <-done:
		}
	}()

	var (
		mt int
		b  []byte
	)
	for {

		if err = ws.SetReadDeadline(time.Now().Add(MAX_WS_CONNECTION_TIME)); err != nil {
			handleWebsocketError(ws, "websocket_read_deadline", err.Error())
			break
		}
		if mt, b, err = ws.ReadMessage(); err != nil {
			if ctx.Err() == nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				handleWebsocketError(ws, "websocket_read", err.Error())
			}
			break
		}
		if mt == websocket.BinaryMessage {
			handleWebsocketError(ws, "websocket_read", "binary message")
			break
		}

		if string(b) == "PING" {
			if err = w.write(websocket.TextMessage, []byte("PONG")); err != nil {
				handleWebsocketError(ws, "write PONG", err.Error())
				break
			}
		}
	}
}
