package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// Event names carried on the push-notification channel.
const (
	EventConnect        = "connect"
	EventDisconnect     = "disconnect"
	EventConnectError   = "connect_error"
	EventSubscribed     = "subscribed"
	EventUnsubscribed   = "unsubscribed"
	EventRunCompleted   = "run-completed"
	EventSessionUpdated = "session-updated"
	EventError          = "error"
)

// Event is one message on the notification channel.
type Event struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Handler receives the raw payload of a dispatched event.
type Handler func(payload json.RawMessage)

// Channel is the push-notification connection for a session. At most one
// underlying WebSocket is open at a time: Open tears down any existing
// connection before dialing, so a single incoming event can never be
// delivered twice.
type Channel struct {
	wsURL   string
	tokenFn func() string

	mu        sync.Mutex
	conn      *websocket.Conn
	cancel    context.CancelFunc
	gen       uint64
	sessionID string
	handlers  map[string]Handler
	retry     bool
	closed    bool
}

// NewChannel creates a channel that dials wsURL and authenticates with the
// token returned by tokenFn at dial time.
func NewChannel(wsURL string, tokenFn func() string) *Channel {
	return &Channel{
		wsURL:    wsURL,
		tokenFn:  tokenFn,
		handlers: make(map[string]Handler),
		retry:    true,
	}
}

// On registers the handler for a named event. Registering the same event
// again replaces the previous handler; duplicate registration never causes
// more than one delivery per logical event.
func (ch *Channel) On(event string, h Handler) {
	ch.mu.Lock()
	ch.handlers[event] = h
	ch.mu.Unlock()
}

// Open connects and subscribes to company-scoped notifications for the
// session. An already-open connection is torn down first. Requires a
// cached token; there is no fallback credential.
func (ch *Channel) Open(ctx context.Context, sessionID string) error {
	tok := ch.tokenFn()
	if tok == "" {
		return ErrUnauthenticated
	}

	ch.mu.Lock()
	ch.teardownLocked()
	ch.closed = false
	ch.sessionID = sessionID
	ch.gen++
	gen := ch.gen
	connCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	ch.cancel = cancel
	ch.mu.Unlock()

	conn, err := ch.dial(connCtx, tok, sessionID)
	if err != nil {
		ch.dispatch(EventConnectError, nil)
		cancel()
		return err
	}

	ch.mu.Lock()
	if gen != ch.gen || ch.closed {
		// A newer Open or Close raced us; this connection must not deliver.
		ch.mu.Unlock()
		conn.Close(websocket.StatusNormalClosure, "superseded")
		return nil
	}
	ch.conn = conn
	ch.mu.Unlock()

	ch.dispatch(EventConnect, nil)
	go ch.readLoop(connCtx, conn, gen)
	return nil
}

func (ch *Channel) dial(ctx context.Context, token, sessionID string) (*websocket.Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	conn, _, err := websocket.Dial(dialCtx, ch.wsURL, &websocket.DialOptions{
		HTTPHeader: header,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	sub := Event{Event: "subscribe-company", Payload: mustJSON(map[string]string{"sessionId": sessionID})}
	if err := wsjson.Write(dialCtx, conn, sub); err != nil {
		conn.Close(websocket.StatusInternalError, "subscribe failed")
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}
	return conn, nil
}

// readLoop delivers events in arrival order. No reordering and no
// deduplication: at-least-once delivery is passed through as-is.
func (ch *Channel) readLoop(ctx context.Context, conn *websocket.Conn, gen uint64) {
	for {
		var ev Event
		if err := wsjson.Read(ctx, conn, &ev); err != nil {
			ch.mu.Lock()
			stale := gen != ch.gen || ch.closed
			retry := ch.retry && !stale
			sessionID := ch.sessionID
			ch.mu.Unlock()

			if stale {
				return
			}
			ch.dispatch(EventDisconnect, nil)
			if retry {
				ch.reconnect(ctx, gen, sessionID)
			}
			return
		}

		ch.mu.Lock()
		stale := gen != ch.gen || ch.closed
		ch.mu.Unlock()
		if stale {
			return
		}
		ch.dispatch(ev.Event, ev.Payload)
	}
}

// reconnect redials with capped exponential backoff until it succeeds, the
// context is cancelled, or a newer Open/Close supersedes this generation.
func (ch *Channel) reconnect(ctx context.Context, gen uint64, sessionID string) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.MaxInterval = 30 * time.Second
	bo.MaxElapsedTime = 0

	err := backoff.Retry(func() error {
		ch.mu.Lock()
		stale := gen != ch.gen || ch.closed
		ch.mu.Unlock()
		if stale {
			return backoff.Permanent(context.Canceled)
		}

		tok := ch.tokenFn()
		if tok == "" {
			return backoff.Permanent(ErrUnauthenticated)
		}

		conn, err := ch.dial(ctx, tok, sessionID)
		if err != nil {
			ch.dispatch(EventConnectError, nil)
			return err
		}

		ch.mu.Lock()
		if gen != ch.gen || ch.closed {
			ch.mu.Unlock()
			conn.Close(websocket.StatusNormalClosure, "superseded")
			return backoff.Permanent(context.Canceled)
		}
		ch.conn = conn
		ch.mu.Unlock()

		ch.dispatch(EventConnect, nil)
		go ch.readLoop(ctx, conn, gen)
		return nil
	}, backoff.WithContext(bo, ctx))

	_ = err // Terminal: superseded, closed, or context cancelled.
}

// Close unsubscribes and tears down the connection. Safe to call twice.
func (ch *Channel) Close() error {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.closed {
		return nil
	}
	ch.closed = true

	if ch.conn != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		unsub := Event{Event: "unsubscribe-company", Payload: mustJSON(map[string]string{"sessionId": ch.sessionID})}
		_ = wsjson.Write(ctx, ch.conn, unsub)
		cancel()
	}
	ch.teardownLocked()
	return nil
}

func (ch *Channel) teardownLocked() {
	if ch.cancel != nil {
		ch.cancel()
		ch.cancel = nil
	}
	if ch.conn != nil {
		_ = ch.conn.Close(websocket.StatusNormalClosure, "")
		ch.conn = nil
	}
}

func (ch *Channel) dispatch(event string, payload json.RawMessage) {
	ch.mu.Lock()
	h := ch.handlers[event]
	ch.mu.Unlock()
	if h != nil {
		h(payload)
	}
}

func mustJSON(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
