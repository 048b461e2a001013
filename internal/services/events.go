package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mympctl/internal/shared"
	"github.com/gorilla/websocket"
)

// Notifications myMPD pushes when state changes, possibly from another client.
const (
	EventUpdateHome    = "update_home"
	EventUpdateOutputs = "update_outputs"
	EventUpdateState   = "update_state"
)

// Event is a JSON-RPC notification received over the websocket.
type Event struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// EventListener follows myMPD's websocket at {base}/ws/{partition}.
type EventListener struct {
	baseURL   string
	partition func() string
	dialer    *websocket.Dialer
	logger    *log.Logger

	// PingInterval is how often a keepalive is sent. Zero disables it.
	PingInterval time.Duration
	// Backoff is the delay before reconnecting in [EventListener.Run].
	Backoff time.Duration
}

// NewEventListener follows the partition c is currently addressed to.
func NewEventListener(c *Client, logger *log.Logger) *EventListener {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &EventListener{
		baseURL:      c.baseURL,
		partition:    c.Partition,
		dialer:       websocket.DefaultDialer,
		logger:       logger,
		PingInterval: 30 * time.Second,
		Backoff:      2 * time.Second,
	}
}

// URL returns the websocket address for the current partition.
func (l *EventListener) URL() (string, error) {
	u, err := url.Parse(l.baseURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("%w: unsupported scheme %q", shared.ErrInvalidConfig, u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws/" + url.PathEscape(l.partition())
	return u.String(), nil
}

// Listen connects once and calls fn for every notification until ctx is done or the
// connection drops. Non-JSON frames such as "pong" are skipped.
func (l *EventListener) Listen(ctx context.Context, fn func(Event)) error {
	addr, err := l.URL()
	if err != nil {
		return err
	}

	conn, _, err := l.dialer.DialContext(ctx, addr, nil)
	if err != nil {
		return fmt.Errorf("%w: websocket %s: %v", shared.ErrServiceUnavailable, addr, err)
	}
	defer conn.Close()
	l.logger.Debug("websocket connected", "url", addr)

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer wg.Wait()
	defer cancel()

	wg.Add(2)
	go func() {
		defer wg.Done()
		l.keepalive(ctx, conn)
	}()
	go func() {
		defer wg.Done()
		<-ctx.Done()
		conn.Close()
	}()

	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w: websocket read: %v", shared.ErrServiceUnavailable, err)
		}
		if mt != websocket.TextMessage || len(data) == 0 || data[0] != '{' {
			continue
		}

		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			l.logger.Warn("skipping malformed notification", "err", err)
			continue
		}
		if ev.Method != "" {
			fn(ev)
		}
	}
}

func (l *EventListener) keepalive(ctx context.Context, conn *websocket.Conn) {
	if l.PingInterval <= 0 {
		return
	}
	ticker := time.NewTicker(l.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, []byte("ping")); err != nil {
				l.logger.Debug("keepalive failed", "err", err)
				return
			}
		}
	}
}

// Run keeps listening, reconnecting after Backoff whenever the connection drops, until ctx
// is done.
func (l *EventListener) Run(ctx context.Context, fn func(Event)) error {
	for {
		err := l.Listen(ctx, fn)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, shared.ErrInvalidConfig) {
			return err
		}
		l.logger.Warn("websocket disconnected", "err", err, "retry", l.Backoff)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.Backoff):
		}
	}
}
