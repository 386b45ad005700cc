/*
Package conn owns the lifecycle of the single streaming connection to the chat
room: open, keepalive, inbound dispatch, close, and the state machine tying
them together.

Every wire event is a transition of one explicit state machine
(Closed -> Connecting -> Open -> Closed) rather than an independent code path,
so the invariants live in one place: at most one live connection, at most one
keepalive ticker per connection, and teardown running exactly once per
connection regardless of whether an error and a close fire for it.
*/
package conn

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"lobbychat/internal/pkg/errs"
	"lobbychat/internal/pkg/logx"
)

const (
	// handshakeTimeout bounds a connection attempt so a hung dial falls back
	// to Closed instead of pinning Connecting forever.
	handshakeTimeout = 10 * time.Second

	// roomPath is the streaming endpoint on the chat server.
	roomPath = "/ws"
)

// pingFrame is the structured keepalive. Note the wire asymmetry: chat
// messages go out as raw typed text, the ping is the only JSON the client
// writes. The server expects exactly this.
var pingFrame = []byte(`{"type":"ping"}`)

// TokenSource resolves the current connection token, falling back to durable
// storage when no identity is in memory yet.
type TokenSource interface {
	Token() string
}

// FrameHandler consumes inbound frames in arrival order.
type FrameHandler interface {
	HandleFrame(frame []byte)
}

// Screen is the slice of the presentation surface the manager touches:
// connection notifications and the fresh-log-on-connect reset.
type Screen interface {
	Notify(msg string)
	ResetMessages()
}

// Manager owns the single streaming connection to the room.
type Manager struct {
	serverURL *url.URL
	keepalive time.Duration
	tokens    TokenSource
	handler   FrameHandler
	screen    Screen

	mu   sync.Mutex
	st   State
	ws   *websocket.Conn
	stop chan struct{}

	// writeMu serializes writes; the keepalive ticker and Send share the
	// underlying connection, which permits only one concurrent writer.
	writeMu sync.Mutex

	logger zerolog.Logger
}

// NewManager constructs a Manager dialing the room endpoint of serverURL.
// The scheme is derived from the server URL: https upgrades to wss, http to ws.
func NewManager(serverURL string, keepalive time.Duration, tokens TokenSource, handler FrameHandler, screen Screen) (*Manager, error) {
	parsed, err := url.Parse(serverURL)
	if err != nil {
		return nil, err
	}

	return &Manager{
		serverURL: parsed,
		keepalive: keepalive,
		tokens:    tokens,
		handler:   handler,
		screen:    screen,
		st:        StateClosed,
		logger:    logx.With("conn_manager"),
	}, nil
}

// State returns the current connection state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st
}

// Active reports whether a connection is pending or live. Entering the room
// view only dials when this is false.
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st == StateConnecting || m.st == StateOpen
}

// Open establishes the streaming connection. It is a no-op while a connection
// is already pending or live: repeated calls never create a second one.
// On establishment the visible message log is reset, a connected notification
// is shown, and the keepalive ticker is armed.
func (m *Manager) Open(ctx context.Context) error {
	m.mu.Lock()
	if m.st != StateClosed {
		m.mu.Unlock()
		m.logger.Debug().Str("state", m.st.String()).Msg("Open ignored, connection already pending or live")
		return nil
	}
	m.st = StateConnecting
	m.mu.Unlock()

	target := m.roomURI()
	m.logger.Info().Str("url", m.serverURL.Host).Msg("Dialing room")

	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	ws, res, err := dialer.DialContext(ctx, target, nil)
	if res != nil && res.Body != nil {
		res.Body.Close()
	}
	if err != nil {
		m.mu.Lock()
		m.st = StateClosed
		m.mu.Unlock()

		m.logger.Warn().Err(err).Msg("Room dial failed")
		m.screen.Notify(errs.NewError(errs.ErrConnectFailed).Message)
		return errs.NewError(errs.ErrConnectFailed)
	}

	stop := make(chan struct{})

	m.mu.Lock()
	m.ws = ws
	m.st = StateOpen
	m.stop = stop
	m.mu.Unlock()

	// A fresh connection starts from an empty visible log; no replay or merge.
	m.screen.ResetMessages()
	m.screen.Notify("Connected to the chat.")

	go m.keepaliveLoop(ws, stop)
	go m.readPump(ws)

	return nil
}

// Close explicitly terminates the connection, e.g. on logout. Safe to call in
// any state and any number of times.
func (m *Manager) Close() {
	ws, stop := m.detach(nil)
	if ws == nil {
		return
	}

	if stop != nil {
		close(stop)
	}
	if err := ws.Close(); err != nil {
		m.logger.Debug().Err(err).Msg("Connection close error")
	}

	m.logger.Info().Msg("Connection closed")
}

// Send transmits a user-typed message as a raw text frame. It refuses blank
// input and requires the connection to be Open; both rejections are local and
// produce no outbound frame.
func (m *Manager) Send(text string) *errs.CustomError {
	if strings.TrimSpace(text) == "" {
		return errs.NewError(errs.ErrBlankMessage)
	}

	m.mu.Lock()
	ws := m.ws
	open := m.st == StateOpen
	m.mu.Unlock()

	if !open || ws == nil {
		return errs.NewError(errs.ErrNotConnected)
	}

	m.writeMu.Lock()
	err := ws.WriteMessage(websocket.TextMessage, []byte(text))
	m.writeMu.Unlock()

	if err != nil {
		m.logger.Warn().Err(err).Msg("Chat send failed")
		return errs.NewError(errs.ErrNotConnected)
	}

	return nil
}

// roomURI builds the connection target: the server host with the scheme
// upgraded to its streaming variant and the token, when known, appended as a
// query parameter.
func (m *Manager) roomURI() string {
	target := url.URL{Scheme: "ws", Host: m.serverURL.Host, Path: roomPath}
	if m.serverURL.Scheme == "https" {
		target.Scheme = "wss"
	}

	if token := m.tokens.Token(); token != "" {
		query := url.Values{}
		query.Set("token", token)
		target.RawQuery = query.Encode()
	}

	return target.String()
}

// readPump delivers inbound frames to the handler in arrival order until the
// connection drops from either end, then runs loss teardown.
func (m *Manager) readPump(ws *websocket.Conn) {
	defer m.teardownLost(ws)

	for {
		_, frame, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				m.logger.Info().Err(err).Msg("Connection read ended unexpectedly")
			}
			return
		}

		m.handler.HandleFrame(frame)
	}
}

// teardownLost handles a connection lost from either end: state reset, the
// keepalive cancelled, and a disconnect notification. No automatic reconnect;
// the next room entry dials again.
func (m *Manager) teardownLost(ws *websocket.Conn) {
	current, stop := m.detach(ws)
	if current == nil {
		// An explicit Close already detached this connection; the keepalive
		// was cancelled there.
		return
	}

	close(stop)
	if err := current.Close(); err != nil {
		m.logger.Debug().Err(err).Msg("Connection close error after loss")
	}

	m.logger.Info().Msg("Connection lost")
	m.screen.Notify(errs.NewError(errs.ErrConnectionLost).Message)
}

// detach atomically removes the tracked connection and resets state to Closed.
// When expected is non-nil the detach only applies if that exact connection is
// still the tracked one, which is what guarantees single-shot teardown when an
// error event and a close event fire for the same connection.
func (m *Manager) detach(expected *websocket.Conn) (*websocket.Conn, chan struct{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ws == nil || (expected != nil && m.ws != expected) {
		return nil, nil
	}

	ws := m.ws
	stop := m.stop
	m.ws = nil
	m.stop = nil
	m.st = StateClosed

	return ws, stop
}

// keepaliveLoop sends the structured ping at a fixed period while the
// connection is Open, so idle connections are not declared dead by the
// transport or an intermediary. Cancelled exactly once per connection via stop.
func (m *Manager) keepaliveLoop(ws *websocket.Conn, stop chan struct{}) {
	ticker := time.NewTicker(m.keepalive)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if m.State() != StateOpen {
				return
			}

			m.writeMu.Lock()
			err := ws.WriteMessage(websocket.TextMessage, pingFrame)
			m.writeMu.Unlock()

			if err != nil {
				m.logger.Warn().Err(err).Msg("Keepalive ping failed")
				return
			}

		case <-stop:
			return
		}
	}
}
