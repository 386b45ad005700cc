package conn

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"lobbychat/internal/pkg/errs"
)

// roomServer is a minimal chat server endpoint: it records the token presented
// on the dial, hands out the accepted connections, and echoes every text frame
// it reads into a channel.
type roomServer struct {
	srv    *httptest.Server
	tokens chan string
	conns  chan *websocket.Conn
	texts  chan string
}

func newRoomServer(t *testing.T) *roomServer {
	t.Helper()

	rs := &roomServer{
		tokens: make(chan string, 8),
		conns:  make(chan *websocket.Conn, 8),
		texts:  make(chan string, 64),
	}

	upgrader := websocket.Upgrader{}

	rs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws" {
			http.NotFound(w, r)
			return
		}

		rs.tokens <- r.URL.Query().Get("token")

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}

		rs.conns <- conn

		go func() {
			for {
				_, msg, err := conn.ReadMessage()
				if err != nil {
					return
				}
				rs.texts <- string(msg)
			}
		}()
	}))
	t.Cleanup(rs.srv.Close)

	return rs
}

type staticTokens struct {
	token string
}

func (s staticTokens) Token() string { return s.token }

type frameRecorder struct {
	frames chan []byte
}

func newFrameRecorder() *frameRecorder {
	return &frameRecorder{frames: make(chan []byte, 64)}
}

func (r *frameRecorder) HandleFrame(frame []byte) { r.frames <- frame }

type stubScreen struct {
	mu      sync.Mutex
	notices []string
	resets  int
}

func (s *stubScreen) Notify(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, msg)
}

func (s *stubScreen) ResetMessages() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resets++
}

func (s *stubScreen) hasNotice(msg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notices {
		if n == msg {
			return true
		}
	}
	return false
}

func newTestManager(t *testing.T, rs *roomServer, keepalive time.Duration) (*Manager, *frameRecorder, *stubScreen) {
	t.Helper()

	handler := newFrameRecorder()
	screen := &stubScreen{}

	m, err := NewManager(rs.srv.URL, keepalive, staticTokens{token: "tok"}, handler, screen)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	t.Cleanup(m.Close)

	return m, handler, screen
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func recvString(t *testing.T, ch chan string, what string) string {
	t.Helper()

	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
		return ""
	}
}

func recvConn(t *testing.T, ch chan *websocket.Conn) *websocket.Conn {
	t.Helper()

	select {
	case c := <-ch:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a server-side connection")
		return nil
	}
}

func TestOpenPresentsToken(t *testing.T) {
	rs := newRoomServer(t)
	m, _, screen := newTestManager(t, rs, time.Minute)

	if err := m.Open(context.Background()); err != nil {
		t.Fatalf("Open: %v", err)
	}

	if got := recvString(t, rs.tokens, "dial token"); got != "tok" {
		t.Errorf("dial token = %q, want %q", got, "tok")
	}
	if got := m.State(); got != StateOpen {
		t.Errorf("state = %v, want open", got)
	}
	if !screen.hasNotice("Connected to the chat.") {
		t.Error("expected connected notification")
	}

	screen.mu.Lock()
	resets := screen.resets
	screen.mu.Unlock()
	if resets != 1 {
		t.Errorf("message log resets = %d, want 1", resets)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	rs := newRoomServer(t)
	m, _, _ := newTestManager(t, rs, time.Minute)

	if err := m.Open(context.Background()); err != nil {
		t.Fatalf("Open: %v", err)
	}
	recvConn(t, rs.conns)

	for i := 0; i < 3; i++ {
		if err := m.Open(context.Background()); err != nil {
			t.Fatalf("repeated Open: %v", err)
		}
	}

	select {
	case <-rs.conns:
		t.Fatal("repeated Open dialed a second connection")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestOpenFailureNotifiesAndStaysClosed(t *testing.T) {
	rs := newRoomServer(t)
	m, _, screen := newTestManager(t, rs, time.Minute)
	rs.srv.Close()

	err := m.Open(context.Background())
	if err == nil {
		t.Fatal("expected dial error")
	}
	if got := m.State(); got != StateClosed {
		t.Errorf("state after failed dial = %v, want closed", got)
	}
	if !screen.hasNotice(errs.NewError(errs.ErrConnectFailed).Message) {
		t.Error("expected connect-failed notification")
	}
}

func TestInboundFramesArriveInOrder(t *testing.T) {
	rs := newRoomServer(t)
	m, handler, _ := newTestManager(t, rs, time.Minute)

	if err := m.Open(context.Background()); err != nil {
		t.Fatalf("Open: %v", err)
	}
	server := recvConn(t, rs.conns)

	frames := []string{
		`{"type":"users","users":["ana"]}`,
		`{"type":"chat","username":"ana","content":"hi"}`,
	}
	for _, f := range frames {
		if err := server.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
			t.Fatalf("server write: %v", err)
		}
	}

	for i, want := range frames {
		select {
		case got := <-handler.frames:
			if string(got) != want {
				t.Errorf("frame %d = %q, want %q", i, got, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for frame %d", i)
		}
	}
}

func TestSendWritesRawText(t *testing.T) {
	rs := newRoomServer(t)
	m, _, _ := newTestManager(t, rs, time.Minute)

	if err := m.Open(context.Background()); err != nil {
		t.Fatalf("Open: %v", err)
	}
	recvConn(t, rs.conns)

	if err := m.Send("hello there"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if got := recvString(t, rs.texts, "sent text"); got != "hello there" {
		t.Errorf("server received %q, want raw %q", got, "hello there")
	}
}

func TestSendRejectsBlankAndClosed(t *testing.T) {
	rs := newRoomServer(t)
	m, _, _ := newTestManager(t, rs, time.Minute)

	if err := m.Send("hello"); err == nil || err.Code != errs.ErrNotConnected {
		t.Errorf("Send while closed: err = %v, want not-connected", err)
	}

	if err := m.Open(context.Background()); err != nil {
		t.Fatalf("Open: %v", err)
	}
	recvConn(t, rs.conns)

	if err := m.Send("   "); err == nil || err.Code != errs.ErrBlankMessage {
		t.Errorf("Send blank: err = %v, want blank-message", err)
	}

	// Neither rejection may reach the wire.
	select {
	case got := <-rs.texts:
		t.Fatalf("unexpected outbound frame %q", got)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRemoteCloseTearsDownOnceAndAllowsReopen(t *testing.T) {
	rs := newRoomServer(t)
	m, _, screen := newTestManager(t, rs, time.Minute)

	if err := m.Open(context.Background()); err != nil {
		t.Fatalf("Open: %v", err)
	}
	server := recvConn(t, rs.conns)

	server.Close()

	waitFor(t, "closed state after remote close", func() bool {
		return m.State() == StateClosed
	})
	waitFor(t, "disconnect notification", func() bool {
		return screen.hasNotice(errs.NewError(errs.ErrConnectionLost).Message)
	})

	// The loss must not wedge the state machine.
	if err := m.Open(context.Background()); err != nil {
		t.Fatalf("reopen after loss: %v", err)
	}
	recvConn(t, rs.conns)

	if got := m.State(); got != StateOpen {
		t.Errorf("state after reopen = %v, want open", got)
	}
}

func TestKeepalivePing(t *testing.T) {
	rs := newRoomServer(t)
	m, _, _ := newTestManager(t, rs, 30*time.Millisecond)

	if err := m.Open(context.Background()); err != nil {
		t.Fatalf("Open: %v", err)
	}
	recvConn(t, rs.conns)

	if got := recvString(t, rs.texts, "keepalive frame"); got != `{"type":"ping"}` {
		t.Errorf("keepalive frame = %q, want structured ping", got)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	rs := newRoomServer(t)
	m, _, screen := newTestManager(t, rs, time.Minute)

	// Closing while already closed must be harmless.
	m.Close()

	if err := m.Open(context.Background()); err != nil {
		t.Fatalf("Open: %v", err)
	}
	recvConn(t, rs.conns)

	m.Close()
	m.Close()

	if got := m.State(); got != StateClosed {
		t.Errorf("state after Close = %v, want closed", got)
	}

	// An explicit close is deliberate; it must not raise the loss notification.
	time.Sleep(100 * time.Millisecond)
	if screen.hasNotice(errs.NewError(errs.ErrConnectionLost).Message) {
		t.Error("explicit Close produced a connection-lost notification")
	}
}
