package view

import (
	"context"
	"testing"

	"lobbychat/internal/pkg/errs"
)

type spyScreen struct {
	notices []string
	homes   []bool
	rooms   int
}

func (s *spyScreen) Notify(msg string)              { s.notices = append(s.notices, msg) }
func (s *spyScreen) ShowHome(loggedIn bool)         { s.homes = append(s.homes, loggedIn) }
func (s *spyScreen) ShowAuth(registering bool)      {}
func (s *spyScreen) ShowRoom()                      { s.rooms++ }
func (s *spyScreen) ResetMessages()                 {}
func (s *spyScreen) SetRoster(users []string, self string) {}
func (s *spyScreen) AppendMessage(author, content string, self bool) {}

type spyConnector struct {
	active bool
	opens  int
}

func (c *spyConnector) Active() bool                   { return c.active }
func (c *spyConnector) Open(ctx context.Context) error { c.opens++; return nil }

type authState struct {
	authenticated bool
}

func (a *authState) Authenticated() bool { return a.authenticated }

func TestHomeRendersAuthState(t *testing.T) {
	screen := &spyScreen{}
	auth := &authState{}
	r := NewRouter(screen, &spyConnector{}, auth)

	r.Go(context.Background(), HomePath)
	auth.authenticated = true
	r.Go(context.Background(), HomePath)

	if len(screen.homes) != 2 || screen.homes[0] != false || screen.homes[1] != true {
		t.Errorf("home renders = %v, want [false true]", screen.homes)
	}
}

func TestAnonymousRoomEntryBouncesHome(t *testing.T) {
	screen := &spyScreen{}
	connector := &spyConnector{}
	r := NewRouter(screen, connector, &authState{authenticated: false})

	r.Go(context.Background(), RoomPath)

	if screen.rooms != 0 {
		t.Error("anonymous navigation rendered the room view")
	}
	if connector.opens != 0 {
		t.Error("anonymous navigation opened a connection")
	}
	if len(screen.homes) != 1 {
		t.Errorf("home renders = %d, want 1", len(screen.homes))
	}
	if len(screen.notices) != 1 || screen.notices[0] != errs.NewError(errs.ErrLoginRequired).Message {
		t.Errorf("notices = %v, want the login-required message", screen.notices)
	}
	if r.Current() != HomePath {
		t.Errorf("current = %q, want home", r.Current())
	}
}

func TestRoomEntryOpensConnectionOnce(t *testing.T) {
	screen := &spyScreen{}
	connector := &spyConnector{}
	r := NewRouter(screen, connector, &authState{authenticated: true})

	r.Go(context.Background(), RoomPath)

	if screen.rooms != 1 {
		t.Errorf("room renders = %d, want 1", screen.rooms)
	}
	if connector.opens != 1 {
		t.Fatalf("opens = %d, want 1", connector.opens)
	}

	// Re-entering the room with a live connection must not dial again.
	connector.active = true
	r.Go(context.Background(), HomePath)
	r.Go(context.Background(), RoomPath)

	if connector.opens != 1 {
		t.Errorf("opens after re-entry = %d, want 1", connector.opens)
	}
}

func TestRoomPathSuffixRouting(t *testing.T) {
	screen := &spyScreen{}
	r := NewRouter(screen, &spyConnector{active: true}, &authState{authenticated: true})

	// Any location ending in the room segment is the room.
	r.Go(context.Background(), "/app/chat")

	if screen.rooms != 1 {
		t.Errorf("room renders = %d, want 1", screen.rooms)
	}

	r.Go(context.Background(), "/settings")

	if len(screen.homes) != 1 {
		t.Errorf("home renders = %d, want 1", len(screen.homes))
	}
}

func TestBackMirrorsHistory(t *testing.T) {
	screen := &spyScreen{}
	connector := &spyConnector{active: true}
	r := NewRouter(screen, connector, &authState{authenticated: true})

	r.Go(context.Background(), HomePath)
	r.Go(context.Background(), RoomPath)
	r.Back(context.Background())

	if r.Current() != HomePath {
		t.Errorf("current after back = %q, want home", r.Current())
	}

	// Back with an exhausted history still lands on home.
	r.Back(context.Background())
	r.Back(context.Background())

	if r.Current() != HomePath {
		t.Errorf("current after exhausted back = %q, want home", r.Current())
	}
}

func TestBackIntoRoomRoutesLikeGo(t *testing.T) {
	screen := &spyScreen{}
	connector := &spyConnector{}
	auth := &authState{authenticated: true}
	r := NewRouter(screen, connector, auth)

	r.Go(context.Background(), RoomPath)
	r.Go(context.Background(), HomePath)

	// The connection dropped while on home; back into the room redials.
	connector.active = false
	r.Back(context.Background())

	if r.Current() != RoomPath {
		t.Errorf("current after back = %q, want room", r.Current())
	}
	if connector.opens != 2 {
		t.Errorf("opens = %d, want 2", connector.opens)
	}

	// Back navigation enforces the same auth guard as Go.
	r.Go(context.Background(), HomePath)
	auth.authenticated = false
	r.Back(context.Background())

	if r.Current() != HomePath {
		t.Errorf("current after anonymous back = %q, want home", r.Current())
	}
	if connector.opens != 2 {
		t.Errorf("opens after anonymous back = %d, want 2", connector.opens)
	}
}
