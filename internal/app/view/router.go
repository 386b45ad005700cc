/*
Package view holds the presentation surface and the navigation logic of the
chat client.

This file defines the Router, which maps navigation locations onto the two
logical views (home, room) and enforces that entering the room requires a
usable connection. Programmatic navigation and back navigation funnel through
the same routing decision, so the two paths behave identically.
*/
package view

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"lobbychat/internal/pkg/errs"
	"lobbychat/internal/pkg/logx"
)

const (
	// HomePath is the location of the home view.
	HomePath = "/"

	// RoomPath is the navigation segment that maps to the room view; any
	// location ending in it routes there.
	RoomPath = "/chat"
)

// Connector is the slice of the connection manager the router drives: it
// reports whether a connection is pending or live and opens one on demand.
type Connector interface {
	Active() bool
	Open(ctx context.Context) error
}

// IdentitySource reports whether an identity is currently known.
type IdentitySource interface {
	Authenticated() bool
}

// Router maps the current location onto exactly one active view.
type Router struct {
	screen    Screen
	connector Connector
	identity  IdentitySource

	current string
	history []string
	logger  zerolog.Logger
}

// NewRouter constructs a Router. No view is active until the first Go call.
func NewRouter(screen Screen, connector Connector, identity IdentitySource) *Router {
	return &Router{
		screen:    screen,
		connector: connector,
		identity:  identity,
		logger:    logx.With("router"),
	}
}

// Current returns the current location.
func (r *Router) Current() string {
	return r.current
}

// Go navigates to path, pushing the previous location onto the history stack.
func (r *Router) Go(ctx context.Context, path string) {
	if r.current != "" && r.current != path {
		r.history = append(r.history, r.current)
	}
	r.route(ctx, path)
}

// Back pops the most recent location, mirroring browser back navigation. With
// an empty history it lands on home.
func (r *Router) Back(ctx context.Context) {
	if len(r.history) == 0 {
		r.route(ctx, HomePath)
		return
	}

	path := r.history[len(r.history)-1]
	r.history = r.history[:len(r.history)-1]
	r.route(ctx, path)
}

// route is the single routing decision: any path ending in the room segment
// maps to the room view, everything else to home.
func (r *Router) route(ctx context.Context, path string) {
	r.current = path
	r.logger.Debug().Str("path", path).Msg("Routing")

	if strings.HasSuffix(path, RoomPath) {
		r.showRoom(ctx)
		return
	}

	r.showHome()
}

func (r *Router) showHome() {
	r.current = HomePath
	r.screen.ShowHome(r.identity.Authenticated())
}

// showRoom enters the room view. Anonymous users are bounced back to home
// with a notification; otherwise the connection is opened unless one is
// already pending or live.
func (r *Router) showRoom(ctx context.Context) {
	if !r.identity.Authenticated() {
		r.screen.Notify(errs.NewError(errs.ErrLoginRequired).Message)
		r.showHome()
		return
	}

	r.screen.ShowRoom()

	if !r.connector.Active() {
		if err := r.connector.Open(ctx); err != nil {
			r.logger.Warn().Err(err).Msg("Room connection open failed")
		}
	}
}
