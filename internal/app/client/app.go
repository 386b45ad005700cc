/*
Package client wires the chat client together: credential store, session
bootstrap, auth form, connection manager, dispatcher, and router, driven by an
interactive command loop.

Commands: /login <user> <password>, /register <user> <password> <email>,
/chat, /home, /back, /logout, /quit. Any other input line is sent to the room
as a chat message.
*/
package client

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"lobbychat/internal/app/conn"
	"lobbychat/internal/app/dispatch"
	"lobbychat/internal/app/session"
	"lobbychat/internal/app/view"
	"lobbychat/internal/configs"
	"lobbychat/internal/pkg/logx"
)

// App is the assembled chat client.
type App struct {
	store   *session.Store
	api     *session.Client
	form    *session.Form
	manager *conn.Manager
	router  *view.Router
	screen  view.Screen
	logger  zerolog.Logger
}

// New wires an App from config and a rendering surface.
func New(cfg *configs.AppConfig, screen view.Screen) (*App, error) {
	store := session.NewStore(cfg.TokenPath)
	api := session.NewClient(cfg.ServerURL, store)
	dispatcher := dispatch.NewDispatcher(screen, store)

	manager, err := conn.NewManager(cfg.ServerURL, cfg.KeepalivePeriod, store, dispatcher, screen)
	if err != nil {
		return nil, err
	}

	router := view.NewRouter(screen, manager, store)

	// A successful login lands the user in the room.
	form := session.NewForm(api, screen, func(ctx context.Context) {
		router.Go(ctx, view.RoomPath)
	})

	return &App{
		store:   store,
		api:     api,
		form:    form,
		manager: manager,
		router:  router,
		screen:  screen,
		logger:  logx.With("app"),
	}, nil
}

// Run bootstraps the session, routes to the home view, and processes input
// lines until EOF, /quit, or context cancellation. The session check completes
// before the first routing decision, since the room view depends on it.
func (a *App) Run(ctx context.Context, input io.Reader) error {
	a.api.Bootstrap(ctx)
	a.router.Go(ctx, view.HomePath)

	lines := make(chan string)
	scanErr := make(chan error, 1)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(input)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			a.manager.Close()
			return ctx.Err()

		case line, ok := <-lines:
			if !ok {
				a.manager.Close()
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}

			if !a.handleLine(ctx, line) {
				a.manager.Close()
				return nil
			}
		}
	}
}

// handleLine processes one input line. Returns false when the client should
// exit.
func (a *App) handleLine(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)

	if !strings.HasPrefix(line, "/") {
		if err := a.manager.Send(line); err != nil {
			a.screen.Notify(err.Message)
		}
		return true
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit":
		return false

	case "/login":
		if len(fields) != 3 {
			a.form.SetMode(session.ModeLogin)
			a.screen.ShowAuth(false)
			return true
		}
		a.form.SetMode(session.ModeLogin)
		a.form.Submit(ctx, fields[1], fields[2], "")

	case "/register":
		if len(fields) != 4 {
			a.form.SetMode(session.ModeRegister)
			a.screen.ShowAuth(true)
			return true
		}
		a.form.SetMode(session.ModeRegister)
		a.form.Submit(ctx, fields[1], fields[2], fields[3])

	case "/logout":
		a.Logout(ctx)

	case "/chat":
		a.router.Go(ctx, view.RoomPath)

	case "/home":
		a.router.Go(ctx, view.HomePath)

	case "/back":
		a.router.Back(ctx)

	default:
		a.screen.Notify("Unknown command: " + fields[0])
	}

	return true
}

// Logout tears the session down: best-effort server logout, connection close,
// credential wipe, and navigation home.
func (a *App) Logout(ctx context.Context) {
	a.api.Logout(ctx)
	a.manager.Close()
	a.store.Clear()
	a.screen.Notify("Signed out.")
	a.router.Go(ctx, view.HomePath)
}
