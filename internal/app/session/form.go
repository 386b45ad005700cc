/*
Package session owns the client's identity and the HTTP flows that establish it.

This file defines the Form struct, the controller behind the dual-mode
login/registration form. Its one quirk is deliberate: a successful registration
does not return a usable token, so the form immediately replays the same
credentials as a login.
*/
package session

import (
	"context"

	"github.com/rs/zerolog"

	"lobbychat/internal/pkg/logx"
)

// Mode identifies which variant the auth form currently presents.
type Mode int

const (
	// ModeLogin submits to the login endpoint.
	ModeLogin Mode = iota

	// ModeRegister submits to the registration endpoint and requires an email.
	ModeRegister
)

// String returns the display name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeLogin:
		return "login"
	case ModeRegister:
		return "register"
	default:
		return "unknown"
	}
}

// Notifier surfaces short user-facing messages.
type Notifier interface {
	Notify(msg string)
}

// Form drives the login/registration flow against the authentication
// collaborator. Auth failures are user-correctable input errors: one
// notification, no retry, no backoff.
type Form struct {
	mode     Mode
	api      *Client
	notifier Notifier
	onLogin  func(ctx context.Context)
	logger   zerolog.Logger
}

// NewForm constructs a Form starting in login mode. onLogin runs after a
// successful login, typically navigating into the room.
func NewForm(api *Client, notifier Notifier, onLogin func(ctx context.Context)) *Form {
	return &Form{
		mode:     ModeLogin,
		api:      api,
		notifier: notifier,
		onLogin:  onLogin,
		logger:   logx.With("auth_form"),
	}
}

// Mode returns the current form mode.
func (f *Form) Mode() Mode {
	return f.mode
}

// SetMode switches the form to the given mode.
func (f *Form) SetMode(mode Mode) {
	f.mode = mode
}

// Toggle flips between login and register modes.
func (f *Form) Toggle() {
	if f.mode == ModeLogin {
		f.mode = ModeRegister
	} else {
		f.mode = ModeLogin
	}
}

// EmailRequired reports whether the email field is required in the current mode.
func (f *Form) EmailRequired() bool {
	return f.mode == ModeRegister
}

// Submit sends the entered credentials according to the current mode.
//
// Register: on success, notify, switch to login mode, and immediately submit
// the same credentials as a login. The auto-login is an explicit second call,
// not a re-entry of this handler, so it cannot depend on form-field side
// effects. A failure of that auto-login surfaces the standard auth
// notification without disturbing the completed registration.
func (f *Form) Submit(ctx context.Context, username, password, email string) {
	switch f.mode {
	case ModeRegister:
		if err := f.api.Register(ctx, username, password, email); err != nil {
			f.notifier.Notify(err.Message)
			return
		}

		f.notifier.Notify("Registration successful. Signing in...")
		f.mode = ModeLogin
		f.submitLogin(ctx, username, password)

	case ModeLogin:
		f.submitLogin(ctx, username, password)

	default:
		f.logger.Warn().Int("mode", int(f.mode)).Msg("Submit with unknown form mode")
	}
}

func (f *Form) submitLogin(ctx context.Context, username, password string) {
	if err := f.api.Login(ctx, username, password); err != nil {
		f.notifier.Notify(err.Message)
		return
	}

	f.notifier.Notify("Signed in.")

	if f.onLogin != nil {
		f.onLogin(ctx)
	}
}
