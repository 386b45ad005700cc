/*
Package view holds the presentation surface and the navigation logic of the
chat client.

This file defines the Screen interface, the full rendering contract, and
Terminal, its plain-text implementation. Protocol components depend on their
own narrow slices of this contract; Terminal satisfies all of them.
*/
package view

import (
	"fmt"
	"io"
	"sync"
)

// Screen is the complete presentation surface the client renders into.
type Screen interface {
	// Notify shows a short transient message (the toast of the browser client).
	Notify(msg string)

	// ShowHome renders the home view with actions matching whether an
	// identity is currently known.
	ShowHome(loggedIn bool)

	// ShowAuth renders the auth form view in login or register mode.
	ShowAuth(registering bool)

	// ShowRoom renders the room view chrome.
	ShowRoom()

	// ResetMessages clears the visible message log.
	ResetMessages()

	// SetRoster fully replaces the displayed participant list.
	SetRoster(users []string, self string)

	// AppendMessage appends one entry to the message log.
	AppendMessage(author, content string, self bool)
}

// Terminal renders the client views as plain terminal output. Safe for
// concurrent use; inbound frames and the input loop both write to it.
type Terminal struct {
	mu  sync.Mutex
	out io.Writer
}

// NewTerminal constructs a Terminal writing to out.
func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out}
}

// Notify shows a short transient message.
func (t *Terminal) Notify(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.out, "*** %s\n", msg)
}

// ShowHome renders the home view actions.
func (t *Terminal) ShowHome(loggedIn bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintln(t.out, "--- lobbychat ---")
	if loggedIn {
		fmt.Fprintln(t.out, "  /chat              join the room")
		fmt.Fprintln(t.out, "  /logout            sign out")
	} else {
		fmt.Fprintln(t.out, "  /login <user> <password>             sign in")
		fmt.Fprintln(t.out, "  /register <user> <password> <email>  create an account")
	}
}

// ShowAuth renders the auth form view for the given mode.
func (t *Terminal) ShowAuth(registering bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if registering {
		fmt.Fprintln(t.out, "--- create account ---")
		fmt.Fprintln(t.out, "  /register <user> <password> <email>")
		fmt.Fprintln(t.out, "  already have an account? /login <user> <password>")
	} else {
		fmt.Fprintln(t.out, "--- sign in ---")
		fmt.Fprintln(t.out, "  /login <user> <password>")
		fmt.Fprintln(t.out, "  no account yet? /register <user> <password> <email>")
	}
}

// ShowRoom renders the room view chrome.
func (t *Terminal) ShowRoom() {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintln(t.out, "--- room ---")
}

// ResetMessages clears the visible message log. In a terminal the log cannot
// be unprinted, so a separator marks the fresh start.
func (t *Terminal) ResetMessages() {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintln(t.out, "------------")
}

// SetRoster fully replaces the displayed participant list, marking the entry
// matching the current identity and showing the total count.
func (t *Terminal) SetRoster(users []string, self string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.out, "online (%d):\n", len(users))
	for _, user := range users {
		if user == self {
			fmt.Fprintf(t.out, "  * %s (you)\n", user)
		} else {
			fmt.Fprintf(t.out, "  - %s\n", user)
		}
	}
}

// AppendMessage appends one entry to the message log. The terminal always
// shows the newest entry last, which is the auto-scroll of this renderer.
func (t *Terminal) AppendMessage(author, content string, self bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if self {
		fmt.Fprintf(t.out, ">> %s: %s\n", author, content)
	} else {
		fmt.Fprintf(t.out, "   %s: %s\n", author, content)
	}
}
