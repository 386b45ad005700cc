package view

import (
	"bytes"
	"strings"
	"testing"
)

func TestTerminalRoster(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)

	term.SetRoster([]string{"ana", "bo", "cleo"}, "bo")

	out := buf.String()
	if !strings.Contains(out, "online (3):") {
		t.Errorf("missing roster count in %q", out)
	}
	if !strings.Contains(out, "* bo (you)") {
		t.Errorf("missing self marker in %q", out)
	}
	if !strings.Contains(out, "- ana") || !strings.Contains(out, "- cleo") {
		t.Errorf("missing other participants in %q", out)
	}
	if strings.Count(out, "(you)") != 1 {
		t.Errorf("self marker appears %d times in %q", strings.Count(out, "(you)"), out)
	}
}

func TestTerminalMessages(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)

	term.AppendMessage("ana", "hi", true)
	term.AppendMessage("bo", "hey", false)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), buf.String())
	}
	if lines[0] != ">> ana: hi" {
		t.Errorf("self line = %q", lines[0])
	}
	if lines[1] != "   bo: hey" {
		t.Errorf("other line = %q", lines[1])
	}
}

func TestTerminalNotify(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)

	term.Notify("Connected to the chat.")

	if got := buf.String(); got != "*** Connected to the chat.\n" {
		t.Errorf("notify output = %q", got)
	}
}

func TestTerminalHomeActions(t *testing.T) {
	var loggedOut bytes.Buffer
	NewTerminal(&loggedOut).ShowHome(false)

	if out := loggedOut.String(); !strings.Contains(out, "/login") || !strings.Contains(out, "/register") {
		t.Errorf("anonymous home missing auth actions: %q", out)
	}

	var loggedIn bytes.Buffer
	NewTerminal(&loggedIn).ShowHome(true)

	out := loggedIn.String()
	if !strings.Contains(out, "/chat") || !strings.Contains(out, "/logout") {
		t.Errorf("authenticated home missing room actions: %q", out)
	}
	if strings.Contains(out, "/login") {
		t.Errorf("authenticated home still offers login: %q", out)
	}
}
