package session

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()

	tokenPath := filepath.Join(t.TempDir(), "token")
	return NewStore(tokenPath), tokenPath
}

func TestStoreSetGet(t *testing.T) {
	store, _ := newTestStore(t)

	if _, ok := store.Get(); ok {
		t.Fatal("expected empty store to report no identity")
	}

	store.Set(Identity{Username: "ana", Token: "t1"})

	identity, ok := store.Get()
	if !ok {
		t.Fatal("expected identity after Set")
	}
	if identity.Username != "ana" || identity.Token != "t1" {
		t.Errorf("unexpected identity: %+v", identity)
	}

	if got := store.CurrentUsername(); got != "ana" {
		t.Errorf("CurrentUsername = %q, want %q", got, "ana")
	}
	if !store.Authenticated() {
		t.Error("expected Authenticated after Set")
	}
}

func TestStoreDurableTokenFallback(t *testing.T) {
	store, tokenPath := newTestStore(t)
	store.Set(Identity{Username: "ana", Token: "t1"})

	// A fresh process with the same token path must see the token before any
	// bootstrap has run.
	restarted := NewStore(tokenPath)

	if got := restarted.Token(); got != "t1" {
		t.Errorf("Token after restart = %q, want %q", got, "t1")
	}
	if restarted.Authenticated() {
		t.Error("durable token alone must not count as a known identity")
	}
}

func TestStoreClearRemovesBoth(t *testing.T) {
	store, tokenPath := newTestStore(t)
	store.Set(Identity{Username: "ana", Token: "t1"})

	store.Clear()

	if store.Authenticated() {
		t.Error("expected anonymous after Clear")
	}
	if got := store.Token(); got != "" {
		t.Errorf("Token after Clear = %q, want empty", got)
	}
	if _, err := os.Stat(tokenPath); !os.IsNotExist(err) {
		t.Errorf("expected token file removed, stat err = %v", err)
	}

	// Clearing an already-empty store must be harmless.
	store.Clear()
}

func TestStoreMemoryTokenWinsOverDurable(t *testing.T) {
	store, tokenPath := newTestStore(t)

	if err := os.WriteFile(tokenPath, []byte("stale\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if got := store.Token(); got != "stale" {
		t.Errorf("durable token = %q, want %q (trimmed)", got, "stale")
	}

	store.Set(Identity{Username: "ana", Token: "fresh"})

	if got := store.Token(); got != "fresh" {
		t.Errorf("Token = %q, want in-memory %q", got, "fresh")
	}
}
