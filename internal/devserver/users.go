/*
Package devserver is a self-contained, in-memory implementation of the chat
server the client talks to: the auth endpoints, the session introspection
endpoint, and the single-room streaming endpoint. It exists so the client can
be run and integration-tested without external infrastructure; nothing here
persists across restarts.

This file defines the in-memory account table.
*/
package devserver

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// account is one registered user.
type account struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
}

// Users is a concurrency-safe, in-memory account table keyed by username.
type Users struct {
	mu       sync.RWMutex
	accounts map[string]account
}

// NewUsers constructs an empty account table.
func NewUsers() *Users {
	return &Users{accounts: make(map[string]account)}
}

// Register creates an account. Usernames are unique; the password is stored
// as a bcrypt hash.
func (u *Users) Register(username, password, email string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if _, exists := u.accounts[username]; exists {
		return fmt.Errorf("username %q already exists", username)
	}

	u.accounts[username] = account{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}

	return nil
}

// Verify checks the credentials and returns the matching account.
func (u *Users) Verify(username, password string) (account, bool) {
	u.mu.RLock()
	acct, exists := u.accounts[username]
	u.mu.RUnlock()

	if !exists {
		return account{}, false
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return account{}, false
	}

	return acct, true
}
