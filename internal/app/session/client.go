/*
Package session owns the client's identity and the HTTP flows that establish it.

This file defines the Client struct, the HTTP consumer of the authentication
collaborator: session introspection on startup, login, registration, and
best-effort logout. Every call updates the Store as its side effect; callers
read resulting state from there.
*/
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"lobbychat/internal/pkg/errs"
	"lobbychat/internal/pkg/logx"
)

// httpTimeout bounds every call to the authentication collaborator.
const httpTimeout = 10 * time.Second

// Client performs the HTTP calls against the authentication collaborator and
// records their outcome in the Store.
type Client struct {
	baseURL string
	http    *http.Client
	store   *Store
	logger  zerolog.Logger
}

// NewClient constructs a Client for the collaborator at baseURL.
func NewClient(baseURL string, store *Store) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: httpTimeout},
		store:   store,
		logger:  logx.With("session_client"),
	}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
}

type sessionPayload struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

type loginPayload struct {
	Token string `json:"token"`
}

// Bootstrap asks the session-introspection endpoint who the user is and
// populates the Store accordingly. Every failure mode, transport error or
// non-2xx alike, resolves to anonymous and clears the Store; nothing is
// surfaced to the user at this stage. Returns whether a session was found.
func (c *Client) Bootstrap(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/session", nil)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to build session request")
		c.store.Clear()
		return false
	}

	// The durable token, when present, lets the server recognize the session
	// before any login has happened in this process.
	token := c.store.Token()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Msg("Session check failed, treating as anonymous")
		c.store.Clear()
		return false
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		c.logger.Debug().Int("status", res.StatusCode).Msg("No valid session, treating as anonymous")
		c.store.Clear()
		return false
	}

	var payload sessionPayload
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		c.logger.Warn().Err(err).Msg("Session response undecodable, treating as anonymous")
		c.store.Clear()
		return false
	}

	if payload.Token == "" {
		payload.Token = token
	}

	c.store.Set(Identity{Username: payload.Username, Token: payload.Token})
	c.logger.Info().Str("username", payload.Username).Msg("Session resumed")
	return true
}

// Login verifies the credentials with the login endpoint. On success the
// returned token and the supplied username become the current identity.
func (c *Client) Login(ctx context.Context, username, password string) *errs.CustomError {
	res, err := c.postJSON(ctx, "/api/login", credentials{Username: username, Password: password})
	if err != nil {
		c.logger.Warn().Err(err).Msg("Login request failed")
		return errs.NewError(errs.ErrNetwork)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		c.logger.Warn().Int("status", res.StatusCode).Str("username", username).Msg("Login rejected")
		return errs.NewError(errs.ErrAuthFailed).WithStatus(res.StatusCode)
	}

	var payload loginPayload
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		c.logger.Error().Err(err).Msg("Login response undecodable")
		return errs.NewError(errs.ErrBadResponse).WithStatus(res.StatusCode)
	}

	c.store.Set(Identity{Username: username, Token: payload.Token})
	c.logger.Info().Str("username", username).Msg("Login succeeded")
	return nil
}

// Register creates an account with the registration endpoint. A successful
// registration does not itself yield a token; callers follow up with Login.
func (c *Client) Register(ctx context.Context, username, password, email string) *errs.CustomError {
	res, err := c.postJSON(ctx, "/api/register", credentials{Username: username, Password: password, Email: email})
	if err != nil {
		c.logger.Warn().Err(err).Msg("Register request failed")
		return errs.NewError(errs.ErrNetwork)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		c.logger.Warn().Int("status", res.StatusCode).Str("username", username).Msg("Registration rejected")
		return errs.NewError(errs.ErrAuthFailed).WithStatus(res.StatusCode)
	}

	c.logger.Info().Str("username", username).Msg("Registration succeeded")
	return nil
}

// Logout tells the collaborator to tear down the server-side session.
// Best-effort: failures are logged, never surfaced.
func (c *Client) Logout(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/logout", nil)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to build logout request")
		return
	}

	if token := c.store.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Logout request failed")
		return
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		c.logger.Warn().Int("status", res.StatusCode).Msg("Logout rejected by server")
	}
}

// postJSON issues a JSON POST to path under the collaborator base URL.
func (c *Client) postJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.http.Do(req)
}
