/*
Package devserver is a self-contained, in-memory implementation of the chat
server the client talks to.

This file defines the HTTP routing table and the auth/session/ws handlers.
Response shapes match exactly what the chat client decodes: login returns a
flat {"token": ...}, session returns {"username": ..., "token": ...},
registration returns a body-free 201.
*/
package devserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"lobbychat/internal/configs"
	"lobbychat/internal/pkg/auth/jwt"
	"lobbychat/internal/pkg/limiter"
	"lobbychat/internal/pkg/logx"
	"lobbychat/internal/pkg/req"
	"lobbychat/internal/pkg/resp"
)

const (
	joinRate  = 1.0
	joinBurst = 10
)

// NewRouter sets up the HTTP routing table for the development server around
// the given hub and account table.
func NewRouter(cfg *configs.AppConfig, hub *Hub, users *Users) http.Handler {
	joinLimiter := limiter.NewIPRateLimiter(rate.Limit(joinRate), joinBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range cfg.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if cfg.Environment == "development" {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if cfg.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(cfg.AllowedOrigins) > 0 {
		corsAllowedOrigins = cfg.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp.RespondJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "lobbychat devserver",
		})
	})

	r.Route("/api", func(api chi.Router) {
		api.Post("/register", handleRegister(users))
		api.Post("/login", handleLogin(users, cfg.JWTSecret))
		api.Get("/session", handleSession(cfg.JWTSecret))
		api.Post("/logout", handleLogout())
	})

	r.Get("/ws", handleWebSocket(hub, upgrader, joinLimiter, cfg.JWTSecret))

	return r
}

type credentialsInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
}

// handleRegister creates an account. A successful registration yields no
// token; the client follows up with a login.
func handleRegister(users *Users) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input credentialsInput
		if err := req.BindJSON(r, &input); err != nil {
			resp.RespondMessage(w, http.StatusBadRequest, "Invalid request body.")
			return
		}

		if input.Username == "" || input.Password == "" || input.Email == "" {
			resp.RespondMessage(w, http.StatusBadRequest, "Missing fields.")
			return
		}

		if err := users.Register(input.Username, input.Password, input.Email); err != nil {
			logx.Warn("Registration conflict", "username", input.Username)
			resp.RespondMessage(w, http.StatusConflict, "Username already exists.")
			return
		}

		logx.Info("Account created", "username", input.Username)
		resp.RespondMessage(w, http.StatusCreated, "User created successfully.")
	}
}

// handleLogin verifies credentials and issues the connection token.
func handleLogin(users *Users, secret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input credentialsInput
		if err := req.BindJSON(r, &input); err != nil {
			resp.RespondMessage(w, http.StatusBadRequest, "Invalid request body.")
			return
		}

		acct, ok := users.Verify(input.Username, input.Password)
		if !ok {
			logx.Warn("Login rejected", "username", input.Username)
			resp.RespondMessage(w, http.StatusUnauthorized, "Incorrect username or password.")
			return
		}

		payload := &jwt.Payload{Username: acct.Username, UserID: acct.ID}
		token, err := jwt.GenerateToken(payload, secret, jwt.SessionExpiration)
		if err != nil {
			logx.Error(err, "Token generation failed", "username", input.Username)
			resp.RespondMessage(w, http.StatusInternalServerError, "Something went wrong.")
			return
		}

		resp.RespondJSON(w, http.StatusOK, map[string]string{"token": token})
	}
}

// handleSession answers "who am I" for a presented bearer token.
func handleSession(secret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")

		identity := jwt.IdentityFromRequest(r, secret)
		if identity == nil {
			resp.RespondMessage(w, http.StatusUnauthorized, "No valid session.")
			return
		}

		resp.RespondJSON(w, http.StatusOK, map[string]string{
			"username": identity.Username,
			"token":    jwt.TokenFromRequest(r),
		})
	}
}

// handleLogout acknowledges the teardown. Tokens are stateless here, so the
// client discarding its copy is what ends the session.
func handleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondMessage(w, http.StatusOK, "Logged out successfully.")
	}
}

// handleWebSocket validates the token presented on the streaming dial,
// upgrades the connection, and hands it to the hub.
func handleWebSocket(hub *Hub, upgrader websocket.Upgrader, joinLimiter *limiter.IPRateLimiter, secret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !joinLimiter.Allow(r.RemoteAddr) {
			logx.Warn("WebSocket connection rejected: rate limit exceeded.", "remote", r.RemoteAddr)
			resp.RespondMessage(w, http.StatusTooManyRequests, "Too many requests.")
			return
		}

		identity := jwt.IdentityFromRequest(r, secret)
		if identity == nil {
			logx.Warn("WebSocket connection rejected: no valid token.")
			resp.RespondMessage(w, http.StatusUnauthorized, "Unauthorized.")
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		wsClient := newClient(hub, conn, identity.Username)

		go wsClient.writePump()

		logx.Info("WebSocket connection established", "username", identity.Username)

		hub.register <- wsClient

		wsClient.readPump()
	}
}
