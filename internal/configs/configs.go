/*
Package configs is responsible for loading and parsing the application's configuration settings.

It configures both the chat client (server URL, durable token location, keepalive
period) and the embedded development server (port, JWT secret, CORS origins) by
reading operating system environment variables.
*/
package configs

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// AppConfig contains all configuration parameters required for the application to run.
// All configuration values are loaded from environment variables.
type AppConfig struct {
	// General Settings
	Environment string

	// Client Settings
	ServerURL       string
	TokenPath       string
	KeepalivePeriod time.Duration

	// Development Server Settings
	Port           int
	JWTSecret      string
	AllowedOrigins []string
}

// LoadConfig reads and parses the application configuration from environment variables.
// It provides default values for each configuration item and performs necessary type
// conversions and validation. It returns a pointer to the AppConfig struct and any
// error encountered.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	// --- General Settings ---
	// Environment
	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	// --- Client Settings ---
	// ServerURL
	cfg.ServerURL = os.Getenv("SERVER_URL")
	if cfg.ServerURL == "" {
		cfg.ServerURL = "http://localhost:8080"
	}
	parsed, err := url.Parse(cfg.ServerURL)
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("invalid SERVER_URL environment variable: %q", cfg.ServerURL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("SERVER_URL scheme must be http or https, got %q", parsed.Scheme)
	}

	// TokenPath
	cfg.TokenPath = os.Getenv("TOKEN_PATH")
	if cfg.TokenPath == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("cannot resolve a default token path, set TOKEN_PATH explicitly: %w", err)
		}
		cfg.TokenPath = filepath.Join(configDir, "lobbychat", "token")
	}

	// KeepalivePeriod
	keepaliveStr := os.Getenv("KEEPALIVE_SECONDS")
	if keepaliveStr == "" {
		keepaliveStr = "15"
	}
	keepalive, err := strconv.Atoi(keepaliveStr)
	if err != nil {
		return nil, fmt.Errorf("invalid KEEPALIVE_SECONDS environment variable: %w", err)
	}
	if keepalive < 1 {
		return nil, fmt.Errorf("KEEPALIVE_SECONDS must be at least 1, got %d", keepalive)
	}
	cfg.KeepalivePeriod = time.Duration(keepalive) * time.Second

	// --- Development Server Settings ---
	// Port
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT environment variable: %w", err)
	}
	cfg.Port = port

	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", cfg.Port, 1024, 65535)
	}

	// JWTSecret
	jwtSecret := os.Getenv("JWT_SECRET")
	if cfg.Environment == "development" {
		if jwtSecret == "" {
			jwtSecret = "your_default_insecure_secret_key_change_me"
		}
	} else {
		if jwtSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET environment variable is required in %s environment for security", cfg.Environment)
		}
	}
	cfg.JWTSecret = jwtSecret

	// AllowedOrigins
	originsStr := os.Getenv("ALLOWED_ORIGINS")
	if originsStr != "" {
		origins := strings.Split(originsStr, ",")
		for _, origin := range origins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	} else {
		cfg.AllowedOrigins = []string{}
	}

	return cfg, nil
}
