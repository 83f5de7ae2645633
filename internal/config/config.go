// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration of the image studio
// server. It aggregates all sub-configurations and is populated by merging
// built-in defaults, an optional JSON file, environment variables and
// command-line flags.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application metadata.
	App App

	// Auth holds token, password hashing and admin settings.
	Auth Auth

	// Cookie holds the attributes of the session cookie. The same values are
	// used for setting and clearing the cookie.
	Cookie Cookie `envPrefix:"COOKIE_"`

	// Points holds ledger-related settings.
	Points Points

	// Workers holds the schedule of background jobs.
	Workers Workers

	// Storage holds configuration for the relational database.
	Storage Storage

	// Server holds network, timeout and CORS settings of the HTTP server.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds credentials and endpoints of third-party providers.
	Adapter Adapter

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application metadata.
type App struct {
	// Version is exposed via the /api/version endpoint.
	// Env: APP_VERSION
	Version string `env:"APP_VERSION"`

	// LogLevel is a zerolog level name.
	// Env: LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`
}

// Auth holds the parameters of the token codec, the password hasher and the
// admin allow-list.
type Auth struct {
	// JWTSecret signs and verifies session tokens. Required.
	// Env: JWT_SECRET
	JWTSecret string `env:"JWT_SECRET"`

	// TokenIssuer is the "iss" claim of every issued token.
	// Env: TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration is the lifetime of a session token and the Max-Age of the
	// session cookie (e.g. "1h").
	// Env: TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// AdminUserIDs is the allow-list of users that may call /api/admin/*.
	// Env: ADMIN_USER_IDS (comma-separated)
	AdminUserIDs []int64 `env:"ADMIN_USER_IDS" envSeparator:","`

	// Argon2id cost parameters of the password hasher.
	// Env: PASSWORD_ARGON_TIME, PASSWORD_ARGON_MEMORY (KiB), PASSWORD_ARGON_THREADS
	ArgonTime    uint32 `env:"PASSWORD_ARGON_TIME"`
	ArgonMemory  uint32 `env:"PASSWORD_ARGON_MEMORY"`
	ArgonThreads uint8  `env:"PASSWORD_ARGON_THREADS"`
}

// Cookie holds the attributes of the session cookie.
type Cookie struct {
	// Name of the cookie carrying the session token.
	// Env: COOKIE_NAME
	Name string `env:"NAME"`

	// Domain attribute; empty means host-only.
	// Env: COOKIE_DOMAIN
	Domain string `env:"DOMAIN"`

	// Secure should be true in production.
	// Env: COOKIE_SECURE
	Secure bool `env:"SECURE"`

	// SameSite is "lax" or "strict".
	// Env: COOKIE_SAME_SITE
	SameSite string `env:"SAME_SITE"`
}

// Points holds ledger-related settings.
type Points struct {
	// SignupBonus is credited to every newly created account.
	// Env: SIGNUP_BONUS_POINTS
	SignupBonus int64 `env:"SIGNUP_BONUS_POINTS"`
}

// Workers holds background job settings.
type Workers struct {
	// SubscriptionSweepInterval is how often lapsed paid plans are moved
	// back to the free plan.
	// Env: SUBSCRIPTION_SWEEP_INTERVAL
	SubscriptionSweepInterval time.Duration `env:"SUBSCRIPTION_SWEEP_INTERVAL"`
}

// Storage groups the configuration of the persistence backends.
type Storage struct {
	DB DB
}

// DB holds connection settings for PostgreSQL.
type DB struct {
	// DSN is the PostgreSQL connection string. Required.
	// Env: DATABASE_URL
	DSN string `env:"DATABASE_URL"`
}

// Server holds network and timeout settings for the HTTP server.
type Server struct {
	// HTTPAddress is the listen address in "host:port" format.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds reading a request and writing its response.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// WriteTimeout bounds writing a response. Metered tools wait for the
	// image model, so it must exceed the Replicate timeout.
	// Env: SERVER_WRITE_TIMEOUT
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT"`

	// ShutdownTimeout is how long in-flight requests may run after a stop
	// signal.
	// Env: SERVER_SHUTDOWN_TIMEOUT
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`

	// AuthRateLimit is the number of login/register/OAuth requests allowed
	// per client IP per minute.
	// Env: SERVER_AUTH_RATE_LIMIT
	AuthRateLimit int `env:"AUTH_RATE_LIMIT"`

	// AllowedOrigins is the CORS allow-list of the browser front end.
	// Env: SERVER_CORS_ALLOWED_ORIGINS (comma-separated)
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

// Adapter holds the settings of all outbound integrations.
type Adapter struct {
	Google    Google
	Stripe    Stripe
	Replicate Replicate
}

// Google holds OAuth 2.0 client settings.
type Google struct {
	// Env: GOOGLE_CLIENT_ID
	ClientID string `env:"GOOGLE_CLIENT_ID"`
	// Env: GOOGLE_CLIENT_SECRET
	ClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	// RedirectURL must match the URL registered in the Google console.
	// Env: GOOGLE_REDIRECT_URL
	RedirectURL string `env:"GOOGLE_REDIRECT_URL"`
	// PostLoginURL is where the browser lands after a successful login.
	// Env: GOOGLE_POST_LOGIN_URL
	PostLoginURL string `env:"GOOGLE_POST_LOGIN_URL"`
}

// Stripe holds checkout and webhook settings.
type Stripe struct {
	// Env: STRIPE_SECRET_KEY
	SecretKey string `env:"STRIPE_SECRET_KEY"`
	// Env: STRIPE_WEBHOOK_SECRET
	WebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`
	// Env: STRIPE_SUCCESS_URL
	SuccessURL string `env:"STRIPE_SUCCESS_URL"`
	// Env: STRIPE_CANCEL_URL
	CancelURL string `env:"STRIPE_CANCEL_URL"`
	// Env: STRIPE_BASE_URL
	BaseURL string `env:"STRIPE_BASE_URL"`
}

// Replicate holds image-generation API settings.
type Replicate struct {
	// Env: REPLICATE_API_TOKEN
	APIToken string `env:"REPLICATE_API_TOKEN"`
	// Env: REPLICATE_BASE_URL
	BaseURL string `env:"REPLICATE_BASE_URL"`
	// Timeout bounds a single synchronous prediction.
	// Env: REPLICATE_TIMEOUT
	Timeout time.Duration `env:"REPLICATE_TIMEOUT"`
}

// GetStructuredConfig loads, merges, and validates the configuration from
// all sources in the following priority order (later sources override
// non-zero fields of earlier ones):
//  1. Built-in defaults
//  2. JSON file (path resolved from env and flags)
//  3. Environment variables
//  4. Command-line flags
func GetStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withDefaults().
		withEnv().
		withFlags(args).
		withJSON().
		build()
}
