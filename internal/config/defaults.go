package config

import "time"

const (
	defaultLogLevel        = "info"
	defaultHTTPAddress     = "0.0.0.0:8080"
	defaultRequestTimeout  = 30 * time.Second
	defaultWriteTimeout    = 3 * time.Minute
	defaultShutdownTimeout = 15 * time.Second
	defaultAuthRateLimit   = 20
	defaultTokenIssuer     = "go-pixel-studio"
	defaultTokenDuration   = time.Hour
	defaultCookieName      = "token"
	defaultCookieSameSite  = SameSiteLax
	defaultSignupBonus     = 10
	defaultArgonTime       = 1
	defaultArgonMemory     = 64 * 1024
	defaultArgonThreads    = 4
	defaultStripeBaseURL   = "https://api.stripe.com"
	defaultReplicateURL    = "https://api.replicate.com"
	defaultReplicateTimout = 2 * time.Minute
	defaultSweepInterval   = 10 * time.Minute
)

// Accepted values of Cookie.SameSite.
const (
	SameSiteLax    = "lax"
	SameSiteStrict = "strict"
)

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			LogLevel: defaultLogLevel,
		},
		Auth: Auth{
			TokenIssuer:   defaultTokenIssuer,
			TokenDuration: defaultTokenDuration,
			ArgonTime:     defaultArgonTime,
			ArgonMemory:   defaultArgonMemory,
			ArgonThreads:  defaultArgonThreads,
		},
		Cookie: Cookie{
			Name:     defaultCookieName,
			SameSite: defaultCookieSameSite,
		},
		Points: Points{
			SignupBonus: defaultSignupBonus,
		},
		Workers: Workers{
			SubscriptionSweepInterval: defaultSweepInterval,
		},
		Server: Server{
			HTTPAddress:     defaultHTTPAddress,
			RequestTimeout:  defaultRequestTimeout,
			WriteTimeout:    defaultWriteTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
			AuthRateLimit:   defaultAuthRateLimit,
		},
		Adapter: Adapter{
			Stripe: Stripe{
				BaseURL: defaultStripeBaseURL,
			},
			Replicate: Replicate{
				BaseURL: defaultReplicateURL,
				Timeout: defaultReplicateTimout,
			},
		},
	}
}
