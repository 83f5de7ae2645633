// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "fmt"

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
func (cfg *StructuredConfig) validate() error {
	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("%w: JWT_SECRET is required", ErrInvalidAuthConfigs)
	}
	if cfg.Auth.TokenDuration <= 0 {
		return fmt.Errorf("%w: token duration must be positive", ErrInvalidAuthConfigs)
	}
	if cfg.Auth.ArgonTime == 0 || cfg.Auth.ArgonMemory == 0 || cfg.Auth.ArgonThreads == 0 {
		return fmt.Errorf("%w: argon2 parameters must be positive", ErrInvalidAuthConfigs)
	}

	if cfg.Storage.DB.DSN == "" {
		return fmt.Errorf("%w: DATABASE_URL is required", ErrInvalidStorageConfigs)
	}

	if cfg.Cookie.Name == "" {
		return fmt.Errorf("%w: cookie name is empty", ErrInvalidCookieConfigs)
	}
	if cfg.Cookie.SameSite != SameSiteLax && cfg.Cookie.SameSite != SameSiteStrict {
		return fmt.Errorf("%w: same-site must be %q or %q, got %q",
			ErrInvalidCookieConfigs, SameSiteLax, SameSiteStrict, cfg.Cookie.SameSite)
	}

	if cfg.Server.HTTPAddress == "" || cfg.Server.RequestTimeout <= 0 || cfg.Server.WriteTimeout <= 0 {
		return ErrInvalidServerConfigs
	}

	if cfg.Workers.SubscriptionSweepInterval <= 0 {
		return fmt.Errorf("%w: subscription sweep interval must be positive", ErrInvalidServerConfigs)
	}

	if cfg.Points.SignupBonus < 0 {
		return ErrInvalidPointsConfigs
	}

	return nil
}
