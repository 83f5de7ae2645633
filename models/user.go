package models

import "time"

// Subscription types known to the service. Any other value stored by an
// administrator is kept as is.
const (
	SubscriptionFree    = "free"
	SubscriptionBasic   = "basic"
	SubscriptionPro     = "pro"
	SubscriptionPremium = "premium"
)

// User represents an account of the image studio. It is created on
// registration or on the first Google login and is never hard-deleted.
//
// The relational store is the only source of truth for Points: a session
// token references a UserID and the balance is re-read on every request.
type User struct {
	// UserID is the server-assigned identifier, also used as the JWT subject.
	UserID int64 `json:"id"`

	// Email is unique across all accounts and is used as the login.
	Email string `json:"email"`

	// Name is the display name shown in the UI.
	Name string `json:"name"`

	// PasswordHash is an Argon2id PHC string. It is nil for accounts that
	// were created through Google OAuth and never set a password.
	PasswordHash *string `json:"-"`

	// GoogleID is the "sub" of the linked Google account, if any.
	GoogleID *string `json:"-"`

	// Points is the current balance of the points ledger, always >= 0.
	Points int64 `json:"points"`

	// Subscription describes the current plan of the user.
	Subscription Subscription `json:"subscription"`

	// CreatedAt is the registration time.
	CreatedAt time.Time `json:"created_at"`
}

// HasPassword reports whether the user can log in with email and password.
func (u User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// Subscription is the plan part of a [User]. Start and End are nil for the
// free plan.
type Subscription struct {
	Type  string     `json:"type"`
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Credentials is the body of POST /api/auth/login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GoogleProfile is the subset of the Google userinfo response the service
// needs to find or create an account.
type GoogleProfile struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// UserFilter narrows the admin user listing.
type UserFilter struct {
	Email            string
	SubscriptionType string
	Limit            uint64
	Offset           uint64
}
