package models

import (
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of a session token. The user ID travels in the
// standard "sub" claim, issue and expiry times in "iat" and "exp".
type Claims struct {
	jwt.RegisteredClaims

	// Email of the user at the time of issuing.
	Email string `json:"email"`

	// Name of the user at the time of issuing.
	Name string `json:"name"`
}

// Token is a signed session credential together with its decoded claims.
type Token struct {
	Claims

	// SignedString is the compact JWS form stored in the cookie.
	SignedString string `json:"-"`

	// UserID is the parsed "sub" claim.
	UserID int64 `json:"-"`
}

// GetUserID parses the "sub" claim as a base-10 int64.
func (c *Claims) GetUserID() (int64, error) {
	subject, err := c.GetSubject()
	if err != nil {
		return 0, fmt.Errorf("error extracting UserID from token: %w", err)
	}

	userID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("error converting UserID from token to int64: %w", err)
	}

	return userID, nil
}

// String returns the compact JWS serialization of the token.
func (t *Token) String() string {
	return t.SignedString
}
