package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-pixel-studio/models"
	"github.com/golang-jwt/jwt/v5"
)

// Token validation failures. Callers switch on these with errors.Is; the
// underlying jwt error is wrapped for logging.
var (
	// ErrTokenExpired is returned for a well-signed token whose exp is in the past.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenBadSignature is returned when the signature does not verify
	// against the configured secret or the algorithm is not HS256.
	ErrTokenBadSignature = errors.New("token signature is invalid")
	// ErrTokenMalformed is returned for undecodable tokens and for tokens
	// with missing or unusable claims (including a foreign issuer).
	ErrTokenMalformed = errors.New("token is malformed")
	// ErrSigningKeyMissing is returned when no secret is configured.
	ErrSigningKeyMissing = errors.New("token signing key is not configured")
)

// GenerateJWTToken creates a signed HMAC-SHA256 JWT token for the user.
//
// The token includes the following claims:
//   - Issuer    (iss): identifies the service that issued the token
//   - Subject   (sub): the user ID encoded as a string
//   - IssuedAt  (iat): the current time
//   - ExpiresAt (exp): the current time plus tokenDuration
//   - email, name:     copied from the user
//
// Example usage:
//
//	token, err := utils.GenerateJWTToken("pixel-studio", user, time.Hour, "secret")
func GenerateJWTToken(issuer string, user models.User, tokenDuration time.Duration, signKey string) (models.Token, error) {
	if signKey == "" {
		return models.Token{}, ErrSigningKeyMissing
	}
	if issuer == "" || tokenDuration <= 0 {
		return models.Token{}, errors.New("invalid params for generating JWT Token")
	}

	now := time.Now()
	claims := models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(user.UserID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email: user.Email,
		Name:  user.Name,
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signKey))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred during signing JWT token: %w", err)
	}

	return models.Token{Claims: claims, SignedString: tokenString, UserID: user.UserID}, nil
}

// ValidateAndParseJWTToken verifies the signature, the algorithm, the expiry
// and the issuer of tokenString and returns its decoded claims.
//
// Returned errors wrap exactly one of ErrTokenExpired, ErrTokenBadSignature,
// ErrTokenMalformed or ErrSigningKeyMissing.
func ValidateAndParseJWTToken(tokenString, tokenSignKey, tokenIssuer string) (models.Token, error) {
	if tokenSignKey == "" {
		return models.Token{}, ErrSigningKeyMissing
	}

	claims := &models.Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(tokenSignKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return models.Token{}, classifyJWTError(err)
	}

	userID, err := claims.GetUserID()
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenMalformed, err)
	}

	return models.Token{Claims: *claims, SignedString: tokenString, UserID: userID}, nil
}

func classifyJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %w", ErrTokenBadSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrTokenExpired, err)
	default:
		return fmt.Errorf("%w: %w", ErrTokenMalformed, err)
	}
}

// ParseBearerToken extracts the credential from an "Authorization: Bearer x"
// header value.
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Fields(authorizationHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}
