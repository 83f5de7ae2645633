package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-pixel-studio/internal/adapter"
	"github.com/MKhiriev/go-pixel-studio/internal/config"
	"github.com/MKhiriev/go-pixel-studio/internal/crypto"
	"github.com/MKhiriev/go-pixel-studio/internal/logger"
	"github.com/MKhiriev/go-pixel-studio/internal/store"
	"github.com/MKhiriev/go-pixel-studio/internal/utils"
	"github.com/MKhiriev/go-pixel-studio/internal/validators"
	"github.com/MKhiriev/go-pixel-studio/models"
)

// authService is the concrete implementation of AuthService.
// It handles registration, password and Google sign-in, and issuing of
// session tokens.
type authService struct {
	// userRepository is the data-access layer used to create and look up users.
	userRepository store.UserRepository

	// hasher produces and checks the Argon2id password hashes.
	hasher crypto.PasswordHasher

	// oauth exchanges Google authorization codes for a profile.
	oauth adapter.OAuthProvider

	validator validators.Validator

	// signupBonus is credited to every newly created account.
	signupBonus int64

	// tokenSignKey is the HMAC secret used to sign session tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued token.
	tokenIssuer string

	// tokenDuration controls how long a newly issued token remains valid.
	tokenDuration time.Duration

	logger *logger.Logger
}

// NewAuthService constructs a new AuthService. The returned service is safe
// for concurrent use; all state is read-only after construction.
func NewAuthService(
	userRepository store.UserRepository,
	hasher crypto.PasswordHasher,
	oauth adapter.OAuthProvider,
	validator validators.Validator,
	cfg config.StructuredConfig,
	logger *logger.Logger,
) AuthService {
	return &authService{
		userRepository: userRepository,
		hasher:         hasher,
		oauth:          oauth,
		validator:      validator,
		signupBonus:    cfg.Points.SignupBonus,
		tokenSignKey:   cfg.Auth.JWTSecret,
		tokenIssuer:    cfg.Auth.TokenIssuer,
		tokenDuration:  cfg.Auth.TokenDuration,
		logger:         logger,
	}
}

// RegisterUser creates a password account credited with the signup bonus.
//
// Returns the persisted user or:
//   - ErrInvalidDataProvided wrapping the validator error.
//   - ErrEmailTaken if the email is already registered.
func (a *authService) RegisterUser(ctx context.Context, request models.RegisterRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	request.Email = normalizeEmail(request.Email)
	request.Name = strings.TrimSpace(request.Name)
	if err := a.validator.Validate(ctx, request); err != nil {
		log.Debug().Err(err).Str("email", request.Email).Msg("invalid registration data")
		return models.User{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	passwordHash, err := a.hasher.Hash(request.Password)
	if err != nil {
		log.Err(err).Msg("password hashing failed")
		return models.User{}, fmt.Errorf("password hashing failed: %w", err)
	}

	user := models.User{
		Email:        request.Email,
		Name:         request.Name,
		PasswordHash: &passwordHash,
		Subscription: models.Subscription{Type: models.SubscriptionFree},
	}

	registeredUser, err := a.userRepository.CreateUser(ctx, user, a.signupBonus)
	if errors.Is(err, store.ErrEmailAlreadyExists) {
		return models.User{}, fmt.Errorf("%w: %w", ErrEmailTaken, err)
	}
	if err != nil {
		log.Err(err).Str("email", request.Email).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	log.Info().Int64("user_id", registeredUser.UserID).Msg("user registered")
	return registeredUser, nil
}

// Login authenticates an account by email and password.
//
// Unknown emails, Google-only accounts and wrong passwords all yield
// ErrWrongCredentials.
func (a *authService) Login(ctx context.Context, credentials models.Credentials) (models.User, error) {
	log := logger.FromContext(ctx)

	credentials.Email = normalizeEmail(credentials.Email)
	if err := a.validator.Validate(ctx, credentials); err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	foundUser, err := a.userRepository.FindUserByEmail(ctx, credentials.Email)
	if errors.Is(err, store.ErrNoUserWasFound) {
		return models.User{}, ErrWrongCredentials
	}
	if err != nil {
		log.Err(err).Str("email", credentials.Email).Msg("user search by email failed")
		return models.User{}, fmt.Errorf("user search by email failed: %w", err)
	}

	if !foundUser.HasPassword() {
		log.Debug().Int64("user_id", foundUser.UserID).Msg("password login on google-only account")
		return models.User{}, ErrWrongCredentials
	}

	ok, err := a.hasher.Verify(credentials.Password, *foundUser.PasswordHash)
	if err != nil {
		log.Err(err).Int64("user_id", foundUser.UserID).Msg("stored password hash is unreadable")
		return models.User{}, fmt.Errorf("password verification failed: %w", err)
	}
	if !ok {
		log.Debug().Int64("user_id", foundUser.UserID).Msg("wrong password")
		return models.User{}, ErrWrongCredentials
	}

	return foundUser, nil
}

// LoginWithGoogle exchanges an authorization code and signs the profile in.
//
// Lookup order: linked Google subject, then an existing account with the same
// (verified) email which gets linked, then a new account without password.
func (a *authService) LoginWithGoogle(ctx context.Context, code string) (models.User, error) {
	log := logger.FromContext(ctx)

	if code == "" {
		return models.User{}, fmt.Errorf("%w: empty authorization code", ErrInvalidDataProvided)
	}

	profile, err := a.oauth.Exchange(ctx, code)
	if err != nil {
		log.Err(err).Msg("google code exchange failed")
		return models.User{}, fmt.Errorf("%w: %w", ErrProviderFailed, err)
	}
	profile.Email = normalizeEmail(profile.Email)

	user, err := a.userRepository.FindUserByGoogleID(ctx, profile.Subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNoUserWasFound) {
		log.Err(err).Msg("user search by google id failed")
		return models.User{}, fmt.Errorf("user search by google id failed: %w", err)
	}

	user, err = a.userRepository.FindUserByEmail(ctx, profile.Email)
	switch {
	case err == nil:
		if !profile.EmailVerified {
			return models.User{}, ErrUnverifiedEmail
		}
		linked, linkErr := a.userRepository.LinkGoogleAccount(ctx, user.UserID, profile.Subject)
		if linkErr != nil {
			log.Err(linkErr).Int64("user_id", user.UserID).Msg("linking google account failed")
			return models.User{}, fmt.Errorf("linking google account failed: %w", linkErr)
		}
		log.Info().Int64("user_id", linked.UserID).Msg("google account linked")
		return linked, nil
	case !errors.Is(err, store.ErrNoUserWasFound):
		log.Err(err).Msg("user search by email failed")
		return models.User{}, fmt.Errorf("user search by email failed: %w", err)
	}

	name := strings.TrimSpace(profile.Name)
	if name == "" {
		name, _, _ = strings.Cut(profile.Email, "@")
	}
	googleID := profile.Subject
	created, err := a.userRepository.CreateUser(ctx, models.User{
		Email:        profile.Email,
		Name:         name,
		GoogleID:     &googleID,
		Subscription: models.Subscription{Type: models.SubscriptionFree},
	}, a.signupBonus)
	if errors.Is(err, store.ErrEmailAlreadyExists) {
		return models.User{}, fmt.Errorf("%w: %w", ErrEmailTaken, err)
	}
	if err != nil {
		log.Err(err).Msg("google user creation failed")
		return models.User{}, fmt.Errorf("google user creation failed: %w", err)
	}

	log.Info().Int64("user_id", created.UserID).Msg("user registered with google")
	return created, nil
}

func (a *authService) GoogleAuthURL(state string) string {
	return a.oauth.AuthCodeURL(state)
}

// CreateToken issues a signed session token for user that expires after the
// configured duration.
func (a *authService) CreateToken(ctx context.Context, user models.User) (models.Token, error) {
	token, err := utils.GenerateJWTToken(a.tokenIssuer, user, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		logger.FromContext(ctx).Err(err).Int64("user_id", user.UserID).Msg("token creation failed")
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
