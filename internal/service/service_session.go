package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-pixel-studio/internal/config"
	"github.com/MKhiriev/go-pixel-studio/internal/logger"
	"github.com/MKhiriev/go-pixel-studio/internal/store"
	"github.com/MKhiriev/go-pixel-studio/internal/utils"
	"github.com/MKhiriev/go-pixel-studio/models"
)

type sessionService struct {
	userRepository store.UserRepository

	tokenSignKey string
	tokenIssuer  string

	logger *logger.Logger
}

func NewSessionService(userRepository store.UserRepository, cfg config.Auth, logger *logger.Logger) SessionService {
	return &sessionService{
		userRepository: userRepository,
		tokenSignKey:   cfg.JWTSecret,
		tokenIssuer:    cfg.TokenIssuer,
		logger:         logger,
	}
}

// ParseToken validates a raw session token.
//
// Expired tokens are reported as ErrTokenIsExpired, every other failure
// (bad signature, malformed, wrong issuer) as ErrUnauthorized. Both wrap the
// codec error so callers can still tell the cases apart.
func (s *sessionService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	if tokenString == "" {
		return models.Token{}, ErrUnauthorized
	}

	token, err := utils.ValidateAndParseJWTToken(tokenString, s.tokenSignKey, s.tokenIssuer)
	if errors.Is(err, utils.ErrTokenExpired) {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenIsExpired, err)
	}
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).Msg("session token rejected")
		return models.Token{}, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	return token, nil
}

// Resolve implements [SessionService]. A token naming a user that no longer
// exists is ErrUnauthorized; storage failures are returned wrapped.
func (s *sessionService) Resolve(ctx context.Context, tokenString string) (models.User, error) {
	token, err := s.ParseToken(ctx, tokenString)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.userRepository.FindUserByID(ctx, token.UserID)
	if errors.Is(err, store.ErrNoUserWasFound) {
		logger.FromContext(ctx).Warn().Int64("user_id", token.UserID).Msg("valid token for unknown user")
		return models.User{}, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Int64("user_id", token.UserID).Msg("loading session user failed")
		return models.User{}, fmt.Errorf("loading session user failed: %w", err)
	}

	return user, nil
}
