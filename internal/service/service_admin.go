package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/MKhiriev/go-pixel-studio/internal/config"
	"github.com/MKhiriev/go-pixel-studio/internal/logger"
	"github.com/MKhiriev/go-pixel-studio/internal/store"
	"github.com/MKhiriev/go-pixel-studio/internal/utils"
	"github.com/MKhiriev/go-pixel-studio/internal/validators"
	"github.com/MKhiriev/go-pixel-studio/models"
)

const maxUserPage = 100

type adminService struct {
	adminIDs       []int64
	userRepository store.UserRepository
	points         PointsService
	validator      validators.Validator
	ids            *utils.UUIDGenerator
	now            func() time.Time

	logger *logger.Logger
}

func NewAdminService(
	userRepository store.UserRepository,
	points PointsService,
	validator validators.Validator,
	cfg config.Auth,
	logger *logger.Logger,
) AdminService {
	return &adminService{
		adminIDs:       slices.Clone(cfg.AdminUserIDs),
		userRepository: userRepository,
		points:         points,
		validator:      validator,
		ids:            utils.NewUUIDGenerator(),
		now:            time.Now,
		logger:         logger,
	}
}

// IsAdmin reports whether userID is on the configured allow-list.
func (a *adminService) IsAdmin(userID int64) bool {
	return userID > 0 && slices.Contains(a.adminIDs, userID)
}

func (a *adminService) ListUsers(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	if filter.Limit == 0 || filter.Limit > maxUserPage {
		filter.Limit = maxUserPage
	}

	users, err := a.userRepository.ListUsers(ctx, filter)
	if err != nil {
		logger.FromContext(ctx).Err(err).Msg("listing users failed")
		return nil, fmt.Errorf("listing users failed: %w", err)
	}

	return users, nil
}

// AdjustPoints credits a positive amount or debits a negative one. A debit
// never takes the balance below zero; it fails with ErrInsufficientPoints
// instead.
func (a *adminService) AdjustPoints(ctx context.Context, userID int64, request models.AdjustPointsRequest) (int64, error) {
	if err := a.validator.Validate(ctx, request); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	reference := "admin:" + a.ids.Generate()
	reason := models.ReasonAdjustment

	var (
		balance int64
		err     error
	)
	if request.Amount < 0 {
		balance, err = a.points.Debit(ctx, models.Debit{UserID: userID, Amount: -request.Amount, Reason: reason, Reference: reference})
	} else {
		var result models.CreditResult
		result, err = a.points.Grant(ctx, models.Credit{UserID: userID, Amount: request.Amount, Reason: reason, Reference: reference})
		balance = result.Balance
	}
	if err != nil {
		return balance, err
	}

	logger.FromContext(ctx).Info().
		Int64("user_id", userID).
		Int64("amount", request.Amount).
		Str("note", request.Reason).
		Str("reference", reference).
		Msg("points adjusted by admin")
	return balance, nil
}

func (a *adminService) SetSubscription(ctx context.Context, userID int64, subscription models.Subscription) (models.User, error) {
	if subscription.Type == models.SubscriptionFree {
		subscription.Start, subscription.End = nil, nil
	}
	if err := a.validator.Validate(ctx, subscription); err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	user, err := a.userRepository.SetSubscription(ctx, userID, subscription)
	if errors.Is(err, store.ErrNoUserWasFound) {
		return models.User{}, fmt.Errorf("%w: %w", ErrUserNotFound, err)
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Int64("user_id", userID).Msg("setting subscription failed")
		return models.User{}, fmt.Errorf("setting subscription failed: %w", err)
	}

	return user, nil
}

func (a *adminService) ExpireSubscriptions(ctx context.Context) (int64, error) {
	expired, err := a.userRepository.ExpireSubscriptions(ctx, a.now())
	if err != nil {
		logger.FromContext(ctx).Err(err).Msg("expiring subscriptions failed")
		return 0, fmt.Errorf("expiring subscriptions failed: %w", err)
	}

	if expired > 0 {
		logger.FromContext(ctx).Info().Int64("expired", expired).Msg("subscriptions moved to the free plan")
	}
	return expired, nil
}
