// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-pixel-studio/internal/logger"
	"github.com/MKhiriev/go-pixel-studio/internal/metrics"
	"github.com/MKhiriev/go-pixel-studio/internal/store"
	"github.com/MKhiriev/go-pixel-studio/internal/validators"
	"github.com/MKhiriev/go-pixel-studio/models"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

type pointsService struct {
	ledger     store.PointsLedger
	toolUsages store.ToolUsageRepository
	validator  validators.Validator
	metrics    *metrics.Metrics

	logger *logger.Logger
}

func NewPointsService(
	ledger store.PointsLedger,
	toolUsages store.ToolUsageRepository,
	validator validators.Validator,
	metrics *metrics.Metrics,
	logger *logger.Logger,
) PointsService {
	return &pointsService{
		ledger:     ledger,
		toolUsages: toolUsages,
		validator:  validator,
		metrics:    metrics,
		logger:     logger,
	}
}

func (p *pointsService) RequirePoints(user models.User, cost int64) error {
	if cost > 0 && user.Points < cost {
		return ErrInsufficientPoints
	}
	return nil
}

// Consume debits request.Points for a client-side feature. On insufficient
// balance the unchanged balance is returned together with
// ErrInsufficientPoints.
func (p *pointsService) Consume(ctx context.Context, userID int64, request models.ConsumeRequest) (int64, error) {
	if err := p.validator.Validate(ctx, request); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	return p.Debit(ctx, models.Debit{
		UserID:    userID,
		Amount:    request.Points,
		Reason:    models.ReasonConsume,
		Reference: request.Type,
	})
}

// Debit is the single commit point of every metered path.
func (p *pointsService) Debit(ctx context.Context, debit models.Debit) (int64, error) {
	log := logger.FromContext(ctx)

	balance, err := p.ledger.TryDebit(ctx, debit)
	switch {
	case errors.Is(err, store.ErrInsufficientPoints):
		p.metrics.LedgerOperation(metrics.OpDebit, metrics.OutcomeInsufficient, debit.Reason, debit.Amount)
		return balance, fmt.Errorf("%w: %w", ErrInsufficientPoints, err)
	case errors.Is(err, store.ErrInvalidAmount):
		return 0, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	case errors.Is(err, store.ErrNoUserWasFound):
		return 0, fmt.Errorf("%w: %w", ErrUserNotFound, err)
	case err != nil:
		p.metrics.LedgerOperation(metrics.OpDebit, metrics.OutcomeFailed, debit.Reason, debit.Amount)
		log.Err(err).Int64("user_id", debit.UserID).Msg("debit failed")
		return 0, fmt.Errorf("debit failed: %w", err)
	}

	p.metrics.LedgerOperation(metrics.OpDebit, metrics.OutcomeApplied, debit.Reason, debit.Amount)
	return balance, nil
}

// Credit adds purchased points. reference is the payment-session id and makes
// replays no-ops.
func (p *pointsService) Credit(ctx context.Context, userID, amount int64, reference string) (models.CreditResult, error) {
	return p.Grant(ctx, models.Credit{
		UserID:    userID,
		Amount:    amount,
		Reason:    models.ReasonPurchase,
		Reference: reference,
	})
}

func (p *pointsService) Grant(ctx context.Context, credit models.Credit) (models.CreditResult, error) {
	log := logger.FromContext(ctx)

	result, err := p.ledger.Credit(ctx, credit)
	switch {
	case errors.Is(err, store.ErrInvalidAmount):
		return models.CreditResult{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	case errors.Is(err, store.ErrNoUserWasFound):
		return models.CreditResult{}, fmt.Errorf("%w: %w", ErrUserNotFound, err)
	case err != nil:
		p.metrics.LedgerOperation(metrics.OpCredit, metrics.OutcomeFailed, credit.Reason, credit.Amount)
		log.Err(err).Int64("user_id", credit.UserID).Str("session_id", credit.Reference).Msg("credit failed")
		return models.CreditResult{}, fmt.Errorf("credit failed: %w", err)
	}

	if !result.Applied {
		p.metrics.LedgerOperation(metrics.OpCredit, metrics.OutcomeDuplicate, credit.Reason, credit.Amount)
		log.Info().Int64("user_id", credit.UserID).Str("session_id", credit.Reference).Msg("credit already applied")
		return result, nil
	}

	p.metrics.LedgerOperation(metrics.OpCredit, metrics.OutcomeApplied, credit.Reason, credit.Amount)
	return result, nil
}

func (p *pointsService) History(ctx context.Context, filter models.HistoryFilter) ([]models.ToolUsage, error) {
	filter.Limit = clampLimit(filter.Limit)

	usages, err := p.toolUsages.ListToolUsages(ctx, filter)
	if err != nil {
		logger.FromContext(ctx).Err(err).Int64("user_id", filter.UserID).Msg("listing tool usages failed")
		return nil, fmt.Errorf("listing tool usages failed: %w", err)
	}

	return usages, nil
}

func (p *pointsService) Transactions(ctx context.Context, userID int64, limit uint64) ([]models.PointsTransaction, error) {
	transactions, err := p.ledger.Transactions(ctx, userID, clampLimit(limit))
	if err != nil {
		logger.FromContext(ctx).Err(err).Int64("user_id", userID).Msg("listing points transactions failed")
		return nil, fmt.Errorf("listing points transactions failed: %w", err)
	}

	return transactions, nil
}

func clampLimit(limit uint64) uint64 {
	switch {
	case limit == 0:
		return defaultHistoryLimit
	case limit > maxHistoryLimit:
		return maxHistoryLimit
	default:
		return limit
	}
}
