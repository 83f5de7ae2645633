// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-pixel-studio/internal/logger"
	"github.com/MKhiriev/go-pixel-studio/models"
	"github.com/jackc/pgerrcode"
)

// pointsLedger is the PostgreSQL implementation of [PointsLedger].
//
// Every balance change is a single conditional UPDATE plus a
// points_transactions row written in the same transaction. The database
// serialises concurrent updates of one user row, and the CHECK (points >= 0)
// constraint backs the conditional debit.
type pointsLedger struct {
	logger *logger.Logger
	db     *DB
}

func NewPointsLedger(db *DB, logger *logger.Logger) PointsLedger {
	logger.Debug().Msg("creating points ledger")
	return &pointsLedger{
		db:     db,
		logger: logger,
	}
}

// TryDebit implements [PointsLedger].
func (l *pointsLedger) TryDebit(ctx context.Context, debit models.Debit) (int64, error) {
	log := logger.FromContext(ctx)

	if debit.Amount <= 0 {
		return 0, ErrInvalidAmount
	}

	var balance int64
	err := l.db.inTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, debitPoints, debit.Amount, debit.UserID).Scan(&balance)
		if errors.Is(err, sql.ErrNoRows) {
			// either the user is missing or the balance is too low
			if err := tx.QueryRowContext(ctx, selectBalance, debit.UserID).Scan(&balance); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return ErrNoUserWasFound
				}
				return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
			}
			return ErrInsufficientPoints
		}
		if err != nil {
			if postgresError(err) == pgerrcode.CheckViolation {
				return ErrInsufficientPoints
			}
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		_, err = tx.ExecContext(ctx, insertPointsTransaction, debit.UserID, -debit.Amount, balance, debit.Reason, debit.Reference)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		return nil
	})

	switch {
	case errors.Is(err, ErrInsufficientPoints):
		log.Info().Int64("user_id", debit.UserID).Int64("amount", debit.Amount).Int64("balance", balance).
			Msg("debit rejected: insufficient points")
		return balance, ErrInsufficientPoints
	case err != nil:
		log.Err(err).Str("func", "*pointsLedger.TryDebit").Msg("debit failed")
		return 0, err
	}

	log.Debug().Int64("user_id", debit.UserID).Int64("amount", debit.Amount).Int64("balance", balance).
		Str("reason", debit.Reason).Msg("points debited")
	return balance, nil
}

// Credit implements [PointsLedger]. With a non-empty Reference the credit is
// claimed in processed_payments first; a replayed reference changes nothing.
func (l *pointsLedger) Credit(ctx context.Context, credit models.Credit) (models.CreditResult, error) {
	log := logger.FromContext(ctx)

	if credit.Amount <= 0 {
		return models.CreditResult{}, ErrInvalidAmount
	}

	var result models.CreditResult
	err := l.db.inTx(ctx, func(tx *sql.Tx) error {
		result = models.CreditResult{}

		if credit.Reference != "" {
			res, err := tx.ExecContext(ctx, claimPayment, credit.Reference, credit.UserID, credit.Amount)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
			claimed, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
			if claimed == 0 {
				if err := tx.QueryRowContext(ctx, selectBalance, credit.UserID).Scan(&result.Balance); err != nil {
					if errors.Is(err, sql.ErrNoRows) {
						return ErrNoUserWasFound
					}
					return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
				}
				return nil
			}
		}

		err := tx.QueryRowContext(ctx, creditPoints, credit.Amount, credit.UserID).Scan(&result.Balance)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNoUserWasFound
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		_, err = tx.ExecContext(ctx, insertPointsTransaction, credit.UserID, credit.Amount, result.Balance, credit.Reason, credit.Reference)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		result.Applied = true
		return nil
	})
	if err != nil {
		log.Err(err).Str("func", "*pointsLedger.Credit").Msg("credit failed")
		return models.CreditResult{}, err
	}

	if !result.Applied {
		log.Info().Str("reference", credit.Reference).Msg("credit already applied, skipping")
	}
	return result, nil
}

// Balance returns the current points of userID.
func (l *pointsLedger) Balance(ctx context.Context, userID int64) (int64, error) {
	var balance int64
	err := l.db.QueryRowContext(ctx, selectBalance, userID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNoUserWasFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*pointsLedger.Balance").Msg("error reading balance")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return balance, nil
}

// Transactions returns the newest ledger entries of userID first.
func (l *pointsLedger) Transactions(ctx context.Context, userID int64, limit uint64) ([]models.PointsTransaction, error) {
	query, args, err := buildListTransactionsQuery(userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*pointsLedger.Transactions").Msg("error querying transactions")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var transactions []models.PointsTransaction
	for rows.Next() {
		var t models.PointsTransaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Delta, &t.BalanceAfter, &t.Reason, &t.Reference, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return transactions, nil
}
