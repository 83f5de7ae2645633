package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-pixel-studio/internal/logger"
	"github.com/MKhiriev/go-pixel-studio/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
// It handles account creation, lookup and subscription updates against the
// "users" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var (
		user          models.User
		passwordHash  sql.NullString
		googleID      sql.NullString
		subscribedAt  sql.NullTime
		subscribedTil sql.NullTime
	)

	err := row.Scan(&user.UserID, &user.Email, &user.Name, &passwordHash, &googleID, &user.Points,
		&user.Subscription.Type, &subscribedAt, &subscribedTil, &user.CreatedAt)
	if err != nil {
		return models.User{}, err
	}

	if passwordHash.Valid {
		user.PasswordHash = &passwordHash.String
	}
	if googleID.Valid {
		user.GoogleID = &googleID.String
	}
	if subscribedAt.Valid {
		user.Subscription.Start = &subscribedAt.Time
	}
	if subscribedTil.Valid {
		user.Subscription.End = &subscribedTil.Time
	}

	return user, nil
}

// CreateUser persists a new account with the signup bonus as its opening
// balance. The bonus is written to the ledger in the same transaction.
//
// Error handling:
//   - unique_violation on email     → [ErrEmailAlreadyExists].
//   - unique_violation on google_id → [ErrGoogleAccountLinked].
func (r *userRepository) CreateUser(ctx context.Context, user models.User, signupBonus int64) (models.User, error) {
	log := logger.FromContext(ctx)

	var created models.User
	err := r.db.inTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, createUser, user.Email, user.Name, user.PasswordHash, user.GoogleID, signupBonus)
		if err := row.Err(); err != nil {
			return err
		}

		var err error
		created, err = scanUser(row)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrScanningRow, err)
		}

		if signupBonus == 0 {
			return nil
		}
		_, err = tx.ExecContext(ctx, insertPointsTransaction, created.UserID, signupBonus, signupBonus, models.ReasonSignup, "")
		return err
	})
	if err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error creating user")
		return models.User{}, mapUserWriteError(err)
	}

	return created, nil
}

// FindUserByID returns [ErrNoUserWasFound] for unknown ids.
func (r *userRepository) FindUserByID(ctx context.Context, userID int64) (models.User, error) {
	return r.findOne(ctx, "*userRepository.FindUserByID", findUserByID, userID)
}

// FindUserByEmail matches emails case-insensitively.
func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findOne(ctx, "*userRepository.FindUserByEmail", findUserByEmail, email)
}

func (r *userRepository) FindUserByGoogleID(ctx context.Context, googleID string) (models.User, error) {
	return r.findOne(ctx, "*userRepository.FindUserByGoogleID", findUserByGoogleID, googleID)
}

func (r *userRepository) LinkGoogleAccount(ctx context.Context, userID int64, googleID string) (models.User, error) {
	user, err := r.findOne(ctx, "*userRepository.LinkGoogleAccount", linkGoogleAccount, userID, googleID)
	if err != nil {
		return models.User{}, mapUserWriteError(err)
	}
	return user, nil
}

func (r *userRepository) SetSubscription(ctx context.Context, userID int64, subscription models.Subscription) (models.User, error) {
	return r.findOne(ctx, "*userRepository.SetSubscription", setSubscription,
		userID, subscription.Type, subscription.Start, subscription.End)
}

func (r *userRepository) ExpireSubscriptions(ctx context.Context, now time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	res, err := r.db.ExecContext(ctx, expireSubscriptions, now)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.ExpireSubscriptions").Msg("error expiring subscriptions")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	expired, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return expired, nil
}

// ListUsers pages through all accounts ordered by id.
func (r *userRepository) ListUsers(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListUsersQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.ListUsers").Msg("error querying users")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	users := make([]models.User, 0, filter.Limit)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return users, nil
}

func (r *userRepository) findOne(ctx context.Context, funcName, query string, args ...any) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, query, args...)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", funcName).Msg("error executing query")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNoUserWasFound
	}
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("error: scanning error")
		return models.User{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return user, nil
}

func mapUserWriteError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return err
	}

	if strings.Contains(pgErr.ConstraintName, "google") {
		return ErrGoogleAccountLinked
	}
	return ErrEmailAlreadyExists
}
