package store

import (
	"github.com/MKhiriev/go-pixel-studio/models"
	sq "github.com/Masterminds/squirrel"
)

const userColumns = `user_id, email, name, password_hash, google_id, points,
	subscription_type, subscription_start, subscription_end, created_at`

const (
	createUser = `INSERT INTO users (email, name, password_hash, google_id, points)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING ` + userColumns + `;`

	findUserByID = `SELECT ` + userColumns + `
	FROM users
	WHERE user_id = $1;`

	findUserByEmail = `SELECT ` + userColumns + `
	FROM users
	WHERE lower(email) = lower($1);`

	findUserByGoogleID = `SELECT ` + userColumns + `
	FROM users
	WHERE google_id = $1;`

	linkGoogleAccount = `UPDATE users
	SET google_id = $2
	WHERE user_id = $1
	RETURNING ` + userColumns + `;`

	setSubscription = `UPDATE users
	SET subscription_type = $2, subscription_start = $3, subscription_end = $4
	WHERE user_id = $1
	RETURNING ` + userColumns + `;`

	expireSubscriptions = `UPDATE users
	SET subscription_type = 'free', subscription_start = NULL, subscription_end = NULL
	WHERE subscription_type <> 'free' AND subscription_end IS NOT NULL AND subscription_end < $1;`
)

const (
	// conditional debit: matches no row when the balance is too low
	debitPoints = `UPDATE users
	SET points = points - $1
	WHERE user_id = $2 AND points >= $1
	RETURNING points;`

	creditPoints = `UPDATE users
	SET points = points + $1
	WHERE user_id = $2
	RETURNING points;`

	selectBalance = `SELECT points FROM users WHERE user_id = $1;`

	insertPointsTransaction = `INSERT INTO points_transactions (user_id, delta, balance_after, reason, reference)
	VALUES ($1, $2, $3, $4, $5);`

	claimPayment = `INSERT INTO processed_payments (session_id, user_id, points)
	VALUES ($1, $2, $3)
	ON CONFLICT (session_id) DO NOTHING;`
)

const (
	insertToolUsage = `INSERT INTO tool_usages (user_id, tool_type, input_ref, output_ref, points_cost)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, created_at;`
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func buildListUsersQuery(filter models.UserFilter) (string, []any, error) {
	query := psql.
		Select("user_id", "email", "name", "password_hash", "google_id", "points",
			"subscription_type", "subscription_start", "subscription_end", "created_at").
		From("users").
		OrderBy("user_id")

	if filter.Email != "" {
		query = query.Where(sq.ILike{"email": "%" + filter.Email + "%"})
	}
	if filter.SubscriptionType != "" {
		query = query.Where(sq.Eq{"subscription_type": filter.SubscriptionType})
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	return query.Offset(filter.Offset).ToSql()
}

func buildListToolUsagesQuery(filter models.HistoryFilter) (string, []any, error) {
	query := psql.
		Select("id", "user_id", "tool_type", "input_ref", "output_ref", "points_cost", "created_at").
		From("tool_usages").
		Where(sq.Eq{"user_id": filter.UserID}).
		OrderBy("created_at DESC", "id DESC")

	if filter.ToolType != "" {
		query = query.Where(sq.Eq{"tool_type": filter.ToolType})
	}
	if filter.Since != nil {
		query = query.Where(sq.GtOrEq{"created_at": *filter.Since})
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	return query.Offset(filter.Offset).ToSql()
}

func buildListTransactionsQuery(userID int64, limit uint64) (string, []any, error) {
	query := psql.
		Select("id", "user_id", "delta", "balance_after", "reason", "reference", "created_at").
		From("points_transactions").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("id DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	return query.ToSql()
}
