package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-pixel-studio/internal/logger"
	"github.com/MKhiriev/go-pixel-studio/models"
)

type toolUsageRepository struct {
	logger *logger.Logger
	db     *DB
}

func NewToolUsageRepository(db *DB, logger *logger.Logger) ToolUsageRepository {
	logger.Debug().Msg("creating tool usage repository")
	return &toolUsageRepository{
		db:     db,
		logger: logger,
	}
}

func (r *toolUsageRepository) SaveToolUsage(ctx context.Context, usage models.ToolUsage) (models.ToolUsage, error) {
	err := r.db.QueryRowContext(ctx, insertToolUsage,
		usage.UserID, usage.ToolType, usage.InputRef, usage.OutputRef, usage.PointsCost,
	).Scan(&usage.ID, &usage.CreatedAt)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*toolUsageRepository.SaveToolUsage").Msg("error saving tool usage")
		return models.ToolUsage{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return usage, nil
}

func (r *toolUsageRepository) ListToolUsages(ctx context.Context, filter models.HistoryFilter) ([]models.ToolUsage, error) {
	query, args, err := buildListToolUsagesQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*toolUsageRepository.ListToolUsages").Msg("error querying tool usages")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	usages := make([]models.ToolUsage, 0, filter.Limit)
	for rows.Next() {
		var u models.ToolUsage
		if err := rows.Scan(&u.ID, &u.UserID, &u.ToolType, &u.InputRef, &u.OutputRef, &u.PointsCost, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		usages = append(usages, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return usages, nil
}
