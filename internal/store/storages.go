package store

import "github.com/MKhiriev/go-pixel-studio/internal/logger"

// Storages groups every repository built on top of one connection pool.
type Storages struct {
	UserRepository      UserRepository
	PointsLedger        PointsLedger
	ToolUsageRepository ToolUsageRepository
}

func NewStorages(db *DB, log *logger.Logger) *Storages {
	return &Storages{
		UserRepository:      NewUserRepository(db, log),
		PointsLedger:        NewPointsLedger(db, log),
		ToolUsageRepository: NewToolUsageRepository(db, log),
	}
}
