package repository

import (
	"context"
	"errors"

	"github.com/garnizeh/workshop/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

var (
	// ErrNotFound is returned when no row matches the lookup key.
	ErrNotFound = errors.New("not found")
	// ErrNoFieldsProvided is returned by UpdateRepair for an empty partial.
	ErrNoFieldsProvided = errors.New("no fields to update")
	// ErrDuplicateJobID is returned when a job identifier is already taken.
	ErrDuplicateJobID = errors.New("duplicate job id")
)

type UserRepo interface {
	// GetByUsername returns nil, nil when the user does not exist.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	SetPassword(ctx context.Context, username, passwordHash string) error
}

type RepairRepo interface {
	ListRepairs(ctx context.Context, f models.RepairFilter) ([]models.RepairJob, error)
	GetRepairByJobID(ctx context.Context, jobID string) (*models.RepairJob, error)
	FindRepairs(ctx context.Context, jobID, phone string) ([]models.RepairJob, error)
	CreateRepair(ctx context.Context, j *models.RepairJob, changedBy string) (int64, error)
	UpdateRepair(ctx context.Context, jobID string, u models.RepairUpdate, changedBy string) error
}

type HistoryRepo interface {
	ListHistory(ctx context.Context, jobID string) ([]models.StatusHistoryEntry, error)
}

type StatsRepo interface {
	DashboardStats(ctx context.Context) (*models.DashboardStats, error)
}
