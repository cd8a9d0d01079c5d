package repository

import (
	"context"

	"gorm.io/gorm"

	"biblio/internal/model"
)

// CirculationLogRepository defines circulation log persistence operations.
type CirculationLogRepository interface {
	Create(ctx context.Context, log *model.CirculationLog) error
	CreateBatch(ctx context.Context, logs []model.CirculationLog) error
	ListByBorrow(ctx context.Context, borrowID uint) ([]model.CirculationLog, error)
}

type circulationLogRepository struct {
	db *gorm.DB
}

// NewCirculationLogRepository creates a new circulation log repository.
func NewCirculationLogRepository(db *gorm.DB) CirculationLogRepository {
	return &circulationLogRepository{db: db}
}

// Create creates a new circulation log entry.
func (r *circulationLogRepository) Create(ctx context.Context, log *model.CirculationLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// CreateBatch creates multiple circulation log entries in one insert.
func (r *circulationLogRepository) CreateBatch(ctx context.Context, logs []model.CirculationLog) error {
	if len(logs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(logs, 100).Error
}

// ListByBorrow lists the audit trail of a single borrow.
func (r *circulationLogRepository) ListByBorrow(ctx context.Context, borrowID uint) ([]model.CirculationLog, error) {
	var logs []model.CirculationLog
	if err := r.db.WithContext(ctx).Where("borrow_id = ?", borrowID).Order("id").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
