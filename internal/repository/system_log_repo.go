package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/lentera-labs/campus-api/internal/models"
)

// SystemLogFilter narrows audit-log queries. Zero values mean "no filter".
type SystemLogFilter struct {
	OperationType string
	UserRole      string
	Since         *time.Time
	Until         *time.Time
	Limit         int
}

// SystemLogRepository appends and queries audit records. There is no update
// or delete: the log is append-only.
type SystemLogRepository interface {
	Create(ctx context.Context, entry *models.SystemLog) error
	List(ctx context.Context, filter SystemLogFilter) ([]models.SystemLog, error)
}

type systemLogRepository struct {
	db *gorm.DB
}

// NewSystemLogRepository instantiates a GORM-backed repository.
func NewSystemLogRepository(db *gorm.DB) SystemLogRepository {
	return &systemLogRepository{db: db}
}

func (r *systemLogRepository) Create(ctx context.Context, entry *models.SystemLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *systemLogRepository) List(ctx context.Context, filter SystemLogFilter) ([]models.SystemLog, error) {
	query := r.db.WithContext(ctx).Model(&models.SystemLog{})

	if filter.OperationType != "" {
		query = query.Where("operation_type = ?", filter.OperationType)
	}
	if filter.UserRole != "" {
		query = query.Where("user_role = ?", filter.UserRole)
	}
	if filter.Since != nil {
		query = query.Where("created_at >= ?", *filter.Since)
	}
	if filter.Until != nil {
		query = query.Where("created_at <= ?", *filter.Until)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}

	var entries []models.SystemLog
	if err := query.Order("created_at DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
