package repositories

import (
	"context"

	"ictclub-portal/internal/adapters/persistence/models"
	"ictclub-portal/internal/pkg/query"

	"gorm.io/gorm"
)

// ActivityQuerySpec whitelists the queryable fields for activity listings
var ActivityQuerySpec = query.Spec{
	OrderFields: map[string]string{
		"created_at": "created_at",
	},
	Filters: map[string]string{
		"activity_type": "activity_type",
	},
	DefaultOrder: "created_at DESC",
}

// activityLogRepository implements ActivityLogRepository interface
type activityLogRepository struct {
	db *gorm.DB
}

// NewActivityLogRepository creates a new activity log repository
func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepository{db: db}
}

// Create appends an activity log entry
func (r *activityLogRepository) Create(ctx context.Context, entry *models.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListByTarget lists the audit trail for one user
func (r *activityLogRepository) ListByTarget(ctx context.Context, targetUserID uint, params *query.Params) ([]*models.ActivityLog, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&models.ActivityLog{}).
		Where("target_user_id = ?", targetUserID)

	q, err := ActivityQuerySpec.Apply(q, params)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []*models.ActivityLog
	err = q.Preload("Actor").
		Offset(params.Offset()).
		Limit(params.PageSize).
		Find(&entries).Error

	return entries, total, err
}
