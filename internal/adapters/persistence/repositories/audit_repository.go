package repositories

import (
	"context"
	"time"

	"sahaayak-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// AuditRepository handles audit log data access
type AuditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create appends an audit log entry
func (r *AuditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListByEntity lists audit entries for one entity, newest first
func (r *AuditRepository) ListByEntity(ctx context.Context, module, entityID string, offset, limit int) ([]*models.AuditLog, int64, error) {
	var entries []*models.AuditLog
	var total int64

	query := r.db.WithContext(ctx).
		Model(&models.AuditLog{}).
		Where("module = ?", module).
		Where("entity_id = ?", entityID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error

	return entries, total, err
}

// List lists recent audit entries with optional module filter
func (r *AuditRepository) List(ctx context.Context, module string, offset, limit int) ([]*models.AuditLog, int64, error) {
	var entries []*models.AuditLog
	var total int64

	query := r.db.WithContext(ctx).Model(&models.AuditLog{})
	if module != "" {
		query = query.Where("module = ?", module)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error

	return entries, total, err
}

// DeleteOlderThan removes entries past the retention window (cleanup job)
func (r *AuditRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.AuditLog{})
	return result.RowsAffected, result.Error
}
