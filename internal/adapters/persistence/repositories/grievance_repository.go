package repositories

import (
	"context"

	"sahaayak-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GrievanceFilter narrows grievance queue queries
type GrievanceFilter struct {
	Status       string
	Type         string
	AssignedToID *uint
	Offset       int
	Limit        int
}

// GrievanceRepository handles grievance data access
type GrievanceRepository struct {
	db *gorm.DB
}

// NewGrievanceRepository creates a new grievance repository
func NewGrievanceRepository(db *gorm.DB) *GrievanceRepository {
	return &GrievanceRepository{db: db}
}

// Create creates a new grievance
func (r *GrievanceRepository) Create(ctx context.Context, grievance *models.Grievance) error {
	return r.db.WithContext(ctx).Create(grievance).Error
}

// GetByGrievanceID gets a grievance by its public ID
func (r *GrievanceRepository) GetByGrievanceID(ctx context.Context, grievanceID string) (*models.Grievance, error) {
	var grievance models.Grievance
	err := r.db.WithContext(ctx).
		Preload("AssignedTo").
		Preload("ResolvedBy").
		Where("grievance_id = ?", grievanceID).
		First(&grievance).Error
	if err != nil {
		return nil, err
	}
	return &grievance, nil
}

// ListByTrackingCode lists grievances filed against one application
func (r *GrievanceRepository) ListByTrackingCode(ctx context.Context, trackingCode string) ([]*models.Grievance, error) {
	var grievances []*models.Grievance
	err := r.db.WithContext(ctx).
		Where("tracking_code = ?", trackingCode).
		Order("created_at DESC").
		Find(&grievances).Error
	return grievances, err
}

// List lists grievances matching the filter with pagination
func (r *GrievanceRepository) List(ctx context.Context, filter *GrievanceFilter) ([]*models.Grievance, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Grievance{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.AssignedToID != nil {
		query = query.Where("assigned_to_id = ?", *filter.AssignedToID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var grievances []*models.Grievance
	err := query.
		Preload("AssignedTo").
		Preload("ResolvedBy").
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&grievances).Error

	return grievances, total, err
}

// Update updates a grievance
func (r *GrievanceRepository) Update(ctx context.Context, grievance *models.Grievance) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(grievance).Error
}

// CountByStatus counts grievances grouped by status
func (r *GrievanceRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Grievance{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
