package repositories

import (
	"context"
	"fmt"
	"time"

	"sahaayak-api/internal/adapters/persistence/models"
	"sahaayak-api/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ApplicationFilter narrows officer queue queries. SortBy must be a
// whitelisted column name; the service layer validates it before it reaches
// the ORDER BY clause.
type ApplicationFilter struct {
	Status            string
	ApplicationType   string
	District          string
	AssignedOfficerID *uint
	Search            string
	SortBy            string
	SortAscending     bool
	Offset            int
	Limit             int
}

// StatusCount is one row of a status aggregate
type StatusCount struct {
	ApplicationType string `json:"application_type"`
	Status          string `json:"status"`
	Count           int64  `json:"count"`
	TotalAmount     int64  `json:"total_amount"`
}

// ApplicationRepository handles application data access
type ApplicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *ApplicationRepository) WithTx(tx *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: tx}
}

// Create creates a new application
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	return r.db.WithContext(ctx).Create(app).Error
}

// GetByTrackingCode gets an application with all relations by tracking code
func (r *ApplicationRepository) GetByTrackingCode(ctx context.Context, code string) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).
		Preload("Applicant").
		Preload("Husband").
		Preload("Wife").
		Preload("AssignedOfficer").
		Preload("ProcessingHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("processing_entries.created_at ASC, processing_entries.id ASC")
		}).
		Preload("ProcessingHistory.ActionBy").
		Preload("Documents").
		Where("tracking_code = ?", code).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// GetByID gets an application by ID with relations
func (r *ApplicationRepository) GetByID(ctx context.Context, id uint) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).
		Preload("Applicant").
		Preload("Husband").
		Preload("Wife").
		Preload("AssignedOfficer").
		Preload("ProcessingHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("processing_entries.created_at ASC, processing_entries.id ASC")
		}).
		Preload("ProcessingHistory.ActionBy").
		Preload("Documents").
		First(&app, id).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// HasInFlight reports whether any of the given identities already has an
// application in a non-terminal status. The check spans both application
// variants: applicant, husband and wife columns all count.
func (r *ApplicationRepository) HasInFlight(ctx context.Context, identityIDs []uint) (bool, error) {
	if len(identityIDs) == 0 {
		return false, nil
	}

	statuses := make([]string, 0, len(domain.InFlightStatuses()))
	for _, s := range domain.InFlightStatuses() {
		statuses = append(statuses, string(s))
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("status IN ?", statuses).
		Where("applicant_id IN ? OR husband_id IN ? OR wife_id IN ?", identityIDs, identityIDs, identityIDs).
		Count(&count).Error
	return count > 0, err
}

// List lists applications matching the filter with pagination
func (r *ApplicationRepository) List(ctx context.Context, filter *ApplicationFilter) ([]*models.Application, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Application{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ApplicationType != "" {
		query = query.Where("application_type = ?", filter.ApplicationType)
	}
	if filter.AssignedOfficerID != nil {
		query = query.Where("assigned_officer_id = ?", *filter.AssignedOfficerID)
	}
	if filter.District != "" {
		query = query.Joins("LEFT JOIN identities ON identities.id = COALESCE(applications.applicant_id, applications.husband_id)").
			Where("identities.district = ?", filter.District)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		// EXISTS keeps the row set duplicate-free when both spouses match
		query = query.Where(
			"applications.tracking_code LIKE ? OR EXISTS ("+
				"SELECT 1 FROM identities i WHERE i.id IN (applications.applicant_id, applications.husband_id, applications.wife_id) "+
				"AND (i.full_name LIKE ? OR i.aadhaar_number LIKE ?))",
			like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column := "created_at"
	if filter.SortBy != "" {
		column = filter.SortBy
	}
	direction := "DESC"
	if filter.SortAscending {
		direction = "ASC"
	}
	order := fmt.Sprintf("applications.%s %s", column, direction)

	var apps []*models.Application
	err := query.
		Preload("Applicant").
		Preload("Husband").
		Preload("Wife").
		Preload("AssignedOfficer").
		Order(order).
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&apps).Error

	return apps, total, err
}

// Update updates an application. Associations are never written here;
// history is append-only through AppendHistory.
func (r *ApplicationRepository) Update(ctx context.Context, app *models.Application) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(app).Error
}

// SetAssignedOfficer writes the assignment column and nothing else. Status
// and history stay untouched whatever copy of the row the caller holds.
func (r *ApplicationRepository) SetAssignedOfficer(ctx context.Context, appID, officerID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ?", appID).
		Update("assigned_officer_id", officerID).Error
}

// MarkDocumentsVerified stamps the named document types of an application as
// verified
func (r *ApplicationRepository) MarkDocumentsVerified(ctx context.Context, appID uint, docTypes []string, at time.Time) error {
	if len(docTypes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.ApplicationDocument{}).
		Where("application_id = ?", appID).
		Where("document_type IN ?", docTypes).
		Updates(map[string]interface{}{"verified": true, "verified_at": at}).Error
}

// AppendHistory appends a processing history entry
func (r *ApplicationRepository) AppendHistory(ctx context.Context, entry *models.ProcessingEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// AddDocument attaches a declared document to an application
func (r *ApplicationRepository) AddDocument(ctx context.Context, doc *models.ApplicationDocument) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

// CountByStatus aggregates application counts and amounts grouped by type
// and status
func (r *ApplicationRepository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Select("application_type, status, COUNT(*) AS count, SUM(amount) AS total_amount").
		Group("application_type").
		Group("status").
		Scan(&rows).Error
	return rows, err
}

// SumDisbursed sums actually disbursed amounts grouped by type
func (r *ApplicationRepository) SumDisbursed(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		ApplicationType string
		Total           int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Select("application_type, SUM(disbursed_amount) AS total").
		Where("status = ?", string(domain.StatusDisbursed)).
		Group("application_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int64, len(rows))
	for _, row := range rows {
		totals[row.ApplicationType] = row.Total
	}
	return totals, nil
}

// CreatedSince returns lightweight rows for trend bucketing. Bucketing runs
// in Go so the same query works on MySQL and the sqlite test driver.
func (r *ApplicationRepository) CreatedSince(ctx context.Context, since time.Time) ([]*models.Application, error) {
	var apps []*models.Application
	err := r.db.WithContext(ctx).
		Select("id", "application_type", "status", "amount", "created_at").
		Where("created_at >= ?", since).
		Find(&apps).Error
	return apps, err
}

// ListStaleInStatus returns applications sitting in the given status longer
// than the cutoff, used by the backlog summary job
func (r *ApplicationRepository) ListStaleInStatus(ctx context.Context, status string, before time.Time) ([]*models.Application, error) {
	var apps []*models.Application
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Where("updated_at < ?", before).
		Order("updated_at ASC").
		Find(&apps).Error
	return apps, err
}
