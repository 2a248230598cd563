package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sahaayak-api/internal/adapters/persistence/models"
	"sahaayak-api/internal/adapters/persistence/repositories"
	"sahaayak-api/internal/core/domain"
	"sahaayak-api/internal/pkg/trackingcode"
	"sahaayak-api/internal/pkg/validation"

	"gorm.io/gorm"
)

// GrievanceService handles grievance filing and resolution
type GrievanceService struct {
	grievanceRepo *repositories.GrievanceRepository
	appRepo       *repositories.ApplicationRepository
	auditService  *AuditService
	generateCode  func(prefix string) string
}

// NewGrievanceService creates a new grievance service
func NewGrievanceService(
	grievanceRepo *repositories.GrievanceRepository,
	appRepo *repositories.ApplicationRepository,
	auditService *AuditService,
) *GrievanceService {
	return &GrievanceService{
		grievanceRepo: grievanceRepo,
		appRepo:       appRepo,
		auditService:  auditService,
		generateCode:  trackingcode.Generate,
	}
}

// SetCodeGenerator overrides grievance ID generation (tests)
func (s *GrievanceService) SetCodeGenerator(fn func(prefix string) string) {
	s.generateCode = fn
}

// FileGrievanceInput represents a citizen grievance submission
type FileGrievanceInput struct {
	TrackingCode string `json:"trackingCode" validate:"required"`
	Type         string `json:"type" validate:"required"`
	Description  string `json:"description" validate:"required,min=10,max=2000"`
	Priority     string `json:"priority" validate:"omitempty,oneof=low medium high"`
}

// File files a grievance against an existing application
func (s *GrievanceService) File(ctx context.Context, input *FileGrievanceInput, meta *RequestMeta) (*models.Grievance, error) {
	fields := map[string]string{}
	if err := validation.ValidateStruct(input); err != nil {
		fields = validation.FormatValidationError(err)
	}
	if input.Type != "" {
		valid := false
		for _, t := range models.GrievanceTypes {
			if t == input.Type {
				valid = true
				break
			}
		}
		if !valid {
			fields["type"] = fmt.Sprintf("must be one of: %s", strings.Join(models.GrievanceTypes, ", "))
		}
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields)
	}

	app, err := s.appRepo.GetByTrackingCode(ctx, input.TrackingCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("application", input.TrackingCode)
		}
		return nil, err
	}

	priority := input.Priority
	if priority == "" {
		priority = "medium"
	}

	grievance := &models.Grievance{
		GrievanceID:     s.generateCode(domain.TrackingPrefixGrievance),
		TrackingCode:    app.TrackingCode,
		ApplicationType: app.ApplicationType,
		Type:            input.Type,
		Priority:        priority,
		Description:     input.Description,
		Status:          models.GrievanceStatusOpen,
	}

	if err := s.grievanceRepo.Create(ctx, grievance); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			grievance.ID = 0
			grievance.GrievanceID = s.generateCode(domain.TrackingPrefixGrievance)
			if err := s.grievanceRepo.Create(ctx, grievance); err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}

	entry := &AuditEntry{
		Action:      models.AuditActionCreate,
		Module:      models.AuditModuleGrievance,
		EntityID:    grievance.GrievanceID,
		Description: fmt.Sprintf("grievance filed against %s", app.TrackingCode),
	}
	if meta != nil {
		entry.IPAddress = meta.IPAddress
		entry.UserAgent = meta.UserAgent
	}
	s.auditService.Record(entry)

	return grievance, nil
}

// GetByGrievanceID returns a grievance for public tracking
func (s *GrievanceService) GetByGrievanceID(ctx context.Context, grievanceID string) (*models.Grievance, error) {
	grievance, err := s.grievanceRepo.GetByGrievanceID(ctx, grievanceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("grievance", grievanceID)
		}
		return nil, err
	}
	return grievance, nil
}

// GrievanceListInput represents officer grievance queue parameters
type GrievanceListInput struct {
	Status string
	Type   string
	Page   int
	Limit  int
}

// List lists grievances for the officer queue
func (s *GrievanceService) List(ctx context.Context, input *GrievanceListInput) ([]*models.Grievance, int64, error) {
	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit < 1 {
		input.Limit = 10
	}
	if input.Limit > 100 {
		input.Limit = 100
	}

	filter := &repositories.GrievanceFilter{
		Status: input.Status,
		Type:   input.Type,
		Offset: (input.Page - 1) * input.Limit,
		Limit:  input.Limit,
	}
	return s.grievanceRepo.List(ctx, filter)
}

// UpdateGrievanceInput represents an officer's grievance update
type UpdateGrievanceInput struct {
	Status         string `json:"status" validate:"required,oneof=open in_progress resolved closed"`
	ResolutionNote string `json:"resolutionNote" validate:"omitempty,max=2000"`
}

// UpdateStatus moves a grievance through its lifecycle. Resolution requires
// a note; closing is allowed from any state.
func (s *GrievanceService) UpdateStatus(ctx context.Context, grievanceID string, input *UpdateGrievanceInput, officerID uint, meta *RequestMeta) (*models.Grievance, error) {
	if err := validation.ValidateStruct(input); err != nil {
		return nil, domain.NewValidationError(validation.FormatValidationError(err))
	}
	if input.Status == models.GrievanceStatusResolved && strings.TrimSpace(input.ResolutionNote) == "" {
		return nil, domain.FieldError("resolutionNote", "resolutionNote is required when resolving a grievance")
	}

	grievance, err := s.GetByGrievanceID(ctx, grievanceID)
	if err != nil {
		return nil, err
	}

	if grievance.Status == models.GrievanceStatusClosed {
		return nil, domain.NewConflictError("grievance is already closed")
	}

	grievance.Status = input.Status
	if grievance.AssignedToID == nil && officerID != 0 {
		grievance.AssignedToID = &officerID
	}
	if input.Status == models.GrievanceStatusResolved {
		note := input.ResolutionNote
		now := time.Now()
		grievance.ResolutionNote = &note
		grievance.ResolvedByID = &officerID
		grievance.ResolvedAt = &now
	}

	if err := s.grievanceRepo.Update(ctx, grievance); err != nil {
		return nil, err
	}

	entry := &AuditEntry{
		Action:      models.AuditActionUpdate,
		Module:      models.AuditModuleGrievance,
		EntityID:    grievance.GrievanceID,
		Description: fmt.Sprintf("grievance status changed to %s", input.Status),
		PerformedBy: &officerID,
	}
	if meta != nil {
		entry.IPAddress = meta.IPAddress
		entry.UserAgent = meta.UserAgent
	}
	s.auditService.Record(entry)

	return grievance, nil
}
