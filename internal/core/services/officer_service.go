package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"sahaayak-api/internal/adapters/persistence/models"
	"sahaayak-api/internal/adapters/persistence/repositories"
	"sahaayak-api/internal/core/domain"
	"sahaayak-api/internal/pkg/password"
	"sahaayak-api/internal/pkg/validation"

	"gorm.io/gorm"
)

// OfficerService handles officer account management
type OfficerService struct {
	officerRepo  *repositories.OfficerRepository
	auditService *AuditService
}

// NewOfficerService creates a new officer service
func NewOfficerService(officerRepo *repositories.OfficerRepository, auditService *AuditService) *OfficerService {
	return &OfficerService{
		officerRepo:  officerRepo,
		auditService: auditService,
	}
}

// CreateOfficerInput represents officer creation input
type CreateOfficerInput struct {
	FullName    string `json:"fullName" validate:"required,min=2,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	Department  string `json:"department" validate:"required,min=2,max=50"`
	Designation string `json:"designation" validate:"omitempty,max=100"`
	District    string `json:"district" validate:"omitempty,max=100"`
	State       string `json:"state" validate:"omitempty,max=100"`
	Role        string `json:"role" validate:"omitempty,oneof=officer supervisor admin"`
}

// generateEmployeeID derives an employee ID from the department plus a
// time-based suffix (e.g. OFFREV4821)
func generateEmployeeID(department string) string {
	dept := strings.ToUpper(strings.ReplaceAll(department, " ", ""))
	if len(dept) > 3 {
		dept = dept[:3]
	}
	return fmt.Sprintf("OFF%s%04d", dept, time.Now().UnixMilli()%10000)
}

// Create creates a new officer account
func (s *OfficerService) Create(ctx context.Context, input *CreateOfficerInput, actingOfficerID uint, meta *RequestMeta) (*models.Officer, error) {
	if err := validation.ValidateStruct(input); err != nil {
		return nil, domain.NewValidationError(validation.FormatValidationError(err))
	}

	if _, err := s.officerRepo.GetByEmail(ctx, input.Email); err == nil {
		return nil, domain.NewConflictError("an officer with this email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = models.RoleOfficer
	}

	officer := &models.Officer{
		EmployeeID:  generateEmployeeID(input.Department),
		FullName:    input.FullName,
		Email:       input.Email,
		Password:    hashed,
		Department:  input.Department,
		Designation: input.Designation,
		District:    input.District,
		State:       input.State,
		Role:        role,
		IsActive:    true,
	}

	if err := s.officerRepo.Create(ctx, officer); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Retry once with a fresh suffix
			officer.EmployeeID = generateEmployeeID(input.Department)
			if err := s.officerRepo.Create(ctx, officer); err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}

	entry := &AuditEntry{
		Action:      models.AuditActionCreate,
		Module:      models.AuditModuleOfficer,
		EntityID:    officer.EmployeeID,
		Description: fmt.Sprintf("officer account created with role %s", officer.Role),
		PerformedBy: &actingOfficerID,
	}
	if meta != nil {
		entry.IPAddress = meta.IPAddress
		entry.UserAgent = meta.UserAgent
	}
	s.auditService.Record(entry)

	log.Printf("✅ Officer created: %s (%s)", officer.EmployeeID, officer.Role)
	return officer, nil
}

// List lists officers with pagination
func (s *OfficerService) List(ctx context.Context, page, limit int) ([]*models.Officer, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return s.officerRepo.List(ctx, (page-1)*limit, limit)
}

// GetByID gets an officer by ID
func (s *OfficerService) GetByID(ctx context.Context, id uint) (*models.Officer, error) {
	officer, err := s.officerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("officer", fmt.Sprintf("%d", id))
		}
		return nil, err
	}
	return officer, nil
}

// UpdateOfficerInput represents officer update input
type UpdateOfficerInput struct {
	FullName    string `json:"fullName" validate:"omitempty,min=2,max=100"`
	Designation string `json:"designation" validate:"omitempty,max=100"`
	District    string `json:"district" validate:"omitempty,max=100"`
	State       string `json:"state" validate:"omitempty,max=100"`
	Role        string `json:"role" validate:"omitempty,oneof=officer supervisor admin"`
	IsActive    *bool  `json:"isActive"`
}

// Update updates an officer account
func (s *OfficerService) Update(ctx context.Context, id uint, input *UpdateOfficerInput, actingOfficerID uint, meta *RequestMeta) (*models.Officer, error) {
	if err := validation.ValidateStruct(input); err != nil {
		return nil, domain.NewValidationError(validation.FormatValidationError(err))
	}

	officer, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FullName != "" {
		officer.FullName = input.FullName
	}
	if input.Designation != "" {
		officer.Designation = input.Designation
	}
	if input.District != "" {
		officer.District = input.District
	}
	if input.State != "" {
		officer.State = input.State
	}
	if input.Role != "" {
		officer.Role = input.Role
	}
	if input.IsActive != nil {
		officer.IsActive = *input.IsActive
	}

	if err := s.officerRepo.Update(ctx, officer); err != nil {
		return nil, err
	}

	entry := &AuditEntry{
		Action:      models.AuditActionUpdate,
		Module:      models.AuditModuleOfficer,
		EntityID:    officer.EmployeeID,
		Description: "officer account updated",
		PerformedBy: &actingOfficerID,
	}
	if meta != nil {
		entry.IPAddress = meta.IPAddress
		entry.UserAgent = meta.UserAgent
	}
	s.auditService.Record(entry)

	return officer, nil
}

// Deactivate disables and soft deletes an officer account
func (s *OfficerService) Deactivate(ctx context.Context, id uint, actingOfficerID uint, meta *RequestMeta) error {
	officer, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if officer.ID == actingOfficerID {
		return domain.FieldError("id", "cannot deactivate your own account")
	}

	if err := s.officerRepo.Deactivate(ctx, id); err != nil {
		return err
	}

	entry := &AuditEntry{
		Action:      models.AuditActionDelete,
		Module:      models.AuditModuleOfficer,
		EntityID:    officer.EmployeeID,
		Description: "officer account deactivated",
		PerformedBy: &actingOfficerID,
	}
	if meta != nil {
		entry.IPAddress = meta.IPAddress
		entry.UserAgent = meta.UserAgent
	}
	s.auditService.Record(entry)

	log.Printf("✅ Officer deactivated: %s", officer.EmployeeID)
	return nil
}

// ChangePasswordInput represents a password change request
type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

// ChangePassword changes an officer's own password
func (s *OfficerService) ChangePassword(ctx context.Context, officerID uint, input *ChangePasswordInput) error {
	if err := validation.ValidateStruct(input); err != nil {
		return domain.NewValidationError(validation.FormatValidationError(err))
	}

	officer, err := s.GetByID(ctx, officerID)
	if err != nil {
		return err
	}

	if !password.Verify(input.CurrentPassword, officer.Password) {
		return ErrInvalidCredentials
	}

	hashed, err := password.Hash(input.NewPassword)
	if err != nil {
		return err
	}
	officer.Password = hashed

	return s.officerRepo.Update(ctx, officer)
}
