package services

import (
	"context"
	"database/sql"
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

// submitTimeout bounds the submission transaction
const submitTimeout = 5 * time.Second

// ApplicationService handles application submission and lifecycle
type ApplicationService struct {
	db           *gorm.DB
	identityRepo *repositories.IdentityRepository
	appRepo      *repositories.ApplicationRepository
	officerRepo  *repositories.OfficerRepository
	auditService *AuditService
	generateCode func(prefix string) string
}

// NewApplicationService creates a new application service
func NewApplicationService(
	db *gorm.DB,
	identityRepo *repositories.IdentityRepository,
	appRepo *repositories.ApplicationRepository,
	officerRepo *repositories.OfficerRepository,
	auditService *AuditService,
) *ApplicationService {
	return &ApplicationService{
		db:           db,
		identityRepo: identityRepo,
		appRepo:      appRepo,
		officerRepo:  officerRepo,
		auditService: auditService,
		generateCode: trackingcode.Generate,
	}
}

// SetCodeGenerator overrides tracking-code generation (tests)
func (s *ApplicationService) SetCodeGenerator(fn func(prefix string) string) {
	s.generateCode = fn
}

// AddressInput is the nested address block of a person
type AddressInput struct {
	Street   string `json:"street" validate:"omitempty,max=200"`
	City     string `json:"city" validate:"omitempty,max=100"`
	District string `json:"district" validate:"required,max=100"`
	State    string `json:"state" validate:"required,max=100"`
	Pincode  string `json:"pincode" validate:"required,pincode"`
}

// PersonInput is the personal details block shared by both variants
type PersonInput struct {
	FullName      string       `json:"fullName" validate:"required,min=2,max=100"`
	AadhaarNumber string       `json:"aadhaarNumber" validate:"required,aadhaar"`
	MobileNumber  string       `json:"mobileNumber" validate:"omitempty,mobile"`
	Email         string       `json:"email" validate:"omitempty,email"`
	Gender        string       `json:"gender" validate:"omitempty,oneof=male female other"`
	CasteCategory string       `json:"casteCategory" validate:"omitempty"`
	Address       AddressInput `json:"address"`
}

// BankDetailsInput is the payout account block
type BankDetailsInput struct {
	AccountHolderName string `json:"accountHolderName" validate:"required,min=2,max=100"`
	AccountNumber     string `json:"accountNumber" validate:"required,bankaccount"`
	IFSCCode          string `json:"ifscCode" validate:"required,ifsc"`
	BankName          string `json:"bankName" validate:"required,max=100"`
	Branch            string `json:"branch" validate:"omitempty,max=100"`
}

// IncidentInput is the victim incident block
type IncidentInput struct {
	Type                 string `json:"type" validate:"required"`
	Date                 string `json:"date" validate:"required"`
	Location             string `json:"location" validate:"required,max=200"`
	Description          string `json:"description" validate:"required,min=10"`
	PoliceComplaintFiled bool   `json:"policeComplaintFiled"`
	FIRNumber            string `json:"firNumber" validate:"omitempty,max=50"`
	PoliceStation        string `json:"policeStation" validate:"omitempty,max=100"`
}

// SubmitVictimInput is the victim compensation submission payload
type SubmitVictimInput struct {
	PersonalDetails PersonInput      `json:"personalDetails" validate:"required"`
	IncidentDetails IncidentInput    `json:"incidentDetails" validate:"required"`
	BankDetails     BankDetailsInput `json:"bankDetails" validate:"required"`
}

// MarriageDetailsInput is the marriage block
type MarriageDetailsInput struct {
	MarriageDate      string `json:"marriageDate" validate:"required"`
	CertificateNumber string `json:"marriageCertificateNumber" validate:"required,max=50"`
	PlaceOfMarriage   string `json:"placeOfMarriage" validate:"omitempty,max=200"`
}

// ContactInput is the shared contact block of a marriage application
type ContactInput struct {
	MobileNumber string `json:"mobileNumber" validate:"required,mobile"`
	Email        string `json:"email" validate:"omitempty,email"`
	Address      string `json:"address" validate:"omitempty,max=300"`
	Pincode      string `json:"pincode" validate:"omitempty,pincode"`
}

// DocumentInput is one declared supporting document
type DocumentInput struct {
	DocumentType string `json:"documentType" validate:"required,max=50"`
	DocumentURL  string `json:"documentUrl" validate:"omitempty,max=500"`
}

// SubmitMarriageInput is the marriage incentive submission payload
type SubmitMarriageInput struct {
	Husband         PersonInput          `json:"husband" validate:"required"`
	Wife            PersonInput          `json:"wife" validate:"required"`
	MarriageDetails MarriageDetailsInput `json:"marriageDetails" validate:"required"`
	ContactDetails  ContactInput         `json:"contactDetails" validate:"required"`
	BankDetails     BankDetailsInput     `json:"bankDetails" validate:"required"`
	Documents       []DocumentInput      `json:"documents" validate:"omitempty,dive"`
}

// RequestMeta carries caller context into the audit trail
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

func identityFromPerson(p *PersonInput) *models.Identity {
	return &models.Identity{
		AadhaarNumber: p.AadhaarNumber,
		FullName:      p.FullName,
		MobileNumber:  p.MobileNumber,
		Email:         p.Email,
		Street:        p.Address.Street,
		City:          p.Address.City,
		District:      p.Address.District,
		State:         p.Address.State,
		Pincode:       p.Address.Pincode,
		Gender:        p.Gender,
		CasteCategory: p.CasteCategory,
	}
}

// SubmitVictim submits a victim compensation application. Identity
// resolution, the duplicate check and the insert run in one serializable
// transaction so two concurrent submissions for the same Aadhaar cannot both
// pass the in-flight check.
func (s *ApplicationService) SubmitVictim(ctx context.Context, input *SubmitVictimInput, meta *RequestMeta) (*models.Application, error) {
	fields := map[string]string{}
	if err := validation.ValidateStruct(input); err != nil {
		fields = validation.FormatValidationError(err)
	}

	var incidentDate time.Time
	if input.IncidentDetails.Date != "" {
		var err error
		incidentDate, err = parseDate(input.IncidentDetails.Date)
		if err != nil {
			fields["incidentDetails.date"] = "must be a valid date in YYYY-MM-DD format"
		} else if incidentDate.After(time.Now()) {
			fields["incidentDetails.date"] = "cannot be in the future"
		}
	}
	if input.IncidentDetails.Type != "" && !domain.IsValidIncidentType(input.IncidentDetails.Type) {
		fields["incidentDetails.type"] = fmt.Sprintf("must be one of: %s", strings.Join(domain.IncidentTypes, ", "))
	}
	if input.PersonalDetails.CasteCategory != "" && !domain.IsValidCasteCategory(input.PersonalDetails.CasteCategory) {
		fields["personalDetails.casteCategory"] = fmt.Sprintf("must be one of: %s", strings.Join(domain.CasteCategories, ", "))
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields)
	}

	ctx, cancel := context.WithTimeout(ctx, submitTimeout)
	defer cancel()

	incidentType := input.IncidentDetails.Type
	app := &models.Application{
		ApplicationType:      string(domain.TypeVictim),
		IncidentType:         &incidentType,
		IncidentDate:         &incidentDate,
		IncidentLocation:     input.IncidentDetails.Location,
		IncidentDescription:  input.IncidentDetails.Description,
		PoliceComplaintFiled: input.IncidentDetails.PoliceComplaintFiled,
		FIRNumber:            input.IncidentDetails.FIRNumber,
		PoliceStation:        input.IncidentDetails.PoliceStation,
		BankDetails:          models.BankDetails(input.BankDetails),
		Amount:               domain.VictimCompensationAmount,
		Status:               string(domain.StatusPending),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		identity, err := s.identityRepo.WithTx(tx).FindOrCreate(ctx, identityFromPerson(&input.PersonalDetails))
		if err != nil {
			return err
		}
		app.ApplicantID = &identity.ID

		return s.createWithHistory(ctx, tx, app, []uint{identity.ID}, nil)
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}

	s.recordSubmission(app, meta)
	return s.appRepo.GetByTrackingCode(ctx, app.TrackingCode)
}

// SubmitMarriage submits an inter-caste marriage incentive application
func (s *ApplicationService) SubmitMarriage(ctx context.Context, input *SubmitMarriageInput, meta *RequestMeta) (*models.Application, error) {
	fields := map[string]string{}
	if err := validation.ValidateStruct(input); err != nil {
		fields = validation.FormatValidationError(err)
	}

	var marriageDate time.Time
	if input.MarriageDetails.MarriageDate != "" {
		var err error
		marriageDate, err = parseDate(input.MarriageDetails.MarriageDate)
		if err != nil {
			fields["marriageDetails.marriageDate"] = "must be a valid date in YYYY-MM-DD format"
		} else if marriageDate.After(time.Now()) {
			fields["marriageDetails.marriageDate"] = "cannot be in the future"
		}
	}
	if input.Husband.CasteCategory == "" {
		fields["husband.casteCategory"] = "husband.casteCategory is required"
	} else if !domain.IsValidCasteCategory(input.Husband.CasteCategory) {
		fields["husband.casteCategory"] = fmt.Sprintf("must be one of: %s", strings.Join(domain.CasteCategories, ", "))
	}
	if input.Wife.CasteCategory == "" {
		fields["wife.casteCategory"] = "wife.casteCategory is required"
	} else if !domain.IsValidCasteCategory(input.Wife.CasteCategory) {
		fields["wife.casteCategory"] = fmt.Sprintf("must be one of: %s", strings.Join(domain.CasteCategories, ", "))
	}
	// The incentive exists for inter-caste marriages only
	if input.Husband.CasteCategory != "" && input.Husband.CasteCategory == input.Wife.CasteCategory {
		fields["casteCategory"] = "husband and wife must belong to different caste categories"
	}
	if input.Husband.AadhaarNumber != "" && input.Husband.AadhaarNumber == input.Wife.AadhaarNumber {
		fields["wife.aadhaarNumber"] = "husband and wife cannot share an Aadhaar number"
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields)
	}

	ctx, cancel := context.WithTimeout(ctx, submitTimeout)
	defer cancel()

	app := &models.Application{
		ApplicationType:       string(domain.TypeMarriage),
		MarriageDate:          &marriageDate,
		MarriageCertificateNo: input.MarriageDetails.CertificateNumber,
		PlaceOfMarriage:       input.MarriageDetails.PlaceOfMarriage,
		ContactMobile:         input.ContactDetails.MobileNumber,
		ContactEmail:          input.ContactDetails.Email,
		ContactAddress:        input.ContactDetails.Address,
		ContactPincode:        input.ContactDetails.Pincode,
		BankDetails:           models.BankDetails(input.BankDetails),
		Amount:                domain.MarriageIncentiveAmount,
		Status:                string(domain.StatusPending),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		identities := s.identityRepo.WithTx(tx)

		husband, err := identities.FindOrCreate(ctx, identityFromPerson(&input.Husband))
		if err != nil {
			return err
		}
		wife, err := identities.FindOrCreate(ctx, identityFromPerson(&input.Wife))
		if err != nil {
			return err
		}
		app.HusbandID = &husband.ID
		app.WifeID = &wife.ID

		return s.createWithHistory(ctx, tx, app, []uint{husband.ID, wife.ID}, input.Documents)
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}

	s.recordSubmission(app, meta)
	return s.appRepo.GetByTrackingCode(ctx, app.TrackingCode)
}

// createWithHistory runs the shared transactional tail of a submission:
// duplicate check, tracking-code insert with one retry, initial history row
// and declared documents.
func (s *ApplicationService) createWithHistory(ctx context.Context, tx *gorm.DB, app *models.Application, identityIDs []uint, docs []DocumentInput) error {
	apps := s.appRepo.WithTx(tx)

	inFlight, err := apps.HasInFlight(ctx, identityIDs)
	if err != nil {
		return err
	}
	if inFlight {
		return domain.NewConflictError("an application is already in progress for this applicant")
	}

	prefix := domain.TrackingPrefixFor(domain.ApplicationType(app.ApplicationType))
	app.TrackingCode = s.generateCode(prefix)
	if err := apps.Create(ctx, app); err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		// One retry with a fresh code; a second collision aborts
		app.ID = 0
		app.TrackingCode = s.generateCode(prefix)
		if err := apps.Create(ctx, app); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.NewConflictError("could not allocate a tracking code, please retry")
			}
			return err
		}
	}

	entry := &models.ProcessingEntry{
		ApplicationID: app.ID,
		Status:        string(domain.StatusPending),
		Comments:      "Application submitted",
	}
	if err := apps.AppendHistory(ctx, entry); err != nil {
		return err
	}

	for _, doc := range docs {
		row := &models.ApplicationDocument{
			ApplicationID: app.ID,
			DocumentType:  doc.DocumentType,
			DocumentURL:   doc.DocumentURL,
		}
		if err := apps.AddDocument(ctx, row); err != nil {
			return err
		}
	}

	return nil
}

func (s *ApplicationService) recordSubmission(app *models.Application, meta *RequestMeta) {
	entry := &AuditEntry{
		Action:      models.AuditActionCreate,
		Module:      models.AuditModuleApplication,
		EntityID:    app.TrackingCode,
		Description: fmt.Sprintf("%s application submitted", app.ApplicationType),
		Changes:     map[string]interface{}{"status": app.Status, "amount": app.Amount},
	}
	if meta != nil {
		entry.IPAddress = meta.IPAddress
		entry.UserAgent = meta.UserAgent
	}
	s.auditService.Record(entry)
}

// GetByTrackingCode returns the full application for public status tracking
func (s *ApplicationService) GetByTrackingCode(ctx context.Context, code string) (*models.Application, error) {
	app, err := s.appRepo.GetByTrackingCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("application", code)
		}
		return nil, err
	}
	return app, nil
}

// ListInput represents officer queue query parameters
type ListInput struct {
	Status          string
	ApplicationType string
	District        string
	Search          string
	SortBy          string
	SortAscending   bool
	Page            int
	Limit           int
}

// sortableColumns whitelists queue sort targets; anything else would reach
// the ORDER BY clause as raw input
var sortableColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
}

// List lists applications for the officer queue
func (s *ApplicationService) List(ctx context.Context, input *ListInput) ([]*models.Application, int64, error) {
	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit < 1 {
		input.Limit = 10
	}
	if input.Limit > 100 {
		input.Limit = 100
	}
	if input.Status != "" && !domain.Status(input.Status).IsValid() {
		return nil, 0, domain.FieldError("status", "unknown status filter")
	}
	if input.SortBy != "" && !sortableColumns[input.SortBy] {
		return nil, 0, domain.FieldError("sortBy", "must be one of: created_at, updated_at")
	}

	filter := &repositories.ApplicationFilter{
		Status:          input.Status,
		ApplicationType: input.ApplicationType,
		District:        input.District,
		Search:          input.Search,
		SortBy:          input.SortBy,
		SortAscending:   input.SortAscending,
		Offset:          (input.Page - 1) * input.Limit,
		Limit:           input.Limit,
	}
	return s.appRepo.List(ctx, filter)
}

// TransitionInput represents a status change request. AssignedOfficerID is
// the only way to hand a case to a named officer; assignment rides the same
// transaction as the status change.
type TransitionInput struct {
	Status            string   `json:"status" validate:"required"`
	Comments          string   `json:"comments" validate:"omitempty,max=2000"`
	RejectionReason   string   `json:"rejectionReason" validate:"omitempty,max=2000"`
	AssignedOfficerID *uint    `json:"assignedOfficerId"`
	VerifiedDocuments []string `json:"verifiedDocuments" validate:"omitempty,dive,max=50"`
}

// identityIDs collects the identity references of either application variant
func identityIDs(app *models.Application) []uint {
	ids := make([]uint, 0, 2)
	for _, id := range []*uint{app.ApplicantID, app.HusbandID, app.WifeID} {
		if id != nil {
			ids = append(ids, *id)
		}
	}
	return ids
}

// Transition moves an application to a new status. The read, legality check,
// update and history append run in one serializable transaction; concurrent
// transitions on the same application serialize and the loser fails the edge
// check against the committed state.
func (s *ApplicationService) Transition(ctx context.Context, trackingCode string, input *TransitionInput, officerID uint, meta *RequestMeta) (*models.Application, error) {
	target := domain.Status(input.Status)
	if !target.IsValid() {
		return nil, domain.FieldError("status", "unknown status "+input.Status)
	}
	if target == domain.StatusRejected && strings.TrimSpace(input.RejectionReason) == "" {
		return nil, domain.FieldError("rejectionReason", "rejectionReason is required when rejecting an application")
	}

	ctx, cancel := context.WithTimeout(ctx, submitTimeout)
	defer cancel()

	var from domain.Status
	var app *models.Application
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		apps := s.appRepo.WithTx(tx)

		var err error
		app, err = apps.GetByTrackingCode(ctx, trackingCode)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NewNotFoundError("application", trackingCode)
			}
			return err
		}

		from = domain.Status(app.Status)
		if !domain.CanTransition(from, target) {
			return domain.NewInvalidTransitionError(from, target)
		}

		app.Status = string(target)
		if input.AssignedOfficerID != nil {
			officer, err := s.officerRepo.WithTx(tx).GetByID(ctx, *input.AssignedOfficerID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domain.NewNotFoundError("officer", fmt.Sprintf("%d", *input.AssignedOfficerID))
				}
				return err
			}
			if !officer.IsActive {
				return domain.FieldError("assignedOfficerId", "officer is not active")
			}
			app.AssignedOfficerID = &officer.ID
		} else if app.AssignedOfficerID == nil && officerID != 0 {
			app.AssignedOfficerID = &officerID
		}

		switch target {
		case domain.StatusRejected:
			reason := input.RejectionReason
			app.RejectionReason = &reason
		case domain.StatusVerified:
			now := time.Now()
			if err := apps.MarkDocumentsVerified(ctx, app.ID, input.VerifiedDocuments, now); err != nil {
				return err
			}
			// A verified application vouches for the citizen records behind it
			if err := s.identityRepo.WithTx(tx).MarkVerified(ctx, identityIDs(app)); err != nil {
				return err
			}
		case domain.StatusDisbursed:
			now := time.Now()
			amount := app.Amount
			txnID := trackingcode.NewTransactionID()
			utr := trackingcode.NewUTRNumber()
			app.DisbursedAmount = &amount
			app.DisbursementTxnID = &txnID
			app.UTRNumber = &utr
			app.DisbursedAt = &now
		}

		if err := apps.Update(ctx, app); err != nil {
			return err
		}

		entry := &models.ProcessingEntry{
			ApplicationID: app.ID,
			Status:        string(target),
			Comments:      input.Comments,
		}
		if officerID != 0 {
			entry.ActionByID = &officerID
		}
		return apps.AppendHistory(ctx, entry)
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}

	action := models.AuditActionUpdate
	switch target {
	case domain.StatusApproved:
		action = models.AuditActionApprove
	case domain.StatusRejected:
		action = models.AuditActionReject
	}
	entry := &AuditEntry{
		Action:      action,
		Module:      models.AuditModuleApplication,
		EntityID:    trackingCode,
		Description: fmt.Sprintf("status changed from %s to %s", from, target),
		PerformedBy: &officerID,
		Changes:     map[string]interface{}{"from": string(from), "to": string(target)},
	}
	if meta != nil {
		entry.IPAddress = meta.IPAddress
		entry.UserAgent = meta.UserAgent
	}
	s.auditService.Record(entry)

	return s.appRepo.GetByTrackingCode(ctx, trackingCode)
}

// AssignOfficer reassigns an application to another officer. The write
// touches only the assignment column inside its own transaction, so a status
// transition committing around the same time keeps its status and history.
func (s *ApplicationService) AssignOfficer(ctx context.Context, trackingCode string, newOfficerID, actingOfficerID uint, meta *RequestMeta) (*models.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, submitTimeout)
	defer cancel()

	var officer *models.Officer
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		officer, err = s.officerRepo.WithTx(tx).GetByID(ctx, newOfficerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NewNotFoundError("officer", fmt.Sprintf("%d", newOfficerID))
			}
			return err
		}
		if !officer.IsActive {
			return domain.FieldError("officerId", "officer is not active")
		}

		apps := s.appRepo.WithTx(tx)
		app, err := apps.GetByTrackingCode(ctx, trackingCode)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NewNotFoundError("application", trackingCode)
			}
			return err
		}

		return apps.SetAssignedOfficer(ctx, app.ID, officer.ID)
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}

	entry := &AuditEntry{
		Action:      models.AuditActionUpdate,
		Module:      models.AuditModuleApplication,
		EntityID:    trackingCode,
		Description: fmt.Sprintf("assigned to officer %s", officer.EmployeeID),
		PerformedBy: &actingOfficerID,
	}
	if meta != nil {
		entry.IPAddress = meta.IPAddress
		entry.UserAgent = meta.UserAgent
	}
	s.auditService.Record(entry)

	return s.appRepo.GetByTrackingCode(ctx, trackingCode)
}
