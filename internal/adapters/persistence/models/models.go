package models

import (
	"time"

	"sahaayak-api/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Officers & Auth
// ============================================================

// Officer represents the officers table (case officers, supervisors, admins)
type Officer struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	EmployeeID  string         `gorm:"uniqueIndex;size:20;not null" json:"employee_id"`
	FullName    string         `gorm:"size:100;not null" json:"full_name"`
	Email       string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password    string         `gorm:"size:255;not null" json:"-"`
	Department  string         `gorm:"size:50;not null" json:"department"`
	Designation string         `gorm:"size:100" json:"designation"`
	District    string         `gorm:"size:100" json:"district"`
	State       string         `gorm:"size:100" json:"state"`
	Role        string         `gorm:"size:20;default:'officer'" json:"role"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	LastLoginAt *time.Time     `json:"last_login_at"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Officer) TableName() string {
	return "officers"
}

// Officer roles
const (
	RoleOfficer    = "officer"
	RoleSupervisor = "supervisor"
	RoleAdmin      = "admin"
)

// OfficerResponse DTO
type OfficerResponse struct {
	ID          uint      `json:"id"`
	EmployeeID  string    `json:"employeeId"`
	FullName    string    `json:"fullName"`
	Email       string    `json:"email"`
	Department  string    `json:"department"`
	Designation string    `json:"designation"`
	District    string    `json:"district"`
	State       string    `json:"state"`
	Role        string    `json:"role"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (o *Officer) ToResponse() *OfficerResponse {
	return &OfficerResponse{
		ID:          o.ID,
		EmployeeID:  o.EmployeeID,
		FullName:    o.FullName,
		Email:       o.Email,
		Department:  o.Department,
		Designation: o.Designation,
		District:    o.District,
		State:       o.State,
		Role:        o.Role,
		IsActive:    o.IsActive,
		CreatedAt:   o.CreatedAt,
	}
}

// RefreshToken represents the refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	OfficerID uint       `gorm:"index;not null" json:"officer_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	Officer   Officer    `gorm:"foreignKey:OfficerID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Identity Registry
// ============================================================

// Identity represents the identities table. One row per citizen, keyed by
// Aadhaar number. Personal details are immutable after creation; only the
// verification flag changes, flipped when an application covering the
// identity is verified.
type Identity struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	AadhaarNumber string    `gorm:"uniqueIndex;size:12;not null" json:"aadhaar_number"`
	FullName      string    `gorm:"size:100;not null" json:"full_name"`
	MobileNumber  string    `gorm:"size:10" json:"mobile_number"`
	Email         string    `gorm:"size:100" json:"email"`
	Street        string    `gorm:"size:200" json:"street"`
	City          string    `gorm:"size:100" json:"city"`
	District      string    `gorm:"size:100" json:"district"`
	State         string    `gorm:"size:100" json:"state"`
	Pincode       string    `gorm:"size:6" json:"pincode"`
	Gender        string    `gorm:"size:10" json:"gender"`
	CasteCategory string    `gorm:"size:20" json:"caste_category"`
	IsVerified    bool      `gorm:"default:false" json:"is_verified"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Identity) TableName() string {
	return "identities"
}

// ============================================================
// Applications
// ============================================================

// BankDetails is embedded into applications (bank_* columns)
type BankDetails struct {
	AccountHolderName string `gorm:"size:100" json:"accountHolderName"`
	AccountNumber     string `gorm:"size:20" json:"accountNumber"`
	IFSCCode          string `gorm:"size:11" json:"ifscCode"`
	BankName          string `gorm:"size:100" json:"bankName"`
	Branch            string `gorm:"size:100" json:"branch,omitempty"`
}

// Application represents the applications table. A single table holds both
// variants, discriminated by application_type: victim rows reference one
// identity via applicant_id, marriage rows reference two via husband_id and
// wife_id. Disbursement and rejection columns stay NULL until the matching
// terminal transition.
type Application struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	TrackingCode    string `gorm:"uniqueIndex;size:20;not null" json:"tracking_code"`
	ApplicationType string `gorm:"size:10;not null;index" json:"application_type"`

	ApplicantID *uint `gorm:"index" json:"applicant_id"`
	HusbandID   *uint `gorm:"index" json:"husband_id"`
	WifeID      *uint `gorm:"index" json:"wife_id"`

	// Victim incident details
	IncidentType         *string    `gorm:"size:30" json:"incident_type"`
	IncidentDate         *time.Time `json:"incident_date"`
	IncidentLocation     string     `gorm:"size:200" json:"incident_location"`
	IncidentDescription  string     `gorm:"type:text" json:"incident_description"`
	PoliceComplaintFiled bool       `gorm:"default:false" json:"police_complaint_filed"`
	FIRNumber            string     `gorm:"size:50" json:"fir_number"`
	PoliceStation        string     `gorm:"size:100" json:"police_station"`

	// Marriage details
	MarriageDate          *time.Time `json:"marriage_date"`
	MarriageCertificateNo string     `gorm:"size:50" json:"marriage_certificate_no"`
	PlaceOfMarriage       string     `gorm:"size:200" json:"place_of_marriage"`

	// Contact details (marriage applications carry contact separately from
	// the spouse identities)
	ContactMobile  string `gorm:"size:10" json:"contact_mobile"`
	ContactEmail   string `gorm:"size:100" json:"contact_email"`
	ContactAddress string `gorm:"size:300" json:"contact_address"`
	ContactPincode string `gorm:"size:6" json:"contact_pincode"`

	BankDetails BankDetails `gorm:"embedded;embeddedPrefix:bank_" json:"bank_details"`

	Amount            int64  `gorm:"not null" json:"amount"`
	Status            string `gorm:"size:20;not null;index;default:'pending'" json:"status"`
	AssignedOfficerID *uint  `gorm:"index" json:"assigned_officer_id"`

	// Disbursement columns, populated only on transition to disbursed
	DisbursedAmount   *int64     `json:"disbursed_amount"`
	DisbursementTxnID *string    `gorm:"size:40" json:"disbursement_txn_id"`
	UTRNumber         *string    `gorm:"size:40" json:"utr_number"`
	DisbursedAt       *time.Time `json:"disbursed_at"`

	// Populated only on transition to rejected
	RejectionReason *string `gorm:"type:text" json:"rejection_reason"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Applicant         *Identity             `gorm:"foreignKey:ApplicantID" json:"applicant,omitempty"`
	Husband           *Identity             `gorm:"foreignKey:HusbandID" json:"husband,omitempty"`
	Wife              *Identity             `gorm:"foreignKey:WifeID" json:"wife,omitempty"`
	AssignedOfficer   *Officer              `gorm:"foreignKey:AssignedOfficerID" json:"assigned_officer,omitempty"`
	ProcessingHistory []ProcessingEntry     `gorm:"foreignKey:ApplicationID" json:"processing_history,omitempty"`
	Documents         []ApplicationDocument `gorm:"foreignKey:ApplicationID" json:"documents,omitempty"`
}

func (Application) TableName() string {
	return "applications"
}

// ProcessingEntry represents the append-only processing_entries table.
// One row at creation, one per status transition.
type ProcessingEntry struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ApplicationID uint      `gorm:"not null;index" json:"application_id"`
	Status        string    `gorm:"size:20;not null" json:"status"`
	ActionByID    *uint     `json:"action_by_id"`
	Comments      string    `gorm:"type:text" json:"comments"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`

	ActionBy *Officer `gorm:"foreignKey:ActionByID" json:"action_by,omitempty"`
}

func (ProcessingEntry) TableName() string {
	return "processing_entries"
}

// ApplicationDocument represents documents declared on a marriage
// application (caste certificates, marriage certificate)
type ApplicationDocument struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	ApplicationID uint       `gorm:"not null;index" json:"application_id"`
	DocumentType  string     `gorm:"size:50;not null" json:"document_type"`
	DocumentURL   string     `gorm:"size:500" json:"document_url"`
	Verified      bool       `gorm:"default:false" json:"verified"`
	VerifiedAt    *time.Time `json:"verified_at"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (ApplicationDocument) TableName() string {
	return "application_documents"
}

// ============================================================
// Audit Log
// ============================================================

// AuditLog represents the append-only audit_logs table
type AuditLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Action      string    `gorm:"size:20;not null;index" json:"action"`
	Module      string    `gorm:"size:40;not null;index" json:"module"`
	EntityID    string    `gorm:"size:40;index" json:"entity_id"`
	Description string    `gorm:"type:text" json:"description"`
	PerformedBy *uint     `gorm:"index" json:"performed_by"`
	IPAddress   string    `gorm:"size:50" json:"ip_address"`
	UserAgent   string    `gorm:"size:255" json:"user_agent"`
	Changes     string    `gorm:"type:text" json:"changes"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// Audit actions
const (
	AuditActionCreate  = "create"
	AuditActionRead    = "read"
	AuditActionUpdate  = "update"
	AuditActionDelete  = "delete"
	AuditActionApprove = "approve"
	AuditActionReject  = "reject"
)

// Audit modules
const (
	AuditModuleIdentity    = "identity"
	AuditModuleApplication = "application"
	AuditModuleOfficer     = "officer"
	AuditModuleGrievance   = "grievance"
)

// ============================================================
// Grievances
// ============================================================

// Grievance represents the grievances table
type Grievance struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	GrievanceID     string `gorm:"uniqueIndex;size:20;not null" json:"grievance_id"`
	TrackingCode    string `gorm:"size:20;not null;index" json:"tracking_code"`
	ApplicationType string `gorm:"size:10;not null" json:"application_type"`
	Type            string `gorm:"size:20;not null" json:"type"`
	Priority        string `gorm:"size:10;default:'medium'" json:"priority"`
	Description     string `gorm:"type:text;not null" json:"description"`
	Status          string `gorm:"size:20;not null;index;default:'open'" json:"status"`
	AssignedToID    *uint  `gorm:"index" json:"assigned_to_id"`

	ResolutionNote *string    `gorm:"type:text" json:"resolution_note"`
	ResolvedByID   *uint      `json:"resolved_by_id"`
	ResolvedAt     *time.Time `json:"resolved_at"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	AssignedTo *Officer `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	ResolvedBy *Officer `gorm:"foreignKey:ResolvedByID" json:"resolved_by,omitempty"`
}

func (Grievance) TableName() string {
	return "grievances"
}

// Grievance statuses
const (
	GrievanceStatusOpen       = "open"
	GrievanceStatusInProgress = "in_progress"
	GrievanceStatusResolved   = "resolved"
	GrievanceStatusClosed     = "closed"
)

// Grievance types
var GrievanceTypes = []string{"delay", "verification", "payment", "officer", "document", "other"}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Officer{},
		&RefreshToken{},
		&Identity{},
		&Application{},
		&ProcessingEntry{},
		&ApplicationDocument{},
		&AuditLog{},
		&Grievance{},
	)
}

// ============================================================
// Response DTOs (external JSON contract is camelCase)
// ============================================================

// AddressResponse mirrors the nested address block
type AddressResponse struct {
	Street   string `json:"street,omitempty"`
	City     string `json:"city,omitempty"`
	District string `json:"district,omitempty"`
	State    string `json:"state,omitempty"`
	Pincode  string `json:"pincode,omitempty"`
}

// PersonResponse represents an identity in API responses
type PersonResponse struct {
	FullName      string          `json:"fullName"`
	AadhaarNumber string          `json:"aadhaarNumber"`
	MobileNumber  string          `json:"mobileNumber,omitempty"`
	Email         string          `json:"email,omitempty"`
	CasteCategory string          `json:"casteCategory,omitempty"`
	Address       AddressResponse `json:"address"`
}

// ProcessingEntryResponse represents one history entry
type ProcessingEntryResponse struct {
	Status    string    `json:"status"`
	ActionBy  string    `json:"actionBy,omitempty"`
	Comments  string    `json:"comments,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// DisbursementResponse is present only when status == disbursed
type DisbursementResponse struct {
	DisbursedAmount int64      `json:"disbursedAmount"`
	TransactionID   string     `json:"transactionId"`
	UTRNumber       string     `json:"utrNumber"`
	DisbursedAt     *time.Time `json:"disbursedAt"`
}

// IncidentResponse mirrors the victim incident block
type IncidentResponse struct {
	Type                 string     `json:"type"`
	Date                 *time.Time `json:"date"`
	Location             string     `json:"location"`
	Description          string     `json:"description"`
	PoliceComplaintFiled bool       `json:"policeComplaintFiled"`
	FIRNumber            string     `json:"firNumber,omitempty"`
	PoliceStation        string     `json:"policeStation,omitempty"`
}

// MarriageResponse mirrors the marriage details block
type MarriageResponse struct {
	MarriageDate          *time.Time `json:"marriageDate"`
	CertificateNumber     string     `json:"marriageCertificateNumber,omitempty"`
	PlaceOfMarriage       string     `json:"placeOfMarriage,omitempty"`
}

// DocumentResponse represents a declared application document
type DocumentResponse struct {
	DocumentType string     `json:"documentType"`
	DocumentURL  string     `json:"documentUrl,omitempty"`
	Verified     bool       `json:"verified"`
	VerifiedAt   *time.Time `json:"verifiedAt,omitempty"`
}

// ApplicationResponse is the full external representation of an application
type ApplicationResponse struct {
	TrackingID      string `json:"trackingId"`
	ApplicationType string `json:"applicationType"`
	Status          string `json:"status"`
	Amount          int64  `json:"amount"`

	PersonalDetails *PersonResponse `json:"personalDetails,omitempty"`
	Husband         *PersonResponse `json:"husband,omitempty"`
	Wife            *PersonResponse `json:"wife,omitempty"`

	IncidentDetails *IncidentResponse `json:"incidentDetails,omitempty"`
	MarriageDetails *MarriageResponse `json:"marriageDetails,omitempty"`
	BankDetails     BankDetails       `json:"bankDetails"`

	AssignedOfficer *OfficerResponse `json:"assignedOfficer,omitempty"`

	ProcessingHistory []ProcessingEntryResponse `json:"processingHistory"`
	Documents         []DocumentResponse        `json:"documents,omitempty"`

	DisbursementDetails *DisbursementResponse `json:"disbursementDetails,omitempty"`
	RejectionReason     string                `json:"rejectionReason,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func identityToPerson(i *Identity) *PersonResponse {
	if i == nil {
		return nil
	}
	return &PersonResponse{
		FullName:      i.FullName,
		AadhaarNumber: i.AadhaarNumber,
		MobileNumber:  i.MobileNumber,
		Email:         i.Email,
		CasteCategory: i.CasteCategory,
		Address: AddressResponse{
			Street:   i.Street,
			City:     i.City,
			District: i.District,
			State:    i.State,
			Pincode:  i.Pincode,
		},
	}
}

// ToResponse builds the external representation. Disbursement and rejection
// blocks are emitted only in the matching terminal status.
func (a *Application) ToResponse() *ApplicationResponse {
	resp := &ApplicationResponse{
		TrackingID:      a.TrackingCode,
		ApplicationType: a.ApplicationType,
		Status:          a.Status,
		Amount:          a.Amount,
		BankDetails:     a.BankDetails,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}

	if a.ApplicationType == string(domain.TypeMarriage) {
		resp.Husband = identityToPerson(a.Husband)
		resp.Wife = identityToPerson(a.Wife)
		resp.MarriageDetails = &MarriageResponse{
			MarriageDate:      a.MarriageDate,
			CertificateNumber: a.MarriageCertificateNo,
			PlaceOfMarriage:   a.PlaceOfMarriage,
		}
	} else {
		resp.PersonalDetails = identityToPerson(a.Applicant)
		incidentType := ""
		if a.IncidentType != nil {
			incidentType = *a.IncidentType
		}
		resp.IncidentDetails = &IncidentResponse{
			Type:                 incidentType,
			Date:                 a.IncidentDate,
			Location:             a.IncidentLocation,
			Description:          a.IncidentDescription,
			PoliceComplaintFiled: a.PoliceComplaintFiled,
			FIRNumber:            a.FIRNumber,
			PoliceStation:        a.PoliceStation,
		}
	}

	if a.AssignedOfficer != nil {
		resp.AssignedOfficer = a.AssignedOfficer.ToResponse()
	}

	resp.ProcessingHistory = make([]ProcessingEntryResponse, len(a.ProcessingHistory))
	for i, entry := range a.ProcessingHistory {
		e := ProcessingEntryResponse{
			Status:    entry.Status,
			Comments:  entry.Comments,
			Timestamp: entry.CreatedAt,
		}
		if entry.ActionBy != nil {
			e.ActionBy = entry.ActionBy.FullName
		}
		resp.ProcessingHistory[i] = e
	}

	for _, doc := range a.Documents {
		resp.Documents = append(resp.Documents, DocumentResponse{
			DocumentType: doc.DocumentType,
			DocumentURL:  doc.DocumentURL,
			Verified:     doc.Verified,
			VerifiedAt:   doc.VerifiedAt,
		})
	}

	if a.Status == string(domain.StatusDisbursed) && a.DisbursementTxnID != nil {
		resp.DisbursementDetails = &DisbursementResponse{
			TransactionID: *a.DisbursementTxnID,
			DisbursedAt:   a.DisbursedAt,
		}
		if a.DisbursedAmount != nil {
			resp.DisbursementDetails.DisbursedAmount = *a.DisbursedAmount
		}
		if a.UTRNumber != nil {
			resp.DisbursementDetails.UTRNumber = *a.UTRNumber
		}
	}
	if a.Status == string(domain.StatusRejected) && a.RejectionReason != nil {
		resp.RejectionReason = *a.RejectionReason
	}

	return resp
}

// GrievanceResponse is the external representation of a grievance
type GrievanceResponse struct {
	GrievanceID     string     `json:"grievanceId"`
	TrackingCode    string     `json:"trackingCode"`
	ApplicationType string     `json:"applicationType"`
	Type            string     `json:"type"`
	Priority        string     `json:"priority"`
	Description     string     `json:"description"`
	Status          string     `json:"status"`
	AssignedTo      string     `json:"assignedTo,omitempty"`
	ResolutionNote  string     `json:"resolutionNote,omitempty"`
	ResolvedAt      *time.Time `json:"resolvedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func (g *Grievance) ToResponse() *GrievanceResponse {
	resp := &GrievanceResponse{
		GrievanceID:     g.GrievanceID,
		TrackingCode:    g.TrackingCode,
		ApplicationType: g.ApplicationType,
		Type:            g.Type,
		Priority:        g.Priority,
		Description:     g.Description,
		Status:          g.Status,
		ResolvedAt:      g.ResolvedAt,
		CreatedAt:       g.CreatedAt,
		UpdatedAt:       g.UpdatedAt,
	}
	if g.AssignedTo != nil {
		resp.AssignedTo = g.AssignedTo.FullName
	}
	if g.ResolutionNote != nil {
		resp.ResolutionNote = *g.ResolutionNote
	}
	return resp
}
