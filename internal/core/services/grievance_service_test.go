package services

import (
	"context"
	"testing"

	"sahaayak-api/internal/adapters/persistence/models"
	"sahaayak-api/internal/adapters/persistence/repositories"
	"sahaayak-api/internal/core/domain"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type GrievanceServiceSuite struct {
	suite.Suite
	db               *gorm.DB
	grievanceService *GrievanceService
	auditService     *AuditService
	trackingCode     string
	officerID        uint
}

func (s *GrievanceServiceSuite) SetupTest() {
	s.db = newTestDB(s.T())

	identityRepo := repositories.NewIdentityRepository(s.db)
	appRepo := repositories.NewApplicationRepository(s.db)
	officerRepo := repositories.NewOfficerRepository(s.db)
	grievanceRepo := repositories.NewGrievanceRepository(s.db)
	s.auditService = NewAuditService(repositories.NewAuditRepository(s.db))
	appService := NewApplicationService(s.db, identityRepo, appRepo, officerRepo, s.auditService)
	s.grievanceService = NewGrievanceService(grievanceRepo, appRepo, s.auditService)

	officer := &models.Officer{
		EmployeeID: "OFFTST0001",
		FullName:   "Test Officer",
		Email:      "officer@test.local",
		Password:   "x",
		Department: "Testing",
		Role:       models.RoleOfficer,
		IsActive:   true,
	}
	s.Require().NoError(officerRepo.Create(context.Background(), officer))
	s.officerID = officer.ID

	app, err := appService.SubmitVictim(context.Background(), victimInput("111122223333"), nil)
	s.Require().NoError(err)
	s.trackingCode = app.TrackingCode
}

func (s *GrievanceServiceSuite) TearDownTest() {
	s.auditService.Close()
}

func (s *GrievanceServiceSuite) file(grievanceType string) *models.Grievance {
	grievance, err := s.grievanceService.File(context.Background(), &FileGrievanceInput{
		TrackingCode: s.trackingCode,
		Type:         grievanceType,
		Description:  "Application has been pending for over a month",
	}, nil)
	s.Require().NoError(err)
	return grievance
}

func (s *GrievanceServiceSuite) TestFile() {
	grievance := s.file("delay")

	s.Regexp(`^GRV\d{8}$`, grievance.GrievanceID)
	s.Equal(s.trackingCode, grievance.TrackingCode)
	s.Equal(string(domain.TypeVictim), grievance.ApplicationType)
	s.Equal(models.GrievanceStatusOpen, grievance.Status)
	s.Equal("medium", grievance.Priority)
}

func (s *GrievanceServiceSuite) TestFileUnknownApplication() {
	_, err := s.grievanceService.File(context.Background(), &FileGrievanceInput{
		TrackingCode: "VIC99999999",
		Type:         "delay",
		Description:  "Application has been pending for over a month",
	}, nil)
	var notFoundErr *domain.NotFoundError
	s.Require().ErrorAs(err, &notFoundErr)
}

func (s *GrievanceServiceSuite) TestFileInvalidInput() {
	_, err := s.grievanceService.File(context.Background(), &FileGrievanceInput{
		TrackingCode: s.trackingCode,
		Type:         "gossip",
		Description:  "too short",
	}, nil)
	var validationErr *domain.ValidationError
	s.Require().ErrorAs(err, &validationErr)
	s.Contains(validationErr.Fields, "type")
	s.Contains(validationErr.Fields, "description")
}

func (s *GrievanceServiceSuite) TestResolveRequiresNote() {
	grievance := s.file("payment")

	_, err := s.grievanceService.UpdateStatus(context.Background(), grievance.GrievanceID, &UpdateGrievanceInput{
		Status: models.GrievanceStatusResolved,
	}, s.officerID, nil)
	var validationErr *domain.ValidationError
	s.Require().ErrorAs(err, &validationErr)
	s.Contains(validationErr.Fields, "resolutionNote")
}

func (s *GrievanceServiceSuite) TestResolveLifecycle() {
	ctx := context.Background()
	grievance := s.file("verification")

	updated, err := s.grievanceService.UpdateStatus(ctx, grievance.GrievanceID, &UpdateGrievanceInput{
		Status: models.GrievanceStatusInProgress,
	}, s.officerID, nil)
	s.Require().NoError(err)
	s.Equal(models.GrievanceStatusInProgress, updated.Status)
	s.Require().NotNil(updated.AssignedToID)
	s.Equal(s.officerID, *updated.AssignedToID)

	updated, err = s.grievanceService.UpdateStatus(ctx, grievance.GrievanceID, &UpdateGrievanceInput{
		Status:         models.GrievanceStatusResolved,
		ResolutionNote: "Verification completed and status moved forward",
	}, s.officerID, nil)
	s.Require().NoError(err)
	s.Equal(models.GrievanceStatusResolved, updated.Status)
	s.Require().NotNil(updated.ResolutionNote)
	s.NotNil(updated.ResolvedAt)
	s.Require().NotNil(updated.ResolvedByID)
	s.Equal(s.officerID, *updated.ResolvedByID)
}

func (s *GrievanceServiceSuite) TestClosedIsFinal() {
	ctx := context.Background()
	grievance := s.file("other")

	_, err := s.grievanceService.UpdateStatus(ctx, grievance.GrievanceID, &UpdateGrievanceInput{
		Status: models.GrievanceStatusClosed,
	}, s.officerID, nil)
	s.Require().NoError(err)

	_, err = s.grievanceService.UpdateStatus(ctx, grievance.GrievanceID, &UpdateGrievanceInput{
		Status: models.GrievanceStatusInProgress,
	}, s.officerID, nil)
	var conflictErr *domain.ConflictError
	s.Require().ErrorAs(err, &conflictErr)
}

func (s *GrievanceServiceSuite) TestList() {
	s.file("delay")
	grievance := s.file("payment")

	_, err := s.grievanceService.UpdateStatus(context.Background(), grievance.GrievanceID, &UpdateGrievanceInput{
		Status: models.GrievanceStatusInProgress,
	}, s.officerID, nil)
	s.Require().NoError(err)

	all, total, err := s.grievanceService.List(context.Background(), &GrievanceListInput{Page: 1, Limit: 10})
	s.Require().NoError(err)
	s.EqualValues(2, total)
	s.Len(all, 2)

	open, total, err := s.grievanceService.List(context.Background(), &GrievanceListInput{Status: models.GrievanceStatusOpen, Page: 1, Limit: 10})
	s.Require().NoError(err)
	s.EqualValues(1, total)
	s.Equal("delay", open[0].Type)
}

func TestGrievanceServiceSuite(t *testing.T) {
	suite.Run(t, new(GrievanceServiceSuite))
}
