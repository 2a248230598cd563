package services

import (
	"context"
	"testing"

	"sahaayak-api/internal/adapters/persistence/models"
	"sahaayak-api/internal/adapters/persistence/repositories"
	"sahaayak-api/internal/core/domain"
	"sahaayak-api/internal/pkg/password"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type OfficerServiceSuite struct {
	suite.Suite
	db             *gorm.DB
	officerService *OfficerService
	officerRepo    *repositories.OfficerRepository
	auditService   *AuditService
	adminID        uint
}

func (s *OfficerServiceSuite) SetupTest() {
	s.db = newTestDB(s.T())

	s.officerRepo = repositories.NewOfficerRepository(s.db)
	s.auditService = NewAuditService(repositories.NewAuditRepository(s.db))
	s.officerService = NewOfficerService(s.officerRepo, s.auditService)

	admin := &models.Officer{
		EmployeeID: "OFFADM0001",
		FullName:   "Admin",
		Email:      "admin@test.local",
		Password:   "x",
		Department: "Administration",
		Role:       models.RoleAdmin,
		IsActive:   true,
	}
	s.Require().NoError(s.officerRepo.Create(context.Background(), admin))
	s.adminID = admin.ID
}

func (s *OfficerServiceSuite) TearDownTest() {
	s.auditService.Close()
}

func (s *OfficerServiceSuite) create(email string) *models.Officer {
	officer, err := s.officerService.Create(context.Background(), &CreateOfficerInput{
		FullName:   "Case Officer",
		Email:      email,
		Password:   "longenoughpassword",
		Department: "Revenue",
	}, s.adminID, nil)
	s.Require().NoError(err)
	return officer
}

func (s *OfficerServiceSuite) TestCreate() {
	officer := s.create("case1@test.local")

	s.Regexp(`^OFFREV\d{4}$`, officer.EmployeeID)
	s.Equal(models.RoleOfficer, officer.Role)
	s.True(officer.IsActive)
	s.True(password.Verify("longenoughpassword", officer.Password))
}

func (s *OfficerServiceSuite) TestCreateDuplicateEmail() {
	s.create("case1@test.local")

	_, err := s.officerService.Create(context.Background(), &CreateOfficerInput{
		FullName:   "Another Officer",
		Email:      "case1@test.local",
		Password:   "longenoughpassword",
		Department: "Revenue",
	}, s.adminID, nil)
	var conflictErr *domain.ConflictError
	s.Require().ErrorAs(err, &conflictErr)
}

func (s *OfficerServiceSuite) TestCreateInvalidRole() {
	_, err := s.officerService.Create(context.Background(), &CreateOfficerInput{
		FullName:   "Bad Role",
		Email:      "bad@test.local",
		Password:   "longenoughpassword",
		Department: "Revenue",
		Role:       "superuser",
	}, s.adminID, nil)
	var validationErr *domain.ValidationError
	s.Require().ErrorAs(err, &validationErr)
	s.Contains(validationErr.Fields, "role")
}

func (s *OfficerServiceSuite) TestUpdate() {
	officer := s.create("case1@test.local")

	inactive := false
	updated, err := s.officerService.Update(context.Background(), officer.ID, &UpdateOfficerInput{
		Role:     models.RoleSupervisor,
		District: "Jaipur",
		IsActive: &inactive,
	}, s.adminID, nil)
	s.Require().NoError(err)
	s.Equal(models.RoleSupervisor, updated.Role)
	s.Equal("Jaipur", updated.District)
	s.False(updated.IsActive)
}

func (s *OfficerServiceSuite) TestDeactivate() {
	officer := s.create("case1@test.local")

	s.Require().NoError(s.officerService.Deactivate(context.Background(), officer.ID, s.adminID, nil))

	// Soft deleted, so a plain lookup no longer finds it
	_, err := s.officerService.GetByID(context.Background(), officer.ID)
	var notFoundErr *domain.NotFoundError
	s.Require().ErrorAs(err, &notFoundErr)
}

func (s *OfficerServiceSuite) TestDeactivateSelfBlocked() {
	err := s.officerService.Deactivate(context.Background(), s.adminID, s.adminID, nil)
	var validationErr *domain.ValidationError
	s.Require().ErrorAs(err, &validationErr)
}

func (s *OfficerServiceSuite) TestChangePassword() {
	officer := s.create("case1@test.local")
	ctx := context.Background()

	err := s.officerService.ChangePassword(ctx, officer.ID, &ChangePasswordInput{
		CurrentPassword: "wrong",
		NewPassword:     "anotherlongpassword",
	})
	s.ErrorIs(err, ErrInvalidCredentials)

	err = s.officerService.ChangePassword(ctx, officer.ID, &ChangePasswordInput{
		CurrentPassword: "longenoughpassword",
		NewPassword:     "anotherlongpassword",
	})
	s.Require().NoError(err)

	stored, err := s.officerRepo.GetByID(ctx, officer.ID)
	s.Require().NoError(err)
	s.True(password.Verify("anotherlongpassword", stored.Password))
}

func (s *OfficerServiceSuite) TestList() {
	s.create("case1@test.local")
	s.create("case2@test.local")

	officers, total, err := s.officerService.List(context.Background(), 1, 10)
	s.Require().NoError(err)
	s.EqualValues(3, total) // admin plus two created
	s.Len(officers, 3)
}

func TestOfficerServiceSuite(t *testing.T) {
	suite.Run(t, new(OfficerServiceSuite))
}
