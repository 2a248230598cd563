package services

import (
	"context"
	"testing"
	"time"

	"sahaayak-api/internal/adapters/persistence/models"
	"sahaayak-api/internal/adapters/persistence/repositories"
	"sahaayak-api/internal/core/domain"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type StatsServiceSuite struct {
	suite.Suite
	db           *gorm.DB
	appService   *ApplicationService
	statsService *StatsService
	auditService *AuditService
	officerID    uint
}

func (s *StatsServiceSuite) SetupTest() {
	s.db = newTestDB(s.T())

	identityRepo := repositories.NewIdentityRepository(s.db)
	appRepo := repositories.NewApplicationRepository(s.db)
	officerRepo := repositories.NewOfficerRepository(s.db)
	grievanceRepo := repositories.NewGrievanceRepository(s.db)
	s.auditService = NewAuditService(repositories.NewAuditRepository(s.db))
	s.appService = NewApplicationService(s.db, identityRepo, appRepo, officerRepo, s.auditService)
	s.statsService = NewStatsService(appRepo, identityRepo, grievanceRepo)

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
}

func (s *StatsServiceSuite) TearDownTest() {
	s.auditService.Close()
}

func (s *StatsServiceSuite) TestOverviewEmpty() {
	overview, err := s.statsService.GetOverview(context.Background())
	s.Require().NoError(err)

	s.Zero(overview.Victim.Total)
	s.Zero(overview.Marriage.Total)
	s.Zero(overview.RegisteredCitizens)
	s.Len(overview.MonthlySubmissions, 6)
	s.WithinDuration(time.Now(), overview.GeneratedAt, time.Minute)
}

func (s *StatsServiceSuite) TestOverviewCounts() {
	ctx := context.Background()

	victim, err := s.appService.SubmitVictim(ctx, victimInput("111122223333"), nil)
	s.Require().NoError(err)
	_, err = s.appService.SubmitMarriage(ctx, marriageInput("444455556666", "777788889999"), nil)
	s.Require().NoError(err)

	// Walk the victim application all the way to disbursal
	for _, status := range []domain.Status{domain.StatusVerified, domain.StatusApproved, domain.StatusDisbursed} {
		_, err = s.appService.Transition(ctx, victim.TrackingCode, &TransitionInput{Status: string(status)}, s.officerID, nil)
		s.Require().NoError(err)
	}

	// A second victim application stops at approval
	second, err := s.appService.SubmitVictim(ctx, victimInput("222233334444"), nil)
	s.Require().NoError(err)
	for _, status := range []domain.Status{domain.StatusVerified, domain.StatusApproved} {
		_, err = s.appService.Transition(ctx, second.TrackingCode, &TransitionInput{Status: string(status)}, s.officerID, nil)
		s.Require().NoError(err)
	}

	overview, err := s.statsService.GetOverview(ctx)
	s.Require().NoError(err)

	s.EqualValues(2, overview.Victim.Total)
	s.EqualValues(1, overview.Victim.ByStatus[string(domain.StatusDisbursed)].Count)
	s.Equal(domain.VictimCompensationAmount, overview.Victim.ByStatus[string(domain.StatusDisbursed)].SumOfAmount)
	s.EqualValues(1, overview.Victim.ByStatus[string(domain.StatusApproved)].Count)
	s.Equal(domain.VictimCompensationAmount, overview.Victim.ByStatus[string(domain.StatusApproved)].SumOfAmount)
	s.Equal(2*domain.VictimCompensationAmount, overview.Victim.SanctionedSum)
	s.Equal(domain.VictimCompensationAmount, overview.Victim.DisbursedSum)

	s.EqualValues(1, overview.Marriage.Total)
	s.EqualValues(1, overview.Marriage.ByStatus[string(domain.StatusPending)].Count)
	s.Equal(domain.MarriageIncentiveAmount, overview.Marriage.ByStatus[string(domain.StatusPending)].SumOfAmount)
	s.Zero(overview.Marriage.SanctionedSum)
	s.Zero(overview.Marriage.DisbursedSum)

	// Two victim identities plus two spouses
	s.EqualValues(4, overview.RegisteredCitizens)

	// All submissions land in the current month's bucket; both victim
	// applications passed approval
	current := overview.MonthlySubmissions[len(overview.MonthlySubmissions)-1]
	s.Equal(time.Now().Format("2006-01"), current.Month)
	s.EqualValues(2, current.Victim)
	s.EqualValues(1, current.Marriage)
	s.EqualValues(2, current.Approved)
}

func TestStatsServiceSuite(t *testing.T) {
	suite.Run(t, new(StatsServiceSuite))
}
