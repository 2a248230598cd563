package services

import (
	"context"
	"sort"
	"time"

	"sahaayak-api/internal/adapters/persistence/repositories"
	"sahaayak-api/internal/core/domain"
)

// StatsService aggregates public programme statistics
type StatsService struct {
	appRepo       *repositories.ApplicationRepository
	identityRepo  *repositories.IdentityRepository
	grievanceRepo *repositories.GrievanceRepository
}

// NewStatsService creates a new stats service
func NewStatsService(
	appRepo *repositories.ApplicationRepository,
	identityRepo *repositories.IdentityRepository,
	grievanceRepo *repositories.GrievanceRepository,
) *StatsService {
	return &StatsService{
		appRepo:       appRepo,
		identityRepo:  identityRepo,
		grievanceRepo: grievanceRepo,
	}
}

// StatusStats is one status group of an application variant
type StatusStats struct {
	Count       int64 `json:"count"`
	SumOfAmount int64 `json:"sumOfAmount"`
}

// TypeStats summarizes one application variant
type TypeStats struct {
	Total         int64                  `json:"total"`
	ByStatus      map[string]StatusStats `json:"byStatus"`
	SanctionedSum int64                  `json:"sanctionedAmount"`
	DisbursedSum  int64                  `json:"disbursedAmount"`
}

// MonthlyBucket is one month of submission counts plus how many of that
// month's applications have reached approval
type MonthlyBucket struct {
	Month    string `json:"month"`
	Victim   int64  `json:"victim"`
	Marriage int64  `json:"marriage"`
	Approved int64  `json:"approved"`
}

// Overview is the public statistics payload
type Overview struct {
	Victim             TypeStats        `json:"victimCompensation"`
	Marriage           TypeStats        `json:"marriageIncentive"`
	RegisteredCitizens int64            `json:"registeredCitizens"`
	GrievancesByStatus map[string]int64 `json:"grievancesByStatus"`
	MonthlySubmissions []MonthlyBucket  `json:"monthlySubmissions"`
	GeneratedAt        time.Time        `json:"generatedAt"`
}

// trendWindowMonths is the span of the monthly submissions chart
const trendWindowMonths = 6

// GetOverview builds the aggregate statistics view. Status counts come from
// a single grouped query; monthly buckets are computed in Go so the query
// stays portable across MySQL and the sqlite test driver.
func (s *StatsService) GetOverview(ctx context.Context) (*Overview, error) {
	rows, err := s.appRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	overview := &Overview{
		Victim:   TypeStats{ByStatus: map[string]StatusStats{}},
		Marriage: TypeStats{ByStatus: map[string]StatusStats{}},
	}

	for _, row := range rows {
		stats := &overview.Victim
		if row.ApplicationType == string(domain.TypeMarriage) {
			stats = &overview.Marriage
		}
		stats.Total += row.Count
		group := stats.ByStatus[row.Status]
		group.Count += row.Count
		group.SumOfAmount += row.TotalAmount
		stats.ByStatus[row.Status] = group
		// Sanctioned money is what has passed approval
		if row.Status == string(domain.StatusApproved) || row.Status == string(domain.StatusDisbursed) {
			stats.SanctionedSum += row.TotalAmount
		}
	}

	disbursed, err := s.appRepo.SumDisbursed(ctx)
	if err != nil {
		return nil, err
	}
	overview.Victim.DisbursedSum = disbursed[string(domain.TypeVictim)]
	overview.Marriage.DisbursedSum = disbursed[string(domain.TypeMarriage)]

	citizens, err := s.identityRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	overview.RegisteredCitizens = citizens

	grievances, err := s.grievanceRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	overview.GrievancesByStatus = grievances

	buckets, err := s.monthlyBuckets(ctx)
	if err != nil {
		return nil, err
	}
	overview.MonthlySubmissions = buckets

	overview.GeneratedAt = time.Now()
	return overview, nil
}

func (s *StatsService) monthlyBuckets(ctx context.Context) ([]MonthlyBucket, error) {
	now := time.Now()
	since := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
		AddDate(0, -(trendWindowMonths - 1), 0)

	apps, err := s.appRepo.CreatedSince(ctx, since)
	if err != nil {
		return nil, err
	}

	byMonth := map[string]*MonthlyBucket{}
	for i := 0; i < trendWindowMonths; i++ {
		month := since.AddDate(0, i, 0).Format("2006-01")
		byMonth[month] = &MonthlyBucket{Month: month}
	}

	for _, app := range apps {
		month := app.CreatedAt.Format("2006-01")
		bucket, ok := byMonth[month]
		if !ok {
			continue
		}
		if app.ApplicationType == string(domain.TypeMarriage) {
			bucket.Marriage++
		} else {
			bucket.Victim++
		}
		// Disbursed applications were approved first
		if app.Status == string(domain.StatusApproved) || app.Status == string(domain.StatusDisbursed) {
			bucket.Approved++
		}
	}

	buckets := make([]MonthlyBucket, 0, len(byMonth))
	for _, bucket := range byMonth {
		buckets = append(buckets, *bucket)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Month < buckets[j].Month
	})
	return buckets, nil
}
