package services

import (
	"context"
	"log"
	"time"

	"sahaayak-api/internal/adapters/persistence/repositories"
	"sahaayak-api/internal/config"
	"sahaayak-api/internal/core/domain"

	"github.com/robfig/cron/v3"
)

// CronService owns the scheduled maintenance jobs: expired refresh token
// cleanup, audit log retention and the daily review backlog summary.
type CronService struct {
	cron             *cron.Cron
	cfg              *config.Config
	appRepo          *repositories.ApplicationRepository
	refreshTokenRepo *repositories.RefreshTokenRepository
	auditService     *AuditService
}

// NewCronService creates a new cron service
func NewCronService(
	cfg *config.Config,
	appRepo *repositories.ApplicationRepository,
	refreshTokenRepo *repositories.RefreshTokenRepository,
	auditService *AuditService,
) *CronService {
	return &CronService{
		cron:             cron.New(),
		cfg:              cfg,
		appRepo:          appRepo,
		refreshTokenRepo: refreshTokenRepo,
		auditService:     auditService,
	}
}

// Start registers and starts all scheduled jobs
func (s *CronService) Start() error {
	// Nightly at 02:00: purge expired refresh tokens
	if _, err := s.cron.AddFunc("0 2 * * *", s.purgeExpiredTokens); err != nil {
		return err
	}

	// Nightly at 02:30: enforce audit retention
	if _, err := s.cron.AddFunc("30 2 * * *", s.purgeOldAuditLogs); err != nil {
		return err
	}

	// Daily at 08:00: log the review backlog
	if _, err := s.cron.AddFunc("0 8 * * *", s.logBacklogSummary); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("✅ Scheduled jobs started")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *CronService) purgeExpiredTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	deleted, err := s.refreshTokenRepo.DeleteExpired(ctx)
	if err != nil {
		log.Printf("❌ Refresh token cleanup failed: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("✅ Purged %d expired refresh tokens", deleted)
	}
}

func (s *CronService) purgeOldAuditLogs() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cutoff := time.Now().AddDate(0, 0, -s.cfg.Audit.RetentionDays)
	deleted, err := s.auditService.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		log.Printf("❌ Audit log retention failed: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("✅ Purged %d audit entries older than %d days", deleted, s.cfg.Audit.RetentionDays)
	}
}

// backlogThreshold marks an application as stale when it sits untouched in
// pending or under_review this long
const backlogThreshold = 7 * 24 * time.Hour

func (s *CronService) logBacklogSummary() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	before := time.Now().Add(-backlogThreshold)
	for _, status := range []domain.Status{domain.StatusPending, domain.StatusUnderReview} {
		stale, err := s.appRepo.ListStaleInStatus(ctx, string(status), before)
		if err != nil {
			log.Printf("❌ Backlog summary failed for %s: %v", status, err)
			continue
		}
		if len(stale) == 0 {
			continue
		}
		log.Printf("⚠️ %d applications stuck in %s for over 7 days (oldest: %s)",
			len(stale), status, stale[0].TrackingCode)
	}
}
