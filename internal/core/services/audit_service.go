package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"sahaayak-api/internal/adapters/persistence/models"
	"sahaayak-api/internal/adapters/persistence/repositories"
)

// AuditEntry is one recordable audit event
type AuditEntry struct {
	Action      string
	Module      string
	EntityID    string
	Description string
	PerformedBy *uint
	IPAddress   string
	UserAgent   string
	Changes     interface{}
}

// AuditService persists audit events asynchronously. Record never blocks the
// request path: entries go through a buffered channel to a single writer
// goroutine, and a full buffer drops the entry with a warning rather than
// stalling the caller.
type AuditService struct {
	repo    *repositories.AuditRepository
	entries chan *models.AuditLog
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

const auditBufferSize = 256

// NewAuditService creates a new audit service and starts its writer
func NewAuditService(repo *repositories.AuditRepository) *AuditService {
	s := &AuditService{
		repo:    repo,
		entries: make(chan *models.AuditLog, auditBufferSize),
		done:    make(chan struct{}),
	}

	s.wg.Add(1)
	go s.run()

	return s
}

func (s *AuditService) run() {
	defer s.wg.Done()
	for {
		select {
		case entry := <-s.entries:
			s.write(entry)
		case <-s.done:
			// Drain whatever is already queued before exiting
			for {
				select {
				case entry := <-s.entries:
					s.write(entry)
				default:
					return
				}
			}
		}
	}
}

func (s *AuditService) write(entry *models.AuditLog) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.repo.Create(ctx, entry); err != nil {
		log.Printf("❌ Audit write failed (%s/%s): %v", entry.Module, entry.EntityID, err)
	}
}

// Record queues an audit entry without blocking
func (s *AuditService) Record(entry *AuditEntry) {
	row := &models.AuditLog{
		Action:      entry.Action,
		Module:      entry.Module,
		EntityID:    entry.EntityID,
		Description: entry.Description,
		PerformedBy: entry.PerformedBy,
		IPAddress:   entry.IPAddress,
		UserAgent:   entry.UserAgent,
	}

	if entry.Changes != nil {
		if data, err := json.Marshal(entry.Changes); err == nil {
			row.Changes = string(data)
		}
	}

	select {
	case s.entries <- row:
	default:
		log.Printf("⚠️ Audit buffer full, dropping entry %s/%s", entry.Module, entry.EntityID)
	}
}

// List lists recent audit entries
func (s *AuditService) List(ctx context.Context, module string, offset, limit int) ([]*models.AuditLog, int64, error) {
	return s.repo.List(ctx, module, offset, limit)
}

// ListByEntity lists audit entries for one entity
func (s *AuditService) ListByEntity(ctx context.Context, module, entityID string, offset, limit int) ([]*models.AuditLog, int64, error) {
	return s.repo.ListByEntity(ctx, module, entityID, offset, limit)
}

// PurgeOlderThan removes entries past the retention window
func (s *AuditService) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.repo.DeleteOlderThan(ctx, cutoff)
}

// Close stops the writer after draining queued entries
func (s *AuditService) Close() {
	s.once.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
}
