package services

import (
	"context"
	"testing"
	"time"

	"sahaayak-api/internal/adapters/persistence/models"
	"sahaayak-api/internal/adapters/persistence/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRecordAndList(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuditService(repositories.NewAuditRepository(db))

	officerID := uint(7)
	svc.Record(&AuditEntry{
		Action:      models.AuditActionCreate,
		Module:      models.AuditModuleApplication,
		EntityID:    "VIC00000001",
		Description: "victim application submitted",
		PerformedBy: &officerID,
		IPAddress:   "10.0.0.1",
		Changes:     map[string]interface{}{"status": "pending"},
	})
	svc.Record(&AuditEntry{
		Action:   models.AuditActionUpdate,
		Module:   models.AuditModuleApplication,
		EntityID: "VIC00000001",
	})
	svc.Record(&AuditEntry{
		Action:   models.AuditActionCreate,
		Module:   models.AuditModuleGrievance,
		EntityID: "GRV00000001",
	})

	// Close drains the queue, so everything recorded above is persisted
	svc.Close()

	ctx := context.Background()
	entries, total, err := svc.ListByEntity(ctx, models.AuditModuleApplication, "VIC00000001", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, entries, 2)

	// Newest first
	assert.Equal(t, models.AuditActionUpdate, entries[0].Action)
	assert.Equal(t, models.AuditActionCreate, entries[1].Action)
	assert.Equal(t, "10.0.0.1", entries[1].IPAddress)
	assert.JSONEq(t, `{"status":"pending"}`, entries[1].Changes)
	require.NotNil(t, entries[1].PerformedBy)
	assert.EqualValues(t, 7, *entries[1].PerformedBy)

	all, total, err := svc.List(ctx, "", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, all, 3)

	grievanceOnly, total, err := svc.List(ctx, models.AuditModuleGrievance, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, grievanceOnly, 1)
}

func TestAuditPurgeOlderThan(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewAuditRepository(db)
	svc := NewAuditService(repo)
	defer svc.Close()

	old := &models.AuditLog{Action: models.AuditActionCreate, Module: models.AuditModuleOfficer, EntityID: "OFF1"}
	require.NoError(t, repo.Create(context.Background(), old))
	require.NoError(t, db.Model(&models.AuditLog{}).
		Where("id = ?", old.ID).
		Update("created_at", time.Now().AddDate(-2, 0, 0)).Error)

	fresh := &models.AuditLog{Action: models.AuditActionCreate, Module: models.AuditModuleOfficer, EntityID: "OFF2"}
	require.NoError(t, repo.Create(context.Background(), fresh))

	purged, err := svc.PurgeOlderThan(context.Background(), time.Now().AddDate(-1, 0, 0))
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)

	_, total, err := svc.List(context.Background(), "", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestAuditRecordAfterCloseDoesNotPanic(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuditService(repositories.NewAuditRepository(db))
	svc.Close()
	svc.Close() // idempotent

	// Buffer still accepts entries; nothing consumes them
	svc.Record(&AuditEntry{Action: models.AuditActionRead, Module: models.AuditModuleOfficer, EntityID: "x"})
}
