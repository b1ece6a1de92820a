package repositories

import (
	"context"
	"testing"

	"github.com/sankalpm/applybot/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_AuditLog_RoundTripsDetails(t *testing.T) {

	dbCtx := newTestDb(t)
	repo := NewAuditRepository(dbCtx.DB)
	ctx := context.Background()

	err := repo.Log(ctx, "status_change", models.EntityJob, 1,
		map[string]any{"old_status": "new", "new_status": "matched"},
		models.AuditSuccess, "")
	require.NoError(t, err)

	entries, err := repo.ByEntity(ctx, models.EntityJob, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	details := entries[0].DetailsMap()
	assert.Equal(t, "new", details["old_status"])
	assert.Equal(t, "matched", details["new_status"])
}

func Test_AuditByEntity_IsolatesEntities(t *testing.T) {

	dbCtx := newTestDb(t)
	repo := NewAuditRepository(dbCtx.DB)
	ctx := context.Background()

	require.NoError(t, repo.Log(ctx, "status_change", models.EntityJob, 1, nil, models.AuditSuccess, ""))
	require.NoError(t, repo.Log(ctx, "status_change", models.EntityJob, 2, nil, models.AuditSuccess, ""))
	require.NoError(t, repo.Log(ctx, "application_submitted", models.EntityApplication, 1, nil, models.AuditFailed, "timeout"))

	entries, err := repo.ByEntity(ctx, models.EntityJob, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.EntityJob, entries[0].EntityType)

	recent, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 3)

	failures, err := repo.ByAction(ctx, "application_submitted", 10)
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, "timeout", failures[0].ErrorMessage)
}
