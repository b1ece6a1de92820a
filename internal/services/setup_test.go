package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sankalpm/applybot/internal/domain/models"
	"github.com/sankalpm/applybot/internal/repositories"
	"github.com/stretchr/testify/require"
)

func newTestDb(t *testing.T) *repositories.DbContext {
	t.Helper()

	dbCtx, err := repositories.NewDbContext(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, dbCtx.Migrate())

	t.Cleanup(func() { _ = dbCtx.Close() })
	return dbCtx
}

func addJob(t *testing.T, dbCtx *repositories.DbContext, job *models.Job) *models.Job {
	t.Helper()

	repo := repositories.NewJobsRepository(dbCtx.DB)
	require.NoError(t, repo.Upsert(context.Background(), job))
	return job
}

func testProfile() *models.UserProfile {
	return &models.UserProfile{
		Name: "Jane Candidate",
		Skills: models.ProfileSkills{
			Programming: []string{"Python", "Go"},
			Tools:       []string{"Docker"},
		},
		Preferences: models.ProfilePreferences{
			Roles:           []string{"software engineer"},
			WorkModes:       []string{"remote"},
			EmploymentTypes: []string{"full-time"},
		},
	}
}

func matchingJob(url string) *models.Job {
	return &models.Job{
		Title:       "Software Engineer",
		Company:     "Acme",
		URL:         url,
		Platform:    "linkedin",
		Description: "Build services in Go and Python, ship with Docker.",
		WorkMode:    "remote",
		JobType:     "full-time",
	}
}

func unrelatedJob(url string) *models.Job {
	return &models.Job{
		Title:       "Staff Accountant",
		Company:     "Ledger Co",
		URL:         url,
		Platform:    "indeed",
		Description: "Monthly close and reconciliations.",
		WorkMode:    "onsite",
		JobType:     "part-time",
	}
}
