package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/sankalpm/applybot/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJob(url string) *models.Job {
	return &models.Job{
		Title:    "Backend Engineer",
		Company:  "Acme",
		URL:      url,
		Platform: "linkedin",
	}
}

func Test_Upsert_DeduplicatesOnUrl(t *testing.T) {

	dbCtx := newTestDb(t)
	repo := NewJobsRepository(dbCtx.DB)
	ctx := context.Background()

	job := testJob("https://example.com/jobs/1")
	require.NoError(t, repo.Upsert(ctx, job))

	err := dbCtx.DB.Model(&models.Job{}).Where("id = ?", job.ID).
		Update("status", models.StatusApproved).Error
	require.NoError(t, err)

	rescraped := testJob("https://example.com/jobs/1")
	rescraped.Title = "Senior Backend Engineer"
	require.NoError(t, repo.Upsert(ctx, rescraped))

	var count int64
	require.NoError(t, dbCtx.DB.Model(&models.Job{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	stored, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "Senior Backend Engineer", stored.Title)
	assert.Equal(t, models.StatusApproved, stored.Status) // workflow state survives a rescrape
}

func Test_Upsert_PreservesSkillLists(t *testing.T) {

	dbCtx := newTestDb(t)
	repo := NewJobsRepository(dbCtx.DB)
	ctx := context.Background()

	job := testJob("https://example.com/jobs/2")
	job.SetSkills([]string{"Python", "Go", "SQL"})
	require.NoError(t, repo.Upsert(ctx, job))

	stored, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Python", "Go", "SQL"}, stored.SkillsList())
}

func Test_GetByID_ReturnsTypedError(t *testing.T) {

	dbCtx := newTestDb(t)
	repo := NewJobsRepository(dbCtx.DB)

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func Test_UpdateScore_PersistsSkillDiff(t *testing.T) {

	dbCtx := newTestDb(t)
	repo := NewJobsRepository(dbCtx.DB)
	ctx := context.Background()

	job := testJob("https://example.com/jobs/4")
	require.NoError(t, repo.Upsert(ctx, job))

	matched := models.Job{}
	matched.SetMatchedSkills([]string{"Go"})
	missing := models.Job{}
	missing.SetMissingSkills([]string{"Kubernetes"})

	err := repo.UpdateScore(ctx, job.ID, 71.5, 0.8, matched.MatchedSkills, missing.MissingSkills)
	require.NoError(t, err)

	stored, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 71.5, stored.MatchScore)
	assert.Equal(t, 0.8, stored.SemanticScore)
	assert.Equal(t, []string{"Go"}, stored.MatchedSkillsList())
	assert.Equal(t, []string{"Kubernetes"}, stored.MissingSkillsList())
}

func Test_GetStale_ReturnsOnlyOldJobsInStatus(t *testing.T) {

	dbCtx := newTestDb(t)
	repo := NewJobsRepository(dbCtx.DB)
	ctx := context.Background()

	old := testJob("https://example.com/jobs/5")
	old.ScrapedAt = time.Now().UTC().AddDate(0, 0, -40)
	require.NoError(t, repo.Upsert(ctx, old))

	fresh := testJob("https://example.com/jobs/6")
	require.NoError(t, repo.Upsert(ctx, fresh))

	oldApplied := testJob("https://example.com/jobs/7")
	oldApplied.ScrapedAt = time.Now().UTC().AddDate(0, 0, -40)
	oldApplied.Status = models.StatusApplied
	require.NoError(t, repo.Upsert(ctx, oldApplied))

	stale, err := repo.GetStale(ctx, models.StatusNew, time.Now().UTC().AddDate(0, 0, -30))
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, old.URL, stale[0].URL)
}

func Test_Search_AppliesFilters(t *testing.T) {

	dbCtx := newTestDb(t)
	repo := NewJobsRepository(dbCtx.DB)
	ctx := context.Background()

	scored := testJob("https://example.com/jobs/8")
	scored.Title = "Go Developer"
	scored.MatchScore = 80
	require.NoError(t, repo.Upsert(ctx, scored))

	unscored := testJob("https://example.com/jobs/9")
	unscored.Title = "Go Developer"
	require.NoError(t, repo.Upsert(ctx, unscored))

	minScore := 50.0
	found, err := repo.Search(ctx, SearchFilters{Query: "Go", MinScore: &minScore})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, scored.URL, found[0].URL)

	found, err = repo.Search(ctx, SearchFilters{Platform: "indeed"})
	require.NoError(t, err)
	assert.Empty(t, found)
}
