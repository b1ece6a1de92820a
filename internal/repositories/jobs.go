package repositories

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sankalpm/applybot/internal/domain/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrJobNotFound = errors.New("job not found")

type Jobs struct {
	db *gorm.DB
}

func NewJobsRepository(db *gorm.DB) *Jobs {
	return &Jobs{db: db}
}

// Upsert stores a scraped job, deduplicating on URL. An existing row keeps
// its workflow fields and only refreshes descriptive ones.
func (repo *Jobs) Upsert(ctx context.Context, job *models.Job) error {
	return repo.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "url"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "company", "location", "description", "requirements",
			"job_type", "work_mode", "salary_min", "salary_max",
			"salary_currency", "is_easy_apply", "posted_date", "skills",
		}),
	}).Create(job).Error
}

func (repo *Jobs) GetByID(ctx context.Context, id int) (*models.Job, error) {
	var job models.Job
	err := repo.db.WithContext(ctx).First(&job, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (repo *Jobs) GetByStatus(ctx context.Context, status models.Status) ([]models.Job, error) {
	var jobs []models.Job
	if err := repo.db.WithContext(ctx).Find(&jobs, "status = ?", status).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// UpdateScore persists a fresh match score along with the skill diff.
func (repo *Jobs) UpdateScore(ctx context.Context, id int, score, semanticScore float64,
	matched, missing string) error {

	return repo.db.WithContext(ctx).Model(&models.Job{}).Where("id = ?", id).
		Updates(map[string]any{
			"match_score":    score,
			"semantic_score": semanticScore,
			"matched_skills": matched,
			"missing_skills": missing,
			"updated_at":     time.Now().UTC(),
		}).Error
}

func (repo *Jobs) CountByStatus(ctx context.Context) (map[models.Status]int64, error) {
	var rows []struct {
		Status models.Status
		Count  int64
	}
	err := repo.db.WithContext(ctx).Model(&models.Job{}).
		Select("status, count(id) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.Status]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (repo *Jobs) CountByPlatform(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Platform string
		Count    int64
	}
	err := repo.db.WithContext(ctx).Model(&models.Job{}).
		Select("platform, count(id) as count").
		Group("platform").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Platform] = row.Count
	}
	return counts, nil
}

func (repo *Jobs) CountAppliedSince(ctx context.Context, cutoff time.Time) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&models.Job{}).
		Where("status = ? AND applied_at >= ?", models.StatusApplied, cutoff).
		Count(&count).Error
	return count, err
}

func (repo *Jobs) CountWithStatuses(ctx context.Context, statuses []models.Status) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&models.Job{}).
		Where("status IN ?", statuses).
		Count(&count).Error
	return count, err
}

func (repo *Jobs) AverageMatchScore(ctx context.Context) (float64, error) {
	var avg *float64
	err := repo.db.WithContext(ctx).Model(&models.Job{}).
		Select("avg(match_score)").
		Where("match_score > 0").
		Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}

// GetStale returns jobs stuck in the given status since before the cutoff.
func (repo *Jobs) GetStale(ctx context.Context, status models.Status, cutoff time.Time) ([]models.Job, error) {
	var jobs []models.Job
	err := repo.db.WithContext(ctx).
		Where("status = ? AND scraped_at < ?", status, cutoff).
		Find(&jobs).Error
	return jobs, err
}

type SearchFilters struct {
	Query    string
	Status   models.Status
	Platform string
	MinScore *float64
	Limit    int
}

func (repo *Jobs) Search(ctx context.Context, filters SearchFilters) ([]models.Job, error) {
	q := repo.db.WithContext(ctx).Model(&models.Job{})

	if filters.Query != "" {
		term := "%" + filters.Query + "%"
		q = q.Where("title LIKE ? OR company LIKE ?", term, term)
	}
	if filters.Status != "" {
		q = q.Where("status = ?", filters.Status)
	}
	if filters.Platform != "" {
		q = q.Where("platform = ?", filters.Platform)
	}
	if filters.MinScore != nil {
		q = q.Where("match_score >= ?", *filters.MinScore)
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}

	var jobs []models.Job
	err := q.Order("updated_at DESC").Limit(limit).Find(&jobs).Error
	return jobs, err
}

// PendingApprovals lists matched, not-yet-approved jobs, best score first.
func (repo *Jobs) PendingApprovals(ctx context.Context, limit int) ([]models.Job, error) {
	var jobs []models.Job
	err := repo.db.WithContext(ctx).
		Where("status = ? AND is_approved = ? AND match_score > 0", models.StatusMatched, false).
		Order("match_score DESC").
		Limit(limit).
		Find(&jobs).Error
	return jobs, err
}
