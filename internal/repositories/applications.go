package repositories

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sankalpm/applybot/internal/domain/models"
	"gorm.io/gorm"
)

var ErrApplicationNotFound = errors.New("application not found")

type Applications struct {
	db *gorm.DB
}

func NewApplicationsRepository(db *gorm.DB) *Applications {
	return &Applications{db: db}
}

func (repo *Applications) Add(ctx context.Context, application *models.Application) error {
	return repo.db.WithContext(ctx).Create(application).Error
}

func (repo *Applications) GetByID(ctx context.Context, id int) (*models.Application, error) {
	var application models.Application
	err := repo.db.WithContext(ctx).First(&application, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &application, nil
}

func (repo *Applications) GetByJob(ctx context.Context, jobID int) ([]models.Application, error) {
	var applications []models.Application
	err := repo.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&applications, "job_id = ?", jobID).Error
	return applications, err
}

func (repo *Applications) CountSubmittedSince(ctx context.Context, cutoff time.Time) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&models.Application{}).
		Where("status = ? AND applied_at >= ?", models.ApplicationSubmitted, cutoff).
		Count(&count).Error
	return count, err
}

// RecordResponse appends a later employer response to a past attempt.
// Terminal submission fields are left untouched.
func (repo *Applications) RecordResponse(ctx context.Context, id int,
	status models.ApplicationStatus, note string) error {

	res := repo.db.WithContext(ctx).Model(&models.Application{}).Where("id = ?", id).
		Updates(map[string]any{
			"status":            status,
			"response_received": true,
			"response_at":       time.Now().UTC(),
			"notes":             note,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}
