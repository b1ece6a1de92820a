package repositories

import (
	"context"

	"github.com/sankalpm/applybot/internal/domain/models"
	"gorm.io/gorm"
)

// Audit appends workflow events. There is deliberately no update or delete
// here; the log is immutable once written.
type Audit struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *Audit {
	return &Audit{db: db}
}

func (repo *Audit) Log(ctx context.Context, action, entityType string, entityID int,
	details map[string]any, status models.AuditStatus, errorMessage string) error {

	entry := models.AuditEntry{
		Action:       action,
		EntityType:   entityType,
		EntityID:     entityID,
		Status:       status,
		ErrorMessage: errorMessage,
	}
	entry.SetDetails(details)

	return repo.db.WithContext(ctx).Create(&entry).Error
}

// ByEntity returns the history of one entity, newest first.
func (repo *Audit) ByEntity(ctx context.Context, entityType string, entityID int) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	err := repo.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

// Recent returns the activity feed, newest first.
func (repo *Audit) Recent(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	err := repo.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (repo *Audit) ByAction(ctx context.Context, action string, limit int) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	err := repo.db.WithContext(ctx).
		Where("action = ?", action).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
