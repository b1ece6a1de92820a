package repositories

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sankalpm/applybot/internal/domain/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Quota guards the daily application limit with a durable counter.
// Reservations are conditional increments, so two concurrent batches can
// never jointly exceed the limit.
type Quota struct {
	db *gorm.DB
}

func NewQuotaRepository(db *gorm.DB) *Quota {
	return &Quota{db: db}
}

func Today() string {
	return time.Now().UTC().Format("2006-01-02")
}

// Reserve takes one slot for the given day if any remain under the limit.
func (repo *Quota) Reserve(ctx context.Context, day string, limit int) (bool, error) {

	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.DailyQuota{Day: day, Used: 0}).Error
	if err != nil {
		return false, err
	}

	res := repo.db.WithContext(ctx).Model(&models.DailyQuota{}).
		Where("day = ? AND used < ?", day, limit).
		Update("used", gorm.Expr("used + 1"))

	return res.RowsAffected == 1, res.Error
}

// Release returns a slot reserved for a dispatch that then failed.
func (repo *Quota) Release(ctx context.Context, day string) error {
	return repo.db.WithContext(ctx).Model(&models.DailyQuota{}).
		Where("day = ? AND used > 0", day).
		Update("used", gorm.Expr("used - 1")).Error
}

func (repo *Quota) Used(ctx context.Context, day string) (int, error) {
	var quota models.DailyQuota
	err := repo.db.WithContext(ctx).First(&quota, "day = ?", day).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return quota.Used, nil
}
