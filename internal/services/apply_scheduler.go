package services

import (
	"context"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/sankalpm/applybot/internal/domain/models"
	log "github.com/sirupsen/logrus"
)

// ApplyScheduler runs the batch application pipeline on a cron schedule.
type ApplyScheduler struct {
	manager *ApplicationManager
	profile *models.UserProfile
	cron    *cron.Cron
}

func NewApplyScheduler(manager *ApplicationManager, profile *models.UserProfile,
	schedule string) (*ApplyScheduler, error) {

	if schedule == "" {
		return nil, errors.New("apply schedule must not be empty")
	}

	as := &ApplyScheduler{
		manager: manager,
		profile: profile,
		cron:    cron.New(),
	}

	_, err := as.cron.AddFunc(schedule, as.runBatch)
	if err != nil {
		return nil, errors.Wrap(err, "invalid apply schedule")
	}

	as.cron.Start()
	log.Infof("apply scheduler started, schedule: %s", schedule)
	return as, nil
}

func (as *ApplyScheduler) Stop() {
	as.cron.Stop()
}

func (as *ApplyScheduler) runBatch() {
	result, err := as.manager.ApplyBatch(context.Background(), as.profile, 0)
	if err != nil {
		log.Errorf("Scheduled apply batch failed: %v", err)
		return
	}
	if result.LimitReached {
		log.Info("Scheduled apply batch stopped at the daily limit")
	}
}
