package services

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/sankalpm/applybot/internal/domain/models"
	"github.com/sankalpm/applybot/internal/repositories"
	log "github.com/sirupsen/logrus"
)

// JobsExpirer rejects jobs that sat in `new` past the expiration window,
// keeping the queue free of stale listings.
type JobsExpirer struct {
	jobs             *repositories.Jobs
	tracker          *Tracker
	cron             *cron.Cron
	expirationInDays int
}

func NewJobsExpirer(jobs *repositories.Jobs, tracker *Tracker, expirationInDays int) (*JobsExpirer, error) {

	if expirationInDays <= 0 {
		return nil, errors.New("expiration in days must be greater than zero")
	}

	je := &JobsExpirer{
		jobs:             jobs,
		tracker:          tracker,
		cron:             cron.New(),
		expirationInDays: expirationInDays,
	}

	_, err := je.cron.AddFunc("0 1 * * *", je.expireStaleJobs)
	if err != nil {
		return nil, err
	}

	je.cron.Start()
	log.Infof("jobs expirer started, expiration in days: %d", je.expirationInDays)
	return je, nil
}

func (je *JobsExpirer) Stop() {
	je.cron.Stop()
}

func (je *JobsExpirer) expireStaleJobs() {
	ctx := context.Background()
	cutoff := time.Now().Add(-time.Duration(je.expirationInDays) * 24 * time.Hour)

	stale, err := je.jobs.GetStale(ctx, models.StatusNew, cutoff)
	if err != nil {
		log.Errorf("Failed to fetch stale jobs: %v", err)
		return
	}

	expired := 0
	for _, job := range stale {
		err = je.tracker.UpdateStatus(ctx, job.ID, models.StatusRejected, "expired: listing too old")
		if err != nil {
			log.Errorf("Failed to expire job %v: %v", job.ID, err)
			continue
		}
		expired++
	}

	if expired > 0 {
		log.Infof("Stale jobs were expired at %v, affected jobs: %v", time.Now(), expired)
	}
}
