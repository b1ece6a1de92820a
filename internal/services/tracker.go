package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"github.com/sankalpm/applybot/internal/domain/models"
	"github.com/sankalpm/applybot/internal/events"
	"github.com/sankalpm/applybot/internal/logger"
	"github.com/sankalpm/applybot/internal/repositories"
	"github.com/sankalpm/applybot/internal/workflow"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Tracker owns every status change a job goes through. A change and its
// audit entry commit as one transaction; nothing else in the module writes
// job statuses directly.
type Tracker struct {
	db    *gorm.DB
	jobs  *repositories.Jobs
	audit *repositories.Audit
	bus   EventBus.Bus
	mode  workflow.Mode
}

func NewTracker(db *gorm.DB, jobs *repositories.Jobs, audit *repositories.Audit,
	bus EventBus.Bus, mode workflow.Mode) *Tracker {

	return &Tracker{db: db, jobs: jobs, audit: audit, bus: bus, mode: mode}
}

// UpdateStatus applies a transition, refreshes lifecycle timestamps and
// writes exactly one audit entry, all atomically. Permissive mode flags an
// illegal transition with a warning entry but commits it anyway; strict
// mode returns ErrInvalidTransition and commits nothing.
func (t *Tracker) UpdateStatus(ctx context.Context, jobID int, newStatus models.Status, notes string) error {

	if !workflow.IsValid(newStatus) {
		return fmt.Errorf("unknown status: %s", newStatus)
	}

	var oldStatus models.Status

	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var job models.Job
		if err := tx.First(&job, "id = ?", jobID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repositories.ErrJobNotFound
			}
			return err
		}

		oldStatus = job.Status
		allowed, err := workflow.Check(t.mode, oldStatus, newStatus)
		if err != nil {
			return err
		}
		if !allowed {
			log.Warnf("invalid status transition for job %v: %s -> %s", jobID, oldStatus, newStatus)
		}

		now := time.Now().UTC()
		job.Status = newStatus
		job.UpdatedAt = now

		switch newStatus {
		case models.StatusMatched:
			job.MatchedAt = &now
		case models.StatusApproved:
			job.ApprovedAt = &now
			job.IsApproved = true
		case models.StatusApplied:
			job.AppliedAt = &now
		case models.StatusRejected:
			job.IsApproved = false
		}

		if notes != "" {
			if job.ApprovalNotes != "" {
				job.ApprovalNotes += "\n"
			}
			job.ApprovalNotes += notes
		}

		if err := tx.Save(&job).Error; err != nil {
			return err
		}

		entry := models.AuditEntry{
			Action:     "status_change",
			EntityType: models.EntityJob,
			EntityID:   jobID,
			Status:     models.AuditSuccess,
		}
		if !allowed {
			entry.Status = models.AuditWarning
			entry.ErrorMessage = fmt.Sprintf("transition %s -> %s not in workflow graph", oldStatus, newStatus)
		}
		entry.SetDetails(map[string]any{
			"old_status": string(oldStatus),
			"new_status": string(newStatus),
			"notes":      notes,
		})

		return tx.Create(&entry).Error
	})

	if err != nil {
		return err
	}

	log.Infof("job %v status: %s -> %s", jobID, oldStatus, newStatus)

	if t.bus != nil {
		t.bus.Publish(events.StatusChangedTopic, events.StatusChanged{
			JobID:     jobID,
			OldStatus: string(oldStatus),
			NewStatus: string(newStatus),
			Notes:     notes,
		})
	}

	return nil
}

// ClaimForApply atomically moves a job from `new` to `approved`, writing
// the audit entry in the same transaction. The conditional update closes
// the check-then-apply race: when another worker already claimed the job
// (or its status moved on) no row matches, nothing commits, and the call
// returns false.
func (t *Tracker) ClaimForApply(ctx context.Context, jobID int, notes string) (bool, error) {

	claimed := false

	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		now := time.Now().UTC()
		res := tx.Model(&models.Job{}).
			Where("id = ? AND status = ?", jobID, models.StatusNew).
			Updates(map[string]any{
				"status":      models.StatusApproved,
				"is_approved": true,
				"approved_at": now,
				"updated_at":  now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return nil
		}
		claimed = true

		entry := models.AuditEntry{
			Action:     "status_change",
			EntityType: models.EntityJob,
			EntityID:   jobID,
			Status:     models.AuditSuccess,
		}
		entry.SetDetails(map[string]any{
			"old_status": string(models.StatusNew),
			"new_status": string(models.StatusApproved),
			"notes":      notes,
		})

		return tx.Create(&entry).Error
	})

	if err != nil || !claimed {
		return false, err
	}

	log.Infof("job %v status: %s -> %s", jobID, models.StatusNew, models.StatusApproved)

	if t.bus != nil {
		t.bus.Publish(events.StatusChangedTopic, events.StatusChanged{
			JobID:     jobID,
			OldStatus: string(models.StatusNew),
			NewStatus: string(models.StatusApproved),
			Notes:     notes,
		})
	}

	return true, nil
}

// History returns the status-change trail for one job, newest first.
func (t *Tracker) History(ctx context.Context, jobID int) ([]models.AuditEntry, error) {
	return t.audit.ByEntity(ctx, models.EntityJob, jobID)
}

type Activity struct {
	Entry    models.AuditEntry
	JobTitle string
	Company  string
}

func (t *Tracker) RecentActivity(ctx context.Context, limit int) ([]Activity, error) {
	entries, err := t.audit.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}

	activities := make([]Activity, 0, len(entries))
	for _, entry := range entries {
		activity := Activity{Entry: entry}
		if entry.EntityType == models.EntityJob && entry.EntityID != 0 {
			if job, err := t.jobs.GetByID(ctx, entry.EntityID); err == nil {
				activity.JobTitle = job.Title
				activity.Company = job.Company
			}
		}
		activities = append(activities, activity)
	}

	return activities, nil
}

func (t *Tracker) AppliedToday(ctx context.Context) (int64, error) {
	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return t.jobs.CountAppliedSince(ctx, dayStart)
}

type Stats struct {
	StatusCounts      map[models.Status]int64
	RecentApplied     int64
	TotalApplied      int64
	InterviewCount    int64
	OfferCount        int64
	InterviewRate     float64
	OfferRate         float64
	PlatformCounts    map[string]int64
	AverageMatchScore float64
	PeriodDays        int
}

func (t *Tracker) Stats(ctx context.Context, days int) (*Stats, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	statusCounts, err := t.jobs.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	recentApplied, err := t.jobs.CountAppliedSince(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	totalApplied, err := t.jobs.CountWithStatuses(ctx, []models.Status{
		models.StatusApplied, models.StatusInterview, models.StatusOffer, models.StatusRejected,
	})
	if err != nil {
		return nil, err
	}

	interviewCount, err := t.jobs.CountWithStatuses(ctx, []models.Status{
		models.StatusInterview, models.StatusOffer,
	})
	if err != nil {
		return nil, err
	}

	offerCount, err := t.jobs.CountWithStatuses(ctx, []models.Status{models.StatusOffer})
	if err != nil {
		return nil, err
	}

	platformCounts, err := t.jobs.CountByPlatform(ctx)
	if err != nil {
		return nil, err
	}

	avgScore, err := t.jobs.AverageMatchScore(ctx)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to get average match score: %v", err)
	}

	stats := &Stats{
		StatusCounts:      statusCounts,
		RecentApplied:     recentApplied,
		TotalApplied:      totalApplied,
		InterviewCount:    interviewCount,
		OfferCount:        offerCount,
		PlatformCounts:    platformCounts,
		AverageMatchScore: math.Round(avgScore*10) / 10,
		PeriodDays:        days,
	}
	if totalApplied > 0 {
		stats.InterviewRate = float64(interviewCount) / float64(totalApplied) * 100
		stats.OfferRate = float64(offerCount) / float64(totalApplied) * 100
	}

	return stats, nil
}

func (t *Tracker) PendingApprovals(ctx context.Context, limit int) ([]models.Job, error) {
	return t.jobs.PendingApprovals(ctx, limit)
}

func (t *Tracker) Search(ctx context.Context, filters repositories.SearchFilters) ([]models.Job, error) {
	return t.jobs.Search(ctx, filters)
}

type Dashboard struct {
	Stats            *Stats
	PendingApprovals int
	AppliedToday     int64
	RecentActivity   []Activity
	GeneratedAt      time.Time
}

func (t *Tracker) Dashboard(ctx context.Context) (*Dashboard, error) {
	stats, err := t.Stats(ctx, 30)
	if err != nil {
		return nil, err
	}

	pending, err := t.jobs.PendingApprovals(ctx, 100)
	if err != nil {
		return nil, err
	}

	appliedToday, err := t.AppliedToday(ctx)
	if err != nil {
		return nil, err
	}

	activity, err := t.RecentActivity(ctx, 10)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Stats:            stats,
		PendingApprovals: len(pending),
		AppliedToday:     appliedToday,
		RecentActivity:   activity,
		GeneratedAt:      time.Now().UTC(),
	}, nil
}
