package services

import (
	"context"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/sankalpm/applybot/internal/domain/models"
	"github.com/sankalpm/applybot/internal/events"
	"github.com/sankalpm/applybot/internal/logger"
	"github.com/sankalpm/applybot/internal/matching"
	"github.com/sankalpm/applybot/internal/metrics"
	"github.com/sankalpm/applybot/internal/repositories"
	log "github.com/sirupsen/logrus"
)

// Materials is what the apply collaborator receives alongside the job.
type Materials struct {
	CoverLetter string
	ResumePath  string
}

// DispatchResult is the collaborator's verdict on one submission attempt.
type DispatchResult struct {
	Success bool
	Method  models.ApplicationMethod
	Message string
}

// Dispatcher physically submits an application. Implementations live
// outside this core (browser automation, email, dry run).
type Dispatcher interface {
	Apply(ctx context.Context, job *models.Job, profile *models.UserProfile, materials Materials) (DispatchResult, error)
}

// BatchResult summarizes one apply run. A zero-quota run reports
// LimitReached with all counters at zero.
type BatchResult struct {
	Submitted    int
	Failed       int
	Skipped      int
	LimitReached bool
}

// PreparedApplication carries materials for review before submission.
type PreparedApplication struct {
	Job         *models.Job
	CoverLetter string
	MatchScore  float64
}

// ApplicationManager orchestrates scoring, ranking, queueing and dispatch.
// Quota slots are reserved atomically per submission and job claims are
// conditional updates, so concurrent batches neither exceed the daily
// limit nor double-apply to one job.
type ApplicationManager struct {
	jobs         *repositories.Jobs
	applications *repositories.Applications
	quota        *repositories.Quota
	audit        *repositories.Audit
	matcher      *Matcher
	ranker       *matching.Ranker
	tracker      *Tracker
	coverLetters *CoverLetters
	dispatcher   Dispatcher
	bus          EventBus.Bus

	autoApplyMinScore float64
	dailyLimit        int
}

func NewApplicationManager(jobs *repositories.Jobs, applications *repositories.Applications,
	quota *repositories.Quota, audit *repositories.Audit, matcher *Matcher, ranker *matching.Ranker,
	tracker *Tracker, coverLetters *CoverLetters, dispatcher Dispatcher, bus EventBus.Bus,
	autoApplyMinScore float64, dailyLimit int) *ApplicationManager {

	return &ApplicationManager{
		jobs:              jobs,
		applications:      applications,
		quota:             quota,
		audit:             audit,
		matcher:           matcher,
		ranker:            ranker,
		tracker:           tracker,
		coverLetters:      coverLetters,
		dispatcher:        dispatcher,
		bus:               bus,
		autoApplyMinScore: autoApplyMinScore,
		dailyLimit:        dailyLimit,
	}
}

// PendingApplications returns the ranked, quota-bounded queue of jobs
// ready for application.
func (m *ApplicationManager) PendingApplications(ctx context.Context,
	profile *models.UserProfile) ([]matching.RankedJob, error) {

	scored, err := m.matcher.MatchAllJobs(ctx, profile)
	if err != nil {
		return nil, err
	}

	var qualified []matching.RankedJob
	for i := range scored {
		if scored[i].Score < m.autoApplyMinScore {
			continue
		}
		qualified = append(qualified, matching.RankedJob{
			Job:   &scored[i].Job,
			Score: scored[i].Score,
		})
	}

	ranked := m.ranker.Rank(qualified)

	used, err := m.quota.Used(ctx, repositories.Today())
	if err != nil {
		return nil, err
	}

	return matching.BuildQueue(ranked, m.dailyLimit, used), nil
}

// ApplyBatch applies to up to `limit` queued jobs (daily limit when zero).
// A single job's failure never aborts the rest of the run.
func (m *ApplicationManager) ApplyBatch(ctx context.Context, profile *models.UserProfile,
	limit int) (BatchResult, error) {

	if limit <= 0 || limit > m.dailyLimit {
		limit = m.dailyLimit
	}

	result := BatchResult{}
	today := repositories.Today()

	used, err := m.quota.Used(ctx, today)
	if err != nil {
		return result, err
	}
	if limit-used <= 0 {
		log.Info("daily application limit reached")
		result.LimitReached = true
		return result, nil
	}

	queue, err := m.PendingApplications(ctx, profile)
	if err != nil {
		return result, err
	}

	for _, item := range queue {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		reserved, err := m.quota.Reserve(ctx, today, limit)
		if err != nil {
			return result, err
		}
		if !reserved {
			result.LimitReached = true
			break
		}

		switch m.applyToClaimed(ctx, item.Job, profile) {
		case applySubmitted:
			result.Submitted++
		case applyFailed:
			result.Failed++
			m.releaseQuota(ctx, today)
		case applySkipped:
			result.Skipped++
			m.releaseQuota(ctx, today)
		}
	}

	log.Infof("batch application complete: %+v", result)
	return result, nil
}

type applyOutcome int

const (
	applySubmitted applyOutcome = iota
	applyFailed
	applySkipped
)

func (m *ApplicationManager) applyToClaimed(ctx context.Context, job *models.Job,
	profile *models.UserProfile) applyOutcome {

	claimed, err := m.tracker.ClaimForApply(ctx, job.ID, "claimed for batch apply")
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to claim job %v: %v", job.ID, err)
		return applyFailed
	}
	if !claimed {
		log.Infof("job %v no longer eligible, skipping", job.ID)
		return applySkipped
	}

	if m.submit(ctx, job, profile) {
		return applySubmitted
	}
	return applyFailed
}

// submit generates materials, dispatches, and records the attempt. The
// failure path leaves the job in `approved` so it can be retried singly.
func (m *ApplicationManager) submit(ctx context.Context, job *models.Job,
	profile *models.UserProfile) bool {

	coverLetter, err := m.coverLetters.Generate(ctx, job, profile)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeAiApi).
			Errorf("failed to generate cover letter for job %v: %v", job.ID, err)
		m.recordFailure(ctx, job, coverLetter, err.Error())
		return false
	}

	res, err := m.dispatcher.Apply(ctx, job, profile, Materials{CoverLetter: coverLetter})
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDispatch).
			Errorf("dispatch failed for job %v: %v", job.ID, err)
		m.recordFailure(ctx, job, coverLetter, err.Error())
		return false
	}
	if !res.Success {
		log.Warnf("dispatch rejected job %v: %v", job.ID, res.Message)
		m.recordFailure(ctx, job, coverLetter, res.Message)
		return false
	}

	m.recordSuccess(ctx, job, coverLetter, res)
	return true
}

func (m *ApplicationManager) recordSuccess(ctx context.Context, job *models.Job,
	coverLetter string, res DispatchResult) {

	now := time.Now().UTC()
	application := models.Application{
		JobID:            job.ID,
		CoverLetter:      coverLetter,
		Method:           res.Method,
		Status:           models.ApplicationSubmitted,
		SubmissionResult: res.Message,
		AppliedAt:        &now,
	}
	if err := m.applications.Add(ctx, &application); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to record application for job %v: %v", job.ID, err)
	}

	if err := m.tracker.UpdateStatus(ctx, job.ID, models.StatusApplied, ""); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to mark job %v applied: %v", job.ID, err)
	}

	if err := m.audit.Log(ctx, "application_submitted", models.EntityApplication, application.ID,
		map[string]any{"job_id": job.ID, "method": string(res.Method)},
		models.AuditSuccess, ""); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to audit submission for job %v: %v", job.ID, err)
	}

	metrics.ApplicationsCounter.WithLabelValues("submitted").Inc()
	m.publishOutcome(job, res, true)
}

func (m *ApplicationManager) recordFailure(ctx context.Context, job *models.Job,
	coverLetter, message string) {

	application := models.Application{
		JobID:            job.ID,
		CoverLetter:      coverLetter,
		Status:           models.ApplicationFailed,
		SubmissionResult: message,
	}
	if err := m.applications.Add(ctx, &application); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to record failed application for job %v: %v", job.ID, err)
	}

	if err := m.audit.Log(ctx, "application_submitted", models.EntityApplication, application.ID,
		map[string]any{"job_id": job.ID},
		models.AuditFailed, message); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to audit failure for job %v: %v", job.ID, err)
	}

	metrics.ApplicationsCounter.WithLabelValues("failed").Inc()
	m.publishOutcome(job, DispatchResult{Message: message}, false)
}

func (m *ApplicationManager) publishOutcome(job *models.Job, res DispatchResult, success bool) {
	if m.bus == nil {
		return
	}
	m.bus.Publish(events.ApplicationSubmittedTopic, events.ApplicationSubmitted{
		JobID:   job.ID,
		Title:   job.Title,
		Company: job.Company,
		URL:     job.URL,
		Method:  string(res.Method),
		Success: success,
		Message: res.Message,
	})
}

func (m *ApplicationManager) releaseQuota(ctx context.Context, day string) {
	if err := m.quota.Release(ctx, day); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to release quota slot: %v", err)
	}
}

// PrepareApplication assembles materials without submitting anything.
func (m *ApplicationManager) PrepareApplication(ctx context.Context, jobID int,
	profile *models.UserProfile) (*PreparedApplication, error) {

	job, err := m.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	coverLetter, err := m.coverLetters.Generate(ctx, job, profile)
	if err != nil {
		return nil, err
	}

	return &PreparedApplication{
		Job:         job,
		CoverLetter: coverLetter,
		MatchScore:  m.matcher.MatchJob(job, profile),
	}, nil
}

// ApplySingle applies to one job immediately, bypassing the queue but not
// the quota.
func (m *ApplicationManager) ApplySingle(ctx context.Context, jobID int,
	profile *models.UserProfile) (bool, error) {

	job, err := m.jobs.GetByID(ctx, jobID)
	if err != nil {
		return false, err
	}

	today := repositories.Today()
	reserved, err := m.quota.Reserve(ctx, today, m.dailyLimit)
	if err != nil {
		return false, err
	}
	if !reserved {
		log.Info("daily application limit reached")
		return false, nil
	}

	// Only a `new` job (claimed here) or an already-claimed `approved` one
	// is dispatchable; anything further along was applied to already, and
	// a lost claim means another worker took it.
	switch job.Status {
	case models.StatusNew:
		claimed, err := m.tracker.ClaimForApply(ctx, job.ID, "claimed for single apply")
		if err != nil {
			m.releaseQuota(ctx, today)
			return false, err
		}
		if !claimed {
			log.Infof("job %v no longer eligible, skipping", job.ID)
			m.releaseQuota(ctx, today)
			return false, nil
		}
	case models.StatusApproved:
	default:
		log.Infof("job %v already dispatched or retired, skipping", job.ID)
		m.releaseQuota(ctx, today)
		return false, nil
	}

	if !m.submit(ctx, job, profile) {
		m.releaseQuota(ctx, today)
		return false, nil
	}

	return true, nil
}
