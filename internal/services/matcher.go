package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"time"

	"github.com/asaskevich/EventBus"
	gocache "github.com/patrickmn/go-cache"
	"github.com/sankalpm/applybot/internal/domain/models"
	"github.com/sankalpm/applybot/internal/events"
	"github.com/sankalpm/applybot/internal/logger"
	"github.com/sankalpm/applybot/internal/matching"
	"github.com/sankalpm/applybot/internal/metrics"
	"github.com/sankalpm/applybot/internal/repositories"
	log "github.com/sirupsen/logrus"
)

// JobScore pairs a job with its composite match score.
type JobScore struct {
	Job   models.Job
	Score float64
}

// Matcher scores new jobs against the candidate profile and persists the
// results. Scores are cached per job/profile pair so repeated runs over an
// unchanged backlog stay cheap.
type Matcher struct {
	jobs     *repositories.Jobs
	scorer   *matching.Scorer
	semantic *matching.SemanticMatcher
	bus      EventBus.Bus
	cache    *gocache.Cache
	minScore float64
}

func NewMatcher(jobs *repositories.Jobs, scorer *matching.Scorer,
	semantic *matching.SemanticMatcher, bus EventBus.Bus, minScore float64) *Matcher {

	return &Matcher{
		jobs:     jobs,
		scorer:   scorer,
		semantic: semantic,
		bus:      bus,
		cache:    gocache.New(10*time.Minute, 20*time.Minute),
		minScore: minScore,
	}
}

// MatchJob scores one job/profile pair. Pure; nothing is persisted.
func (m *Matcher) MatchJob(job *models.Job, profile *models.UserProfile) float64 {
	return m.scorer.Score(job, profile).Total
}

// MatchAllJobs scores every job still in `new`, persists score and skill
// diff, and returns those clearing the minimum score, best first.
func (m *Matcher) MatchAllJobs(ctx context.Context, profile *models.UserProfile) ([]JobScore, error) {

	start := time.Now()
	defer func() {
		metrics.MatchRunDuration.Observe(time.Since(start).Seconds())
	}()

	jobs, err := m.jobs.GetByStatus(ctx, models.StatusNew)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to get new jobs: %v", err)
		return nil, err
	}

	fingerprint := profileFingerprint(profile)
	var matched []JobScore

	for i := range jobs {
		job := &jobs[i]

		select {
		case <-ctx.Done():
			return matched, ctx.Err()
		default:
		}

		breakdown, semanticScore := m.scoreJob(ctx, job, profile, fingerprint)
		metrics.ScoredJobsCounter.Inc()

		stepStart := time.Now()
		err = m.jobs.UpdateScore(ctx, job.ID, breakdown.Total, semanticScore,
			job.MatchedSkills, job.MissingSkills)
		metrics.ScoringStepDuration.WithLabelValues("persist").Observe(time.Since(stepStart).Seconds())

		if err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
				Errorf("failed to persist score for job %v: %v", job.ID, err)
			continue
		}

		if breakdown.Total < m.minScore {
			continue
		}

		job.MatchScore = breakdown.Total
		job.SemanticScore = semanticScore
		matched = append(matched, JobScore{Job: *job, Score: breakdown.Total})

		if m.bus != nil {
			m.bus.Publish(events.JobMatchedTopic, events.JobMatched{
				JobID:   job.ID,
				Title:   job.Title,
				Company: job.Company,
				Score:   breakdown.Total,
			})
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Score > matched[j].Score
	})

	log.Infof("matched %v of %v new jobs", len(matched), len(jobs))
	return matched, nil
}

func (m *Matcher) scoreJob(ctx context.Context, job *models.Job,
	profile *models.UserProfile, fingerprint string) (matching.Breakdown, float64) {

	cacheID := job.URL + fingerprint
	if cached, found := m.cache.Get(cacheID); found {
		if result, ok := cached.(scoredJob); ok {
			job.SetMatchedSkills(result.matched)
			job.SetMissingSkills(result.missing)
			return result.breakdown, result.semanticScore
		}
	}

	stepStart := time.Now()
	breakdown := m.scorer.Score(job, profile)
	metrics.ScoringStepDuration.WithLabelValues("score").Observe(time.Since(stepStart).Seconds())

	matchedSkills := breakdown.MatchedSkills
	missingSkills := breakdown.MissingSkills
	semanticScore := 0.0

	// When the JD parser supplied a required-skill list, the semantic
	// matcher produces a sharper skill diff than substring containment.
	if jobSkills := job.SkillsList(); len(jobSkills) > 0 {
		stepStart = time.Now()
		skillMatch := m.semantic.MatchSkills(ctx, profile.Skills.AllSkills(), jobSkills)
		metrics.ScoringStepDuration.WithLabelValues("semantic").Observe(time.Since(stepStart).Seconds())

		semanticScore = skillMatch.Score
		matchedSkills = skillMatch.Matching
		missingSkills = skillMatch.Missing
	}

	job.SetMatchedSkills(matchedSkills)
	job.SetMissingSkills(missingSkills)

	result := scoredJob{
		breakdown:     breakdown,
		semanticScore: semanticScore,
		matched:       matchedSkills,
		missing:       missingSkills,
	}
	if err := m.cache.Add(cacheID, result, gocache.DefaultExpiration); err != nil {
		log.Debugf("failed to cache score for %v: %v", job.URL, err)
	}

	return breakdown, semanticScore
}

type scoredJob struct {
	breakdown     matching.Breakdown
	semanticScore float64
	matched       []string
	missing       []string
}

func profileFingerprint(profile *models.UserProfile) string {
	raw := fmt.Sprintf("%v|%v", profile.Skills, profile.Preferences)
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
