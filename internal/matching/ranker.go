package matching

import (
	"math"
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/sankalpm/applybot/internal/domain/models"
)

// RankedJob pairs a job with its match score and action priority.
type RankedJob struct {
	Job      *models.Job
	Score    float64
	Priority float64
}

// Ranker layers recency and easy-apply bonuses on top of the match score to
// decide which jobs deserve action first.
type Ranker struct {
	now func() time.Time
}

func NewRanker() *Ranker {
	return &Ranker{now: time.Now}
}

// Priority = 0.7*match + 0.15*recency + easy-apply bonus + base bonus,
// capped at 100. Monotonic in the match score.
func (r *Ranker) Priority(job *models.Job, matchScore float64) float64 {
	priority := matchScore * 0.7
	priority += r.recencyBonus(job) * 0.15

	if job.IsEasyApply {
		priority += 10
	}

	// Flat company bonus; a future hook for ratings data.
	priority += 5

	return math.Min(priority, 100)
}

func (r *Ranker) recencyBonus(job *models.Job) float64 {
	if job.PostedDate == nil {
		return 50 // neutral when the posting date is unknown
	}

	age := r.now().Sub(*job.PostedDate)
	switch {
	case age < 24*time.Hour:
		return 100
	case age < 3*24*time.Hour:
		return 80
	case age < 7*24*time.Hour:
		return 60
	case age < 14*24*time.Hour:
		return 40
	default:
		return 20
	}
}

// Rank computes priorities and orders jobs by them, highest first. The sort
// is stable so equal priorities keep their incoming order.
func (r *Ranker) Rank(jobs []RankedJob) []RankedJob {
	ranked := make([]RankedJob, len(jobs))
	copy(ranked, jobs)

	for i := range ranked {
		ranked[i].Priority = r.Priority(ranked[i].Job, ranked[i].Score)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Priority > ranked[j].Priority
	})

	return ranked
}

// BuildQueue filters ranked jobs down to those still actionable and bounds
// the result by the remaining daily quota. Jobs past `new` are dropped even
// if the caller's list is stale.
func BuildQueue(ranked []RankedJob, dailyLimit, submittedToday int) []RankedJob {
	eligible := lo.Filter(ranked, func(item RankedJob, _ int) bool {
		return item.Job.Status == models.StatusNew
	})

	remaining := dailyLimit - submittedToday
	if remaining <= 0 {
		return []RankedJob{}
	}
	if len(eligible) > remaining {
		eligible = eligible[:remaining]
	}

	return eligible
}
