package matching

import (
	"testing"
	"time"

	"github.com/sankalpm/applybot/internal/domain/models"
	"github.com/stretchr/testify/assert"
)

func fixedRanker(now time.Time) *Ranker {
	r := NewRanker()
	r.now = func() time.Time { return now }
	return r
}

func Test_Priority_MatchesWorkedExample(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	posted := now.Add(-2 * 24 * time.Hour)

	job := &models.Job{PostedDate: &posted, IsEasyApply: true}
	priority := fixedRanker(now).Priority(job, 71)

	// 0.7*71 + 0.15*80 + 10 + 5
	assert.InDelta(t, 76.7, priority, 0.001)
}

func Test_Priority_UnknownPostingDateIsNeutral(t *testing.T) {
	job := &models.Job{}
	priority := NewRanker().Priority(job, 60)

	// 0.7*60 + 0.15*50 + 5
	assert.InDelta(t, 54.5, priority, 0.001)
}

func Test_Priority_CappedAt100(t *testing.T) {
	now := time.Now()
	posted := now.Add(-time.Hour)
	job := &models.Job{PostedDate: &posted, IsEasyApply: true}

	assert.Equal(t, float64(100), NewRanker().Priority(job, 100))
}

func Test_Priority_MonotonicInMatchScore(t *testing.T) {
	now := time.Now()
	posted := now.Add(-5 * 24 * time.Hour)
	job := &models.Job{PostedDate: &posted}
	r := NewRanker()

	previous := -1.0
	for score := 0.0; score <= 100; score += 5 {
		priority := r.Priority(job, score)
		assert.GreaterOrEqual(t, priority, previous)
		previous = priority
	}
}

func Test_RecencyBonus_Ladder(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	r := fixedRanker(now)

	cases := []struct {
		age   time.Duration
		bonus float64
	}{
		{12 * time.Hour, 100},
		{2 * 24 * time.Hour, 80},
		{5 * 24 * time.Hour, 60},
		{10 * 24 * time.Hour, 40},
		{30 * 24 * time.Hour, 20},
	}

	for _, tc := range cases {
		posted := now.Add(-tc.age)
		assert.Equal(t, tc.bonus, r.recencyBonus(&models.Job{PostedDate: &posted}), "age %v", tc.age)
	}
}

func Test_Rank_StableForEqualPriorities(t *testing.T) {
	first := &models.Job{ID: 1, Status: models.StatusNew}
	second := &models.Job{ID: 2, Status: models.StatusNew}

	ranked := NewRanker().Rank([]RankedJob{
		{Job: first, Score: 50},
		{Job: second, Score: 50},
	})

	assert.Equal(t, 1, ranked[0].Job.ID)
	assert.Equal(t, 2, ranked[1].Job.ID)
}

func Test_BuildQueue_FiltersNonNewAndTruncates(t *testing.T) {
	ranked := []RankedJob{
		{Job: &models.Job{ID: 1, Status: models.StatusNew}, Priority: 90},
		{Job: &models.Job{ID: 2, Status: models.StatusApplied}, Priority: 85},
		{Job: &models.Job{ID: 3, Status: models.StatusNew}, Priority: 80},
		{Job: &models.Job{ID: 4, Status: models.StatusNew}, Priority: 75},
	}

	queue := BuildQueue(ranked, 10, 8)

	assert.Len(t, queue, 2)
	assert.Equal(t, 1, queue[0].Job.ID)
	assert.Equal(t, 3, queue[1].Job.ID)
}

func Test_BuildQueue_ExhaustedQuotaIsEmpty(t *testing.T) {
	ranked := []RankedJob{{Job: &models.Job{ID: 1, Status: models.StatusNew}}}

	assert.Empty(t, BuildQueue(ranked, 5, 5))
	assert.Empty(t, BuildQueue(ranked, 5, 9))
}
