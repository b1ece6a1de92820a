package workflow

import (
	"testing"

	"github.com/sankalpm/applybot/internal/domain/models"
	"github.com/stretchr/testify/assert"
)

func Test_CanTransition_FollowsGraph(t *testing.T) {
	assert.True(t, CanTransition(models.StatusNew, models.StatusMatched))
	assert.True(t, CanTransition(models.StatusMatched, models.StatusApproved))
	assert.True(t, CanTransition(models.StatusApproved, models.StatusApplied))
	assert.True(t, CanTransition(models.StatusApplied, models.StatusOffer))
	assert.True(t, CanTransition(models.StatusInterview, models.StatusRejected))
	assert.True(t, CanTransition(models.StatusOffer, models.StatusAccepted))

	assert.False(t, CanTransition(models.StatusNew, models.StatusApplied))
	assert.False(t, CanTransition(models.StatusMatched, models.StatusInterview))
	assert.False(t, CanTransition(models.StatusRejected, models.StatusNew))
	assert.False(t, CanTransition(models.StatusAccepted, models.StatusRejected))
}

func Test_EveryStatusCanReachRejection_ExceptTerminal(t *testing.T) {
	for from := range transitions {
		if IsTerminal(from) {
			continue
		}
		assert.True(t, CanTransition(from, models.StatusRejected), "from %s", from)
	}
}

func Test_Check_StrictReturnsTypedError(t *testing.T) {
	ok, err := Check(Strict, models.StatusNew, models.StatusOffer)
	assert.False(t, ok)

	var invalid *ErrInvalidTransition
	assert.ErrorAs(t, err, &invalid)
	assert.Equal(t, models.StatusNew, invalid.From)
	assert.Equal(t, models.StatusOffer, invalid.To)
}

func Test_Check_PermissiveFlagsButDoesNotError(t *testing.T) {
	ok, err := Check(Permissive, models.StatusNew, models.StatusOffer)
	assert.False(t, ok)
	assert.NoError(t, err)

	ok, err = Check(Permissive, models.StatusNew, models.StatusMatched)
	assert.True(t, ok)
	assert.NoError(t, err)
}

func Test_IsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(models.StatusRejected))
	assert.True(t, IsTerminal(models.StatusAccepted))
	assert.False(t, IsTerminal(models.StatusOffer))
	assert.False(t, IsTerminal(models.Status("bogus")))
}
