package workflow

import (
	"fmt"

	"github.com/sankalpm/applybot/internal/domain/models"
)

type Mode string

const (
	// Permissive logs illegal transitions but applies them anyway,
	// matching the historical tracker behavior.
	Permissive Mode = "permissive"
	// Strict rejects illegal transitions with ErrInvalidTransition.
	Strict Mode = "strict"
)

// ErrInvalidTransition reports a status change not allowed by the graph.
type ErrInvalidTransition struct {
	From models.Status
	To   models.Status
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("invalid status transition: %s -> %s", e.From, e.To)
}

var transitions = map[models.Status][]models.Status{
	models.StatusNew:       {models.StatusMatched, models.StatusRejected},
	models.StatusMatched:   {models.StatusApproved, models.StatusRejected},
	models.StatusApproved:  {models.StatusApplied, models.StatusRejected},
	models.StatusApplied:   {models.StatusInterview, models.StatusRejected, models.StatusOffer},
	models.StatusInterview: {models.StatusOffer, models.StatusRejected},
	models.StatusOffer:     {models.StatusAccepted, models.StatusRejected},
	models.StatusRejected:  {},
	models.StatusAccepted:  {},
}

func IsValid(status models.Status) bool {
	_, ok := transitions[status]
	return ok
}

func IsTerminal(status models.Status) bool {
	next, ok := transitions[status]
	return ok && len(next) == 0
}

func CanTransition(from, to models.Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Check validates a transition under the given mode. In permissive mode an
// illegal transition returns ok=false but no error; callers apply it anyway
// and record a warning.
func Check(mode Mode, from, to models.Status) (ok bool, err error) {
	if CanTransition(from, to) {
		return true, nil
	}
	if mode == Strict {
		return false, &ErrInvalidTransition{From: from, To: to}
	}
	return false, nil
}
