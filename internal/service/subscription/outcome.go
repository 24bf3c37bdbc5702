package subscription

import (
	"errors"

	"github.com/ignite/newsletter/internal/domain"
	"github.com/ignite/newsletter/internal/metrics"
)

// Outcome is the caller-visible result of one Register call.
type Outcome int

const (
	OutcomeRegistered Outcome = iota
	OutcomeRejected
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRegistered:
		return metrics.OutcomeRegistered
	case OutcomeRejected:
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeFailed
	}
}

// Classify maps an error returned by Register to its Outcome. A nil error is
// a registration; a *domain.ValidationError is a rejection; anything else,
// ErrStorage included, is a failure.
func Classify(err error) Outcome {
	if err == nil {
		return OutcomeRegistered
	}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return OutcomeRejected
	}
	return OutcomeFailed
}
