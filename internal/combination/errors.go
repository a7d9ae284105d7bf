package combination

import (
	"errors"
	"fmt"

	"github.com/rebeliceyang/ctower/internal/models"
)

var (
	ErrNoLegsEnabled    = errors.New("at least one leg must be enabled")
	ErrMissingSelection = errors.New("missing rate selection")
	ErrRateNotFound     = errors.New("rate not found")
	ErrRateExpired      = errors.New("rate is not valid at the reference date")
)

// ValidationError reports why a selection could not be combined.
// It matches its Kind through errors.Is.
type ValidationError struct {
	Kind   error
	Leg    models.Leg
	RateID string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case ErrMissingSelection:
		return fmt.Sprintf("%s: no %s rate selected", e.Kind, e.Leg)
	case ErrRateNotFound, ErrRateExpired:
		return fmt.Sprintf("%s: %s rate '%s'", e.Kind, e.Leg, e.RateID)
	default:
		return e.Kind.Error()
	}
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}
