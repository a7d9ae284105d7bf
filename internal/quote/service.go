package quote

import (
	"context"
	"fmt"
	"time"

	"github.com/rebeliceyang/ctower/internal/combination"
	"github.com/rebeliceyang/ctower/internal/filter"
	"github.com/rebeliceyang/ctower/internal/models"
	"github.com/rebeliceyang/ctower/internal/provider"
)

// Request describes one rate query
type Request struct {
	Mask          models.LegSelectionMask
	Container     models.ContainerType
	ReferenceDate time.Time

	// Filters holds the compiled filter of each leg's tab; a missing entry keeps every rate
	Filters map[models.Leg]filter.Predicate

	// Selection switches from enumeration to resolving exactly these rates
	Selection *combination.Selection

	// Limit caps enumerated results; zero keeps all
	Limit int
}

// Service runs rate queries against a provider
type Service struct {
	provider provider.Provider
}

// NewService creates a quote service
func NewService(p provider.Provider) *Service {
	return &Service{provider: p}
}

// Candidates loads and filters the rates of every enabled leg. Rates outside
// their validity window at the reference date are dropped.
func (s *Service) Candidates(ctx context.Context, req Request) (combination.Legs, error) {
	legs, err := s.filtered(ctx, req)
	if err != nil {
		return combination.Legs{}, err
	}
	return combination.Eligible(legs, req.ReferenceDate), nil
}

// Quote returns the ranked combinations for req, or the single combination of
// req.Selection. Selection problems come back as *combination.ValidationError.
func (s *Service) Quote(ctx context.Context, req Request) ([]models.Combination, error) {
	if !req.Mask.Any() {
		return nil, &combination.ValidationError{Kind: combination.ErrNoLegsEnabled}
	}

	if req.Selection != nil {
		// Validity is checked by Generate so an expired pick is reported as such.
		legs, err := s.filtered(ctx, req)
		if err != nil {
			return nil, err
		}
		c, err := combination.Generate(legs, req.Mask, *req.Selection, req.Container, req.ReferenceDate)
		if err != nil {
			return nil, err
		}
		return []models.Combination{c}, nil
	}

	legs, err := s.Candidates(ctx, req)
	if err != nil {
		return nil, err
	}
	return combination.Top(combination.Enumerate(legs, req.Mask, req.Container), req.Limit), nil
}

func (s *Service) filtered(ctx context.Context, req Request) (combination.Legs, error) {
	legs, err := provider.LoadLegs(ctx, s.provider, req.Mask)
	if err != nil {
		return combination.Legs{}, fmt.Errorf("failed to load rates: %w", err)
	}

	if pred := req.Filters[models.LegPrecarriage]; pred != nil {
		legs.Precarriage = filter.Select(legs.Precarriage, pred)
	}
	if pred := req.Filters[models.LegMainline]; pred != nil {
		legs.Mainline = filter.Select(legs.Mainline, pred)
	}
	if pred := req.Filters[models.LegOncarriage]; pred != nil {
		legs.Oncarriage = filter.Select(legs.Oncarriage, pred)
	}
	return legs, nil
}
