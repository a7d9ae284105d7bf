package provider

import (
	"context"

	"github.com/rebeliceyang/ctower/internal/combination"
	"github.com/rebeliceyang/ctower/internal/models"
)

// Provider supplies the rate book. Callers treat the returned slices as read-only.
type Provider interface {
	Precarriage(ctx context.Context) ([]models.PrecarriageRate, error)
	Mainline(ctx context.Context) ([]models.MainlineRate, error)
	Oncarriage(ctx context.Context) ([]models.OncarriageRate, error)
}

// LoadLegs fetches the candidates of every leg enabled in mask
func LoadLegs(ctx context.Context, p Provider, mask models.LegSelectionMask) (combination.Legs, error) {
	var legs combination.Legs
	var err error

	if mask.Precarriage {
		if legs.Precarriage, err = p.Precarriage(ctx); err != nil {
			return combination.Legs{}, err
		}
	}
	if mask.Mainline {
		if legs.Mainline, err = p.Mainline(ctx); err != nil {
			return combination.Legs{}, err
		}
	}
	if mask.Oncarriage {
		if legs.Oncarriage, err = p.Oncarriage(ctx); err != nil {
			return combination.Legs{}, err
		}
	}

	return legs, nil
}

// Static serves fixed in-memory rates
type Static struct {
	PrecarriageRates []models.PrecarriageRate
	MainlineRates    []models.MainlineRate
	OncarriageRates  []models.OncarriageRate
}

func (s *Static) Precarriage(context.Context) ([]models.PrecarriageRate, error) {
	return s.PrecarriageRates, nil
}

func (s *Static) Mainline(context.Context) ([]models.MainlineRate, error) {
	return s.MainlineRates, nil
}

func (s *Static) Oncarriage(context.Context) ([]models.OncarriageRate, error) {
	return s.OncarriageRates, nil
}
