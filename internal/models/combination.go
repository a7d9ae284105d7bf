package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LegSelectionMask tells which legs take part in a combination
type LegSelectionMask struct {
	Precarriage bool `yaml:"precarriage" json:"precarriage"`
	Mainline    bool `yaml:"mainline" json:"mainline"`
	Oncarriage  bool `yaml:"oncarriage" json:"oncarriage"`
}

// AllLegs enables every leg
func AllLegs() LegSelectionMask {
	return LegSelectionMask{Precarriage: true, Mainline: true, Oncarriage: true}
}

// Enabled reports whether leg l is part of the mask
func (m LegSelectionMask) Enabled(l Leg) bool {
	switch l {
	case LegPrecarriage:
		return m.Precarriage
	case LegMainline:
		return m.Mainline
	case LegOncarriage:
		return m.Oncarriage
	default:
		return false
	}
}

// Any reports whether at least one leg is enabled
func (m LegSelectionMask) Any() bool {
	return m.Precarriage || m.Mainline || m.Oncarriage
}

// LegQuote is one leg's contribution to a combination. Included=false means the
// leg is not part of the combination at all, Priced=false that the rate has no
// price for the chosen container type. Both differ from a zero price.
type LegQuote struct {
	Included bool            `json:"included"`
	RateID   string          `json:"rate_id,omitempty"`
	Price    decimal.Decimal `json:"price"`
	Priced   bool            `json:"priced"`
}

// Display renders the leg price, "-" when the leg is absent or unpriced
func (q LegQuote) Display() string {
	if !q.Included || !q.Priced {
		return "-"
	}
	return q.Price.StringFixed(2)
}

// Combination is a derived multi-leg quote. It is never persisted.
type Combination struct {
	ContainerType    ContainerType   `json:"container_type"`
	Precarriage      LegQuote        `json:"precarriage"`
	Mainline         LegQuote        `json:"mainline"`
	Oncarriage       LegQuote        `json:"oncarriage"`
	TotalPrice       decimal.Decimal `json:"total_price"`
	TotalTransitDays int             `json:"total_transit_days"`
	ETD              time.Time       `json:"etd,omitzero"`
	ETA              time.Time       `json:"eta,omitzero"`
}

// Leg returns the quote of leg l
func (c Combination) Leg(l Leg) LegQuote {
	switch l {
	case LegPrecarriage:
		return c.Precarriage
	case LegMainline:
		return c.Mainline
	case LegOncarriage:
		return c.Oncarriage
	default:
		return LegQuote{}
	}
}

// HasSchedule reports whether ETD/ETA come from a mainline leg
func (c Combination) HasSchedule() bool {
	return c.Mainline.Included
}
