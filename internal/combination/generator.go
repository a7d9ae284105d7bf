package combination

import (
	"sort"
	"strings"
	"time"

	"github.com/rebeliceyang/ctower/internal/models"
	"github.com/shopspring/decimal"
)

// Legs holds the candidate rates of each leg, already filtered by the caller
type Legs struct {
	Precarriage []models.PrecarriageRate
	Mainline    []models.MainlineRate
	Oncarriage  []models.OncarriageRate
}

// Selection names the rate the user picked for each leg
type Selection struct {
	PrecarriageID string
	MainlineID    string
	OncarriageID  string
}

func (s Selection) id(l models.Leg) string {
	switch l {
	case models.LegPrecarriage:
		return strings.TrimSpace(s.PrecarriageID)
	case models.LegMainline:
		return strings.TrimSpace(s.MainlineID)
	case models.LegOncarriage:
		return strings.TrimSpace(s.OncarriageID)
	default:
		return ""
	}
}

// Generate combines exactly the selected rate of every enabled leg into one
// combination priced for container. Disabled legs are left out, never matched.
func Generate(legs Legs, mask models.LegSelectionMask, sel Selection, container models.ContainerType, ref time.Time) (models.Combination, error) {
	if !mask.Any() {
		return models.Combination{}, &ValidationError{Kind: ErrNoLegsEnabled}
	}

	for _, l := range models.Legs {
		if mask.Enabled(l) && sel.id(l) == "" {
			return models.Combination{}, &ValidationError{Kind: ErrMissingSelection, Leg: l}
		}
	}

	var pre *models.PrecarriageRate
	var mainline *models.MainlineRate
	var on *models.OncarriageRate

	if mask.Precarriage {
		id := sel.id(models.LegPrecarriage)
		r, ok := findPrecarriage(legs.Precarriage, id)
		if !ok {
			return models.Combination{}, &ValidationError{Kind: ErrRateNotFound, Leg: models.LegPrecarriage, RateID: id}
		}
		if !r.EligibleAt(ref) {
			return models.Combination{}, &ValidationError{Kind: ErrRateExpired, Leg: models.LegPrecarriage, RateID: id}
		}
		pre = &r
	}

	if mask.Mainline {
		id := sel.id(models.LegMainline)
		r, ok := findMainline(legs.Mainline, id)
		if !ok {
			return models.Combination{}, &ValidationError{Kind: ErrRateNotFound, Leg: models.LegMainline, RateID: id}
		}
		if !r.EligibleAt(ref) {
			return models.Combination{}, &ValidationError{Kind: ErrRateExpired, Leg: models.LegMainline, RateID: id}
		}
		mainline = &r
	}

	if mask.Oncarriage {
		id := sel.id(models.LegOncarriage)
		r, ok := findOncarriage(legs.Oncarriage, id)
		if !ok {
			return models.Combination{}, &ValidationError{Kind: ErrRateNotFound, Leg: models.LegOncarriage, RateID: id}
		}
		if !r.EligibleAt(ref) {
			return models.Combination{}, &ValidationError{Kind: ErrRateExpired, Leg: models.LegOncarriage, RateID: id}
		}
		on = &r
	}

	return combine(container, pre, mainline, on), nil
}

// Enumerate builds every combination of the enabled legs' candidates, cheapest
// first. A required leg with no candidates yields no combinations.
func Enumerate(legs Legs, mask models.LegSelectionMask, container models.ContainerType) []models.Combination {
	if !mask.Any() {
		return nil
	}

	pres := []*models.PrecarriageRate{nil}
	if mask.Precarriage {
		pres = pointers(legs.Precarriage)
	}
	mains := []*models.MainlineRate{nil}
	if mask.Mainline {
		mains = pointers(legs.Mainline)
	}
	ons := []*models.OncarriageRate{nil}
	if mask.Oncarriage {
		ons = pointers(legs.Oncarriage)
	}

	out := make([]models.Combination, 0, len(pres)*len(mains)*len(ons))
	for _, p := range pres {
		for _, m := range mains {
			for _, o := range ons {
				out = append(out, combine(container, p, m, o))
			}
		}
	}

	Sort(out)
	return out
}

// Top returns at most n combinations; n <= 0 means all
func Top(combos []models.Combination, n int) []models.Combination {
	if n > 0 && n < len(combos) {
		return combos[:n]
	}
	return combos
}

// Sort orders combinations by total price, then transit days, then rate ids
func Sort(combos []models.Combination) {
	sort.SliceStable(combos, func(i, j int) bool {
		a, b := combos[i], combos[j]
		if c := a.TotalPrice.Cmp(b.TotalPrice); c != 0 {
			return c < 0
		}
		if a.TotalTransitDays != b.TotalTransitDays {
			return a.TotalTransitDays < b.TotalTransitDays
		}
		if a.Mainline.RateID != b.Mainline.RateID {
			return a.Mainline.RateID < b.Mainline.RateID
		}
		if a.Precarriage.RateID != b.Precarriage.RateID {
			return a.Precarriage.RateID < b.Precarriage.RateID
		}
		return a.Oncarriage.RateID < b.Oncarriage.RateID
	})
}

// Eligible drops rates that are outside their validity window at ref or whose
// status rules them out
func Eligible(legs Legs, ref time.Time) Legs {
	var out Legs
	for _, r := range legs.Precarriage {
		if r.EligibleAt(ref) {
			out.Precarriage = append(out.Precarriage, r)
		}
	}
	for _, r := range legs.Mainline {
		if r.EligibleAt(ref) {
			out.Mainline = append(out.Mainline, r)
		}
	}
	for _, r := range legs.Oncarriage {
		if r.EligibleAt(ref) {
			out.Oncarriage = append(out.Oncarriage, r)
		}
	}
	return out
}

// combine prices one tuple. A nil rate is a leg that is not part of the combination.
// Transit time and schedule come from the mainline leg only.
func combine(container models.ContainerType, pre *models.PrecarriageRate, mainline *models.MainlineRate, on *models.OncarriageRate) models.Combination {
	c := models.Combination{ContainerType: container, TotalPrice: decimal.Zero}

	if pre != nil {
		c.Precarriage = quote(pre.ID, pre.ContainerPrices, container)
	}
	if mainline != nil {
		c.Mainline = quote(mainline.ID, mainline.ContainerPrices, container)
		c.TotalTransitDays = mainline.TransitDays
		c.ETD = mainline.ETD
		c.ETA = mainline.ETA
	}
	if on != nil {
		c.Oncarriage = quote(on.ID, on.ContainerPrices, container)
	}

	for _, q := range []models.LegQuote{c.Precarriage, c.Mainline, c.Oncarriage} {
		if q.Included && q.Priced {
			c.TotalPrice = c.TotalPrice.Add(q.Price)
		}
	}
	return c
}

func quote(id string, prices models.ContainerPrices, container models.ContainerType) models.LegQuote {
	price, ok := prices.Price(container)
	return models.LegQuote{
		Included: true,
		RateID:   id,
		Price:    price,
		Priced:   ok,
	}
}

func pointers[T any](rates []T) []*T {
	out := make([]*T, len(rates))
	for i := range rates {
		out[i] = &rates[i]
	}
	return out
}

func findPrecarriage(rates []models.PrecarriageRate, id string) (models.PrecarriageRate, bool) {
	for _, r := range rates {
		if r.ID == id {
			return r, true
		}
	}
	return models.PrecarriageRate{}, false
}

func findMainline(rates []models.MainlineRate, id string) (models.MainlineRate, bool) {
	for _, r := range rates {
		if r.ID == id {
			return r, true
		}
	}
	return models.MainlineRate{}, false
}

func findOncarriage(rates []models.OncarriageRate, id string) (models.OncarriageRate, bool) {
	for _, r := range rates {
		if r.ID == id {
			return r, true
		}
	}
	return models.OncarriageRate{}, false
}
