package combination

import (
	"errors"
	"testing"
	"time"

	"github.com/rebeliceyang/ctower/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func prices(p20 int64) models.ContainerPrices {
	return models.ContainerPrices{models.Container20GP: decimal.NewFromInt(p20)}
}

func scenarioLegs() Legs {
	return Legs{
		Precarriage: []models.PrecarriageRate{
			{ID: "P1", ContainerPrices: prices(800), ValidFrom: day("2024-01-01"), ValidTo: day("2024-12-31"), Status: models.StatusActive},
		},
		Mainline: []models.MainlineRate{
			{ID: "M1", ContainerPrices: prices(1500), TransitDays: 14, ETD: day("2024-07-10"), ETA: day("2024-07-24"),
				ValidFrom: day("2024-07-01"), ValidTo: day("2024-07-31")},
			{ID: "M2", ContainerPrices: prices(1450), TransitDays: 16,
				ValidFrom: day("2024-07-01"), ValidTo: day("2024-07-31")},
		},
	}
}

func TestEnumerateScenario(t *testing.T) {
	mask := models.LegSelectionMask{Precarriage: true, Mainline: true}

	got := Enumerate(scenarioLegs(), mask, models.Container20GP)

	require.Len(t, got, 2)
	assert.Equal(t, "M2", got[0].Mainline.RateID)
	assert.True(t, decimal.NewFromInt(2250).Equal(got[0].TotalPrice))
	assert.Equal(t, "M1", got[1].Mainline.RateID)
	assert.True(t, decimal.NewFromInt(2300).Equal(got[1].TotalPrice))

	assert.Equal(t, "P1", got[1].Precarriage.RateID)
	assert.False(t, got[1].Oncarriage.Included)
	assert.Equal(t, "-", got[1].Oncarriage.Display())
	assert.Equal(t, 14, got[1].TotalTransitDays)
	assert.Equal(t, day("2024-07-10"), got[1].ETD)
	assert.Equal(t, day("2024-07-24"), got[1].ETA)
}

func TestEnumerateMainlineOnly(t *testing.T) {
	legs := scenarioLegs()
	legs.Oncarriage = []models.OncarriageRate{{ID: "O1"}}
	mask := models.LegSelectionMask{Mainline: true}

	got := Enumerate(legs, mask, models.Container20GP)

	require.Len(t, got, len(legs.Mainline))
	for _, c := range got {
		assert.False(t, c.Precarriage.Included)
		assert.Empty(t, c.Precarriage.RateID)
		assert.False(t, c.Oncarriage.Included)
		assert.Empty(t, c.Oncarriage.RateID)
	}
}

func TestEnumerateSortOrder(t *testing.T) {
	legs := Legs{Mainline: []models.MainlineRate{
		{ID: "C", ContainerPrices: prices(1000), TransitDays: 20},
		{ID: "B", ContainerPrices: prices(1000), TransitDays: 12},
		{ID: "A", ContainerPrices: prices(1000), TransitDays: 12},
		{ID: "D", ContainerPrices: prices(900), TransitDays: 30},
	}}

	got := Enumerate(legs, models.LegSelectionMask{Mainline: true}, models.Container20GP)

	var order []string
	for i, c := range got {
		order = append(order, c.Mainline.RateID)
		if i > 0 {
			assert.False(t, c.TotalPrice.LessThan(got[i-1].TotalPrice))
		}
	}
	assert.Equal(t, []string{"D", "A", "B", "C"}, order)
}

func TestEnumerateCrossProduct(t *testing.T) {
	legs := scenarioLegs()
	legs.Precarriage = append(legs.Precarriage, models.PrecarriageRate{ID: "P2", ContainerPrices: prices(700)})
	legs.Oncarriage = []models.OncarriageRate{{ID: "O1"}, {ID: "O2", ContainerPrices: prices(300)}}

	got := Enumerate(legs, models.AllLegs(), models.Container20GP)

	assert.Len(t, got, 2*2*2)
	cheapest := got[0]
	assert.Equal(t, "P2", cheapest.Precarriage.RateID)
	assert.Equal(t, "M2", cheapest.Mainline.RateID)
	assert.Equal(t, "O1", cheapest.Oncarriage.RateID)
	assert.True(t, cheapest.Oncarriage.Included)
	assert.False(t, cheapest.Oncarriage.Priced)
	assert.True(t, decimal.NewFromInt(2150).Equal(cheapest.TotalPrice))
}

func TestEnumerateEmptyRequiredLeg(t *testing.T) {
	legs := scenarioLegs()

	assert.Empty(t, Enumerate(legs, models.AllLegs(), models.Container20GP))
	assert.Empty(t, Enumerate(Legs{}, models.LegSelectionMask{Mainline: true}, models.Container20GP))
	assert.Empty(t, Enumerate(legs, models.LegSelectionMask{}, models.Container20GP))
}

func TestEnumerateUnpricedContainer(t *testing.T) {
	got := Enumerate(scenarioLegs(), models.LegSelectionMask{Precarriage: true, Mainline: true}, models.Container40HQ)

	require.Len(t, got, 2)
	for _, c := range got {
		assert.True(t, c.TotalPrice.IsZero())
		assert.Equal(t, "-", c.Mainline.Display())
		assert.True(t, c.Mainline.Included)
	}
}

func TestGenerate(t *testing.T) {
	mask := models.LegSelectionMask{Precarriage: true, Mainline: true}
	sel := Selection{PrecarriageID: "P1", MainlineID: "M1"}

	c, err := Generate(scenarioLegs(), mask, sel, models.Container20GP, day("2024-07-15"))

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(2300).Equal(c.TotalPrice))
	assert.Equal(t, "800.00", c.Precarriage.Display())
	assert.Equal(t, "M1", c.Mainline.RateID)
	assert.False(t, c.Oncarriage.Included)
	assert.Equal(t, 14, c.TotalTransitDays)
	assert.True(t, c.HasSchedule())
}

func TestGenerateIgnoresSelectionsOfDisabledLegs(t *testing.T) {
	mask := models.LegSelectionMask{Mainline: true}
	sel := Selection{PrecarriageID: "P1", MainlineID: "M2", OncarriageID: "O9"}

	c, err := Generate(scenarioLegs(), mask, sel, models.Container20GP, day("2024-07-15"))

	require.NoError(t, err)
	assert.False(t, c.Precarriage.Included)
	assert.True(t, decimal.NewFromInt(1450).Equal(c.TotalPrice))
}

func TestGenerateValidationErrors(t *testing.T) {
	legs := scenarioLegs()
	ref := day("2024-07-15")
	both := models.LegSelectionMask{Precarriage: true, Mainline: true}

	tests := []struct {
		name   string
		mask   models.LegSelectionMask
		sel    Selection
		ref    time.Time
		kind   error
		leg    models.Leg
		rateID string
	}{
		{"no legs", models.LegSelectionMask{}, Selection{}, ref, ErrNoLegsEnabled, 0, ""},
		{"missing precarriage", both, Selection{MainlineID: "M1"}, ref, ErrMissingSelection, models.LegPrecarriage, ""},
		{"blank mainline", both, Selection{PrecarriageID: "P1", MainlineID: "  "}, ref, ErrMissingSelection, models.LegMainline, ""},
		{"unknown mainline", both, Selection{PrecarriageID: "P1", MainlineID: "M9"}, ref, ErrRateNotFound, models.LegMainline, "M9"},
		{"expired mainline", both, Selection{PrecarriageID: "P1", MainlineID: "M1"}, day("2024-08-01"), ErrRateExpired, models.LegMainline, "M1"},
		{"not yet valid", both, Selection{PrecarriageID: "P1", MainlineID: "M2"}, day("2024-06-30"), ErrRateExpired, models.LegMainline, "M2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(legs, tt.mask, tt.sel, models.Container20GP, tt.ref)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			if tt.kind != ErrNoLegsEnabled {
				assert.Equal(t, tt.leg, verr.Leg)
			}
			assert.Equal(t, tt.rateID, verr.RateID)
		})
	}
}

func TestGenerateWithdrawnRateIsExpired(t *testing.T) {
	legs := scenarioLegs()
	legs.Precarriage[0].Status = models.StatusWithdrawn

	_, err := Generate(legs, models.LegSelectionMask{Precarriage: true}, Selection{PrecarriageID: "P1"}, models.Container20GP, day("2024-07-15"))

	assert.ErrorIs(t, err, ErrRateExpired)
	assert.Equal(t, models.StatusWithdrawn, legs.Precarriage[0].Status)
}

func TestEligible(t *testing.T) {
	legs := scenarioLegs()
	legs.Oncarriage = []models.OncarriageRate{
		{ID: "O1", Status: models.StatusActive},
		{ID: "O2", Status: models.StatusExpired},
	}

	got := Eligible(legs, day("2024-08-05"))

	assert.Len(t, got.Precarriage, 1)
	assert.Empty(t, got.Mainline)
	require.Len(t, got.Oncarriage, 1)
	assert.Equal(t, "O1", got.Oncarriage[0].ID)
}

func TestTop(t *testing.T) {
	combos := Enumerate(scenarioLegs(), models.LegSelectionMask{Mainline: true}, models.Container20GP)

	assert.Len(t, Top(combos, 1), 1)
	assert.Len(t, Top(combos, 0), 2)
	assert.Len(t, Top(combos, 10), 2)
}
