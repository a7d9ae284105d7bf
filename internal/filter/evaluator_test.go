package filter

import (
	"testing"
	"time"

	"github.com/rebeliceyang/ctower/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func date(s string) time.Time {
	t, _ := time.Parse(models.DateLayout, s)
	return t
}

func sampleRates() []models.MainlineRate {
	return []models.MainlineRate{
		{ID: "M1", Carrier: "MSC", DeparturePort: "Shanghai", TransitDays: 14, ETD: date("2024-07-10"),
			ContainerPrices: models.ContainerPrices{models.Container20GP: decimal.NewFromInt(1500)}},
		{ID: "M2", Carrier: "ONE", DeparturePort: "Ningbo", TransitDays: 16, ETD: date("2024-07-15"),
			ContainerPrices: models.ContainerPrices{models.Container20GP: decimal.NewFromInt(1450)}},
		{ID: "M3", Carrier: "maersk", DeparturePort: "", TransitType: models.TransitTransshipment, TransitPort: "Busan",
			TransitDays: 20, ETD: date("2024-08-01")},
	}
}

func fclFields() []models.FieldSchema {
	return []models.FieldSchema{
		{Key: "carrier", Kind: models.KindEnumeration, Options: []models.Option{{Label: "MSC", Value: "MSC"}}},
		{Key: "departurePort", Kind: models.KindText},
		{Key: "transitPort", Kind: models.KindText},
		{Key: "transitDays", Kind: models.KindNumeric},
		{Key: "20GP", Kind: models.KindNumeric},
		{Key: "etd", Kind: models.KindDateRange},
	}
}

func ids(rates []models.MainlineRate) []string {
	out := make([]string, len(rates))
	for i, r := range rates {
		out[i] = r.ID
	}
	return out
}

func cond(key string, op models.FilterOperator, v models.FilterValue) models.FilterCondition {
	return models.FilterCondition{FieldKey: key, Operator: op, Value: v, Visible: true}
}

func TestFilterOperators(t *testing.T) {
	e := NewEvaluator(fclFields())

	tests := []struct {
		name string
		cond models.FilterCondition
		want []string
	}{
		{"equals is case-insensitive", cond("carrier", models.OpEquals, models.Scalar("Maersk")), []string{"M3"}},
		{"not equals", cond("carrier", models.OpNotEquals, models.Scalar("msc")), []string{"M2", "M3"}},
		{"contains", cond("departurePort", models.OpContains, models.Scalar("HAI")), []string{"M1"}},
		{"not contains", cond("departurePort", models.OpNotContains, models.Scalar("BO")), []string{"M1", "M3"}},
		{"is empty", cond("transitPort", models.OpIsEmpty, models.NoValue()), []string{"M1", "M2"}},
		{"is not empty", cond("departurePort", models.OpIsNotEmpty, models.NoValue()), []string{"M1", "M2"}},
		{"batch", cond("carrier", models.OpBatch, models.Set("ONE", "MAERSK")), []string{"M2", "M3"}},
		{"batch from text", cond("carrier", models.OpBatch, models.Scalar("one, msc")), []string{"M1", "M2"}},
		{"numeric equals", cond("transitDays", models.OpEquals, models.Scalar("14.0")), []string{"M1"}},
		{"numeric range", cond("20GP", models.OpEquals, models.Range("1400", "1480")), []string{"M2"}},
		{"missing price is empty", cond("20GP", models.OpIsEmpty, models.NoValue()), []string{"M3"}},
		{"date range closed", cond("etd", models.OpEquals, models.Range("2024-07-10", "2024-07-15")), []string{"M1", "M2"}},
		{"date range open end", cond("etd", models.OpEquals, models.Range("2024-07-11", "")), []string{"M2", "M3"}},
		{"date equals", cond("etd", models.OpEquals, models.Scalar("2024-08-01")), []string{"M3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(e, sampleRates(), []models.FilterCondition{tt.cond})
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilterConditionsAreANDed(t *testing.T) {
	e := NewEvaluator(fclFields())

	got := Filter(e, sampleRates(), []models.FilterCondition{
		cond("carrier", models.OpBatch, models.Set("MSC", "ONE")),
		cond("transitDays", models.OpEquals, models.Range("15", "")),
	})

	assert.Equal(t, []string{"M2"}, ids(got))
}

func TestFilterIdentityWithoutActiveConditions(t *testing.T) {
	e := NewEvaluator(fclFields())
	data := sampleRates()

	hidden := cond("carrier", models.OpEquals, models.Scalar("MSC"))
	hidden.Visible = false

	conditions := append(models.DefaultConditions(fclFields()),
		hidden,
		cond("departurePort", models.OpNotEquals, models.NoValue()),
		cond("carrier", models.OpBatch, models.Set()),
		cond("unknownField", models.OpEquals, models.Scalar("x")),
	)

	assert.Equal(t, data, Filter(e, data, conditions))
}

func TestContainsEmptyStringMatchesEverything(t *testing.T) {
	e := NewEvaluator(fclFields())
	data := sampleRates()

	got := Filter(e, data, []models.FilterCondition{cond("departurePort", models.OpContains, models.Scalar(""))})

	assert.Equal(t, data, got)
}

func TestFilterPreservesOrder(t *testing.T) {
	e := NewEvaluator(fclFields())
	data := sampleRates()
	data[0], data[2] = data[2], data[0]

	got := Filter(e, data, []models.FilterCondition{cond("transitDays", models.OpEquals, models.Range("", "20"))})

	assert.Equal(t, []string{"M3", "M2", "M1"}, ids(got))
}

func TestEvaluateSingleRecord(t *testing.T) {
	e := NewEvaluator(fclFields())
	r := sampleRates()[0]

	assert.True(t, e.Evaluate(r, []models.FilterCondition{cond("carrier", models.OpEquals, models.Scalar(" msc "))}))
	assert.False(t, e.Evaluate(r, []models.FilterCondition{cond("carrier", models.OpEquals, models.Scalar("ONE"))}))
}

func TestOperatorsForKindCoversEveryKind(t *testing.T) {
	for _, k := range []models.FieldKind{models.KindText, models.KindEnumeration, models.KindNumeric, models.KindDateRange} {
		ops := OperatorsForKind(k)
		assert.NotEmpty(t, ops, k.String())
		assert.Contains(t, ops, models.OpEquals)
		assert.Contains(t, ops, models.OpIsEmpty)
	}
	assert.Len(t, OperatorsForKind(models.KindText), len(models.Operators))
}
