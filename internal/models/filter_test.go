package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFilterValueDefined(t *testing.T) {
	tests := []struct {
		name  string
		value FilterValue
		want  bool
	}{
		{"none", NoValue(), false},
		{"blank scalar", Scalar("  "), false},
		{"scalar", Scalar("MSC"), true},
		{"open range", Range("", ""), false},
		{"half range", Range("", "100"), true},
		{"empty set", Set(), false},
		{"blank set", Set("", " "), false},
		{"set", Set("a"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.value.Defined())
		})
	}
}

func TestParseBatch(t *testing.T) {
	v := ParseBatch("CNSHA, CNNGB;USLAX\nDEHAM\t ,")

	assert.Equal(t, ValueSet, v.Kind)
	assert.Equal(t, []string{"CNSHA", "CNNGB", "USLAX", "DEHAM"}, v.Set)
}

func TestCloneConditionsIsDeep(t *testing.T) {
	orig := []FilterCondition{{FieldKey: "carrier", Operator: OpBatch, Value: Set("MSC", "ONE"), Visible: true}}

	cp := CloneConditions(orig)
	cp[0].Value.Set[0] = "COSCO"
	cp[0].Visible = false

	assert.Equal(t, "MSC", orig[0].Value.Set[0])
	assert.True(t, orig[0].Visible)
}

func TestOperatorTakesValue(t *testing.T) {
	for _, op := range Operators {
		want := op != OpIsEmpty && op != OpIsNotEmpty
		assert.Equal(t, want, op.TakesValue(), string(op))
		assert.True(t, op.Valid())
	}
	assert.False(t, FilterOperator("LIKE").Valid())
}

func TestDateRange(t *testing.T) {
	from := time.Date(2024, 7, 1, 15, 0, 0, 0, time.UTC)

	v := DateRange(from, time.Time{})

	assert.Equal(t, Range("2024-07-01", ""), v)
}
