package models

import (
	"strings"
	"time"
)

// FilterOperator represents a filter comparison operator
type FilterOperator string

const (
	OpEquals      FilterOperator = "equals"
	OpNotEquals   FilterOperator = "not_equals"
	OpContains    FilterOperator = "contains"
	OpNotContains FilterOperator = "not_contains"
	OpIsEmpty     FilterOperator = "is_empty"
	OpIsNotEmpty  FilterOperator = "is_not_empty"
	OpBatch       FilterOperator = "batch" // any of a set of values
)

// Operators lists every operator in display order
var Operators = []FilterOperator{
	OpEquals, OpNotEquals, OpContains, OpNotContains, OpIsEmpty, OpIsNotEmpty, OpBatch,
}

// Valid reports whether o is one of the known operators
func (o FilterOperator) Valid() bool {
	for _, op := range Operators {
		if op == o {
			return true
		}
	}
	return false
}

// TakesValue reports whether the operator needs a value input.
// IsEmpty and IsNotEmpty disable the value input.
func (o FilterOperator) TakesValue() bool {
	return o != OpIsEmpty && o != OpIsNotEmpty
}

// ValueKind tells which shape a FilterValue holds
type ValueKind string

const (
	ValueNone   ValueKind = ""
	ValueScalar ValueKind = "scalar"
	ValueRange  ValueKind = "range"
	ValueSet    ValueKind = "set"
)

// FilterValue is the value side of a condition: nothing, a scalar, a [min,max]
// range or a set of scalars. Values are kept as text and interpreted by field kind.
type FilterValue struct {
	Kind   ValueKind `yaml:"kind,omitempty" json:"kind,omitempty"`
	Scalar string    `yaml:"scalar,omitempty" json:"scalar,omitempty"`
	From   string    `yaml:"from,omitempty" json:"from,omitempty"`
	To     string    `yaml:"to,omitempty" json:"to,omitempty"`
	Set    []string  `yaml:"set,omitempty" json:"set,omitempty"`
}

// NoValue returns the undefined value
func NoValue() FilterValue { return FilterValue{} }

// Scalar returns a single-value FilterValue
func Scalar(v string) FilterValue {
	return FilterValue{Kind: ValueScalar, Scalar: v}
}

// Range returns a closed [from, to] FilterValue. Either bound may be empty for an open side.
func Range(from, to string) FilterValue {
	return FilterValue{Kind: ValueRange, From: from, To: to}
}

// DateRange returns a Range bounded by two calendar dates
func DateRange(from, to time.Time) FilterValue {
	var f, t string
	if !from.IsZero() {
		f = from.Format(DateLayout)
	}
	if !to.IsZero() {
		t = to.Format(DateLayout)
	}
	return Range(f, t)
}

// Set returns a FilterValue matching any of values
func Set(values ...string) FilterValue {
	return FilterValue{Kind: ValueSet, Set: append([]string(nil), values...)}
}

// ParseBatch splits pasted batch input on commas, semicolons and whitespace
// into a set value. Blank entries are dropped.
func ParseBatch(input string) FilterValue {
	parts := strings.FieldsFunc(input, func(r rune) bool {
		switch r {
		case ',', ';', ' ', '\t', '\n', '\r':
			return true
		}
		return false
	})
	return Set(parts...)
}

// Defined reports whether the value actually constrains anything.
// Blank scalars, empty sets and ranges without bounds are undefined.
func (v FilterValue) Defined() bool {
	switch v.Kind {
	case ValueScalar:
		return strings.TrimSpace(v.Scalar) != ""
	case ValueRange:
		return strings.TrimSpace(v.From) != "" || strings.TrimSpace(v.To) != ""
	case ValueSet:
		for _, s := range v.Set {
			if strings.TrimSpace(s) != "" {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Clone returns a deep copy of v
func (v FilterValue) Clone() FilterValue {
	c := v
	if v.Set != nil {
		c.Set = append([]string(nil), v.Set...)
	}
	return c
}

// FilterCondition represents a single filter condition
type FilterCondition struct {
	FieldKey string         `yaml:"field_key" json:"field_key"`
	Operator FilterOperator `yaml:"operator" json:"operator"`
	Value    FilterValue    `yaml:"value,omitempty" json:"value,omitempty"`
	Visible  bool           `yaml:"visible" json:"visible"`
}

// CloneConditions deep-copies a condition list
func CloneConditions(conditions []FilterCondition) []FilterCondition {
	if conditions == nil {
		return nil
	}
	out := make([]FilterCondition, len(conditions))
	for i, c := range conditions {
		out[i] = c
		out[i].Value = c.Value.Clone()
	}
	return out
}

// DefaultConditions builds the cleared state for a tab: one Equals condition
// per field, no value, all visible.
func DefaultConditions(fields []FieldSchema) []FilterCondition {
	conditions := make([]FilterCondition, 0, len(fields))
	for _, f := range fields {
		conditions = append(conditions, FilterCondition{
			FieldKey: f.Key,
			Operator: OpEquals,
			Visible:  true,
		})
	}
	return conditions
}

// FilterScheme is a named snapshot of a tab's filter conditions
type FilterScheme struct {
	ID         string            `yaml:"id" json:"id"`
	TabKey     string            `yaml:"tab" json:"tab"`
	Name       string            `yaml:"name" json:"name"`
	Conditions []FilterCondition `yaml:"conditions" json:"conditions"`
	IsDefault  bool              `yaml:"is_default" json:"is_default"`
	CreatedAt  time.Time         `yaml:"created_at" json:"created_at"`
}

// Clone returns a deep copy of the scheme
func (s FilterScheme) Clone() FilterScheme {
	c := s
	c.Conditions = CloneConditions(s.Conditions)
	return c
}
