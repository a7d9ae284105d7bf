package filter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rebeliceyang/ctower/internal/models"
	"github.com/shopspring/decimal"
)

// Record is a row that exposes its filterable fields by key.
// Field returns nil when the record has no value for key.
type Record interface {
	Field(key string) any
}

// Predicate reports whether a record passes a compiled condition list
type Predicate func(Record) bool

// Evaluator matches records against filter conditions using the field kinds of a tab
type Evaluator struct {
	fields map[string]models.FieldSchema
}

// NewEvaluator creates an evaluator for a tab's fields
func NewEvaluator(fields []models.FieldSchema) *Evaluator {
	e := &Evaluator{fields: make(map[string]models.FieldSchema, len(fields))}
	for _, f := range fields {
		e.fields[f.Key] = f
	}
	return e
}

// Evaluate reports whether record passes every active condition
func (e *Evaluator) Evaluate(record Record, conditions []models.FilterCondition) bool {
	return e.Compile(conditions)(record)
}

// Compile turns conditions into a predicate. Hidden conditions, conditions on
// unknown fields and conditions without a value (except IsEmpty/IsNotEmpty)
// are skipped; the rest are ANDed.
func (e *Evaluator) Compile(conditions []models.FilterCondition) Predicate {
	var matchers []Predicate
	for _, c := range conditions {
		if m := e.compileCondition(c); m != nil {
			matchers = append(matchers, m)
		}
	}

	return func(r Record) bool {
		for _, m := range matchers {
			if !m(r) {
				return false
			}
		}
		return true
	}
}

// compileCondition builds the matcher of a single condition, nil when it does not filter
func (e *Evaluator) compileCondition(c models.FilterCondition) Predicate {
	if !c.Visible {
		return nil
	}
	field, ok := e.fields[c.FieldKey]
	if !ok {
		return nil
	}
	if c.Operator.TakesValue() && !c.Value.Defined() {
		return nil
	}

	key := c.FieldKey
	kind := field.Kind
	value := c.Value.Clone()

	switch c.Operator {
	case models.OpIsEmpty:
		return func(r Record) bool { return isEmpty(r.Field(key)) }
	case models.OpIsNotEmpty:
		return func(r Record) bool { return !isEmpty(r.Field(key)) }
	case models.OpEquals:
		return func(r Record) bool { return equals(kind, r.Field(key), value) }
	case models.OpNotEquals:
		return func(r Record) bool { return !equals(kind, r.Field(key), value) }
	case models.OpContains:
		if value.Kind == models.ValueRange {
			return nil
		}
		return func(r Record) bool { return contains(r.Field(key), value) }
	case models.OpNotContains:
		if value.Kind == models.ValueRange {
			return nil
		}
		return func(r Record) bool { return !contains(r.Field(key), value) }
	case models.OpBatch:
		set := value
		if set.Kind == models.ValueScalar {
			set = models.ParseBatch(value.Scalar)
		}
		return func(r Record) bool { return inSet(kind, r.Field(key), set.Set) }
	default:
		return nil
	}
}

// Filter keeps the records of dataset that pass conditions, preserving order
func Filter[T Record](e *Evaluator, dataset []T, conditions []models.FilterCondition) []T {
	return Select(dataset, e.Compile(conditions))
}

// Select keeps the records of dataset accepted by pred, preserving order
func Select[T Record](dataset []T, pred Predicate) []T {
	out := make([]T, 0, len(dataset))
	for _, r := range dataset {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// OperatorsForKind returns the operators offered for a field kind
func OperatorsForKind(kind models.FieldKind) []models.FilterOperator {
	switch kind {
	case models.KindText:
		return append([]models.FilterOperator(nil), models.Operators...)
	case models.KindEnumeration, models.KindNumeric:
		return []models.FilterOperator{
			models.OpEquals, models.OpNotEquals,
			models.OpIsEmpty, models.OpIsNotEmpty,
			models.OpBatch,
		}
	case models.KindDateRange:
		return []models.FilterOperator{
			models.OpEquals, models.OpNotEquals,
			models.OpIsEmpty, models.OpIsNotEmpty,
		}
	default:
		return nil
	}
}

func equals(kind models.FieldKind, v any, value models.FilterValue) bool {
	switch value.Kind {
	case models.ValueRange:
		return inRange(kind, v, value.From, value.To)
	case models.ValueSet:
		return inSet(kind, v, value.Set)
	default:
		return scalarEquals(kind, v, value.Scalar)
	}
}

func scalarEquals(kind models.FieldKind, v any, want string) bool {
	if v == nil {
		return false
	}
	want = strings.TrimSpace(want)

	switch kind {
	case models.KindText, models.KindEnumeration:
		return strings.EqualFold(strings.TrimSpace(stringify(v)), want)
	case models.KindNumeric:
		got, ok := toDecimal(v)
		expected, err := decimal.NewFromString(want)
		if !ok || err != nil {
			return strings.EqualFold(strings.TrimSpace(stringify(v)), want)
		}
		return got.Equal(expected)
	case models.KindDateRange:
		got, ok := toDate(v)
		expected, err := time.Parse(models.DateLayout, want)
		if !ok || err != nil {
			return false
		}
		return got.Equal(expected)
	default:
		return false
	}
}

// inRange matches v against the closed interval [from, to]; an empty bound is open
func inRange(kind models.FieldKind, v any, from, to string) bool {
	if v == nil {
		return false
	}
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)

	switch kind {
	case models.KindDateRange:
		got, ok := toDate(v)
		if !ok {
			return false
		}
		if from != "" {
			lo, err := time.Parse(models.DateLayout, from)
			if err != nil || got.Before(lo) {
				return false
			}
		}
		if to != "" {
			hi, err := time.Parse(models.DateLayout, to)
			if err != nil || got.After(hi) {
				return false
			}
		}
		return true
	case models.KindNumeric:
		got, ok := toDecimal(v)
		if !ok {
			return false
		}
		if from != "" {
			lo, err := decimal.NewFromString(from)
			if err != nil || got.LessThan(lo) {
				return false
			}
		}
		if to != "" {
			hi, err := decimal.NewFromString(to)
			if err != nil || got.GreaterThan(hi) {
				return false
			}
		}
		return true
	case models.KindText, models.KindEnumeration:
		got := strings.ToLower(stringify(v))
		if from != "" && got < strings.ToLower(from) {
			return false
		}
		if to != "" && got > strings.ToLower(to) {
			return false
		}
		return true
	default:
		return false
	}
}

func inSet(kind models.FieldKind, v any, set []string) bool {
	for _, s := range set {
		if strings.TrimSpace(s) == "" {
			continue
		}
		if scalarEquals(kind, v, s) {
			return true
		}
	}
	return false
}

// contains is a case-insensitive substring test on the text form of v
func contains(v any, value models.FilterValue) bool {
	text := strings.ToLower(stringify(v))
	if value.Kind == models.ValueSet {
		for _, s := range value.Set {
			if strings.Contains(text, strings.ToLower(s)) {
				return true
			}
		}
		return false
	}
	return strings.Contains(text, strings.ToLower(value.Scalar))
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case time.Time:
		return t.IsZero()
	default:
		return false
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format(models.DateLayout)
	case decimal.Decimal:
		return t.String()
	case int:
		return strconv.Itoa(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case decimal.Decimal:
		return t, true
	case int:
		return decimal.NewFromInt(int64(t)), true
	case int64:
		return decimal.NewFromInt(t), true
	case float64:
		return decimal.NewFromFloat(t), true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(t))
		return d, err == nil
	default:
		return decimal.Zero, false
	}
}

func toDate(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return time.Time{}, false
		}
		return models.DateOf(t), true
	case string:
		d, err := time.Parse(models.DateLayout, strings.TrimSpace(t))
		return d, err == nil
	default:
		return time.Time{}, false
	}
}
