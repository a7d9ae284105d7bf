package filter

import (
	"github.com/rebeliceyang/ctower/internal/models"
)

// Store holds the live filter conditions of the active tab: exactly one
// condition per schema field, in schema order. Operations on unknown field
// keys are no-ops and report false.
type Store struct {
	fields     []models.FieldSchema
	conditions []models.FilterCondition
	index      map[string]int
}

// NewStore creates a store initialized for fields
func NewStore(fields []models.FieldSchema) *Store {
	s := &Store{}
	s.Initialize(fields)
	return s
}

// Initialize replaces all conditions with the cleared state for fields
func (s *Store) Initialize(fields []models.FieldSchema) {
	s.fields = append([]models.FieldSchema(nil), fields...)
	s.conditions = models.DefaultConditions(fields)
	s.index = make(map[string]int, len(fields))
	for i, f := range fields {
		s.index[f.Key] = i
	}
}

// SetCondition replaces operator and value of a field's condition.
// Operators that take no value clear it.
func (s *Store) SetCondition(fieldKey string, op models.FilterOperator, value models.FilterValue) bool {
	i, ok := s.index[fieldKey]
	if !ok || !op.Valid() {
		return false
	}

	c := &s.conditions[i]
	c.Operator = op
	if op.TakesValue() {
		c.Value = value.Clone()
	} else {
		c.Value = models.NoValue()
	}
	return true
}

// SetValue edits only the value of a field's condition. It is refused while the
// operator takes no value.
func (s *Store) SetValue(fieldKey string, value models.FilterValue) bool {
	i, ok := s.index[fieldKey]
	if !ok || !s.conditions[i].Operator.TakesValue() {
		return false
	}
	s.conditions[i].Value = value.Clone()
	return true
}

// SetVisibility shows or hides a field's condition without touching operator or value
func (s *Store) SetVisibility(fieldKey string, visible bool) bool {
	i, ok := s.index[fieldKey]
	if !ok {
		return false
	}
	s.conditions[i].Visible = visible
	return true
}

// IsVisible reports whether a field's condition is shown
func (s *Store) IsVisible(fieldKey string) bool {
	i, ok := s.index[fieldKey]
	return ok && s.conditions[i].Visible
}

// Reset restores the default scheme's snapshot
func (s *Store) Reset(defaultScheme models.FilterScheme) {
	s.Load(defaultScheme.Conditions)
}

// Load replaces the working conditions with a snapshot. Conditions for unknown
// fields are dropped and fields missing from the snapshot get the cleared
// condition, so the store always covers the schema exactly once.
func (s *Store) Load(conditions []models.FilterCondition) {
	next := models.DefaultConditions(s.fields)
	seen := make(map[string]bool, len(conditions))
	for _, c := range conditions {
		i, ok := s.index[c.FieldKey]
		if !ok || seen[c.FieldKey] {
			continue
		}
		seen[c.FieldKey] = true

		op := c.Operator
		if !op.Valid() {
			op = models.OpEquals
		}
		next[i] = models.FilterCondition{
			FieldKey: c.FieldKey,
			Operator: op,
			Value:    c.Value.Clone(),
			Visible:  c.Visible,
		}
		if !op.TakesValue() {
			next[i].Value = models.NoValue()
		}
	}
	s.conditions = next
}

// Conditions returns a deep copy of the working conditions
func (s *Store) Conditions() []models.FilterCondition {
	return models.CloneConditions(s.conditions)
}

// Condition returns a copy of one field's condition
func (s *Store) Condition(fieldKey string) (models.FilterCondition, bool) {
	i, ok := s.index[fieldKey]
	if !ok {
		return models.FilterCondition{}, false
	}
	c := s.conditions[i]
	c.Value = c.Value.Clone()
	return c, true
}

// Keys returns the field keys in schema order
func (s *Store) Keys() []string {
	return models.FieldKeys(s.fields)
}

// Fields returns the schema the store was initialized with
func (s *Store) Fields() []models.FieldSchema {
	return append([]models.FieldSchema(nil), s.fields...)
}
