package schema

import (
	"fmt"

	"github.com/rebeliceyang/ctower/internal/models"
)

// Registry holds the ordered filterable fields of every tab
type Registry struct {
	tabs  map[string][]models.FieldSchema
	order []string
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		tabs: make(map[string][]models.FieldSchema),
	}
}

// Register declares the fields of a tab in display order
func (r *Registry) Register(tabKey string, fields ...models.FieldSchema) error {
	if tabKey == "" {
		return fmt.Errorf("tab key cannot be empty")
	}
	if _, exists := r.tabs[tabKey]; exists {
		return fmt.Errorf("tab '%s' is already registered", tabKey)
	}

	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.Key == "" {
			return fmt.Errorf("tab '%s': field key cannot be empty", tabKey)
		}
		if seen[f.Key] {
			return fmt.Errorf("tab '%s': duplicate field key '%s'", tabKey, f.Key)
		}
		if f.Kind == models.KindEnumeration && len(f.Options) == 0 {
			return fmt.Errorf("tab '%s': enumeration field '%s' has no options", tabKey, f.Key)
		}
		seen[f.Key] = true
	}

	r.tabs[tabKey] = cloneFields(fields)
	r.order = append(r.order, tabKey)
	return nil
}

// Fields returns the fields of a tab in declaration order, nil for unknown tabs
func (r *Registry) Fields(tabKey string) []models.FieldSchema {
	fields, ok := r.tabs[tabKey]
	if !ok {
		return nil
	}
	return cloneFields(fields)
}

// Lookup returns one field of a tab
func (r *Registry) Lookup(tabKey, fieldKey string) (models.FieldSchema, bool) {
	for _, f := range r.tabs[tabKey] {
		if f.Key == fieldKey {
			return f, true
		}
	}
	return models.FieldSchema{}, false
}

// Has reports whether the tab is registered
func (r *Registry) Has(tabKey string) bool {
	_, ok := r.tabs[tabKey]
	return ok
}

// Tabs returns tab keys in registration order
func (r *Registry) Tabs() []string {
	return append([]string(nil), r.order...)
}

func cloneFields(fields []models.FieldSchema) []models.FieldSchema {
	out := make([]models.FieldSchema, len(fields))
	for i, f := range fields {
		out[i] = f
		out[i].Options = append([]models.Option(nil), f.Options...)
	}
	return out
}
