package session

import (
	"errors"
	"fmt"

	"github.com/rebeliceyang/ctower/internal/filter"
	"github.com/rebeliceyang/ctower/internal/layout"
	"github.com/rebeliceyang/ctower/internal/models"
	"github.com/rebeliceyang/ctower/internal/schema"
	"github.com/rebeliceyang/ctower/internal/schemes"
)

var ErrUnknownTab = errors.New("unknown tab")

// Session is the filter state of one active tab. It is built fresh when the
// tab is activated and dropped when another tab takes over.
type Session struct {
	tabKey    string
	fields    []models.FieldSchema
	store     *filter.Store
	schemes   *schemes.Repository
	evaluator *filter.Evaluator

	fieldLayout   *layout.Controller
	columnLayout  *layout.Controller
	columnVisible layout.VisibilityMap
}

// Open builds the session of tabKey. backend may be nil for memory-only schemes.
func Open(registry *schema.Registry, tabKey string, backend schemes.Backend) (*Session, error) {
	if !registry.Has(tabKey) {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownTab, tabKey)
	}
	fields := registry.Fields(tabKey)

	repo, err := schemes.NewRepository(tabKey, fields, backend)
	if err != nil {
		return nil, err
	}

	store := filter.NewStore(fields)
	store.Reset(repo.Default())

	keys := models.FieldKeys(fields)
	columns := make(layout.VisibilityMap, len(keys))
	for _, k := range keys {
		columns[k] = true
	}

	return &Session{
		tabKey:        tabKey,
		fields:        fields,
		store:         store,
		schemes:       repo,
		evaluator:     filter.NewEvaluator(fields),
		fieldLayout:   layout.NewController(keys, store),
		columnLayout:  layout.NewController(keys, columns),
		columnVisible: columns,
	}, nil
}

// TabKey returns the tab the session belongs to
func (s *Session) TabKey() string { return s.tabKey }

// Fields returns the tab's field schema in declaration order
func (s *Session) Fields() []models.FieldSchema {
	return append([]models.FieldSchema(nil), s.fields...)
}

// Store returns the live condition store
func (s *Session) Store() *filter.Store { return s.store }

// Schemes returns the tab's scheme repository
func (s *Session) Schemes() *schemes.Repository { return s.schemes }

// FieldLayout returns the controller ordering the filter inputs; its visibility is the store's
func (s *Session) FieldLayout() *layout.Controller { return s.fieldLayout }

// ColumnLayout returns the controller ordering the result table columns
func (s *Session) ColumnLayout() *layout.Controller { return s.columnLayout }

// Reset clears the working conditions back to the default scheme
func (s *Session) Reset() {
	s.store.Reset(s.schemes.Default())
}

// SaveAs stores the working conditions as a new scheme
func (s *Session) SaveAs(name string) (models.FilterScheme, error) {
	return s.schemes.Save(name, s.store.Conditions())
}

// ApplyScheme loads a scheme's snapshot into the working conditions
func (s *Session) ApplyScheme(id string) error {
	conditions, err := s.schemes.Apply(id)
	if err != nil {
		return err
	}
	s.store.Load(conditions)
	return nil
}

// DeleteScheme removes a saved scheme
func (s *Session) DeleteScheme(id string) error {
	return s.schemes.Delete(id)
}

// Predicate compiles the working conditions
func (s *Session) Predicate() filter.Predicate {
	return s.evaluator.Compile(s.store.Conditions())
}

// Evaluator returns the tab's predicate evaluator
func (s *Session) Evaluator() *filter.Evaluator { return s.evaluator }

// Apply filters dataset with the session's working conditions
func Apply[T filter.Record](s *Session, dataset []T) []T {
	return filter.Select(dataset, s.Predicate())
}
