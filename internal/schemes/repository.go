package schemes

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rebeliceyang/ctower/internal/models"
)

// DefaultSchemeID is the id of every tab's protected default scheme
const DefaultSchemeID = "default"

var (
	ErrEmptySchemeName       = errors.New("scheme name cannot be empty")
	ErrSchemeNotFound        = errors.New("scheme not found")
	ErrDefaultSchemeDeletion = errors.New("the default scheme cannot be deleted")
	ErrDefaultSchemeRename   = errors.New("the default scheme cannot be renamed")
)

// Backend persists the saved (non-default) schemes of each tab
type Backend interface {
	List(tabKey string) ([]models.FilterScheme, error)
	Put(scheme models.FilterScheme) error
	Delete(tabKey, id string) error
}

// Repository manages the filter schemes of one tab. The default scheme always
// comes first; saved schemes follow in creation order. Stored snapshots are
// never handed out directly, callers always receive copies.
type Repository struct {
	tabKey  string
	schemes []models.FilterScheme
	backend Backend

	newID func() string
	now   func() time.Time
}

// CreateDefault builds the default scheme of a tab: Equals, no value, visible, for every field
func CreateDefault(tabKey string, fields []models.FieldSchema) models.FilterScheme {
	return models.FilterScheme{
		ID:         DefaultSchemeID,
		TabKey:     tabKey,
		Name:       "Default",
		Conditions: models.DefaultConditions(fields),
		IsDefault:  true,
	}
}

// NewRepository creates the repository of a tab, seeded with its default scheme
// and with any schemes the backend holds for the tab. backend may be nil.
func NewRepository(tabKey string, fields []models.FieldSchema, backend Backend) (*Repository, error) {
	r := &Repository{
		tabKey:  tabKey,
		schemes: []models.FilterScheme{CreateDefault(tabKey, fields)},
		backend: backend,
		newID:   func() string { return uuid.New().String() },
		now:     time.Now,
	}

	if backend == nil {
		return r, nil
	}

	stored, err := backend.List(tabKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load schemes for tab '%s': %w", tabKey, err)
	}
	for _, s := range stored {
		if s.IsDefault || s.ID == DefaultSchemeID || s.TabKey != tabKey {
			continue
		}
		r.schemes = append(r.schemes, s.Clone())
	}

	return r, nil
}

// TabKey returns the tab the repository belongs to
func (r *Repository) TabKey() string {
	return r.tabKey
}

// Save stores a snapshot of conditions under name. Duplicate names are allowed.
func (r *Repository) Save(name string, conditions []models.FilterCondition) (models.FilterScheme, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.FilterScheme{}, ErrEmptySchemeName
	}

	scheme := models.FilterScheme{
		ID:         r.newID(),
		TabKey:     r.tabKey,
		Name:       name,
		Conditions: models.CloneConditions(conditions),
		CreatedAt:  r.now(),
	}

	if r.backend != nil {
		if err := r.backend.Put(scheme); err != nil {
			return models.FilterScheme{}, fmt.Errorf("failed to persist scheme: %w", err)
		}
	}

	r.schemes = append(r.schemes, scheme)
	return scheme.Clone(), nil
}

// Apply returns a deep copy of a scheme's conditions
func (r *Repository) Apply(id string) ([]models.FilterCondition, error) {
	i := r.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: '%s'", ErrSchemeNotFound, id)
	}
	return models.CloneConditions(r.schemes[i].Conditions), nil
}

// Get returns a copy of one scheme
func (r *Repository) Get(id string) (models.FilterScheme, error) {
	i := r.indexOf(id)
	if i < 0 {
		return models.FilterScheme{}, fmt.Errorf("%w: '%s'", ErrSchemeNotFound, id)
	}
	return r.schemes[i].Clone(), nil
}

// Default returns a copy of the default scheme
func (r *Repository) Default() models.FilterScheme {
	return r.schemes[0].Clone()
}

// List returns all schemes, default first, then in creation order
func (r *Repository) List() []models.FilterScheme {
	out := make([]models.FilterScheme, len(r.schemes))
	for i, s := range r.schemes {
		out[i] = s.Clone()
	}
	return out
}

// Delete removes a saved scheme. The default scheme is protected.
func (r *Repository) Delete(id string) error {
	i := r.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: '%s'", ErrSchemeNotFound, id)
	}
	if r.schemes[i].IsDefault {
		return ErrDefaultSchemeDeletion
	}

	if r.backend != nil {
		if err := r.backend.Delete(r.tabKey, id); err != nil {
			return fmt.Errorf("failed to delete persisted scheme: %w", err)
		}
	}

	r.schemes = append(r.schemes[:i], r.schemes[i+1:]...)
	return nil
}

// Rename changes the name of a saved scheme
func (r *Repository) Rename(id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptySchemeName
	}
	i := r.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: '%s'", ErrSchemeNotFound, id)
	}
	if r.schemes[i].IsDefault {
		return ErrDefaultSchemeRename
	}

	renamed := r.schemes[i].Clone()
	renamed.Name = name
	if r.backend != nil {
		if err := r.backend.Put(renamed); err != nil {
			return fmt.Errorf("failed to persist scheme: %w", err)
		}
	}
	r.schemes[i] = renamed
	return nil
}

func (r *Repository) indexOf(id string) int {
	for i, s := range r.schemes {
		if s.ID == id {
			return i
		}
	}
	return -1
}
