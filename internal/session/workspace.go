package session

import (
	"github.com/rebeliceyang/ctower/internal/schema"
	"github.com/rebeliceyang/ctower/internal/schemes"
)

// Workspace owns the single active tab session. Activating a tab replaces the
// previous session entirely; nothing is carried across tabs.
type Workspace struct {
	registry *schema.Registry
	backend  schemes.Backend
	active   *Session
}

// NewWorkspace creates a workspace with no active tab
func NewWorkspace(registry *schema.Registry, backend schemes.Backend) *Workspace {
	return &Workspace{registry: registry, backend: backend}
}

// Activate opens a fresh session for tabKey and makes it the active one.
// On error the previous session stays active.
func (w *Workspace) Activate(tabKey string) (*Session, error) {
	s, err := Open(w.registry, tabKey, w.backend)
	if err != nil {
		return nil, err
	}
	w.active = s
	return s, nil
}

// Active returns the active session, nil before the first activation
func (w *Workspace) Active() *Session {
	return w.active
}

// Registry returns the field schema registry
func (w *Workspace) Registry() *schema.Registry {
	return w.registry
}
