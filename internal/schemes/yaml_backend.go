package schemes

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rebeliceyang/ctower/internal/models"
	"gopkg.in/yaml.v3"
)

// YAMLBackend persists saved schemes of all tabs in a single YAML file
type YAMLBackend struct {
	path    string
	schemes []models.FilterScheme
}

// NewYAMLBackend opens schemes.yaml under dir, loading it if it exists
func NewYAMLBackend(dir string) (*YAMLBackend, error) {
	path := filepath.Join(dir, "schemes.yaml")

	b := &YAMLBackend{
		path:    path,
		schemes: []models.FilterScheme{},
	}

	// Load existing schemes if file exists
	if _, err := os.Stat(path); err == nil {
		if err := b.load(); err != nil {
			return nil, fmt.Errorf("failed to load schemes: %w", err)
		}
	}

	return b, nil
}

// Path returns the file the backend writes to
func (b *YAMLBackend) Path() string {
	return b.path
}

func (b *YAMLBackend) load() error {
	data, err := os.ReadFile(b.path)
	if err != nil {
		return fmt.Errorf("failed to read schemes file: %w", err)
	}

	if err := yaml.Unmarshal(data, &b.schemes); err != nil {
		return fmt.Errorf("failed to parse schemes: %w", err)
	}

	return nil
}

// save writes schemes to disk and only then makes them the backend's state
func (b *YAMLBackend) save(schemes []models.FilterScheme) error {
	data, err := yaml.Marshal(schemes)
	if err != nil {
		return fmt.Errorf("failed to marshal schemes: %w", err)
	}

	// Ensure directory exists
	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(b.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write schemes file: %w", err)
	}

	b.schemes = schemes
	return nil
}

// List returns the saved schemes of a tab in creation order
func (b *YAMLBackend) List(tabKey string) ([]models.FilterScheme, error) {
	var out []models.FilterScheme
	for _, s := range b.schemes {
		if s.TabKey == tabKey {
			out = append(out, s.Clone())
		}
	}
	return out, nil
}

// Put inserts a scheme or replaces the one with the same tab and id.
// A failed write leaves the backend unchanged.
func (b *YAMLBackend) Put(scheme models.FilterScheme) error {
	next := make([]models.FilterScheme, 0, len(b.schemes)+1)
	replaced := false
	for _, s := range b.schemes {
		if s.TabKey == scheme.TabKey && s.ID == scheme.ID {
			next = append(next, scheme.Clone())
			replaced = true
			continue
		}
		next = append(next, s)
	}
	if !replaced {
		next = append(next, scheme.Clone())
	}
	return b.save(next)
}

// Delete removes a scheme; deleting a missing scheme is not an error
func (b *YAMLBackend) Delete(tabKey, id string) error {
	next := make([]models.FilterScheme, 0, len(b.schemes))
	found := false
	for _, s := range b.schemes {
		if s.TabKey == tabKey && s.ID == id {
			found = true
			continue
		}
		next = append(next, s)
	}
	if !found {
		return nil
	}
	return b.save(next)
}
