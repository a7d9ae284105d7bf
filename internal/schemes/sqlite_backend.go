package schemes

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rebeliceyang/ctower/internal/models"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteBackend persists saved schemes in a SQLite database
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend opens (and creates if needed) the database at path
func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// Create schema
	_, err = db.Exec(schemaSQL)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteBackend{db: db}, nil
}

// List returns the saved schemes of a tab in creation order
func (b *SQLiteBackend) List(tabKey string) ([]models.FilterScheme, error) {
	rows, err := b.db.Query(`
		SELECT id, tab_key, name, conditions, created_at
		FROM filter_schemes
		WHERE tab_key = ?
		ORDER BY seq ASC`, tabKey)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var schemes []models.FilterScheme
	for rows.Next() {
		var s models.FilterScheme
		var conditions string
		var createdAt string

		err := rows.Scan(&s.ID, &s.TabKey, &s.Name, &conditions, &createdAt)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal([]byte(conditions), &s.Conditions); err != nil {
			return nil, fmt.Errorf("failed to decode conditions of scheme '%s': %w", s.ID, err)
		}
		s.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)

		schemes = append(schemes, s)
	}

	return schemes, rows.Err()
}

// Put inserts a scheme or replaces the one with the same tab and id
func (b *SQLiteBackend) Put(scheme models.FilterScheme) error {
	conditions, err := json.Marshal(scheme.Conditions)
	if err != nil {
		return fmt.Errorf("failed to encode conditions: %w", err)
	}

	_, err = b.db.Exec(`
		INSERT INTO filter_schemes (id, tab_key, name, conditions, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(tab_key, id) DO UPDATE SET
			name = excluded.name,
			conditions = excluded.conditions`,
		scheme.ID,
		scheme.TabKey,
		scheme.Name,
		string(conditions),
		scheme.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// Delete removes a scheme; deleting a missing scheme is not an error
func (b *SQLiteBackend) Delete(tabKey, id string) error {
	_, err := b.db.Exec(`DELETE FROM filter_schemes WHERE tab_key = ? AND id = ?`, tabKey, id)
	return err
}

// Close closes the database connection
func (b *SQLiteBackend) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}
