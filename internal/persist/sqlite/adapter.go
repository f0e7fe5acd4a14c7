package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/YasinHossain/quran-app-sub003/internal/persist"
	_ "modernc.org/sqlite"
)

// Adapter implements persist.Adapter on a single SQLite kv table.
type Adapter struct {
	mu     sync.RWMutex
	db     *sql.DB
	closed bool
}

// New opens (or creates) the database at dbPath.
func New(dbPath string) (*Adapter, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open storage database: %w", err)
	}

	a := &Adapter{db: db}
	if err := a.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize storage database: %w", err)
	}

	return a, nil
}

// NewInMemory creates an in-memory adapter (useful for testing).
func NewInMemory() (*Adapter, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}

	a := &Adapter{db: db}
	if err := a.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return a, nil
}

func (a *Adapter) initialize() error {
	schema := `
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		);
	`

	_, err := a.db.Exec(schema)
	return err
}

// ReadRaw returns the value for key, or persist.ErrNotFound.
func (a *Adapter) ReadRaw(key string) (string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		return "", persist.ErrAdapterClosed
	}

	var value string
	err := a.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", persist.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read key %q: %w", key, err)
	}

	return value, nil
}

// WriteRaw stores value under key.
func (a *Adapter) WriteRaw(key, value string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return persist.ErrAdapterClosed
	}

	_, err := a.db.Exec(
		"INSERT OR REPLACE INTO kv (key, value, updated_at) VALUES (?, ?, unixepoch())",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}

	return nil
}

// RemoveRaw deletes the value for key.
func (a *Adapter) RemoveRaw(key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return persist.ErrAdapterClosed
	}

	if _, err := a.db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to remove key %q: %w", key, err)
	}

	return nil
}

// Close closes the underlying database.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil
	}
	a.closed = true

	return a.db.Close()
}
