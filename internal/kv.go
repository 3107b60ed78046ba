package internal

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// KV is the panel-local persistent medium: string keys mapped to opaque JSON
// payloads. Implementations must be safe for concurrent use.
type KV interface {
	// Get returns the payload stored under key, and whether one exists.
	Get(key string) (string, bool, error)
	// Set replaces the payload stored under key.
	Set(key, value string) error
	Close() error
}

// SQLiteKV stores payloads in a single-table sqlite database.
type SQLiteKV struct {
	*sql.DB
}

// OpenKV opens (or creates) the panel database at path.
func OpenKV(path string) (*SQLiteKV, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open kv: %w", err)
	}

	if err := initKVSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init kv schema: %w", err)
	}

	return &SQLiteKV{db}, nil
}

func initKVSchema(db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`
	_, err := db.Exec(schema)
	return err
}

// Get returns the payload stored under key.
func (d *SQLiteKV) Get(key string) (string, bool, error) {
	var value string
	err := d.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set replaces the payload stored under key.
func (d *SQLiteKV) Set(key, value string) error {
	_, err := d.Exec(`INSERT OR REPLACE INTO kv (key, value) VALUES (?, ?)`, key, value)
	return err
}

// MemKV is an in-memory KV for tests.
type MemKV struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemKV creates an empty in-memory medium.
func NewMemKV() *MemKV {
	return &MemKV{data: make(map[string]string)}
}

func (m *MemKV) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemKV) Close() error { return nil }

// NullKV is the unavailable medium: reads find nothing and writes are
// dropped. The store degrades to an ephemeral empty store on top of it.
type NullKV struct{}

func (NullKV) Get(key string) (string, bool, error) { return "", false, nil }
func (NullKV) Set(key, value string) error          { return nil }
func (NullKV) Close() error                         { return nil }
