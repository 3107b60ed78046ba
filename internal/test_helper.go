package internal

import (
	"path/filepath"
	"testing"
)

// TestTempKV creates a temporary sqlite-backed medium for tests.
func TestTempKV(t *testing.T) *SQLiteKV {
	t.Helper()
	kv, err := OpenKV(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open temp kv: %v", err)
	}
	t.Cleanup(func() {
		kv.Close()
	})
	return kv
}

// TestStore returns a store over a fresh in-memory medium.
func TestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(NewMemKV())
}
