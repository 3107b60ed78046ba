package internal

import (
	"strings"
	"testing"
)

func TestNewID_Format(t *testing.T) {
	id := NewID()

	if len(id) < 8 {
		t.Fatalf("ID too short: %q", id)
	}
	for _, c := range id {
		if !strings.ContainsRune(base36, c) {
			t.Errorf("ID contains non-base36 character %q: %q", c, id)
		}
	}
}

func TestNewID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 10000; i++ {
		id := NewID()
		if seen[id] {
			t.Fatalf("Duplicate ID after %d generations: %q", i, id)
		}
		seen[id] = true
	}
}
