package id

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDGenerator_NewID(t *testing.T) {
	t.Parallel()

	gen := NewUUIDGenerator()
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		value, err := gen.NewID()
		if err != nil {
			t.Fatalf("new id: %v", err)
		}
		parsed, err := uuid.Parse(value)
		if err != nil {
			t.Fatalf("parse %q: %v", value, err)
		}
		if parsed.Version() != 7 {
			t.Fatalf("expected v7, got %d", parsed.Version())
		}
		if _, ok := seen[value]; ok {
			t.Fatalf("duplicate id %s", value)
		}
		seen[value] = struct{}{}
	}
}
