package uuid

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("generates_valid_uuid", func(t *testing.T) {
		id := New()
		if !IsValid(id) {
			t.Errorf("generated invalid UUID: %s", id)
		}
		if len(id) != 36 {
			t.Errorf("expected 36 characters, got %d", len(id))
		}
	})

	t.Run("version_and_variant_bits", func(t *testing.T) {
		id := New()
		parts := strings.Split(id, "-")
		if len(parts) != 5 {
			t.Fatalf("expected 5 groups, got %d", len(parts))
		}
		if parts[2][0] != '7' {
			t.Errorf("expected version 7, got %c", parts[2][0])
		}
		switch parts[3][0] {
		case '8', '9', 'a', 'b':
		default:
			t.Errorf("expected RFC 4122 variant, got %c", parts[3][0])
		}
	})

	t.Run("unique", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 1000; i++ {
			id := New()
			if seen[id] {
				t.Fatalf("duplicate UUID generated: %s", id)
			}
			seen[id] = true
		}
	})

	t.Run("time_ordered", func(t *testing.T) {
		// Timestamp prefix makes later IDs sort after earlier ones.
		first := New()
		last := first
		for i := 0; i < 100; i++ {
			id := New()
			if id > last {
				last = id
			}
		}
		if last < first {
			t.Errorf("expected later IDs to sort after %s, got %s", first, last)
		}
	})
}

func TestIsValid(t *testing.T) {
	if !IsValid("018f4e6a-7b2c-7d3e-8f4a-5b6c7d8e9f0a") {
		t.Error("expected valid UUID to pass")
	}
	if IsValid("not-a-uuid") {
		t.Error("expected garbage to fail")
	}
	if IsValid("") {
		t.Error("expected empty string to fail")
	}
}
