package postgres

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Run("matches wrapped 23505", func(t *testing.T) {
		err := fmt.Errorf("insert player: %w", &pq.Error{Code: "23505"})
		if !isUniqueViolation(err) {
			t.Fatalf("expected true for unique violation")
		}
	})

	t.Run("ignores other codes", func(t *testing.T) {
		if isUniqueViolation(&pq.Error{Code: "23503"}) {
			t.Fatalf("expected false for foreign key violation")
		}
		if isUniqueViolation(fakeErr("duplicate key value")) {
			t.Fatalf("expected false for non-pq error")
		}
	})
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("get season: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped ErrNoRows to be not found")
	}
	if isNotFound(fakeErr("boom")) {
		t.Fatalf("expected unrelated error to be found")
	}
}

func TestNullableHelpers(t *testing.T) {
	if nullableString("   ") != nil {
		t.Fatalf("expected blank string to be nil")
	}
	if got := stringValue(nullableString(" A ")); got != "A" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
	if int64Ptr(sql.NullInt64{}) != nil || intPtr(sql.NullInt32{}) != nil {
		t.Fatalf("expected null columns to map to nil")
	}
	if got := intPtr(sql.NullInt32{Int32: 4, Valid: true}); got == nil || *got != 4 {
		t.Fatalf("expected 4, got %v", got)
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
