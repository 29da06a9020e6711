package match

import "testing"

func TestSyntheticID(t *testing.T) {
	t.Parallel()

	a := SyntheticID("6a1f-recap")
	if a >= 0 {
		t.Fatalf("expected negative synthetic id, got %d", a)
	}
	if b := SyntheticID("  6A1F-RECAP "); b != a {
		t.Fatalf("expected case/space-insensitive id, got %d vs %d", b, a)
	}
	if c := SyntheticID("another-recap"); c == a {
		t.Fatalf("expected distinct ids for distinct guids")
	}
	if SyntheticID("") != 0 {
		t.Fatalf("expected zero for empty guid")
	}
	if (Match{ID: a}).Synthetic() != true {
		t.Fatalf("expected synthetic match")
	}
}
