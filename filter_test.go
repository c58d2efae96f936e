package sieve

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func ids(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestFilter_Match(t *testing.T) {
	amelia := Record{ID: "1", Name: "Amelia J.", Progress: "42", Color: "red"}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"defaults", Filter{}, true},
		{"name substring", Filter{Name: "melia"}, true},
		{"name case-insensitive", Filter{Name: "AMELIA"}, true},
		{"name mismatch", Filter{Name: "jack"}, false},
		{"color substring", Filter{Color: "re"}, true},
		{"color case-insensitive", Filter{Color: "RED"}, true},
		{"color mismatch", Filter{Color: "blue"}, false},
		{"progress inclusive", Filter{MinProgress: 42}, true},
		{"progress above", Filter{MinProgress: 42.5}, false},
		{"all three", Filter{Name: "am", Color: "ed", MinProgress: 40}, true},
		{"one fails", Filter{Name: "am", Color: "ed", MinProgress: 50}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.filter.Match(amelia)
			if err != nil {
				t.Fatalf("Match() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_MatchMalformedProgress(t *testing.T) {
	r := Record{ID: "3", Name: "Ava", Progress: "n/a", Color: "red"}

	ok, err := Filter{}.Match(r)
	if ok {
		t.Error("expected malformed progress to fail the predicate")
	}

	var perr *ProgressError
	if !errors.As(err, &perr) {
		t.Errorf("expected *ProgressError, got %v", err)
	}

	// Name and color are checked first; a record excluded by them never
	// reaches the progress predicate.
	ok, err = Filter{Name: "zzz"}.Match(r)
	if ok || err != nil {
		t.Errorf("expected plain mismatch, got %v, %v", ok, err)
	}
}

func TestFilter_ApplyPreservesOrder(t *testing.T) {
	snap := NewSnapshot(
		Record{ID: "a", Name: "Zoe", Progress: "90", Color: "red"},
		Record{ID: "b", Name: "Adam", Progress: "10", Color: "red"},
		Record{ID: "c", Name: "Mia", Progress: "55", Color: "red"},
		Record{ID: "d", Name: "Bea", Progress: "70", Color: "blue"},
	)

	rows, errs := Filter{Color: "red", MinProgress: 50}.Apply(snap)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if diff := cmp.Diff([]string{"a", "c"}, ids(rows)); diff != "" {
		t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
	}
}

func TestFilter_ApplyDefaultsKeepsEverything(t *testing.T) {
	snap := NewSnapshot(sampleRecords()...)

	rows, errs := DefaultFilter().Apply(snap)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if diff := cmp.Diff(snap.Records(), rows); diff != "" {
		t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
	}
}

func TestFilter_ApplySkipsMalformed(t *testing.T) {
	snap := NewSnapshot(
		Record{ID: "1", Name: "Amelia J.", Progress: "42", Color: "red"},
		Record{ID: "2", Name: "Broken", Progress: "abc", Color: "red"},
		Record{ID: "3", Name: "Jack T.", Progress: "80", Color: "blue"},
	)

	rows, errs := Filter{}.Apply(snap)

	if diff := cmp.Diff([]string{"1", "3"}, ids(rows)); diff != "" {
		t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
	}
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	var perr *ProgressError
	if !errors.As(errs[0], &perr) || perr.ID != "2" {
		t.Errorf("expected progress error for record 2, got %v", errs[0])
	}
}

func TestFilter_ApplyExcludesNonFiniteProgress(t *testing.T) {
	snap := NewSnapshot(
		Record{ID: "1", Name: "Amelia J.", Progress: "42", Color: "red"},
		Record{ID: "2", Name: "Endless", Progress: "inf", Color: "red"},
		Record{ID: "3", Name: "Hex", Progress: "0x1p6", Color: "red"},
	)

	rows, errs := Filter{MinProgress: 50}.Apply(snap)

	if len(rows) != 0 {
		t.Errorf("expected no rows, got %v", ids(rows))
	}
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(errs), errs)
	}
	for _, err := range errs {
		var perr *ProgressError
		if !errors.As(err, &perr) {
			t.Errorf("expected *ProgressError, got %v", err)
		}
	}
}

func TestFilter_ApplyEmptySnapshot(t *testing.T) {
	rows, errs := Filter{Name: "x"}.Apply(Snapshot{})
	if len(rows) != 0 || len(errs) != 0 {
		t.Errorf("expected empty result, got %v, %v", rows, errs)
	}
}
