package sieve

import "strings"

// Filter is the composite filter: the latest value of each criterion.
// The zero value is the all-defaults filter and passes every record whose
// progress is a non-negative number.
type Filter struct {
	// Name must be a case-insensitive substring of Record.Name.
	Name string `json:"name" yaml:"name"`

	// Color must be a case-insensitive substring of Record.Color.
	Color string `json:"color" yaml:"color"`

	// MinProgress is the inclusive lower bound on Record.Progress.
	MinProgress float64 `json:"min_progress" yaml:"min_progress"`
}

// DefaultFilter returns the filter every Input pipeline starts from.
func DefaultFilter() Filter {
	return Filter{}
}

// Match reports whether r passes all three predicates. The error is a
// *ProgressError when r's progress is not a number; such records never
// match.
func (f Filter) Match(r Record) (bool, error) {
	if !containsFold(r.Name, f.Name) {
		return false, nil
	}
	if !containsFold(r.Color, f.Color) {
		return false, nil
	}
	progress, err := r.ProgressValue()
	if err != nil {
		return false, err
	}
	return progress >= f.MinProgress, nil
}

// Apply scans snap and returns the matching records in snapshot order, plus
// an error for every record that could not be evaluated. A bad record never
// stops the scan.
func (f Filter) Apply(snap Snapshot) ([]Record, []error) {
	name := strings.ToLower(f.Name)
	color := strings.ToLower(f.Color)

	var (
		out  = make([]Record, 0, snap.Len())
		errs []error
	)
	for _, r := range snap.All() {
		if !strings.Contains(strings.ToLower(r.Name), name) {
			continue
		}
		if !strings.Contains(strings.ToLower(r.Color), color) {
			continue
		}
		progress, err := r.ProgressValue()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if progress >= f.MinProgress {
			out = append(out, r)
		}
	}
	return out, errs
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
