package sieve

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Record is one row of the collection. Records are values: a change to a
// record is modeled as a new Snapshot, never as an in-place field update.
type Record struct {
	// ID is unique and stable for the lifetime of the record.
	ID string `json:"id" yaml:"id" validate:"required"`

	Name string `json:"name" yaml:"name"`

	// Progress is a number in [0,100] carried as text.
	Progress string `json:"progress" yaml:"progress"`

	Color string `json:"color" yaml:"color"`
}

var (
	errEmptyProgress = errors.New("empty")
	errNotDecimal    = fmt.Errorf("not a decimal number: %w", strconv.ErrSyntax)
)

// ProgressValue parses Progress as a decimal number. Infinities, NaN and
// hex floats are rejected.
func (r Record) ProgressValue() (float64, error) {
	s := strings.TrimSpace(r.Progress)
	if s == "" {
		return 0, &ProgressError{ID: r.ID, Progress: r.Progress, Err: errEmptyProgress}
	}
	if strings.TrimLeft(s, "0123456789+-.eE") != "" {
		return 0, &ProgressError{ID: r.ID, Progress: r.Progress, Err: errNotDecimal}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ProgressError{ID: r.ID, Progress: r.Progress, Err: err}
	}
	return v, nil
}
