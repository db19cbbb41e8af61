package ledger

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvariant marks a programming defect (e.g. a batch queue exhausted
// after the availability check passed). It is never returned for bad input.
var ErrInvariant = errors.New("ledger: invariant violated")

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

type NotFoundError struct {
	Kind string // material | recipe | product | sale
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// ConflictError blocks an operation because of a referential dependency
// or a duplicate key.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

func conflictf(format string, args ...any) *ConflictError {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

// Shortage itemizes one short position of an InsufficientStockError.
type Shortage struct {
	Name      string
	Unit      string
	Required  float64
	Available float64
	Shortfall float64
}

type InsufficientStockError struct {
	Shortages []Shortage
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("%s: need %g %s, have %g %s",
			s.Name, s.Required, s.Unit, s.Available, s.Unit))
	}
	return "insufficient stock: " + strings.Join(parts, "; ")
}
