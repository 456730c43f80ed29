// Package validation holds the fail-fast input checks run before any ledger
// mutation. Every error wraps ErrValidation so callers can classify with
// errors.Is.
package validation

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

var ErrValidation = errors.New("validation failed")

// Amount rejects NaN and infinite values, which would poison every
// cumulative total downstream. Negative amounts are allowed; losses are
// legitimate ledger data.
func Amount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("%w: amount must be a finite number", ErrValidation)
	}
	return nil
}

// Date rejects the zero time, the usual artifact of an unparseable input.
func Date(t time.Time) error {
	if t.IsZero() {
		return fmt.Errorf("%w: date is required", ErrValidation)
	}
	return nil
}

// GoalName requires a non-empty name of reasonable length.
func GoalName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("%w: goal name is required", ErrValidation)
	}
	if len(trimmed) > 100 {
		return fmt.Errorf("%w: goal name is too long (max 100 characters)", ErrValidation)
	}
	return nil
}

// GoalTarget requires a positive finite target.
func GoalTarget(target float64) error {
	if err := Amount(target); err != nil {
		return err
	}
	if target <= 0 {
		return fmt.Errorf("%w: goal target must be positive", ErrValidation)
	}
	return nil
}
