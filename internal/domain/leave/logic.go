package leave

import (
	"errors"
	"fmt"
	"time"
)

var ErrEndBeforeStart = errors.New("end date cannot be earlier than start date")

// CalculateDays returns the inclusive day count between start and end.
func CalculateDays(start, end time.Time) (int, error) {
	if end.Before(start) {
		return 0, ErrEndBeforeStart
	}
	return int(end.Sub(start).Hours()/24) + 1, nil
}

// ValidateDuration checks the requested range against the leave type's
// allowance. A non-positive allowance means unlimited.
func ValidateDuration(start, end time.Time, allowedDays int) (int, error) {
	days, err := CalculateDays(start, end)
	if err != nil {
		return 0, err
	}
	if allowedDays > 0 && days > allowedDays {
		return 0, fmt.Errorf("requested %d days exceeds the allowed %d days for this leave type", days, allowedDays)
	}
	return days, nil
}

// CanTransition reports whether a status change is legal: pending may move to
// approved or rejected, both of which are terminal.
func CanTransition(from, to string) bool {
	if from != StatusPending {
		return false
	}
	return to == StatusApproved || to == StatusRejected
}
