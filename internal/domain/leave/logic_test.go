package leave

import (
	"errors"
	"testing"
	"time"
)

func day(value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func TestCalculateDays(t *testing.T) {
	cases := []struct {
		start, end string
		want       int
	}{
		{"2026-03-02", "2026-03-02", 1},
		{"2026-03-02", "2026-03-06", 5},
		{"2026-02-27", "2026-03-02", 4},
	}
	for _, tc := range cases {
		got, err := CalculateDays(day(tc.start), day(tc.end))
		if err != nil {
			t.Fatalf("CalculateDays(%s, %s): %v", tc.start, tc.end, err)
		}
		if got != tc.want {
			t.Errorf("CalculateDays(%s, %s) = %d, want %d", tc.start, tc.end, got, tc.want)
		}
	}
}

func TestCalculateDaysEndBeforeStart(t *testing.T) {
	_, err := CalculateDays(day("2026-03-06"), day("2026-03-02"))
	if !errors.Is(err, ErrEndBeforeStart) {
		t.Fatalf("expected ErrEndBeforeStart, got %v", err)
	}
}

func TestValidateDuration(t *testing.T) {
	days, err := ValidateDuration(day("2026-03-02"), day("2026-03-06"), 10)
	if err != nil {
		t.Fatalf("within allowance: %v", err)
	}
	if days != 5 {
		t.Fatalf("days = %d, want 5", days)
	}

	if _, err := ValidateDuration(day("2026-03-02"), day("2026-03-20"), 10); err == nil {
		t.Fatal("expected error when exceeding allowance")
	}

	// Non-positive allowance means unlimited.
	if _, err := ValidateDuration(day("2026-01-01"), day("2026-12-31"), 0); err != nil {
		t.Fatalf("unlimited allowance: %v", err)
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusPending, false},
		{StatusApproved, StatusRejected, false},
		{StatusApproved, StatusPending, false},
		{StatusRejected, StatusApproved, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}
