package absence

import (
	"errors"
	"testing"
	"time"
)

func TestCalculateDays(t *testing.T) {
	start := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	days, err := CalculateDays(start, start)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 1 {
		t.Fatalf("expected 1 day, got %v", days)
	}

	days, err = CalculateDays(start, time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 3 {
		t.Fatalf("expected 3 days, got %v", days)
	}
}

func TestCalculateDaysAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	start := time.Date(2025, 3, 29, 0, 0, 0, 0, loc)
	end := time.Date(2025, 3, 31, 0, 0, 0, 0, loc)
	days, err := CalculateDays(start, end)
	if err != nil || days != 3 {
		t.Fatalf("expected 3 days, got %d %v", days, err)
	}
}

func TestValidateRange(t *testing.T) {
	start := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		ok    bool
	}{
		{name: "same day", start: start, end: start, ok: true},
		{name: "forward", start: start, end: start.AddDate(0, 0, 4), ok: true},
		{name: "end before start", start: start, end: start.AddDate(0, 0, -1)},
		{name: "missing start", end: start},
		{name: "missing end", start: start},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRange(tc.start, tc.end)
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrInvalidDateRange) {
				t.Fatalf("expected ErrInvalidDateRange, got %v", err)
			}
		})
	}
}

func TestValidateDecision(t *testing.T) {
	for _, status := range []Status{StatusApproved, StatusRejected} {
		if err := ValidateDecision(Decision{Status: status}); err != nil {
			t.Fatalf("unexpected error for %s: %v", status, err)
		}
	}
	for _, status := range []Status{StatusPending, "CANCELLED", ""} {
		if err := ValidateDecision(Decision{Status: status}); !errors.Is(err, ErrInvalidDecision) {
			t.Fatalf("expected ErrInvalidDecision for %q, got %v", status, err)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if status, ok := ParseStatus(" approved "); !ok || status != StatusApproved {
		t.Fatalf("unexpected parse result %q %v", status, ok)
	}
	if _, ok := ParseStatus("maybe"); ok {
		t.Fatal("expected unknown status to be rejected")
	}
}
