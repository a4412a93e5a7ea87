package absence

import "time"

// ValidateRange requires both dates and an end on or after the start.
func ValidateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return ErrInvalidDateRange
	}
	if end.Before(start) {
		return ErrInvalidDateRange
	}
	return nil
}

// CalculateDays returns the inclusive calendar day count between start and end.
func CalculateDays(start, end time.Time) (int, error) {
	if err := ValidateRange(start, end); err != nil {
		return 0, err
	}
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours()/24) + 1, nil
}

func ValidateDecision(d Decision) error {
	if d.Status != StatusApproved && d.Status != StatusRejected {
		return ErrInvalidDecision
	}
	return nil
}
