package lifecycle

import (
	"errors"
	"time"
)

const (
	// LoanPeriod is the derived loan length for self-service requests.
	LoanPeriod = 7 * 24 * time.Hour

	// GraceWindow is how far in the past a self-service borrow date may lie.
	GraceWindow = 24 * time.Hour
)

var ErrUnparseableDate = errors.New("unparseable date")

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// ParseDate accepts RFC 3339 timestamps or plain calendar dates.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrUnparseableDate
}

// DeriveReturnDate computes the fixed self-service return date.
func DeriveReturnDate(borrowDate time.Time) time.Time {
	return borrowDate.Add(LoanPeriod)
}

// WithinGraceWindow reports whether a self-service borrow date is acceptable:
// any future instant, or up to GraceWindow in the past.
func WithinGraceWindow(borrowDate, now time.Time) bool {
	return !borrowDate.Before(now.Add(-GraceWindow))
}
