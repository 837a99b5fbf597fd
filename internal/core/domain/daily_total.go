package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// DateLayout is the calendar-day format used for every dateISO value.
const DateLayout = "2006-01-02"

var (
	ErrInvalidDate   = errors.New("invalid calendar date (must be YYYY-MM-DD)")
	ErrInvalidKcal   = errors.New("kcal must be a finite, non-negative number")
	ErrDuplicateDate = errors.New("duplicate date in log history")
	ErrInvalidWindow = errors.New("window dates must be strictly ascending")
)

// DailyTotal is one calendar day's aggregate intake for a single user.
// A zero TotalKcal means nothing was logged that day.
type DailyTotal struct {
	DateISO   string  `json:"date_iso" db:"date_iso"`
	TotalKcal float64 `json:"total_kcal" db:"total_kcal"`
}

// ParseDateISO parses a YYYY-MM-DD string as a UTC midnight. It rejects
// anything time.Parse would normalise, such as surrounding whitespace.
func ParseDateISO(value string) (time.Time, error) {
	if strings.TrimSpace(value) != value || len(value) != len(DateLayout) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return t, nil
}

// FormatDateISO renders the calendar day of t in its own location.
func FormatDateISO(t time.Time) string {
	return t.Format(DateLayout)
}

func (d DailyTotal) Validate() error {
	if _, err := ParseDateISO(d.DateISO); err != nil {
		return err
	}
	if math.IsNaN(d.TotalKcal) || math.IsInf(d.TotalKcal, 0) || d.TotalKcal < 0 {
		return fmt.Errorf("%w: %s has %v", ErrInvalidKcal, d.DateISO, d.TotalKcal)
	}
	return nil
}

// ValidateTotals checks every record and the one-record-per-day invariant.
func ValidateTotals(totals []DailyTotal) error {
	seen := make(map[string]struct{}, len(totals))
	for i, t := range totals {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		if _, dup := seen[t.DateISO]; dup {
			return fmt.Errorf("record %d: %w: %s", i, ErrDuplicateDate, t.DateISO)
		}
		seen[t.DateISO] = struct{}{}
	}
	return nil
}
