package stats

import (
	"errors"
	"time"

	"github.com/comitanigiacomo/kanso-kcal/internal/core/domain"
)

const (
	DefaultWindowDays = 7
	MaxWindowDays     = 366
)

var ErrInvalidWindowLength = errors.New("window length must be between 1 and 366 days")

// TodayIn returns the calendar day of now in loc. A nil loc means UTC.
func TodayIn(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return domain.FormatDateISO(now.In(loc))
}

// LastNDays returns the n days ending at endDate (inclusive), oldest first.
func LastNDays(endDate string, n int) ([]string, error) {
	if n < 1 || n > MaxWindowDays {
		return nil, ErrInvalidWindowLength
	}
	end, err := domain.ParseDateISO(endDate)
	if err != nil {
		return nil, err
	}

	days := make([]string, n)
	for i := 0; i < n; i++ {
		days[n-1-i] = domain.FormatDateISO(end.AddDate(0, 0, -i))
	}
	return days, nil
}

// DateRange returns every day from start to end inclusive.
func DateRange(start, end string) ([]string, error) {
	from, err := domain.ParseDateISO(start)
	if err != nil {
		return nil, err
	}
	to, err := domain.ParseDateISO(end)
	if err != nil {
		return nil, err
	}
	if from.After(to) {
		return nil, domain.ErrInvalidWindow
	}

	n := int(to.Sub(from).Hours()/24) + 1
	if n > MaxWindowDays {
		return nil, ErrInvalidWindowLength
	}
	return LastNDays(end, n)
}
