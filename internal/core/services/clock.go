package services

import (
	"time"

	"github.com/comitanigiacomo/kanso-kcal/internal/core/stats"
)

// Clock is the single wall-clock read of the service layer.
type Clock func() time.Time

func SystemClock() time.Time {
	return time.Now().UTC()
}

type calendar struct {
	now Clock
	loc *time.Location
}

func newCalendar(now Clock, loc *time.Location) calendar {
	if now == nil {
		now = SystemClock
	}
	if loc == nil {
		loc = time.UTC
	}
	return calendar{now: now, loc: loc}
}

func (c calendar) today() string {
	return stats.TodayIn(c.now(), c.loc)
}

// dateOrToday defaults an empty date to today in the reporting zone.
func (c calendar) dateOrToday(dateISO string) string {
	if dateISO == "" {
		return c.today()
	}
	return dateISO
}
