package stats

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/comitanigiacomo/kanso-kcal/internal/core/domain"
)

const (
	calendarWeeks    = 6
	calendarCells    = calendarWeeks * 7
	recentLoggedDays = 10
)

var ErrInvalidMonth = errors.New("month must be between 1 and 12")

// MonthCalendar lays out a Monday-first 6x7 grid around the given month.
// Week chips report compliance over logged days only.
func MonthCalendar(logs []domain.DailyTotal, targetKcal float64, year, month int, today string) (*domain.MonthCalendar, error) {
	if month < 1 || month > 12 {
		return nil, ErrInvalidMonth
	}
	if err := domain.ValidateTotals(logs); err != nil {
		return nil, err
	}
	todayDate, err := domain.ParseDateISO(today)
	if err != nil {
		return nil, err
	}

	target := domain.ResolveTarget(targetKcal)
	byDate := indexByDate(logs)
	streaks := computeStreaks(logs, target, todayDate)

	inStreak := make(map[string]bool, streaks.Current)
	for i := 0; i < streaks.Current; i++ {
		inStreak[domain.FormatDateISO(todayDate.AddDate(0, 0, -i))] = true
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	leading := (int(first.Weekday()) + 6) % 7
	start := first.AddDate(0, 0, -leading)

	cal := &domain.MonthCalendar{
		Year:       year,
		Month:      month,
		TargetKcal: target,
		Cells:      make([]domain.CalendarCell, 0, calendarCells),
		Weeks:      make([]domain.WeekChip, 0, calendarWeeks),
		Streaks:    streaks,
	}

	for i := 0; i < calendarCells; i++ {
		day := start.AddDate(0, 0, i)
		iso := domain.FormatDateISO(day)
		total := byDate[iso]
		cal.Cells = append(cal.Cells, domain.CalendarCell{
			DateISO:         iso,
			InMonth:         day.Month() == first.Month(),
			TotalKcal:       roundTo(total, 2),
			Status:          domain.DayStatusFor(total, target),
			InCurrentStreak: inStreak[iso],
		})
	}

	for w := 0; w < calendarWeeks; w++ {
		chip := domain.WeekChip{Week: w + 1}
		for _, cell := range cal.Cells[w*7 : w*7+7] {
			total := byDate[cell.DateISO]
			if total <= 0 {
				continue
			}
			chip.LoggedDays++
			if domain.IsWithinTarget(total, target) {
				chip.WithinDays++
			}
		}
		if chip.LoggedDays > 0 {
			chip.Compliance = int(math.Round(float64(chip.WithinDays) / float64(chip.LoggedDays) * 100))
		}
		cal.Weeks = append(cal.Weeks, chip)
	}

	cal.RecentLogged = recentLogged(logs, recentLoggedDays)
	return cal, nil
}

func recentLogged(logs []domain.DailyTotal, limit int) []domain.DailyTotal {
	out := make([]domain.DailyTotal, 0, limit)
	for _, l := range logs {
		if l.TotalKcal > 0 {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DateISO > out[j].DateISO
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
