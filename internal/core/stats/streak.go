// Package stats derives streaks, weekly summaries and calendars from a
// user's daily totals. Every function is pure: "today" and the target are
// parameters and nothing here reads the clock or touches storage.
package stats

import (
	"sort"
	"time"

	"github.com/comitanigiacomo/kanso-kcal/internal/core/domain"
)

// MaxLookbackDays bounds the backwards walk of the current streak.
const MaxLookbackDays = 365

type parsedDay struct {
	date  time.Time
	total float64
}

// ComputeStreaks returns the current run of goal-meeting days ending today
// and the longest such run anywhere in the history.
func ComputeStreaks(logs []domain.DailyTotal, targetKcal float64, today string) (domain.Streaks, error) {
	if err := domain.ValidateTotals(logs); err != nil {
		return domain.Streaks{}, err
	}
	todayDate, err := domain.ParseDateISO(today)
	if err != nil {
		return domain.Streaks{}, err
	}
	return computeStreaks(logs, domain.ResolveTarget(targetKcal), todayDate), nil
}

// computeStreaks expects validated logs and a resolved target.
func computeStreaks(logs []domain.DailyTotal, target float64, today time.Time) domain.Streaks {
	return domain.Streaks{
		Current: currentStreak(indexByDate(logs), target, today),
		Longest: longestStreak(logs, target),
	}
}

func indexByDate(logs []domain.DailyTotal) map[string]float64 {
	byDate := make(map[string]float64, len(logs))
	for _, l := range logs {
		byDate[l.DateISO] = l.TotalKcal
	}
	return byDate
}

func longestStreak(logs []domain.DailyTotal, target float64) int {
	days := make([]parsedDay, 0, len(logs))
	for _, l := range logs {
		if l.TotalKcal <= 0 {
			continue
		}
		// already validated
		d, _ := domain.ParseDateISO(l.DateISO)
		days = append(days, parsedDay{date: d, total: l.TotalKcal})
	}

	sort.Slice(days, func(i, j int) bool {
		return days[i].date.Before(days[j].date)
	})

	longest := 0
	run := 0
	var lastMet time.Time

	for _, d := range days {
		if !domain.MeetsGoal(d.total, target) {
			run = 0
			continue
		}

		if run > 0 && d.date.Equal(lastMet.AddDate(0, 0, 1)) {
			run++
		} else {
			run = 1
		}
		lastMet = d.date

		if run > longest {
			longest = run
		}
	}

	return longest
}

func currentStreak(byDate map[string]float64, target float64, today time.Time) int {
	streak := 0
	day := today
	for i := 0; i < MaxLookbackDays; i++ {
		total, ok := byDate[domain.FormatDateISO(day)]
		if !ok || !domain.MeetsGoal(total, target) {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
