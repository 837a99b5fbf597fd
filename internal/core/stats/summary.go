package stats

import (
	"fmt"
	"math"

	"github.com/comitanigiacomo/kanso-kcal/internal/core/domain"
)

// Summarize aggregates the window days of allLogs against the target. Window
// days without a log count as zero kcal. Streak fields cover the whole
// history, not just the window. UpdatedAt is left for the caller.
func Summarize(allLogs []domain.DailyTotal, targetKcal float64, windowDates []string, today string) (*domain.WeeklyStatsSummary, error) {
	if err := domain.ValidateTotals(allLogs); err != nil {
		return nil, err
	}
	if err := validateWindow(windowDates); err != nil {
		return nil, err
	}
	todayDate, err := domain.ParseDateISO(today)
	if err != nil {
		return nil, err
	}

	target := domain.ResolveTarget(targetKcal)
	byDate := indexByDate(allLogs)

	summary := &domain.WeeklyStatsSummary{}
	if n := len(windowDates); n > 0 {
		summary.PeriodStart = windowDates[0]
		summary.PeriodEnd = windowDates[n-1]
	}

	totals := make([]float64, len(windowDates))
	sum := 0.0
	bestIdx := -1
	bestDiff := math.Inf(1)

	for i, date := range windowDates {
		total := byDate[date]
		totals[i] = total
		sum += total

		if domain.IsWithinTarget(total, target) {
			summary.DaysWithinTarget++
		}

		// strict less-than keeps the earliest day on ties
		if diff := math.Abs(total - target); diff < bestDiff {
			bestDiff = diff
			bestIdx = i
		}
	}

	summary.TotalKcal = roundTo(sum, 2)
	if n := len(windowDates); n > 0 {
		summary.AverageKcal = roundTo(sum/float64(n), 2)
		summary.Compliance = roundTo(float64(summary.DaysWithinTarget)/float64(n)*100, 2)
	}
	if n := len(totals); n >= 2 {
		summary.Trend = roundTo(totals[n-1]-totals[n-2], 2)
	}
	if bestIdx >= 0 {
		summary.BestDay = &domain.BestDay{
			DateISO:   windowDates[bestIdx],
			TotalKcal: roundTo(totals[bestIdx], 2),
		}
	}

	streaks := computeStreaks(allLogs, target, todayDate)
	summary.CurrentStreak = streaks.Current
	summary.LongestStreak = streaks.Longest

	return summary, nil
}

func validateWindow(windowDates []string) error {
	var prev string
	for i, date := range windowDates {
		if _, err := domain.ParseDateISO(date); err != nil {
			return fmt.Errorf("window day %d: %w", i, err)
		}
		// YYYY-MM-DD sorts lexically in calendar order
		if i > 0 && date <= prev {
			return fmt.Errorf("%w: %s after %s", domain.ErrInvalidWindow, date, prev)
		}
		prev = date
	}
	return nil
}

// roundTo rounds half away from zero and maps non-finite values to zero.
func roundTo(value float64, decimals int) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	factor := math.Pow(10, float64(decimals))
	rounded := math.Round(value*factor) / factor
	if math.IsNaN(rounded) || math.IsInf(rounded, 0) {
		return 0
	}
	return rounded
}
