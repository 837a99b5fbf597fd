package domain

import "time"

type Streaks struct {
	Current int `json:"current_streak"`
	Longest int `json:"longest_streak"`
}

type BestDay struct {
	DateISO   string  `json:"date_iso"`
	TotalKcal float64 `json:"total_kcal"`
}

// WeeklyStatsSummary is a derived view over a window of days. UpdatedAt is
// stamped by the caller, never by the calculator.
type WeeklyStatsSummary struct {
	PeriodStart      string    `json:"period_start"`
	PeriodEnd        string    `json:"period_end"`
	TotalKcal        float64   `json:"total_kcal"`
	AverageKcal      float64   `json:"average_kcal"`
	DaysWithinTarget int       `json:"days_within_target"`
	Compliance       float64   `json:"compliance"`
	Trend            float64   `json:"trend"`
	BestDay          *BestDay  `json:"best_day,omitempty"`
	CurrentStreak    int       `json:"current_streak"`
	LongestStreak    int       `json:"longest_streak"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// SameMetrics compares every computed field, ignoring UpdatedAt.
func (s *WeeklyStatsSummary) SameMetrics(other *WeeklyStatsSummary) bool {
	if s == nil || other == nil {
		return s == other
	}
	if (s.BestDay == nil) != (other.BestDay == nil) {
		return false
	}
	if s.BestDay != nil && *s.BestDay != *other.BestDay {
		return false
	}
	return s.PeriodStart == other.PeriodStart &&
		s.PeriodEnd == other.PeriodEnd &&
		s.TotalKcal == other.TotalKcal &&
		s.AverageKcal == other.AverageKcal &&
		s.DaysWithinTarget == other.DaysWithinTarget &&
		s.Compliance == other.Compliance &&
		s.Trend == other.Trend &&
		s.CurrentStreak == other.CurrentStreak &&
		s.LongestStreak == other.LongestStreak
}

type StatsInput struct {
	UserID string
	// EndDate defaults to today in the reporting zone when empty.
	EndDate string
	// Days defaults to the configured window length when zero.
	Days int
}

type CalendarCell struct {
	DateISO         string    `json:"date_iso"`
	InMonth         bool      `json:"in_month"`
	TotalKcal       float64   `json:"total_kcal"`
	Status          DayStatus `json:"status"`
	InCurrentStreak bool      `json:"in_current_streak"`
}

type WeekChip struct {
	Week       int `json:"week"`
	LoggedDays int `json:"logged_days"`
	WithinDays int `json:"within_days"`
	Compliance int `json:"compliance"`
}

type MonthCalendar struct {
	Year         int            `json:"year"`
	Month        int            `json:"month"`
	TargetKcal   float64        `json:"target_kcal"`
	Cells        []CalendarCell `json:"cells"`
	Weeks        []WeekChip     `json:"weeks"`
	RecentLogged []DailyTotal   `json:"recent_logged"`
	Streaks      Streaks        `json:"streaks"`
}
