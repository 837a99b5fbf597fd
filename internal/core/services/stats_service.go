package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-kcal/internal/core/domain"
	"github.com/comitanigiacomo/kanso-kcal/internal/core/stats"
)

type StatsService struct {
	logRepo     domain.DailyLogRepository
	profileRepo domain.ProfileRepository
	statsRepo   domain.StatsRepository
	cal         calendar
	windowDays  int
}

func NewStatsService(
	logRepo domain.DailyLogRepository,
	profileRepo domain.ProfileRepository,
	statsRepo domain.StatsRepository,
	clock Clock,
	loc *time.Location,
	windowDays int,
) *StatsService {
	if windowDays <= 0 {
		windowDays = stats.DefaultWindowDays
	}
	return &StatsService{
		logRepo:     logRepo,
		profileRepo: profileRepo,
		statsRepo:   statsRepo,
		cal:         newCalendar(clock, loc),
		windowDays:  windowDays,
	}
}

type history struct {
	totals []domain.DailyTotal
	target float64
}

func (s *StatsService) load(ctx context.Context, userID string) (*history, error) {
	totals, err := s.logRepo.ListTotals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("stats service: load totals: %w", err)
	}
	target, err := targetFor(ctx, s.profileRepo, userID)
	if err != nil {
		return nil, fmt.Errorf("stats service: load target: %w", err)
	}
	return &history{totals: totals, target: target}, nil
}

// GetWeeklyStats summarizes the window of input.Days ending at input.EndDate.
// Both default: today in the reporting zone and the configured window length.
func (s *StatsService) GetWeeklyStats(ctx context.Context, input domain.StatsInput) (*domain.WeeklyStatsSummary, error) {
	today := s.cal.today()
	end := input.EndDate
	if end == "" {
		end = today
	}
	days := input.Days
	if days == 0 {
		days = s.windowDays
	}

	window, err := stats.LastNDays(end, days)
	if err != nil {
		return nil, err
	}

	h, err := s.load(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	summary, err := stats.Summarize(h.totals, h.target, window, today)
	if err != nil {
		return nil, err
	}
	summary.UpdatedAt = s.cal.now().UTC()
	return summary, nil
}

func (s *StatsService) GetStreaks(ctx context.Context, userID string) (domain.Streaks, error) {
	h, err := s.load(ctx, userID)
	if err != nil {
		return domain.Streaks{}, err
	}
	return stats.ComputeStreaks(h.totals, h.target, s.cal.today())
}

// GetCalendar lays out the given month; a zero year or month means the
// current one in the reporting zone.
func (s *StatsService) GetCalendar(ctx context.Context, userID string, year, month int) (*domain.MonthCalendar, error) {
	if year == 0 || month == 0 {
		now := s.cal.now().In(s.cal.loc)
		if year == 0 {
			year = now.Year()
		}
		if month == 0 {
			month = int(now.Month())
		}
	}

	h, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return stats.MonthCalendar(h.totals, h.target, year, month, s.cal.today())
}

// Refresh recomputes the default weekly snapshot. It is persisted only when a
// metric changed, so an unchanged snapshot keeps its original UpdatedAt.
func (s *StatsService) Refresh(ctx context.Context, userID string) (*domain.WeeklyStatsSummary, bool, error) {
	fresh, err := s.GetWeeklyStats(ctx, domain.StatsInput{UserID: userID})
	if err != nil {
		return nil, false, err
	}

	stored, err := s.statsRepo.GetWeekly(ctx, userID)
	switch {
	case err == nil && stored.SameMetrics(fresh):
		return stored, false, nil
	case err != nil && !errors.Is(err, domain.ErrSnapshotNotFound):
		return nil, false, fmt.Errorf("stats service: load snapshot: %w", err)
	}

	if err := s.statsRepo.SaveWeekly(ctx, userID, fresh); err != nil {
		return nil, false, fmt.Errorf("stats service: save snapshot: %w", err)
	}
	return fresh, true, nil
}

// GetSnapshot returns the persisted snapshot, computing it on first access.
func (s *StatsService) GetSnapshot(ctx context.Context, userID string) (*domain.WeeklyStatsSummary, error) {
	snapshot, err := s.statsRepo.GetWeekly(ctx, userID)
	if errors.Is(err, domain.ErrSnapshotNotFound) {
		snapshot, _, err = s.Refresh(ctx, userID)
	}
	return snapshot, err
}
