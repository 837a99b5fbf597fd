package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-kcal/internal/core/domain"
	"github.com/comitanigiacomo/kanso-kcal/internal/core/stats"
	"github.com/comitanigiacomo/kanso-kcal/internal/core/workers"
)

type IntakeService struct {
	repo   domain.DailyLogRepository
	worker *workers.StatsWorker
	cal    calendar
}

func NewIntakeService(repo domain.DailyLogRepository, worker *workers.StatsWorker, clock Clock, loc *time.Location) *IntakeService {
	return &IntakeService{
		repo:   repo,
		worker: worker,
		cal:    newCalendar(clock, loc),
	}
}

type AddEntryInput struct {
	UserID      string
	DateISO     string
	FoodID      string
	CustomName  string
	KcalPerUnit float64
	Units       float64
	ConsumedAt  time.Time
	Meal        domain.MealSlot
}

type UpdateEntryInput struct {
	UserID  string
	DateISO string
	EntryID string
	Units   float64
	// Version, when positive, must match the stored day.
	Version int
}

func (s *IntakeService) AddEntry(ctx context.Context, input AddEntryInput) (*domain.DailyLog, error) {
	now := s.cal.now()
	date := s.cal.dateOrToday(input.DateISO)

	entry, err := domain.NewIntakeEntry(domain.NewIntakeEntryParams{
		UserID:      input.UserID,
		DateISO:     date,
		FoodID:      input.FoodID,
		CustomName:  input.CustomName,
		KcalPerUnit: input.KcalPerUnit,
		Units:       input.Units,
		ConsumedAt:  input.ConsumedAt,
		Meal:        input.Meal,
	}, now, s.cal.loc)
	if err != nil {
		return nil, err
	}

	log, err := s.loadOrCreate(ctx, input.UserID, date, now)
	if err != nil {
		return nil, err
	}
	if err := log.AddEntry(*entry, now); err != nil {
		return nil, err
	}
	return s.save(ctx, log)
}

func (s *IntakeService) UpdateEntryUnits(ctx context.Context, input UpdateEntryInput) (*domain.DailyLog, error) {
	log, err := s.existing(ctx, input.UserID, s.cal.dateOrToday(input.DateISO))
	if err != nil {
		return nil, err
	}
	if input.Version > 0 && log.Version != input.Version {
		return nil, domain.ErrLogConflict
	}
	if err := log.UpdateUnits(input.EntryID, input.Units, s.cal.now()); err != nil {
		return nil, err
	}
	return s.save(ctx, log)
}

func (s *IntakeService) DeleteEntry(ctx context.Context, userID, dateISO, entryID string) (*domain.DailyLog, error) {
	log, err := s.existing(ctx, userID, s.cal.dateOrToday(dateISO))
	if err != nil {
		return nil, err
	}
	if err := log.RemoveEntry(entryID, s.cal.now()); err != nil {
		return nil, err
	}
	return s.save(ctx, log)
}

// ResetDay clears every entry of the day. Resetting a day that was never
// logged is a no-op.
func (s *IntakeService) ResetDay(ctx context.Context, userID, dateISO string) (*domain.DailyLog, error) {
	date := s.cal.dateOrToday(dateISO)
	log, err := s.repo.GetByDate(ctx, userID, date)
	if errors.Is(err, domain.ErrLogNotFound) {
		if _, perr := domain.ParseDateISO(date); perr != nil {
			return nil, perr
		}
		empty := domain.EmptyDailyLog(userID, date)
		return &empty, nil
	}
	if err != nil {
		return nil, err
	}
	log.Reset(s.cal.now())
	return s.save(ctx, log)
}

func (s *IntakeService) UndoLast(ctx context.Context, userID, dateISO string) (*domain.DailyLog, error) {
	log, err := s.repo.GetByDate(ctx, userID, s.cal.dateOrToday(dateISO))
	if errors.Is(err, domain.ErrLogNotFound) {
		return nil, domain.ErrEmptyLog
	}
	if err != nil {
		return nil, err
	}
	if err := log.UndoLast(s.cal.now()); err != nil {
		return nil, err
	}
	return s.save(ctx, log)
}

// GetDay returns an empty log for days without entries.
func (s *IntakeService) GetDay(ctx context.Context, userID, dateISO string) (*domain.DailyLog, error) {
	date := s.cal.dateOrToday(dateISO)
	if _, err := domain.ParseDateISO(date); err != nil {
		return nil, err
	}
	log, err := s.repo.GetByDate(ctx, userID, date)
	if errors.Is(err, domain.ErrLogNotFound) {
		empty := domain.EmptyDailyLog(userID, date)
		return &empty, nil
	}
	return log, err
}

// ListDays returns one log per requested date, in request order, filling
// missing days with empty logs.
func (s *IntakeService) ListDays(ctx context.Context, userID string, dates []string) ([]domain.DailyLog, error) {
	if len(dates) == 0 {
		return []domain.DailyLog{}, nil
	}
	if len(dates) > stats.MaxWindowDays {
		return nil, stats.ErrInvalidWindowLength
	}
	for _, d := range dates {
		if _, err := domain.ParseDateISO(d); err != nil {
			return nil, err
		}
	}

	stored, err := s.repo.ListByDates(ctx, userID, dates)
	if err != nil {
		return nil, fmt.Errorf("intake service: list days: %w", err)
	}
	byDate := make(map[string]*domain.DailyLog, len(stored))
	for _, l := range stored {
		byDate[l.DateISO] = l
	}

	out := make([]domain.DailyLog, 0, len(dates))
	for _, d := range dates {
		if l, ok := byDate[d]; ok {
			out = append(out, *l)
			continue
		}
		out = append(out, domain.EmptyDailyLog(userID, d))
	}
	return out, nil
}

func (s *IntakeService) ListRange(ctx context.Context, userID, from, to string) ([]domain.DailyLog, error) {
	dates, err := stats.DateRange(from, to)
	if err != nil {
		return nil, err
	}
	return s.ListDays(ctx, userID, dates)
}

func (s *IntakeService) GetDelta(ctx context.Context, userID string, since time.Time) ([]*domain.DailyLog, error) {
	return s.repo.GetChanges(ctx, userID, since)
}

func (s *IntakeService) loadOrCreate(ctx context.Context, userID, date string, now time.Time) (*domain.DailyLog, error) {
	log, err := s.repo.GetByDate(ctx, userID, date)
	if errors.Is(err, domain.ErrLogNotFound) {
		return domain.NewDailyLog(userID, date, now)
	}
	return log, err
}

func (s *IntakeService) existing(ctx context.Context, userID, date string) (*domain.DailyLog, error) {
	log, err := s.repo.GetByDate(ctx, userID, date)
	if errors.Is(err, domain.ErrLogNotFound) {
		return nil, domain.ErrEntryNotFound
	}
	return log, err
}

func (s *IntakeService) save(ctx context.Context, log *domain.DailyLog) (*domain.DailyLog, error) {
	if err := s.repo.Save(ctx, log); err != nil {
		return nil, err
	}
	s.worker.Enqueue(log.UserID)
	return log, nil
}
