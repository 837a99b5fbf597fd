package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/comitanigiacomo/kanso-kcal/internal/core/domain"
)

// The in-memory repositories back STORAGE=memory and the handler tests.
// They hand out copies so callers cannot mutate stored state in place.

type logKey struct {
	userID  string
	dateISO string
}

type InMemoryDailyLogRepository struct {
	store map[logKey]*domain.DailyLog

	mu sync.RWMutex
}

func NewInMemoryDailyLogRepository() *InMemoryDailyLogRepository {
	return &InMemoryDailyLogRepository{
		store: make(map[logKey]*domain.DailyLog),
	}
}

func cloneLog(l *domain.DailyLog) *domain.DailyLog {
	c := *l
	c.Entries = append([]domain.IntakeEntry(nil), l.Entries...)
	if c.Entries == nil {
		c.Entries = []domain.IntakeEntry{}
	}
	return &c
}

func (r *InMemoryDailyLogRepository) GetByDate(ctx context.Context, userID, dateISO string) (*domain.DailyLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.store[logKey{userID, dateISO}]
	if !ok {
		return nil, domain.ErrLogNotFound
	}
	return cloneLog(l), nil
}

func (r *InMemoryDailyLogRepository) Save(ctx context.Context, log *domain.DailyLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	log.Recalculate()
	key := logKey{log.UserID, log.DateISO}
	stored, exists := r.store[key]

	switch {
	case log.Version == 0 && exists:
		return domain.ErrLogConflict
	case log.Version > 0 && !exists:
		return domain.ErrLogNotFound
	case log.Version > 0 && stored.Version != log.Version:
		return domain.ErrLogConflict
	}

	log.Version++
	r.store[key] = cloneLog(log)
	return nil
}

func (r *InMemoryDailyLogRepository) ListByDates(ctx context.Context, userID string, dates []string) ([]*domain.DailyLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.DailyLog, 0, len(dates))
	for _, d := range dates {
		if l, ok := r.store[logKey{userID, d}]; ok {
			out = append(out, cloneLog(l))
		}
	}
	return out, nil
}

func (r *InMemoryDailyLogRepository) ListTotals(ctx context.Context, userID string) ([]domain.DailyTotal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	totals := []domain.DailyTotal{}
	for k, l := range r.store {
		if k.userID == userID {
			totals = append(totals, l.Total())
		}
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].DateISO < totals[j].DateISO
	})
	return totals, nil
}

func (r *InMemoryDailyLogRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.DailyLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*domain.DailyLog{}
	for k, l := range r.store {
		if k.userID == userID && l.UpdatedAt.After(since) {
			out = append(out, cloneLog(l))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].DateISO < out[j].DateISO
		}
		return out[i].UpdatedAt.Before(out[j].UpdatedAt)
	})
	return out, nil
}

type InMemoryProfileRepository struct {
	store map[string]domain.Profile

	mu sync.RWMutex
}

func NewInMemoryProfileRepository() *InMemoryProfileRepository {
	return &InMemoryProfileRepository{
		store: make(map[string]domain.Profile),
	}
}

func (r *InMemoryProfileRepository) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.store[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	if p.Macros != nil {
		m := *p.Macros
		p.Macros = &m
	}
	return &p, nil
}

func (r *InMemoryProfileRepository) Upsert(ctx context.Context, profile *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := *profile
	if p.Macros != nil {
		m := *p.Macros
		p.Macros = &m
	}
	r.store[profile.UserID] = p
	return nil
}

type InMemoryStatsRepository struct {
	store map[string]domain.WeeklyStatsSummary

	mu sync.RWMutex
}

func NewInMemoryStatsRepository() *InMemoryStatsRepository {
	return &InMemoryStatsRepository{
		store: make(map[string]domain.WeeklyStatsSummary),
	}
}

func (r *InMemoryStatsRepository) GetWeekly(ctx context.Context, userID string) (*domain.WeeklyStatsSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.store[userID]
	if !ok {
		return nil, domain.ErrSnapshotNotFound
	}
	if s.BestDay != nil {
		b := *s.BestDay
		s.BestDay = &b
	}
	return &s, nil
}

func (r *InMemoryStatsRepository) SaveWeekly(ctx context.Context, userID string, summary *domain.WeeklyStatsSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := *summary
	if s.BestDay != nil {
		b := *s.BestDay
		s.BestDay = &b
	}
	r.store[userID] = s
	return nil
}

type InMemoryUserRepository struct {
	byID    map[string]domain.User
	byEmail map[string]string

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[user.Email]; taken {
		return domain.ErrEmailAlreadyExists
	}
	r.byID[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := r.byID[id]
	return &u, nil
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}
