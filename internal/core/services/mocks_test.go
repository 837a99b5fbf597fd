package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/comitanigiacomo/kanso-kcal/internal/core/domain"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockDailyLogRepo struct {
	mock.Mock
}

func (m *MockDailyLogRepo) GetByDate(ctx context.Context, userID, dateISO string) (*domain.DailyLog, error) {
	args := m.Called(ctx, userID, dateISO)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailyLog), args.Error(1)
}

func (m *MockDailyLogRepo) Save(ctx context.Context, log *domain.DailyLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockDailyLogRepo) ListByDates(ctx context.Context, userID string, dates []string) ([]*domain.DailyLog, error) {
	args := m.Called(ctx, userID, dates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DailyLog), args.Error(1)
}

func (m *MockDailyLogRepo) ListTotals(ctx context.Context, userID string) ([]domain.DailyTotal, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DailyTotal), args.Error(1)
}

func (m *MockDailyLogRepo) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.DailyLog, error) {
	args := m.Called(ctx, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DailyLog), args.Error(1)
}

type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepo) Upsert(ctx context.Context, profile *domain.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

type MockStatsRepo struct {
	mock.Mock
}

func (m *MockStatsRepo) GetWeekly(ctx context.Context, userID string) (*domain.WeeklyStatsSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WeeklyStatsSummary), args.Error(1)
}

func (m *MockStatsRepo) SaveWeekly(ctx context.Context, userID string, summary *domain.WeeklyStatsSummary) error {
	args := m.Called(ctx, userID, summary)
	return args.Error(0)
}

// fixedClock pins "now" to 2024-01-04 12:00 UTC, which is 06:00 in Mexico City.
func fixedClock() time.Time {
	return time.Date(2024, 1, 4, 12, 0, 0, 0, time.UTC)
}
