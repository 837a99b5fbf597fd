package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrLogNotFound      = errors.New("daily log not found")
	ErrLogConflict      = errors.New("daily log version conflict")
	ErrSnapshotNotFound = errors.New("weekly stats snapshot not found")
)

type DailyLogRepository interface {
	// GetByDate retrieves the log of one user for one calendar day.
	GetByDate(ctx context.Context, userID, dateISO string) (*DailyLog, error)

	// Save inserts a log with Version 0, otherwise updates it.
	// Updates must match the stored version (optimistic locking) and bump it by one.
	Save(ctx context.Context, log *DailyLog) error

	// ListByDates returns the logs that exist for the given days, in no particular order.
	ListByDates(ctx context.Context, userID string, dates []string) ([]*DailyLog, error)

	// ListTotals returns the per-day totals of the user's whole history.
	// This is the input of the streak and summary calculators.
	ListTotals(ctx context.Context, userID string) ([]DailyTotal, error)

	// GetChanges [SYNC] Returns logs modified after 'since', oldest first.
	GetChanges(ctx context.Context, userID string, since time.Time) ([]*DailyLog, error)
}

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	Upsert(ctx context.Context, profile *Profile) error
}

type StatsRepository interface {
	// GetWeekly returns the last persisted weekly snapshot of a user.
	GetWeekly(ctx context.Context, userID string) (*WeeklyStatsSummary, error)
	SaveWeekly(ctx context.Context, userID string, summary *WeeklyStatsSummary) error
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}
