package domain

import (
	"errors"
	"math"
	"strings"
	"time"
)

var (
	ErrEntryNotFound = errors.New("intake entry not found")
	ErrEmptyLog      = errors.New("daily log has no entries")
)

// DailyLog holds one user's entries for one calendar day. TotalKcal is
// always recomputed from Entries; it is never trusted from outside.
type DailyLog struct {
	UserID    string        `json:"user_id"`
	DateISO   string        `json:"date_iso"`
	Entries   []IntakeEntry `json:"entries"`
	TotalKcal float64       `json:"total_kcal"`

	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewDailyLog(userID, dateISO string, now time.Time) (*DailyLog, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errors.New("user_id is required")
	}
	if _, err := ParseDateISO(dateISO); err != nil {
		return nil, err
	}

	now = now.UTC()
	return &DailyLog{
		UserID:    userID,
		DateISO:   dateISO,
		Entries:   []IntakeEntry{},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// EmptyDailyLog is the placeholder returned for days nobody logged.
func EmptyDailyLog(userID, dateISO string) DailyLog {
	return DailyLog{UserID: userID, DateISO: dateISO, Entries: []IntakeEntry{}}
}

func (l *DailyLog) Recalculate() {
	total := 0.0
	for i := range l.Entries {
		total += l.Entries[i].Kcal()
	}
	if math.IsNaN(total) || math.IsInf(total, 0) {
		total = 0
	}
	l.TotalKcal = total
}

func (l *DailyLog) touch(now time.Time) {
	l.Recalculate()
	l.UpdatedAt = now.UTC()
}

func (l *DailyLog) AddEntry(entry IntakeEntry, now time.Time) error {
	if entry.UserID != l.UserID || entry.DateISO != l.DateISO {
		return ErrInvalidEntry
	}
	if err := entry.Validate(); err != nil {
		return err
	}
	l.Entries = append(l.Entries, entry)
	l.touch(now)
	return nil
}

func (l *DailyLog) FindEntry(entryID string) (*IntakeEntry, bool) {
	for i := range l.Entries {
		if l.Entries[i].ID == entryID {
			return &l.Entries[i], true
		}
	}
	return nil, false
}

func (l *DailyLog) UpdateUnits(entryID string, units float64, now time.Time) error {
	if math.IsNaN(units) || math.IsInf(units, 0) || units <= 0 {
		return ErrInvalidUnits
	}
	entry, ok := l.FindEntry(entryID)
	if !ok {
		return ErrEntryNotFound
	}
	entry.Units = units
	l.touch(now)
	return nil
}

func (l *DailyLog) RemoveEntry(entryID string, now time.Time) error {
	for i := range l.Entries {
		if l.Entries[i].ID == entryID {
			l.Entries = append(l.Entries[:i], l.Entries[i+1:]...)
			l.touch(now)
			return nil
		}
	}
	return ErrEntryNotFound
}

func (l *DailyLog) Reset(now time.Time) {
	l.Entries = []IntakeEntry{}
	l.touch(now)
}

// UndoLast drops the most recently added entry.
func (l *DailyLog) UndoLast(now time.Time) error {
	if len(l.Entries) == 0 {
		return ErrEmptyLog
	}
	l.Entries = l.Entries[:len(l.Entries)-1]
	l.touch(now)
	return nil
}

func (l *DailyLog) Total() DailyTotal {
	return DailyTotal{DateISO: l.DateISO, TotalKcal: l.TotalKcal}
}
