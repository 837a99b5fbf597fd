package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-kcal/internal/core/domain"
)

func newEntry(t *testing.T, kcal, units float64) domain.IntakeEntry {
	t.Helper()
	e, err := domain.NewIntakeEntry(domain.NewIntakeEntryParams{
		UserID:      "u1",
		DateISO:     "2024-03-10",
		CustomName:  "Item",
		KcalPerUnit: kcal,
		Units:       units,
	}, time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC), time.UTC)
	require.NoError(t, err)
	return *e
}

func TestDailyLog_Mutations(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	log, err := domain.NewDailyLog("u1", "2024-03-10", now)
	require.NoError(t, err)
	assert.Equal(t, 0.0, log.TotalKcal)
	assert.NotNil(t, log.Entries)

	first := newEntry(t, 300, 2)
	second := newEntry(t, 150, 1)

	require.NoError(t, log.AddEntry(first, now))
	require.NoError(t, log.AddEntry(second, now.Add(time.Minute)))
	assert.Equal(t, 750.0, log.TotalKcal)
	assert.Equal(t, now.Add(time.Minute), log.UpdatedAt)

	require.NoError(t, log.UpdateUnits(first.ID, 1, now))
	assert.Equal(t, 450.0, log.TotalKcal)

	require.NoError(t, log.UndoLast(now))
	assert.Len(t, log.Entries, 1)
	assert.Equal(t, 300.0, log.TotalKcal)

	require.NoError(t, log.RemoveEntry(first.ID, now))
	assert.Empty(t, log.Entries)
	assert.Equal(t, 0.0, log.TotalKcal)

	assert.ErrorIs(t, log.UndoLast(now), domain.ErrEmptyLog)
	assert.ErrorIs(t, log.RemoveEntry("missing", now), domain.ErrEntryNotFound)
	assert.ErrorIs(t, log.UpdateUnits("missing", 1, now), domain.ErrEntryNotFound)
	assert.ErrorIs(t, log.UpdateUnits(first.ID, 0, now), domain.ErrInvalidUnits)
}

func TestDailyLog_Reset(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	log, err := domain.NewDailyLog("u1", "2024-03-10", now)
	require.NoError(t, err)
	require.NoError(t, log.AddEntry(newEntry(t, 500, 1), now))

	log.Reset(now)

	assert.Empty(t, log.Entries)
	assert.Equal(t, domain.DailyTotal{DateISO: "2024-03-10"}, log.Total())
}

func TestDailyLog_RejectsForeignEntry(t *testing.T) {
	now := time.Now()
	log, err := domain.NewDailyLog("u1", "2024-03-11", now)
	require.NoError(t, err)

	err = log.AddEntry(newEntry(t, 100, 1), now)

	assert.ErrorIs(t, err, domain.ErrInvalidEntry)
	assert.Empty(t, log.Entries)
}

func TestNewDailyLog_Validation(t *testing.T) {
	_, err := domain.NewDailyLog("", "2024-03-10", time.Now())
	assert.Error(t, err)

	_, err = domain.NewDailyLog("u1", "2024-3-10", time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}
