package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/comitanigiacomo/kanso-kcal/internal/config"
	"github.com/comitanigiacomo/kanso-kcal/internal/core/domain"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	_ = godotenv.Load("../../../.env")

	cfg, err := config.FromEnv(os.Getenv)
	require.NoError(t, err)

	db, err := sqlx.Connect("pgx", cfg.DB.DSN())
	if err != nil {
		t.Skipf("Skipping integration tests: database connection failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, Migrate(ctx, db))

	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, repo *PostgresUserRepository) *domain.User {
	t.Helper()
	user, err := domain.NewUser(uuid.NewString(), uuid.NewString()[:8]+"@example.com")
	require.NoError(t, err)
	user.PasswordHash = "hash"
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestPostgresUserRepository_Integration(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresUserRepository(db)
	ctx := context.Background()

	user := createTestUser(t, repo)

	t.Run("Duplicate email", func(t *testing.T) {
		dup, err := domain.NewUser(uuid.NewString(), user.Email)
		require.NoError(t, err)
		dup.PasswordHash = "hash"
		assert.ErrorIs(t, repo.Create(ctx, dup), domain.ErrEmailAlreadyExists)
	})

	t.Run("Lookups", func(t *testing.T) {
		byEmail, err := repo.GetByEmail(ctx, user.Email)
		require.NoError(t, err)
		assert.Equal(t, user.ID, byEmail.ID)

		byID, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Email, byID.Email)
		assert.WithinDuration(t, user.CreatedAt, byID.CreatedAt, time.Millisecond)

		_, err = repo.GetByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestPostgresDailyLogRepository_Integration(t *testing.T) {
	db := setupTestDB(t)
	users := NewPostgresUserRepository(db)
	repo := NewPostgresDailyLogRepository(db)
	ctx := context.Background()

	user := createTestUser(t, users)

	log := newLogWithEntry(t, user.ID, "2024-01-04", 450)
	require.NoError(t, repo.Save(ctx, log))
	assert.Equal(t, 1, log.Version)

	t.Run("Round trip keeps entries", func(t *testing.T) {
		got, err := repo.GetByDate(ctx, user.ID, "2024-01-04")
		require.NoError(t, err)
		require.Len(t, got.Entries, 1)
		assert.Equal(t, log.Entries[0].ID, got.Entries[0].ID)
		assert.Equal(t, 450.0, got.TotalKcal)
		assert.Equal(t, 1, got.Version)
	})

	t.Run("Optimistic locking", func(t *testing.T) {
		a, err := repo.GetByDate(ctx, user.ID, "2024-01-04")
		require.NoError(t, err)
		b, err := repo.GetByDate(ctx, user.ID, "2024-01-04")
		require.NoError(t, err)

		a.Reset(memNow)
		require.NoError(t, repo.Save(ctx, a))
		assert.Equal(t, 2, a.Version)

		b.Reset(memNow)
		assert.ErrorIs(t, repo.Save(ctx, b), domain.ErrLogConflict)
	})

	t.Run("Insert of an existing day conflicts", func(t *testing.T) {
		dup := newLogWithEntry(t, user.ID, "2024-01-04", 100)
		assert.ErrorIs(t, repo.Save(ctx, dup), domain.ErrLogConflict)
	})

	t.Run("Unknown user", func(t *testing.T) {
		orphan := newLogWithEntry(t, uuid.NewString(), "2024-01-04", 100)
		assert.ErrorIs(t, repo.Save(ctx, orphan), domain.ErrUserNotFound)
	})

	t.Run("Totals and date lists", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, newLogWithEntry(t, user.ID, "2024-01-02", 1800)))

		totals, err := repo.ListTotals(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, []domain.DailyTotal{
			{DateISO: "2024-01-02", TotalKcal: 1800},
			{DateISO: "2024-01-04", TotalKcal: 0},
		}, totals)

		logs, err := repo.ListByDates(ctx, user.ID, []string{"2024-01-01", "2024-01-02"})
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, "2024-01-02", logs[0].DateISO)

		changes, err := repo.GetChanges(ctx, user.ID, memNow.Add(-time.Hour))
		require.NoError(t, err)
		assert.Len(t, changes, 2)
	})
}

func TestPostgresProfileAndStatsRepository_Integration(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, NewPostgresUserRepository(db))
	ctx := context.Background()

	profiles := NewPostgresProfileRepository(db)
	profile, err := domain.NewProfile(user.ID, domain.ProfileParams{
		Name:     "Luis",
		Sex:      domain.SexMale,
		Age:      30,
		WeightKg: 80,
		HeightCm: 180,
		Activity: domain.ActivityModerate,
		Macros:   &domain.MacroSplit{CarbPct: 40, ProtPct: 30, FatPct: 30},
	}, memNow)
	require.NoError(t, err)
	require.NoError(t, profiles.Upsert(ctx, profile))

	require.NoError(t, profile.Update(domain.ProfileParams{
		Name:     "Luis",
		Sex:      domain.SexMale,
		Age:      30,
		WeightKg: 80,
		HeightCm: 180,
		Activity: domain.ActivitySedentary,
	}, memNow))
	require.NoError(t, profiles.Upsert(ctx, profile))

	got, err := profiles.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ActivitySedentary, got.Activity)
	assert.Equal(t, 2136.0, got.TDEE)
	assert.Nil(t, got.Macros)

	stats := NewPostgresStatsRepository(db)
	_, err = stats.GetWeekly(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)

	summary := &domain.WeeklyStatsSummary{
		PeriodStart:   "2024-01-01",
		PeriodEnd:     "2024-01-07",
		TotalKcal:     13650.5,
		Compliance:    71.43,
		BestDay:       &domain.BestDay{DateISO: "2024-01-05", TotalKcal: 2010},
		CurrentStreak: 2,
		UpdatedAt:     memNow,
	}
	require.NoError(t, stats.SaveWeekly(ctx, user.ID, summary))

	snapshot, err := stats.GetWeekly(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, summary.SameMetrics(snapshot))
}
