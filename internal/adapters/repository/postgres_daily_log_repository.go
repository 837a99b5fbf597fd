package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/kanso-kcal/internal/core/domain"
)

var _ domain.DailyLogRepository = (*PostgresDailyLogRepository)(nil)

type PostgresDailyLogRepository struct {
	db *sqlx.DB
}

func NewPostgresDailyLogRepository(db *sqlx.DB) *PostgresDailyLogRepository {
	return &PostgresDailyLogRepository{db: db}
}

type dailyLogRow struct {
	UserID    string    `db:"user_id"`
	DateISO   string    `db:"date_iso"`
	Entries   string    `db:"entries"`
	TotalKcal float64   `db:"total_kcal"`
	Version   int       `db:"version"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

const dailyLogColumns = `user_id, date_iso, entries, total_kcal, version, created_at, updated_at`

func newDailyLogRow(log *domain.DailyLog) (*dailyLogRow, error) {
	entries := log.Entries
	if entries == nil {
		entries = []domain.IntakeEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("repository: encode entries: %w", err)
	}
	return &dailyLogRow{
		UserID:    log.UserID,
		DateISO:   log.DateISO,
		Entries:   string(data),
		TotalKcal: log.TotalKcal,
		Version:   log.Version,
		CreatedAt: log.CreatedAt,
		UpdatedAt: log.UpdatedAt,
	}, nil
}

func (row *dailyLogRow) toDomain() (*domain.DailyLog, error) {
	log := &domain.DailyLog{
		UserID:    row.UserID,
		DateISO:   row.DateISO,
		TotalKcal: row.TotalKcal,
		Version:   row.Version,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
	if err := json.Unmarshal([]byte(row.Entries), &log.Entries); err != nil {
		return nil, fmt.Errorf("repository: decode entries of %s/%s: %w", row.UserID, row.DateISO, err)
	}
	if log.Entries == nil {
		log.Entries = []domain.IntakeEntry{}
	}
	return log, nil
}

func toDomainLogs(rows []dailyLogRow) ([]*domain.DailyLog, error) {
	logs := make([]*domain.DailyLog, 0, len(rows))
	for i := range rows {
		l, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, nil
}

func (r *PostgresDailyLogRepository) GetByDate(ctx context.Context, userID, dateISO string) (*domain.DailyLog, error) {
	var row dailyLogRow
	query := `SELECT ` + dailyLogColumns + ` FROM daily_logs WHERE user_id = $1 AND date_iso = $2`

	if err := r.db.GetContext(ctx, &row, query, userID, dateISO); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrLogNotFound
		}
		return nil, fmt.Errorf("repository: get daily log: %w", err)
	}
	return row.toDomain()
}

// Save inserts a new day (Version 0) or updates an existing one guarded by
// its version. On success log.Version holds the stored version.
func (r *PostgresDailyLogRepository) Save(ctx context.Context, log *domain.DailyLog) error {
	log.Recalculate()

	row, err := newDailyLogRow(log)
	if err != nil {
		return err
	}
	row.Version = log.Version + 1

	if log.Version == 0 {
		err = r.insert(ctx, row)
	} else {
		err = r.update(ctx, row)
	}
	if err != nil {
		return err
	}

	log.Version = row.Version
	return nil
}

func (r *PostgresDailyLogRepository) insert(ctx context.Context, row *dailyLogRow) error {
	query := `
		INSERT INTO daily_logs (` + dailyLogColumns + `)
		VALUES (:user_id, :date_iso, :entries, :total_kcal, :version, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		switch pgCode(err) {
		case pgUniqueViolation:
			return domain.ErrLogConflict
		case pgForeignKeyViolation:
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("repository: insert daily log: %w", err)
	}
	return nil
}

func (r *PostgresDailyLogRepository) update(ctx context.Context, row *dailyLogRow) error {
	query := `
		UPDATE daily_logs
		SET entries = :entries,
		    total_kcal = :total_kcal,
		    version = :version,
		    updated_at = :updated_at
		WHERE user_id = :user_id
		  AND date_iso = :date_iso
		  AND version = :version - 1`

	result, err := r.db.NamedExecContext(ctx, query, row)
	if err != nil {
		return fmt.Errorf("repository: update daily log: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		var count int
		if err := r.db.GetContext(ctx, &count,
			`SELECT count(*) FROM daily_logs WHERE user_id = $1 AND date_iso = $2`, row.UserID, row.DateISO); err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrLogNotFound
		}
		return domain.ErrLogConflict
	}
	return nil
}

func (r *PostgresDailyLogRepository) ListByDates(ctx context.Context, userID string, dates []string) ([]*domain.DailyLog, error) {
	if len(dates) == 0 {
		return []*domain.DailyLog{}, nil
	}

	query, args, err := sqlx.In(`SELECT `+dailyLogColumns+` FROM daily_logs WHERE user_id = ? AND date_iso IN (?)`, userID, dates)
	if err != nil {
		return nil, fmt.Errorf("repository: build list query: %w", err)
	}

	rows := []dailyLogRow{}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("repository: list daily logs: %w", err)
	}
	return toDomainLogs(rows)
}

func (r *PostgresDailyLogRepository) ListTotals(ctx context.Context, userID string) ([]domain.DailyTotal, error) {
	totals := []domain.DailyTotal{}
	query := `SELECT date_iso, total_kcal FROM daily_logs WHERE user_id = $1 ORDER BY date_iso`

	if err := r.db.SelectContext(ctx, &totals, query, userID); err != nil {
		return nil, fmt.Errorf("repository: list totals: %w", err)
	}
	return totals, nil
}

func (r *PostgresDailyLogRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.DailyLog, error) {
	rows := []dailyLogRow{}
	query := `
		SELECT ` + dailyLogColumns + ` FROM daily_logs
		WHERE user_id = $1
		  AND updated_at > $2
		ORDER BY updated_at ASC`

	if err := r.db.SelectContext(ctx, &rows, query, userID, since); err != nil {
		return nil, fmt.Errorf("repository: get changes: %w", err)
	}
	return toDomainLogs(rows)
}
