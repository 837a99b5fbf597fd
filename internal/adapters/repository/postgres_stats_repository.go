package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/kanso-kcal/internal/core/domain"
)

var _ domain.StatsRepository = (*PostgresStatsRepository)(nil)

// PostgresStatsRepository keeps one JSON weekly snapshot per user.
type PostgresStatsRepository struct {
	db *sqlx.DB
}

func NewPostgresStatsRepository(db *sqlx.DB) *PostgresStatsRepository {
	return &PostgresStatsRepository{db: db}
}

func (r *PostgresStatsRepository) GetWeekly(ctx context.Context, userID string) (*domain.WeeklyStatsSummary, error) {
	var raw string
	err := r.db.GetContext(ctx, &raw, `SELECT summary FROM weekly_stats WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("repository: get weekly stats: %w", err)
	}

	var summary domain.WeeklyStatsSummary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		return nil, fmt.Errorf("repository: decode weekly stats: %w", err)
	}
	return &summary, nil
}

func (r *PostgresStatsRepository) SaveWeekly(ctx context.Context, userID string, summary *domain.WeeklyStatsSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("repository: encode weekly stats: %w", err)
	}

	query := `
		INSERT INTO weekly_stats (user_id, summary, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			summary = EXCLUDED.summary,
			updated_at = EXCLUDED.updated_at`

	if _, err := r.db.ExecContext(ctx, query, userID, string(data), summary.UpdatedAt); err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("repository: save weekly stats: %w", err)
	}
	return nil
}
