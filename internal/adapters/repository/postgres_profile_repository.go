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

var _ domain.ProfileRepository = (*PostgresProfileRepository)(nil)

type PostgresProfileRepository struct {
	db *sqlx.DB
}

func NewPostgresProfileRepository(db *sqlx.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

type profileRow struct {
	domain.Profile
	MacrosJSON sql.NullString `db:"macros"`
}

func (r *PostgresProfileRepository) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	var row profileRow
	query := `
		SELECT user_id, name, sex, age, weight_kg, height_cm, activity, tdee, macros, created_at, updated_at
		FROM profiles
		WHERE user_id = $1`

	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("repository: get profile: %w", err)
	}

	profile := row.Profile
	profile.CreatedAt = profile.CreatedAt.UTC()
	profile.UpdatedAt = profile.UpdatedAt.UTC()
	if row.MacrosJSON.Valid {
		var m domain.MacroSplit
		if err := json.Unmarshal([]byte(row.MacrosJSON.String), &m); err != nil {
			return nil, fmt.Errorf("repository: decode macros: %w", err)
		}
		profile.Macros = &m
	}
	return &profile, nil
}

func (r *PostgresProfileRepository) Upsert(ctx context.Context, profile *domain.Profile) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	row := profileRow{Profile: *profile}
	if profile.Macros != nil {
		data, err := json.Marshal(profile.Macros)
		if err != nil {
			return fmt.Errorf("repository: encode macros: %w", err)
		}
		row.MacrosJSON = sql.NullString{String: string(data), Valid: true}
	}

	query := `
		INSERT INTO profiles (user_id, name, sex, age, weight_kg, height_cm, activity, tdee, macros, created_at, updated_at)
		VALUES (:user_id, :name, :sex, :age, :weight_kg, :height_cm, :activity, :tdee, :macros, :created_at, :updated_at)
		ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name,
			sex = EXCLUDED.sex,
			age = EXCLUDED.age,
			weight_kg = EXCLUDED.weight_kg,
			height_cm = EXCLUDED.height_cm,
			activity = EXCLUDED.activity,
			tdee = EXCLUDED.tdee,
			macros = EXCLUDED.macros,
			updated_at = EXCLUDED.updated_at`

	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("repository: upsert profile: %w", err)
	}
	return nil
}
