package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"dietprogram/internal/domain"
)

type progressRow struct {
	ID              int64     `db:"id"`
	UserID          int64     `db:"user_id"`
	Date            string    `db:"date"`
	WeightKg        *float64  `db:"weight_kg"`
	WaterLiters     *float64  `db:"water_liters"`
	ExerciseMinutes *int      `db:"exercise_minutes"`
	Notes           *string   `db:"notes"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (r progressRow) toDomain() domain.ProgressEntry {
	return domain.ProgressEntry{
		ID:              r.ID,
		UserID:          r.UserID,
		Date:            r.Date,
		WeightKg:        r.WeightKg,
		WaterLiters:     r.WaterLiters,
		ExerciseMinutes: r.ExerciseMinutes,
		Notes:           r.Notes,
		UpdatedAt:       r.UpdatedAt,
	}
}

const progressColumns = "id, user_id, date::text AS date, weight_kg, water_liters, exercise_minutes, notes, updated_at"

// UpsertProgress replaces the entry for (e.UserID, e.Date). Fields left nil
// are cleared.
func (d *DB) UpsertProgress(ctx context.Context, e domain.ProgressEntry) error {
	updatedAt := e.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO user_progress (user_id, date, weight_kg, water_liters, exercise_minutes, notes, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, date) DO UPDATE SET
			weight_kg = EXCLUDED.weight_kg,
			water_liters = EXCLUDED.water_liters,
			exercise_minutes = EXCLUDED.exercise_minutes,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at`,
		e.UserID, e.Date, e.WeightKg, e.WaterLiters, e.ExerciseMinutes, e.Notes, updatedAt,
	)
	return err
}

// ListProgress returns the user's entries newest first.
func (d *DB) ListProgress(ctx context.Context, userID int64, r *domain.DateRange) ([]domain.ProgressEntry, error) {
	var rows []progressRow
	var err error
	if r == nil {
		err = d.sql.SelectContext(ctx, &rows,
			"SELECT "+progressColumns+" FROM user_progress WHERE user_id = $1 ORDER BY date DESC",
			userID,
		)
	} else {
		err = d.sql.SelectContext(ctx, &rows,
			"SELECT "+progressColumns+" FROM user_progress WHERE user_id = $1 AND date BETWEEN $2 AND $3 ORDER BY date DESC",
			userID, r.Start, r.End,
		)
	}
	if err != nil {
		return nil, err
	}
	out := make([]domain.ProgressEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// LatestWeight returns the newest entry with a weight, or nil.
func (d *DB) LatestWeight(ctx context.Context, userID int64) (*domain.ProgressEntry, error) {
	var row progressRow
	err := d.sql.GetContext(ctx, &row,
		"SELECT "+progressColumns+" FROM user_progress WHERE user_id = $1 AND weight_kg IS NOT NULL ORDER BY date DESC LIMIT 1",
		userID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	e := row.toDomain()
	return &e, nil
}
