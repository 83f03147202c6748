package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/angler/internal/game/fishing"
)

// CatchRow is a landed fish as stored in the keepnet.
type CatchRow struct {
	ID       int64
	Record   fishing.CatchRecord
	LandedAt time.Time
}

// CatchRepository manages the catches table.
type CatchRepository struct {
	db *pgxpool.Pool
}

// NewCatchRepository creates a new CatchRepository.
func NewCatchRepository(db *pgxpool.Pool) *CatchRepository {
	return &CatchRepository{db: db}
}

// Save inserts a catch and returns its ID.
func (r *CatchRepository) Save(ctx context.Context, c fishing.CatchRecord) (int64, error) {
	query := `
		INSERT INTO catches (angler_id, species, weight_kg, bait, location, depth_m,
		                     bitten_at, duration_ms, mean_ratio, hook_quality)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	bittenAt := c.BittenAt
	if bittenAt.IsZero() {
		bittenAt = time.Now()
	}

	var id int64
	err := r.db.QueryRow(ctx, query,
		c.AnglerID, c.Species, c.WeightKg, c.Bait, c.Location, c.DepthM,
		bittenAt, c.Duration.Milliseconds(), c.MeanRatio, c.EffectiveHookQuality,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("saving %s catch for angler %d: %w", c.Species, c.AnglerID, err)
	}

	slog.Debug("saved catch",
		"anglerID", c.AnglerID,
		"species", c.Species,
		"weightKg", c.WeightKg,
		"catchID", id)

	return id, nil
}

// ListByAngler returns the angler's most recent catches, newest first.
func (r *CatchRepository) ListByAngler(ctx context.Context, anglerID int64, limit int) ([]CatchRow, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, angler_id, species, weight_kg, bait, location, depth_m,
		       bitten_at, duration_ms, mean_ratio, hook_quality, landed_at
		FROM catches
		WHERE angler_id = $1
		ORDER BY landed_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, anglerID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying catches for angler %d: %w", anglerID, err)
	}
	defer rows.Close()

	result := make([]CatchRow, 0, limit)
	for rows.Next() {
		row, err := scanCatch(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating catch rows: %w", err)
	}

	return result, nil
}

// PersonalBest returns the heaviest catch of a species for the angler.
// Returns nil, nil if the angler has never landed one.
func (r *CatchRepository) PersonalBest(ctx context.Context, anglerID int64, species string) (*CatchRow, error) {
	query := `
		SELECT id, angler_id, species, weight_kg, bait, location, depth_m,
		       bitten_at, duration_ms, mean_ratio, hook_quality, landed_at
		FROM catches
		WHERE angler_id = $1 AND species = $2
		ORDER BY weight_kg DESC, landed_at ASC
		LIMIT 1
	`

	row, err := scanCatch(r.db.QueryRow(ctx, query, anglerID, species))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying %s personal best for angler %d: %w", species, anglerID, err)
	}
	return &row, nil
}

func scanCatch(row pgx.Row) (CatchRow, error) {
	var (
		c          CatchRow
		durationMs int64
	)
	err := row.Scan(
		&c.ID, &c.Record.AnglerID, &c.Record.Species, &c.Record.WeightKg,
		&c.Record.Bait, &c.Record.Location, &c.Record.DepthM, &c.Record.BittenAt,
		&durationMs, &c.Record.MeanRatio, &c.Record.EffectiveHookQuality, &c.LandedAt,
	)
	if err != nil {
		return CatchRow{}, fmt.Errorf("scanning catch row: %w", err)
	}
	c.Record.Duration = time.Duration(durationMs) * time.Millisecond
	return c, nil
}
