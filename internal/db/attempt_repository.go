package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/angler/internal/game/fishing"
)

// AttemptRepository manages the attempts table: one row per finished fight.
type AttemptRepository struct {
	db *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(db *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{db: db}
}

// Record stores how a fight ended.
func (r *AttemptRepository) Record(ctx context.Context, o *fishing.Outcome) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO attempts (angler_id, species, phase, cause, elapsed_ms)
		 VALUES ($1, $2, $3, $4, $5)`,
		o.Context.AnglerID, o.Fish.Species, o.Phase.String(), string(o.Cause), o.Elapsed.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("recording attempt for angler %d: %w", o.Context.AnglerID, err)
	}
	return nil
}

// CountByPhase returns how many fights the angler finished in each phase.
func (r *AttemptRepository) CountByPhase(ctx context.Context, anglerID int64) (map[string]int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT phase, count(*) FROM attempts WHERE angler_id = $1 GROUP BY phase`,
		anglerID,
	)
	if err != nil {
		return nil, fmt.Errorf("counting attempts for angler %d: %w", anglerID, err)
	}
	defer rows.Close()

	result := make(map[string]int, 5)
	for rows.Next() {
		var (
			phase string
			n     int
		)
		if err := rows.Scan(&phase, &n); err != nil {
			return nil, fmt.Errorf("scanning attempt count: %w", err)
		}
		result[phase] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating attempt counts: %w", err)
	}

	return result, nil
}
