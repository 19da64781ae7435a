package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// PlayerRow is the persisted slice of a player: world identity survives
// across sessions even though the entity id does not.
type PlayerRow struct {
	Name         string
	Account      string
	X, Y, Z      float64
	ViewDistance int
	LastSeen     *time.Time
}

type PlayerRepo struct {
	db *DB
}

func NewPlayerRepo(db *DB) *PlayerRepo {
	return &PlayerRepo{db: db}
}

// Load returns the player row, nil if never seen before.
func (r *PlayerRepo) Load(ctx context.Context, name string) (*PlayerRow, error) {
	row := &PlayerRow{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT name, account, x, y, z, view_distance, last_seen
		 FROM players WHERE name = $1`, name,
	).Scan(&row.Name, &row.Account, &row.X, &row.Y, &row.Z, &row.ViewDistance, &row.LastSeen)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

// Save upserts one player row and stamps last_seen.
func (r *PlayerRepo) Save(ctx context.Context, row *PlayerRow) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO players (name, account, x, y, z, view_distance, last_seen)
		 VALUES ($1, $2, $3, $4, $5, $6, NOW())
		 ON CONFLICT (name) DO UPDATE
		 SET x = EXCLUDED.x, y = EXCLUDED.y, z = EXCLUDED.z,
		     view_distance = EXCLUDED.view_distance, last_seen = NOW()`,
		row.Name, row.Account, row.X, row.Y, row.Z, row.ViewDistance,
	)
	return err
}

// SaveBatch writes a set of player rows in one transaction. Used by the
// periodic persistence pass so a crash loses at most one save interval.
func (r *PlayerRepo) SaveBatch(ctx context.Context, rows []*PlayerRow) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("save batch begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, row := range rows {
		if _, err := tx.Exec(ctx,
			`INSERT INTO players (name, account, x, y, z, view_distance, last_seen)
			 VALUES ($1, $2, $3, $4, $5, $6, NOW())
			 ON CONFLICT (name) DO UPDATE
			 SET x = EXCLUDED.x, y = EXCLUDED.y, z = EXCLUDED.z,
			     view_distance = EXCLUDED.view_distance, last_seen = NOW()`,
			row.Name, row.Account, row.X, row.Y, row.Z, row.ViewDistance,
		); err != nil {
			return fmt.Errorf("save batch insert %s: %w", row.Name, err)
		}
	}

	return tx.Commit(ctx)
}
