package persist

import (
	"context"
	"fmt"
	"time"
)

// RemovalEntry records one completed model removal.
type RemovalEntry struct {
	World      string
	Model      string
	ModelID    uint64
	Joints     int
	Collisions int
	Links      int
	RemovedAt  time.Time
}

type JournalRepo struct {
	db *DB
}

func NewJournalRepo(db *DB) *JournalRepo {
	return &JournalRepo{db: db}
}

// Write stores a batch of entries in a single transaction.
func (r *JournalRepo) Write(ctx context.Context, entries []RemovalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := r.db.SQL.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("journal begin: %w", err)
	}
	defer tx.Rollback()

	// $n placeholders bind by ordinal on both pgx and modernc sqlite.
	const stmt = `INSERT INTO removal_journal
		(world_name, model_name, model_id, joints, collisions, links, removed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, stmt,
			e.World, e.Model, int64(e.ModelID), e.Joints, e.Collisions, e.Links, e.RemovedAt.UnixNano(),
		); err != nil {
			return fmt.Errorf("journal insert: %w", err)
		}
	}
	return tx.Commit()
}

// Recent returns up to limit entries, newest first.
func (r *JournalRepo) Recent(ctx context.Context, limit int) ([]RemovalEntry, error) {
	rows, err := r.db.SQL.QueryContext(ctx,
		`SELECT world_name, model_name, model_id, joints, collisions, links, removed_at
		 FROM removal_journal ORDER BY id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []RemovalEntry
	for rows.Next() {
		var (
			e         RemovalEntry
			modelID   int64
			removedAt int64
		)
		if err := rows.Scan(&e.World, &e.Model, &modelID, &e.Joints, &e.Collisions, &e.Links, &removedAt); err != nil {
			return nil, err
		}
		e.ModelID = uint64(modelID)
		e.RemovedAt = time.Unix(0, removedAt)
		result = append(result, e)
	}
	return result, rows.Err()
}
