package persist

import (
	"context"
	"fmt"
	"time"
)

// AnomalyEntry is one physics safety net that fired on a map.
type AnomalyEntry struct {
	CharacterID int32
	MapID       int32
	Kind        string
	OID         int32
	Anomaly     string
	Y           float64
	SeenAt      time.Time
}

type AnomalyLogRepo struct {
	db *DB
}

func NewAnomalyLogRepo(db *DB) *AnomalyLogRepo {
	return &AnomalyLogRepo{db: db}
}

// WriteBatch inserts entries in a single transaction.
func (r *AnomalyLogRepo) WriteBatch(ctx context.Context, entries []AnomalyEntry) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("anomaly log begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range entries {
		if _, err := tx.Exec(ctx,
			`INSERT INTO physics_anomalies (character_id, map_id, kind, oid, anomaly, y, seen_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			e.CharacterID, e.MapID, e.Kind, e.OID, e.Anomaly, e.Y, e.SeenAt,
		); err != nil {
			return fmt.Errorf("anomaly log insert: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// PruneBefore deletes entries older than cutoff and returns how many.
func (r *AnomalyLogRepo) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM physics_anomalies WHERE seen_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
