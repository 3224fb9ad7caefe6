package persist

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type SnapshotRepo struct {
	db *DB
}

func NewSnapshotRepo(db *DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// LatestDigest returns the digest of the newest snapshot for a character.
// ok is false when none exists.
func (r *SnapshotRepo) LatestDigest(ctx context.Context, charID int32) (digest []byte, ok bool, err error) {
	err = r.db.Pool.QueryRow(ctx,
		`SELECT digest FROM character_snapshots
		 WHERE character_id = $1 ORDER BY id DESC LIMIT 1`, charID,
	).Scan(&digest)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return digest, true, nil
}

// Save stores s with its items and skills in one transaction. It returns
// false without writing when the newest stored snapshot has the same digest.
func (r *SnapshotRepo) Save(ctx context.Context, s *Snapshot) (bool, error) {
	prev, ok, err := r.LatestDigest(ctx, s.CharacterID)
	if err != nil {
		return false, fmt.Errorf("latest digest: %w", err)
	}
	if ok && bytes.Equal(prev, s.Digest[:]) {
		return false, nil
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx,
		`INSERT INTO character_snapshots
		 (character_id, name, level, job, map_id, meso, exp, fame, partial, digest, taken_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id`,
		s.CharacterID, s.Name, int16(s.Level), s.Job, s.MapID, s.Meso, s.Exp, s.Fame,
		s.Partial, s.Digest[:], s.TakenAt,
	).Scan(&id)
	if err != nil {
		return false, fmt.Errorf("insert snapshot: %w", err)
	}

	if len(s.Items) > 0 {
		_, err = tx.CopyFrom(ctx, pgx.Identifier{"snapshot_items"},
			[]string{"snapshot_id", "inv_type", "slot", "item_id", "kind", "quantity", "expiration"},
			pgx.CopyFromSlice(len(s.Items), func(i int) ([]any, error) {
				it := s.Items[i]
				return []any{id, it.InvType, it.Slot, it.ItemID, it.Kind, it.Quantity, it.Expiration}, nil
			}))
		if err != nil {
			return false, fmt.Errorf("copy items: %w", err)
		}
	}
	if len(s.Skills) > 0 {
		_, err = tx.CopyFrom(ctx, pgx.Identifier{"snapshot_skills"},
			[]string{"snapshot_id", "skill_id", "level", "master_level"},
			pgx.CopyFromSlice(len(s.Skills), func(i int) ([]any, error) {
				sk := s.Skills[i]
				return []any{id, sk.SkillID, sk.Level, sk.MasterLevel}, nil
			}))
		if err != nil {
			return false, fmt.Errorf("copy skills: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}
