package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"qrpass/internal/domain"
)

// ReplayStore persists consumed-payload claims in processed_payloads. The
// primary key on content_hash makes Claim an atomic test-and-set across
// every service instance sharing the database.
type ReplayStore struct {
	db *DB
}

func NewReplayStore(db *DB) *ReplayStore {
	return &ReplayStore{db: db}
}

func (r *ReplayStore) Seen(ctx context.Context, contentHash string) (bool, error) {
	query := `SELECT 1 FROM processed_payloads WHERE content_hash = $1`

	var one int
	err := r.db.Pool.QueryRow(ctx, query, contentHash).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check replay record: %w", err)
	}
	return true, nil
}

func (r *ReplayStore) Claim(ctx context.Context, contentHash string, at time.Time) error {
	query := `
		INSERT INTO processed_payloads (content_hash, recorded_at)
		VALUES ($1, $2)
	`

	_, err := r.db.Pool.Exec(ctx, query, contentHash, at)
	if err != nil {
		if IsUniqueViolation(err) {
			return domain.NewReplayDetectedError()
		}
		return fmt.Errorf("failed to claim payload: %w", err)
	}
	return nil
}

func (r *ReplayStore) Release(ctx context.Context, contentHash string) error {
	query := `DELETE FROM processed_payloads WHERE content_hash = $1`

	_, err := r.db.Pool.Exec(ctx, query, contentHash)
	if err != nil {
		return fmt.Errorf("failed to release payload claim: %w", err)
	}
	return nil
}

func (r *ReplayStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM processed_payloads WHERE recorded_at < $1`

	tag, err := r.db.Pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge replay records: %w", err)
	}
	return tag.RowsAffected(), nil
}
