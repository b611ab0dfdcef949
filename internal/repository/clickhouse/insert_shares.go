package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/tideshash-backend/internal/model"
)

const insertSharesQuery = `
INSERT INTO tides_shares (
	sequence,
	authority_id,
	participant_id,
	difficulty,
	timestamp
) VALUES`

// InsertShares appends accepted shares to the share log.
func (r *Repository) InsertShares(ctx context.Context, shares []model.Share) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_shares", err, start)
	}()

	if len(shares) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, insertSharesQuery)
	if err != nil {
		return fmt.Errorf("prepare shares batch: %w", err)
	}

	for _, share := range shares {
		if err = batch.Append(
			share.Sequence,
			share.AuthorityID,
			share.Participant,
			share.Difficulty,
			share.Timestamp,
		); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("append share %d: %w", share.Sequence, err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert shares: %w", err)
	}
	return nil
}
