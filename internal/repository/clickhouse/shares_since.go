package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/tideshash-backend/internal/model"
)

const sharesSinceQuery = `
SELECT sequence, authority_id, participant_id, difficulty, timestamp
FROM tides_shares
WHERE sequence > ? AND timestamp >= ?
ORDER BY sequence
LIMIT ?`

// SharesSince returns up to limit shares with a sequence above after and a
// timestamp not before since, ordered by sequence.
func (r *Repository) SharesSince(ctx context.Context, after uint64, since time.Time, limit int) (shares []model.Share, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("shares_since", err, start)
	}()

	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	rows, err := r.conn.Query(ctx, sharesSinceQuery, after, since, limit)
	if err != nil {
		return nil, fmt.Errorf("query shares: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	shares = make([]model.Share, 0, limit)
	for rows.Next() {
		var share model.Share
		if err = rows.Scan(
			&share.Sequence,
			&share.AuthorityID,
			&share.Participant,
			&share.Difficulty,
			&share.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan share: %w", err)
		}
		shares = append(shares, share)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shares: %w", err)
	}
	return shares, nil
}
