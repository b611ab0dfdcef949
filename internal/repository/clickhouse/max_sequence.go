package clickhouse

import (
	"context"
	"fmt"
	"time"
)

const maxSequenceQuery = `
SELECT coalesce(max(sequence), toUInt64(0)) AS max_sequence
FROM tides_shares`

// MaxSequence returns the highest stored share sequence, or 0 when the
// log is empty.
func (r *Repository) MaxSequence(ctx context.Context) (sequence uint64, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("max_sequence", err, start)
	}()

	rows, err := r.conn.Query(ctx, maxSequenceQuery)
	if err != nil {
		return 0, fmt.Errorf("query max sequence: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	if !rows.Next() {
		return 0, fmt.Errorf("max sequence not found")
	}
	if err = rows.Scan(&sequence); err != nil {
		return 0, fmt.Errorf("scan max sequence: %w", err)
	}
	if err = rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate max sequence: %w", err)
	}
	return sequence, nil
}
