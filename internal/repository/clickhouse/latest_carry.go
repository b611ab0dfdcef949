package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcutil"
)

// A carry is consumed by the first payout computed after it.
const latestCarryQuery = `
SELECT carried
FROM tides_carry
WHERE recorded_at > (SELECT max(computed_at) FROM tides_payouts)
ORDER BY recorded_at DESC
LIMIT 1`

// LatestCarry returns the reward still waiting for a payout, or zero.
func (r *Repository) LatestCarry(ctx context.Context) (amount btcutil.Amount, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("latest_carry", err, start)
	}()

	rows, err := r.conn.Query(ctx, latestCarryQuery)
	if err != nil {
		return 0, fmt.Errorf("query latest carry: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return 0, fmt.Errorf("iterate latest carry: %w", err)
		}
		return 0, nil
	}
	var carried int64
	if err = rows.Scan(&carried); err != nil {
		return 0, fmt.Errorf("scan latest carry: %w", err)
	}
	if err = rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate latest carry: %w", err)
	}
	return btcutil.Amount(carried), nil
}
