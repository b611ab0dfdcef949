package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/tideshash-backend/internal/model"
)

const insertCarryQuery = `
INSERT INTO tides_carry (
	block_hash,
	height,
	reward,
	carried,
	recorded_at
) VALUES`

// InsertCarry records the reward carried past a block with no payable window.
func (r *Repository) InsertCarry(ctx context.Context, carry model.Carry) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_carry", err, start)
	}()

	batch, err := r.conn.PrepareBatch(ctx, insertCarryQuery)
	if err != nil {
		return fmt.Errorf("prepare carry batch: %w", err)
	}
	if err = batch.Append(
		carry.Block.Hash.String(),
		carry.Block.Height,
		int64(carry.Block.Reward),
		int64(carry.Amount),
		carry.RecordedAt,
	); err != nil {
		_ = batch.Abort()
		return fmt.Errorf("append carry: %w", err)
	}
	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert carry: %w", err)
	}
	return nil
}
