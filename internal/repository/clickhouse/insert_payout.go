package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/tideshash-backend/internal/model"
)

const insertPayoutQuery = `
INSERT INTO tides_payouts (
	block_hash,
	height,
	sequence,
	participant_id,
	window_difficulty,
	participant_difficulty,
	amount,
	reward,
	carried,
	computed_at
) VALUES`

// InsertPayout stores one row per payout record.
func (r *Repository) InsertPayout(ctx context.Context, payout model.Payout) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_payout", err, start)
	}()

	if len(payout.Records) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, insertPayoutQuery)
	if err != nil {
		return fmt.Errorf("prepare payout batch: %w", err)
	}

	hash := payout.Block.Hash.String()
	for _, record := range payout.Records {
		if err = batch.Append(
			hash,
			payout.Block.Height,
			payout.Block.Sequence,
			record.Participant,
			record.WindowDifficulty,
			record.ParticipantDifficulty,
			int64(record.Amount),
			int64(payout.Reward),
			int64(payout.Carried),
			payout.ComputedAt,
		); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("append payout for %s: %w", record.Participant, err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert payout: %w", err)
	}
	return nil
}
