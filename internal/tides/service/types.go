package service

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

import (
	"context"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/goodnatureofminers/tideshash-backend/internal/model"
)

type (
	Repository interface {
		InsertPayout(ctx context.Context, payout model.Payout) error
		InsertCarry(ctx context.Context, carry model.Carry) error
		SharesSince(ctx context.Context, after uint64, since time.Time, limit int) ([]model.Share, error)
		MaxSequence(ctx context.Context) (uint64, error)
		LatestCarry(ctx context.Context) (btcutil.Amount, error)
	}
	ShareWriter interface {
		Start(ctx context.Context)
		Stop()
		Add(ctx context.Context, share model.Share) error
	}
	DifficultySource interface {
		Height(ctx context.Context) (uint64, error)
		At(ctx context.Context, height uint64) (model.NetworkDifficulty, error)
	}
	DifficultySink interface {
		SetNetworkDifficulty(ctx context.Context, difficulty model.NetworkDifficulty) error
	}
	Metrics interface {
		ObserveAppend(err error, started time.Time)
		ObservePayout(err error, started time.Time)
		ObserveReplay(err error, shares int, started time.Time)
		ObserveDifficulty(err error, started time.Time)
		SetWindow(shares int, difficulty, target uint64)
		SetNetworkDifficulty(difficulty uint64)
		SetCarried(amount btcutil.Amount)
	}
)
