// Package transport exposes the ledger and the scheduler over gRPC and REST.
package transport

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

import (
	"context"

	"github.com/goodnatureofminers/tideshash-backend/internal/model"
	"github.com/goodnatureofminers/tideshash-backend/internal/scheduler"
	"github.com/goodnatureofminers/tideshash-backend/internal/tides/service"
)

type (
	Ledger interface {
		SubmitShare(ctx context.Context, share model.Share) (model.Share, error)
		SubmitBlock(ctx context.Context, block model.BlockEvent) (model.Payout, error)
		Window() model.Window
		WindowAt(sequence uint64) (model.Window, error)
		Scores() []model.Score
		Status() service.Status
	}
	Scheduler interface {
		Status() scheduler.Status
		Schedule() (model.Schedule, bool)
	}
)
