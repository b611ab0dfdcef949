package scheduler

import (
	"context"
	"time"

	"github.com/goodnatureofminers/tideshash-backend/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	StakeSource interface {
		Snapshot(ctx context.Context) (model.StakeSnapshot, error)
	}
	HeightSource interface {
		CurrentHeight(ctx context.Context) (uint64, error)
	}
	Planner interface {
		Plan(snapshot model.StakeSnapshot) (model.Schedule, error)
	}
	ProxyController interface {
		SetTargets(ctx context.Context, targets []model.ProxyTarget) error
	}
	StateStore interface {
		Get(key string) ([]byte, error)
		Put(key string, value []byte, ttl time.Duration) error
	}
	Metrics interface {
		ObserveTransition(state string)
		ObservePush(err error, started time.Time)
		ObserveSnapshot(err error, started time.Time)
		ObserveHeight(err error, started time.Time)
		SetPosition(cycleID uint64, slot int)
	}
)
