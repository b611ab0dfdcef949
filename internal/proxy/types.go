package proxy

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

import (
	"context"
	"time"

	"github.com/goodnatureofminers/tideshash-backend/internal/model"
)

type (
	Controller interface {
		SetTargets(ctx context.Context, targets []model.ProxyTarget) error
	}
	Metrics interface {
		Observe(endpoint string, err error, started time.Time)
	}
)
