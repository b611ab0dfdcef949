package transport

import (
	"context"
	"errors"

	"github.com/goodnatureofminers/tideshash-backend/internal/tides/ledger"
	"github.com/goodnatureofminers/tideshash-backend/internal/tides/payout"
	"github.com/goodnatureofminers/tideshash-backend/internal/tides/service"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// statusFromError maps domain errors onto gRPC status codes. REST
// handlers translate the code with the gateway's HTTP mapping.
func statusFromError(err error) *status.Status {
	switch {
	case err == nil:
		return status.New(codes.OK, "")
	case errors.Is(err, errInvalidRequest),
		errors.Is(err, ledger.ErrInvalidShare),
		errors.Is(err, ledger.ErrOutOfOrder),
		errors.Is(err, payout.ErrInvalidReward):
		return status.New(codes.InvalidArgument, err.Error())
	case errors.Is(err, ledger.ErrUnknownSequence):
		return status.New(codes.NotFound, err.Error())
	case errors.Is(err, service.ErrRewardCarried),
		errors.Is(err, service.ErrNoDifficulty),
		errors.Is(err, payout.ErrEmptyWindow):
		return status.New(codes.FailedPrecondition, err.Error())
	case errors.Is(err, ledger.ErrSequenceExhausted):
		return status.New(codes.ResourceExhausted, err.Error())
	case errors.Is(err, service.ErrStopped):
		return status.New(codes.Unavailable, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err)
	default:
		return status.New(codes.Internal, err.Error())
	}
}
