//go:build !zmq

package blocksignal

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// ErrUnsupported is returned for a configured address in a build without
// the zmq tag.
var ErrUnsupported = errors.New("built without zmq support, rebuild with -tags zmq")

// Start returns a nil channel when addr is empty; callers fall back to
// polling.
func Start(_ context.Context, addr string, _ *zap.Logger) (<-chan struct{}, error) {
	if addr == "" {
		return nil, nil
	}
	return nil, ErrUnsupported
}
