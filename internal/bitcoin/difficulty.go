package bitcoin

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/goodnatureofminers/tideshash-backend/internal/model"
	"github.com/goodnatureofminers/tideshash-backend/pkg/safe"
)

// ErrInvalidBits is returned for compact targets that are zero or negative.
var ErrInvalidBits = errors.New("invalid compact target")

// DifficultyFromBits converts a header's compact target into integer
// difficulty relative to the network's proof-of-work limit. The result
// is floored and never below 1.
func DifficultyFromBits(bits uint32, params *chaincfg.Params) (uint64, error) {
	target := blockchain.CompactToBig(bits)
	if target.Sign() <= 0 {
		return 0, fmt.Errorf("%w: 0x%08x", ErrInvalidBits, bits)
	}
	limit := blockchain.CompactToBig(params.PowLimitBits)

	difficulty := new(big.Int).Quo(limit, target)
	switch {
	case difficulty.Sign() == 0:
		return 1, nil
	case !difficulty.IsUint64():
		return math.MaxUint64, nil
	default:
		return difficulty.Uint64(), nil
	}
}

// DifficultySource reads the tip's difficulty from a node.
type DifficultySource struct {
	rpc    RPCClient
	params *chaincfg.Params
}

// NewDifficultySource builds a DifficultySource for the given network.
func NewDifficultySource(rpc RPCClient, params *chaincfg.Params) (*DifficultySource, error) {
	if rpc == nil {
		return nil, errors.New("rpc client is required")
	}
	if params == nil {
		return nil, errors.New("chain params are required")
	}
	return &DifficultySource{rpc: rpc, params: params}, nil
}

// Height returns the best block height.
func (s *DifficultySource) Height(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	count, err := s.rpc.GetBlockCount()
	if err != nil {
		return 0, fmt.Errorf("get block count: %w", err)
	}
	height, err := safe.Uint64(count)
	if err != nil {
		return 0, fmt.Errorf("block count: %w", err)
	}
	return height, nil
}

// At returns the difficulty of the block at height.
func (s *DifficultySource) At(ctx context.Context, height uint64) (model.NetworkDifficulty, error) {
	if err := ctx.Err(); err != nil {
		return model.NetworkDifficulty{}, err
	}
	h, err := safe.Int64(height)
	if err != nil {
		return model.NetworkDifficulty{}, fmt.Errorf("height: %w", err)
	}
	hash, err := s.rpc.GetBlockHash(h)
	if err != nil {
		return model.NetworkDifficulty{}, fmt.Errorf("get block hash %d: %w", height, err)
	}
	header, err := s.rpc.GetBlockHeader(hash)
	if err != nil {
		return model.NetworkDifficulty{}, fmt.Errorf("get block header %s: %w", hash, err)
	}
	difficulty, err := DifficultyFromBits(header.Bits, s.params)
	if err != nil {
		return model.NetworkDifficulty{}, fmt.Errorf("block %d: %w", height, err)
	}
	return model.NetworkDifficulty{Height: height, Bits: header.Bits, Difficulty: difficulty}, nil
}
