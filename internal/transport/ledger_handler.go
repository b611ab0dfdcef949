package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// LedgerHandler implements LedgerServiceServer on top of the ledger
// service.
type LedgerHandler struct {
	ledger Ledger
	logger *zap.Logger
	now    func() time.Time
}

// NewLedgerHandler returns a LedgerHandler instance.
func NewLedgerHandler(ledger Ledger, logger *zap.Logger) *LedgerHandler {
	return &LedgerHandler{
		ledger: ledger,
		logger: logger.Named("ledgerHandler"),
		now:    time.Now,
	}
}

// Health reports server health with a ledger summary.
func (h *LedgerHandler) Health(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	st := h.ledger.Status()
	return toStruct(map[string]any{
		"status":        "healthy",
		"last_sequence": st.LastSequence,
		"log_length":    st.LogLength,
	})
}

// GetWindow returns the current window, or the window ending at the
// requested sequence.
func (h *LedgerHandler) GetWindow(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req struct {
		Sequence uint64 `json:"sequence"`
	}
	if err := fromStruct(in, &req); err != nil {
		return nil, statusFromError(err).Err()
	}
	if req.Sequence == 0 {
		return toStruct(newWindowDTO(h.ledger.Window()))
	}
	w, err := h.ledger.WindowAt(req.Sequence)
	if err != nil {
		return nil, statusFromError(err).Err()
	}
	return toStruct(newWindowDTO(w))
}

// SubmitShare appends a share to the ledger.
func (h *LedgerHandler) SubmitShare(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req shareRequestDTO
	if err := fromStruct(in, &req); err != nil {
		return nil, statusFromError(err).Err()
	}
	share, err := h.ledger.SubmitShare(ctx, req.toModel(h.now()))
	if err != nil {
		return nil, statusFromError(err).Err()
	}
	return toStruct(newShareDTO(share))
}

// SubmitBlock pays out a found block.
func (h *LedgerHandler) SubmitBlock(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req blockDTO
	if err := fromStruct(in, &req); err != nil {
		return nil, statusFromError(err).Err()
	}
	block, err := req.toModel(h.now())
	if err != nil {
		return nil, statusFromError(err).Err()
	}
	p, err := h.ledger.SubmitBlock(ctx, block)
	if err != nil {
		h.logger.Warn("block payout failed", zap.Uint64("height", block.Height), zap.Error(err))
		return nil, statusFromError(err).Err()
	}
	return toStruct(newPayoutDTO(p))
}

// fromStruct decodes a Struct through its JSON form. Struct numbers are
// doubles, so integers above 2^53 lose precision over gRPC.
func fromStruct(in *structpb.Struct, v any) error {
	if in == nil {
		return nil
	}
	raw, err := protojson.Marshal(in)
	if err != nil {
		return fmt.Errorf("%w: %w", errInvalidRequest, err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", errInvalidRequest, err)
	}
	return nil
}

func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, statusFromError(fmt.Errorf("encode response: %w", err)).Err()
	}
	out := new(structpb.Struct)
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, statusFromError(fmt.Errorf("encode response: %w", err)).Err()
	}
	return out, nil
}
