package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const maxRequestBytes = 1 << 20

var errNoSchedule = errors.New("no schedule planned yet")

type errorBody struct {
	Code    int32  `json:"code"`
	Message string `json:"message"`
}

// RegisterLedgerRoutes mounts the ledger REST API on mux.
func RegisterLedgerRoutes(mux *gwruntime.ServeMux, ledger Ledger, logger *zap.Logger) error {
	h := &ledgerRoutes{
		ledger: ledger,
		logger: logger.Named("ledgerRoutes"),
		now:    time.Now,
	}
	routes := []struct {
		method, pattern string
		handler         gwruntime.HandlerFunc
	}{
		{http.MethodGet, "/v1/health", h.health},
		{http.MethodPost, "/v1/shares", h.submitShare},
		{http.MethodPost, "/v1/blocks", h.submitBlock},
		{http.MethodGet, "/v1/window", h.window},
		{http.MethodGet, "/v1/window/{sequence}", h.windowAt},
		{http.MethodGet, "/v1/scores", h.scores},
		{http.MethodGet, "/v1/status", h.status},
	}
	for _, r := range routes {
		if err := mux.HandlePath(r.method, r.pattern, r.handler); err != nil {
			return fmt.Errorf("register %s %s: %w", r.method, r.pattern, err)
		}
	}
	return nil
}

// RegisterSchedulerRoutes mounts the scheduler status API on mux.
func RegisterSchedulerRoutes(mux *gwruntime.ServeMux, sched Scheduler) error {
	if err := mux.HandlePath(http.MethodGet, "/v1/health", func(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}); err != nil {
		return fmt.Errorf("register health: %w", err)
	}
	if err := mux.HandlePath(http.MethodGet, "/v1/status", func(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
		writeJSON(w, http.StatusOK, sched.Status())
	}); err != nil {
		return fmt.Errorf("register status: %w", err)
	}
	if err := mux.HandlePath(http.MethodGet, "/v1/schedule", func(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
		schedule, ok := sched.Schedule()
		if !ok {
			writeStatus(w, status.New(codes.NotFound, errNoSchedule.Error()))
			return
		}
		writeJSON(w, http.StatusOK, schedule)
	}); err != nil {
		return fmt.Errorf("register schedule: %w", err)
	}
	return nil
}

type ledgerRoutes struct {
	ledger Ledger
	logger *zap.Logger
	now    func() time.Time
}

func (h *ledgerRoutes) health(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
	st := h.ledger.Status()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "healthy",
		"last_sequence": st.LastSequence,
		"log_length":    st.LogLength,
	})
}

func (h *ledgerRoutes) submitShare(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var req shareRequestDTO
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	share, err := h.ledger.SubmitShare(r.Context(), req.toModel(h.now()))
	if err != nil {
		h.logger.Debug("share rejected", zap.String("participant", req.Participant), zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newShareDTO(share))
}

func (h *ledgerRoutes) submitBlock(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var req blockDTO
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	block, err := req.toModel(h.now())
	if err != nil {
		writeError(w, err)
		return
	}
	p, err := h.ledger.SubmitBlock(r.Context(), block)
	if err != nil {
		h.logger.Warn("block payout failed", zap.Uint64("height", block.Height), zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newPayoutDTO(p))
}

func (h *ledgerRoutes) window(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
	writeJSON(w, http.StatusOK, newWindowDTO(h.ledger.Window()))
}

func (h *ledgerRoutes) windowAt(w http.ResponseWriter, _ *http.Request, params map[string]string) {
	seq, err := strconv.ParseUint(params["sequence"], 10, 64)
	if err != nil {
		writeError(w, fmt.Errorf("%w: sequence: %w", errInvalidRequest, err))
		return
	}
	win, err := h.ledger.WindowAt(seq)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newWindowDTO(win))
}

func (h *ledgerRoutes) scores(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
	writeJSON(w, http.StatusOK, newScoresDTO(h.ledger.Scores()))
}

func (h *ledgerRoutes) status(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
	writeJSON(w, http.StatusOK, h.ledger.Status())
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", errInvalidRequest, err)
	}
	return nil
}

func writeError(w http.ResponseWriter, err error) {
	writeStatus(w, statusFromError(err))
}

func writeStatus(w http.ResponseWriter, st *status.Status) {
	writeJSON(w, httpStatusFromCode(st.Code()), errorBody{
		Code:    int32(st.Code()),
		Message: st.Message(),
	})
}

// httpStatusFromCode follows the gateway mapping except for a failed
// precondition, which is a conflict with ledger state here.
func httpStatusFromCode(code codes.Code) int {
	if code == codes.FailedPrecondition {
		return http.StatusConflict
	}
	return gwruntime.HTTPStatusFromCode(code)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
