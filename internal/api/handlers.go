package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/babylonlabs-io/staking-ledger/internal/services"
	"github.com/babylonlabs-io/staking-ledger/internal/types"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 16

type Handlers struct {
	service *services.Service
}

func NewHandlers(service *services.Service) *Handlers {
	return &Handlers{service: service}
}

type amountRequest struct {
	Amount *uint64 `json:"amount"`
}

type claimRequest struct {
	ApplyPenalty bool `json:"apply_penalty"`
}

func (h *Handlers) HealthCheck(r *http.Request) (*Result, *types.Error) {
	if err := h.service.Ping(r.Context()); err != nil {
		return nil, err
	}
	return NewResult("ok"), nil
}

func (h *Handlers) CreateRecord(r *http.Request) (*Result, *types.Error) {
	record, err := h.service.CreateRecord(r.Context(), callerFrom(r))
	if err != nil {
		return nil, err
	}
	return NewCreatedResult(record), nil
}

func (h *Handlers) GetRecord(r *http.Request) (*Result, *types.Error) {
	record, err := h.service.GetRecord(r.Context(), chi.URLParam(r, "owner"))
	if err != nil {
		return nil, err
	}
	return NewResult(record), nil
}

func (h *Handlers) Stake(r *http.Request) (*Result, *types.Error) {
	amount, err := parseAmount(r)
	if err != nil {
		return nil, err
	}
	result, err := h.service.Stake(r.Context(), chi.URLParam(r, "owner"), callerFrom(r), amount)
	if err != nil {
		return nil, err
	}
	return NewResult(result), nil
}

func (h *Handlers) Unstake(r *http.Request) (*Result, *types.Error) {
	amount, err := parseAmount(r)
	if err != nil {
		return nil, err
	}
	result, err := h.service.Unstake(r.Context(), chi.URLParam(r, "owner"), callerFrom(r), amount)
	if err != nil {
		return nil, err
	}
	return NewResult(result), nil
}

// ClaimReward accepts an empty body, which claims without penalty.
func (h *Handlers) ClaimReward(r *http.Request) (*Result, *types.Error) {
	var req claimRequest
	if err := decodeBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		return nil, badRequest(err)
	}
	result, err := h.service.ClaimReward(r.Context(), chi.URLParam(r, "owner"), callerFrom(r), req.ApplyPenalty)
	if err != nil {
		return nil, err
	}
	return NewResult(result), nil
}

func (h *Handlers) Compound(r *http.Request) (*Result, *types.Error) {
	result, err := h.service.Compound(r.Context(), chi.URLParam(r, "owner"), callerFrom(r))
	if err != nil {
		return nil, err
	}
	return NewResult(result), nil
}

func (h *Handlers) ListEvents(r *http.Request) (*Result, *types.Error) {
	var limit int64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "limit must be a positive integer")
		}
		limit = parsed
	}

	events, err := h.service.ListEvents(r.Context(), chi.URLParam(r, "owner"), limit)
	if err != nil {
		return nil, err
	}
	return NewResult(events), nil
}

func (h *Handlers) GetBalance(r *http.Request) (*Result, *types.Error) {
	balance, err := h.service.GetBalance(r.Context(), chi.URLParam(r, "identity"))
	if err != nil {
		return nil, err
	}
	return NewResult(balance), nil
}

func (h *Handlers) GetStats(r *http.Request) (*Result, *types.Error) {
	stats, err := h.service.GetStats(r.Context())
	if err != nil {
		return nil, err
	}
	return NewResult(stats), nil
}

func parseAmount(r *http.Request) (uint64, *types.Error) {
	var req amountRequest
	if err := decodeBody(r, &req); err != nil {
		return 0, badRequest(err)
	}
	if req.Amount == nil {
		return 0, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "amount is required")
	}
	return *req.Amount, nil
}

func decodeBody(r *http.Request, dst any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func badRequest(err error) *types.Error {
	return types.NewError(http.StatusBadRequest, types.BadRequest, fmt.Errorf("invalid request body: %w", err))
}
