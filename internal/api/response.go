package api

import (
	"encoding/json"
	"net/http"

	"github.com/babylonlabs-io/staking-ledger/internal/types"
	"github.com/rs/zerolog/log"
)

type Result struct {
	Data   any `json:"data"`
	status int
}

func NewResult(data any) *Result {
	return &Result{Data: data, status: http.StatusOK}
}

func NewCreatedResult(data any) *Result {
	return &Result{Data: data, status: http.StatusCreated}
}

type ErrorResponse struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

// handlerFunc is a http handler that returns its result instead of writing it.
type handlerFunc func(r *http.Request) (*Result, *types.Error)

func registerHandler(f handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := f(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, r, result.status, result)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err *types.Error) {
	logger := log.Ctx(r.Context())
	message := err.Error()
	if err.StatusCode >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		// storage and driver details stay in the logs
		message = "internal service error"
	} else {
		logger.Warn().Err(err).
			Str("path", r.URL.Path).
			Str("error_code", err.ErrorCode.String()).
			Msg("request rejected")
	}

	writeJSON(w, r, err.StatusCode, ErrorResponse{
		ErrorCode: err.ErrorCode.String(),
		Message:   message,
	})
}
