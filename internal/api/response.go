package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/babylonlabs-io/staking-ledger/internal/types"
)

type Result struct {
	Status int
	Data   any
}

func NewResult(data any) *Result {
	return &Result{Status: http.StatusOK, Data: data}
}

type ErrorResponse struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

type handlerFunc func(r *http.Request) (*Result, *types.Error)

// registerHandler renders the handler outcome as JSON.
func registerHandler(handler handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := handler(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		if result == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, r, result.Status, result.Data)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("failed to write response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err *types.Error) {
	if err.StatusCode >= http.StatusInternalServerError {
		log.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		// internal details stay in the logs
		err = types.NewInternalServiceError(errors.New("internal service error"))
	}

	writeJSON(w, r, err.StatusCode, ErrorResponse{
		ErrorCode: string(err.ErrorCode),
		Message:   err.Error(),
	})
}
