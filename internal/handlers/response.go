package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"tanya-konstitusi/internal/contextutil"
)

// Envelope statuses.
const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

// Envelope wraps every JSON body the API returns. Data carries the payload
// on success and a field to message map on fail.
//
// swagger:model Envelope
type Envelope struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, data any) {
	writeJSON(ctx, w, http.StatusOK, Envelope{Status: StatusSuccess, Data: data})
}

func writeFail(ctx context.Context, w http.ResponseWriter, statusCode int, data any) {
	writeJSON(ctx, w, statusCode, Envelope{Status: StatusFail, Data: data})
}

func writeError(ctx context.Context, w http.ResponseWriter, statusCode int, message string) {
	writeJSON(ctx, w, statusCode, Envelope{Status: StatusError, Message: message})
}
