package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"tanya-konstitusi/internal/contextutil"
	"tanya-konstitusi/internal/retrieval"
	"tanya-konstitusi/internal/service"
)

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	qaService service.QAService
	expected  []retrieval.Kind
}

// NewHealthHandler creates a new HealthHandler. expected lists the model
// kinds the server was configured to serve.
func NewHealthHandler(qaService service.QAService, expected []retrieval.Kind) *HealthHandler {
	return &HealthHandler{
		qaService: qaService,
		expected:  append([]retrieval.Kind(nil), expected...),
	}
}

// HealthResponse represents the health check response.
//
// swagger:model HealthResponse
type HealthResponse struct {
	// Overall health status: "healthy" or "unhealthy"
	Status string `json:"status"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	// Per-model check results: "ok" or "missing"
	Checks map[string]string `json:"checks"`

	// List of issues (only present if status is unhealthy)
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP handles HTTP requests for health checks.
//
// Returns 200 OK when every configured model is loaded, 503 otherwise.
//
// swagger:route GET /api/health healthCheck
//
// ---
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: All configured models are loaded
//	  schema:
//	    "$ref": "#/definitions/HealthResponse"
//	'503':
//	  description: At least one configured model is missing
//	  schema:
//	    "$ref": "#/definitions/HealthResponse"
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	loaded := make(map[retrieval.Kind]bool)
	for _, k := range h.qaService.Models() {
		loaded[k] = true
	}

	checks := make(map[string]string, len(h.expected))
	var issues []string
	for _, k := range h.expected {
		if loaded[k] {
			checks[k.String()] = "ok"
			continue
		}
		checks[k.String()] = "missing"
		issues = append(issues, k.String()+"_not_loaded")
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if len(issues) > 0 || len(loaded) == 0 {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
		if len(loaded) == 0 && len(issues) == 0 {
			issues = append(issues, "no_models_loaded")
		}
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Issues:    issues,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.ErrorContext(ctx, "failed to encode health response", "error", err)
	}
}
