package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"tanya-konstitusi/internal/contextutil"
	"tanya-konstitusi/internal/proofing"
	"tanya-konstitusi/internal/retrieval"
	"tanya-konstitusi/internal/service"

	"github.com/go-chi/chi/v5"
)

// DefaultNumRank is the number of answers returned when num_rank is absent.
const DefaultNumRank = 10

// AskHandler handles HTTP requests for questions.
type AskHandler struct {
	qaService      service.QAService
	defaultNumRank int
}

// NewAskHandler creates a new AskHandler. A non-positive defaultNumRank
// falls back to DefaultNumRank.
func NewAskHandler(qaService service.QAService, defaultNumRank int) *AskHandler {
	if defaultNumRank <= 0 {
		defaultNumRank = DefaultNumRank
	}
	return &AskHandler{
		qaService:      qaService,
		defaultNumRank: defaultNumRank,
	}
}

// AnswerResponse is the data payload of a successful question.
//
// swagger:model AnswerResponse
type AnswerResponse struct {
	// The question as asked
	Question string `json:"question"`

	// Ranked response texts, best first
	Answer []string `json:"answer"`

	// Ranked records with their similarity scores
	Results []ResultResponse `json:"results"`
}

// ResultResponse is one ranked corpus record.
//
// swagger:model ResultResponse
type ResultResponse struct {
	Index      int     `json:"index"`
	Context    string  `json:"context"`
	Response   string  `json:"response"`
	Similarity float64 `json:"similarity"`
}

// ServeHTTP handles HTTP requests for questions.
//
// swagger:route GET /{algorithm}/ askQuestion
//
// # Ask a question
//
// Ranks the corpus for q with the model named by algorithm and returns the
// top num_rank responses.
//
// ---
// produces:
// - application/json
// parameters:
//   - in: path
//     name: algorithm
//     type: string
//     required: true
//   - in: query
//     name: q
//     type: string
//     required: true
//   - in: query
//     name: num_rank
//     type: integer
//     required: false
//
// responses:
//
//	'200':
//	  description: Ranked answers
//	'400':
//	  description: Unknown algorithm, missing question or bad num_rank
//	'422':
//	  description: Question contains words missing from the dictionary
//	'503':
//	  description: Model not loaded
//	'500':
//	  description: Internal server error
func (h *AskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(ctx, w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	query := r.URL.Query()
	numRank := h.defaultNumRank
	if raw := query.Get("num_rank"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			logger.WarnContext(ctx, "invalid num_rank", "num_rank", raw)
			writeFail(ctx, w, http.StatusBadRequest, map[string]string{
				"num_rank": "must be an integer",
			})
			return
		}
		numRank = n
	}

	svcResp, err := h.qaService.Ask(ctx, service.AskRequest{
		Algorithm: chi.URLParam(r, "algorithm"),
		Question:  query.Get("q"),
		NumRank:   numRank,
	})
	if err != nil {
		h.handleServiceError(ctx, w, err)
		return
	}

	resp := AnswerResponse{
		Question: svcResp.Question,
		Answer:   make([]string, len(svcResp.Answers)),
		Results:  make([]ResultResponse, len(svcResp.Answers)),
	}
	for i, a := range svcResp.Answers {
		resp.Answer[i] = a.Response
		resp.Results[i] = ResultResponse{
			Index:      a.Index,
			Context:    a.Context,
			Response:   a.Response,
			Similarity: a.Similarity,
		}
	}
	writeSuccess(ctx, w, resp)
}

// handleServiceError maps service and retrieval errors to HTTP status codes.
func (h *AskHandler) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	logger := contextutil.LoggerFromContext(ctx)

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		logger.WarnContext(ctx, "invalid question request", "field", validationErr.Field)
		writeFail(ctx, w, http.StatusBadRequest, map[string]string{
			validationErr.Field: validationErr.Message,
		})
		return
	}

	var proofingErr *service.ProofingError
	if errors.As(err, &proofingErr) {
		writeFail(ctx, w, http.StatusUnprocessableEntity, map[string][]proofing.WordResult{
			"q": proofingErr.Words,
		})
		return
	}

	logger.ErrorContext(ctx, "service error", "error", err)

	switch {
	case errors.Is(err, service.ErrUnavailable),
		errors.Is(err, retrieval.ErrState),
		errors.Is(err, retrieval.ErrCache):
		writeError(ctx, w, http.StatusServiceUnavailable, "Model unavailable")
	case errors.Is(err, retrieval.ErrValidation), errors.Is(err, service.ErrInvalidInput):
		writeError(ctx, w, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(ctx, w, http.StatusServiceUnavailable, "Request cancelled")
	default:
		writeError(ctx, w, http.StatusInternalServerError, "Failed to answer question")
	}
}
