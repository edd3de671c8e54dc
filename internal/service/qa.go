package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_retriever.go -package=mocks tanya-konstitusi/internal/service Retriever
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_checker.go -package=mocks tanya-konstitusi/internal/service Checker
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_qa_service.go -package=mocks -mock_names=QAService=MockQAService tanya-konstitusi/internal/service QAService

import (
	"context"
	"sort"
	"strings"

	"tanya-konstitusi/internal/contextutil"
	"tanya-konstitusi/internal/proofing"
	"tanya-konstitusi/internal/retrieval"
)

// Retriever ranks the corpus for a question. *retrieval.Model satisfies it.
type Retriever interface {
	Ask(ctx context.Context, query string, numRank int) ([]retrieval.Result, error)
}

// Checker reports question words missing from the dictionary.
// *proofing.Checker satisfies it.
type Checker interface {
	Unknown(text string) []proofing.WordResult
}

// AskRequest represents a question in the domain layer.
type AskRequest struct {
	Algorithm string
	Question  string
	NumRank   int
}

// Answer is one ranked corpus record.
type Answer struct {
	Index      int
	Context    string
	Response   string
	Similarity float64
}

// AskResponse holds the ranked answers to a question.
type AskResponse struct {
	Question string
	Answers  []Answer
}

// QAService answers questions with the loaded retrieval models.
type QAService interface {
	// Ask ranks the corpus for req.Question with the model named by req.Algorithm.
	Ask(ctx context.Context, req AskRequest) (AskResponse, error)
	// Models lists the loaded model kinds.
	Models() []retrieval.Kind
}

// qaService implements QAService.
type qaService struct {
	models  map[retrieval.Kind]Retriever
	checker Checker
}

// NewQAService creates a QAService over models. checker may be nil to skip
// dictionary checks.
func NewQAService(models map[retrieval.Kind]Retriever, checker Checker) QAService {
	owned := make(map[retrieval.Kind]Retriever, len(models))
	for k, m := range models {
		owned[k] = m
	}
	return &qaService{
		models:  owned,
		checker: checker,
	}
}

// Ask validates the request, runs the optional dictionary check and ranks
// the corpus.
func (s *qaService) Ask(ctx context.Context, req AskRequest) (AskResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	kind, err := retrieval.ParseKind(req.Algorithm)
	if err != nil {
		logger.WarnContext(ctx, "unsupported algorithm", "algorithm", req.Algorithm)
		return AskResponse{}, &ValidationError{
			Field:   "algorithm",
			Message: "Supported algorithm: " + supportedAlgorithms(),
		}
	}

	if strings.TrimSpace(req.Question) == "" {
		logger.WarnContext(ctx, "empty question")
		return AskResponse{}, &ValidationError{
			Field:   "q",
			Message: "Question is required!",
		}
	}

	if req.NumRank < 0 {
		logger.WarnContext(ctx, "negative num_rank", "num_rank", req.NumRank)
		return AskResponse{}, &ValidationError{
			Field:   "num_rank",
			Message: "must not be negative",
		}
	}

	model, ok := s.models[kind]
	if !ok {
		logger.WarnContext(ctx, "model not loaded", "model", kind.String())
		return AskResponse{}, WrapError(ErrUnavailable, kind.String())
	}

	if s.checker != nil {
		if unknown := s.checker.Unknown(req.Question); len(unknown) > 0 {
			logger.InfoContext(ctx, "question failed dictionary check", "unknown_words", len(unknown))
			return AskResponse{}, &ProofingError{Words: unknown}
		}
	}

	results, err := model.Ask(ctx, req.Question, req.NumRank)
	if err != nil {
		logger.ErrorContext(ctx, "failed to rank corpus", "model", kind.String(), "error", err)
		return AskResponse{}, WrapError(err, "failed to rank corpus")
	}

	answers := make([]Answer, len(results))
	for i, r := range results {
		answers[i] = Answer{
			Index:      r.Index,
			Context:    r.Record.Context,
			Response:   r.Record.Response,
			Similarity: r.Similarity,
		}
	}

	logger.InfoContext(ctx, "question answered",
		"model", kind.String(),
		"question_length", len(req.Question),
		"answers", len(answers),
	)
	return AskResponse{
		Question: req.Question,
		Answers:  answers,
	}, nil
}

// Models lists the loaded model kinds in a fixed order.
func (s *qaService) Models() []retrieval.Kind {
	kinds := make([]retrieval.Kind, 0, len(s.models))
	for k := range s.models {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

func supportedAlgorithms() string {
	names := make([]string, 0, 3)
	for _, k := range retrieval.Kinds() {
		names = append(names, k.String())
	}
	return strings.Join(names, ", ")
}
