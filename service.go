package medquiz

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// QuizService is the top-level facade over the pipeline: validation,
// generation and transactional creation. It holds no request state; every
// call is independent.
type QuizService struct {
	orchestrator *ValidationOrchestrator
	loop         *GenerationRetryLoop
	creation     *QuizCreationTransaction
	log          *zap.Logger
}

// NewQuizService wires the pipeline. audit may be nil.
func NewQuizService(gen TextGenerator, store Store, audit *AuditLogger, log *zap.Logger) *QuizService {
	if log == nil {
		log = zap.NewNop()
	}
	return &QuizService{
		orchestrator: NewValidationOrchestrator(log),
		loop:         NewGenerationRetryLoop(gen, audit, log),
		creation:     NewQuizCreationTransaction(store, audit, log),
		log:          log.With(zap.String("component", "service")),
	}
}

// Validate validates raw quiz JSON for a study level. Malformed JSON never
// raises an error; it comes back as an all-critical structural result.
func (s *QuizService) Validate(content []byte, level StudentLevel, mode ValidationMode) *ValidationResult {
	var raw map[string]any
	if err := json.Unmarshal(content, &raw); err != nil {
		return &ValidationResult{
			Issues: []ValidationIssue{{
				Category:   CategoryStructure,
				Severity:   SeverityCritical,
				Field:      "",
				Message:    fmt.Sprintf("content is not valid JSON: %v", err),
				Suggestion: "produce a single JSON object with quiz and questions fields",
			}},
			Recommendations: []string{"fix the structural issues before anything else; no other check ran"},
			Metadata:        ValidationMetadata{CheckedAt: time.Now().UTC()},
		}
	}
	return s.orchestrator.Validate(raw, level, mode)
}

// ValidateDraft validates a typed draft.
func (s *QuizService) ValidateDraft(draft *QuizDraft, level StudentLevel, mode ValidationMode) *ValidationResult {
	return s.orchestrator.ValidateDraft(draft, level, mode)
}

// GenerateQuestions produces req.Count validated drafts, some possibly
// score-flagged through forced acceptance.
func (s *QuizService) GenerateQuestions(ctx context.Context, req GenerationRequest) ([]QuestionDraft, error) {
	return s.loop.GenerateQuestions(ctx, req)
}

// CreateQuizFromDraft persists the draft through the compensating
// transaction.
func (s *QuizService) CreateQuizFromDraft(ctx context.Context, draft *QuizDraft, meta CreationMeta) CreationResult {
	return s.creation.CreateQuizFromDraft(ctx, draft, meta)
}

// GenerateAndCreate runs the whole pipeline: generate a batch, assemble a
// quiz draft around it and persist it.
func (s *QuizService) GenerateAndCreate(ctx context.Context, req GenerationRequest, meta CreationMeta) (*QuizDraft, CreationResult, error) {
	drafts, err := s.GenerateQuestions(ctx, req)
	if err != nil {
		return nil, CreationResult{}, err
	}
	draft := AssembleQuizDraft(req, drafts)
	result := s.CreateQuizFromDraft(ctx, &draft, meta)
	return &draft, result, nil
}

// AssembleQuizDraft wraps a generated batch in quiz metadata that satisfies
// the structural bounds.
func AssembleQuizDraft(req GenerationRequest, questions []QuestionDraft) QuizDraft {
	duration := len(questions) * 2
	if duration < durationMin {
		duration = durationMin
	}
	if duration > durationMax {
		duration = durationMax
	}
	return QuizDraft{
		Title: fmt.Sprintf("QCM %s — %s", req.Level, req.Domain),
		Description: fmt.Sprintf("Série de %d questions de niveau %s sur le thème « %s », générée automatiquement.",
			len(questions), req.Level, req.Domain),
		EstimatedDurationMinutes: duration,
		Questions:                questions,
	}
}
