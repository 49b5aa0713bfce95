package medquiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrInvalidRequest marks a generation request that fails fast before any
	// model call.
	ErrInvalidRequest = errors.New("invalid generation request")
	// ErrGenerationFailed marks a question for which no draft could be parsed
	// at all within the attempt budget.
	ErrGenerationFailed = errors.New("generation failed")
)

// GenerationRetryLoop turns opaque model output into validated question
// drafts. Each question walks a bounded state machine:
//
//	pending -> retrying(n) -> accepted | forced_accepted
//
// A draft is accepted once it clears the single-question score bar; after the
// attempt ceiling the best-seen draft is accepted anyway, tagged with its low
// score and issues, so one stubborn question never blocks the batch.
type GenerationRetryLoop struct {
	gen         TextGenerator
	validator   *QuestionValidator
	audit       *AuditLogger
	log         *zap.Logger
	maxAttempts int
}

// NewGenerationRetryLoop wires the loop. audit may be nil.
func NewGenerationRetryLoop(gen TextGenerator, audit *AuditLogger, log *zap.Logger) *GenerationRetryLoop {
	if log == nil {
		log = zap.NewNop()
	}
	return &GenerationRetryLoop{
		gen:         gen,
		validator:   NewQuestionValidator(),
		audit:       audit,
		log:         log.With(zap.String("component", "generator")),
		maxAttempts: maxGenerationAttempts,
	}
}

// GenerateQuestions generates req.Count drafts sequentially. It returns
// exactly req.Count drafts unless the request itself is invalid or a question
// produced no parseable draft within the whole attempt budget; on that late
// failure the completed prefix is returned alongside the error so callers can
// still inspect what was generated.
func (l *GenerationRetryLoop) GenerateQuestions(ctx context.Context, req GenerationRequest) ([]QuestionDraft, error) {
	if req.Count < 1 || req.Count > maxQuestions {
		return nil, fmt.Errorf("%w: count %d outside 1-%d", ErrInvalidRequest, req.Count, maxQuestions)
	}
	if _, ok := levelRules[req.Level]; !ok {
		return nil, fmt.Errorf("%w: unknown level %q", ErrInvalidRequest, req.Level)
	}
	if strings.TrimSpace(req.Domain) == "" {
		return nil, fmt.Errorf("%w: missing domain", ErrInvalidRequest)
	}

	drafts := make([]QuestionDraft, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		draft, err := l.generateQuestion(ctx, req, i)
		if err != nil {
			return drafts, fmt.Errorf("question %d: %w", i+1, err)
		}
		drafts = append(drafts, *draft)
	}
	return drafts, nil
}

// generateQuestion runs the retry state machine for one question.
func (l *GenerationRetryLoop) generateQuestion(ctx context.Context, req GenerationRequest, index int) (*QuestionDraft, error) {
	state := AttemptPending
	var attempts []GenerationAttempt
	var best *GenerationAttempt

	for n := 1; n <= l.maxAttempts; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		state = AttemptRetrying

		draft, err := l.attemptOnce(ctx, req, index)
		attempt := GenerationAttempt{Index: n, Draft: draft}
		if err != nil {
			// Model or parse failure: an attempt failure, not a validator
			// failure.
			attempt.Err = err.Error()
			attempts = append(attempts, attempt)
			l.log.Warn("generation attempt failed",
				zap.Int("question", index+1), zap.Int("attempt", n), zap.Error(err))
			continue
		}

		report := l.validator.Validate(draft)
		draft.Score = report.Score
		draft.Issues = report.Issues
		draft.Warnings = report.Warnings
		draft.Attempts = n
		attempt.Score = report.Score
		attempts = append(attempts, attempt)

		if best == nil || attempt.Score > best.Score {
			best = &attempts[len(attempts)-1]
		}

		if report.Acceptable() {
			state = AttemptAccepted
			l.logOutcome(draft.ID, state, report.Score, n)
			return draft, nil
		}
	}

	if best == nil || best.Draft == nil {
		// Nothing parseable was ever produced; there is no draft to force.
		return nil, fmt.Errorf("%w after %d attempts", ErrGenerationFailed, l.maxAttempts)
	}

	// Forced acceptance: quality traded for liveness. The draft keeps its low
	// score and issues so downstream consumers can see what they got.
	state = AttemptForcedAccepted
	best.Draft.Forced = true
	l.logOutcome(best.Draft.ID, state, best.Score, l.maxAttempts)
	l.log.Warn("forcing acceptance of best-seen draft",
		zap.Int("question", index+1), zap.Int("score", best.Score))
	return best.Draft, nil
}

func (l *GenerationRetryLoop) attemptOnce(ctx context.Context, req GenerationRequest, index int) (*QuestionDraft, error) {
	prompt := buildQuestionPrompt(req, index)
	if l.audit != nil {
		l.audit.LogGeneratorRequest("GenerationRetryLoop", prompt)
	}

	raw, err := l.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	if l.audit != nil {
		l.audit.LogGeneratorResponse("GenerationRetryLoop", raw)
	}

	draft, err := parseQuestionJSON(raw)
	if err != nil {
		return nil, err
	}
	draft.ID = uuid.New().String()
	return draft, nil
}

func (l *GenerationRetryLoop) logOutcome(id string, state AttemptState, score, attempts int) {
	if l.audit != nil {
		l.audit.LogQuestionResult(id, string(state),
			fmt.Sprintf("score %d after %d attempt(s)", score, attempts))
	}
}

// parseQuestionJSON decodes one generated question. Models occasionally wrap
// the object in a markdown fence, so fences are stripped before decoding.
func parseQuestionJSON(raw string) (*QuestionDraft, error) {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
		cleaned = strings.TrimSpace(cleaned)
	}

	var draft QuestionDraft
	dec := json.NewDecoder(strings.NewReader(cleaned))
	if err := dec.Decode(&draft); err != nil {
		return nil, fmt.Errorf("failed to parse generated question: %w", err)
	}

	// The wire shape shares the QuestionDraft type, so anything the pipeline
	// owns is reset here; those fields are never trusted from the model.
	draft.ID = ""
	draft.Score = 0
	draft.Issues = nil
	draft.Warnings = nil
	draft.Attempts = 0
	draft.Forced = false
	return &draft, nil
}
