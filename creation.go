package medquiz

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// undoAction is one compensation pushed as a create succeeds. On any later
// failure the stack is executed in reverse, so no partial record set is ever
// left behind.
type undoAction struct {
	collection string
	id         string
}

// QuizCreationTransaction persists a quiz draft as question records followed
// by the quiz record, compensating every committed record when any step
// fails. Creation is strictly sequential: the compensation logic depends on
// knowing exactly which prefix of ids was committed at the point of failure.
type QuizCreationTransaction struct {
	store     Store
	validator *QuestionValidator
	audit     *AuditLogger
	log       *zap.Logger
}

// NewQuizCreationTransaction wires the transaction. audit may be nil.
func NewQuizCreationTransaction(store Store, audit *AuditLogger, log *zap.Logger) *QuizCreationTransaction {
	if log == nil {
		log = zap.NewNop()
	}
	return &QuizCreationTransaction{
		store:     store,
		validator: NewQuestionValidator(),
		audit:     audit,
		log:       log.With(zap.String("component", "creation")),
	}
}

// CreateQuizFromDraft runs the creation saga. The returned result is final:
// on failure every created record has already been compensated and zero
// question ids are reported.
func (t *QuizCreationTransaction) CreateQuizFromDraft(ctx context.Context, draft *QuizDraft, meta CreationMeta) CreationResult {
	result := CreationResult{StartedAt: time.Now().UTC()}

	// Step 1: fail fast on the request itself, before any side effect.
	if errs := validateCreationRequest(draft, meta); len(errs) > 0 {
		result.Errors = errs
		result.Duration = time.Since(result.StartedAt)
		return result
	}

	var undo []undoAction
	questionIDs := make([]string, 0, len(draft.Questions))

	fail := func(err error) CreationResult {
		result.Errors = append(result.Errors, err.Error())
		t.compensate(ctx, undo)
		result.QuestionIDs = nil
		result.QuestionsCreated = 0
		result.Duration = time.Since(result.StartedAt)
		return result
	}

	// Step 2: create question records in input order, re-validating each
	// draft immediately before the create call.
	for i := range draft.Questions {
		q := &draft.Questions[i]
		report := t.validator.Validate(q)
		if critical := firstCritical(report.Issues); critical != nil {
			return fail(fmt.Errorf("question %d failed pre-create validation: %s",
				i+1, critical.Message))
		}

		id, err := t.store.Create(ctx, CollectionQuestions, questionRecord(q))
		if err != nil {
			return fail(fmt.Errorf("failed to create question %d: %w", i+1, err))
		}
		undo = append(undo, undoAction{CollectionQuestions, id})
		questionIDs = append(questionIDs, id)
		if t.audit != nil {
			t.audit.LogCreationEvent(CollectionQuestions, id, "created")
		}
	}

	// Step 3: the quiz record references every question id, in order.
	quizID, err := t.store.Create(ctx, CollectionQuizzes, map[string]any{
		"title":             draft.Title,
		"description":       draft.Description,
		"estimatedDuration": draft.EstimatedDurationMinutes,
		"categoryId":        meta.CategoryID,
		"level":             string(meta.Level),
		"userId":            meta.UserID,
		"questionIds":       questionIDs,
	})
	if err != nil {
		return fail(fmt.Errorf("failed to create quiz: %w", err))
	}
	if t.audit != nil {
		t.audit.LogCreationEvent(CollectionQuizzes, quizID, "created")
	}

	result.Success = true
	result.QuizID = quizID
	result.QuestionIDs = questionIDs
	result.QuestionsCreated = len(questionIDs)

	// Step 4: post-creation integrity check. The data is committed, so any
	// discrepancy is reported as a warning, never rolled back here.
	result.Warnings = append(result.Warnings, t.integrityCheck(ctx, quizID, questionIDs)...)
	result.Duration = time.Since(result.StartedAt)

	t.log.Info("quiz created",
		zap.String("quiz_id", quizID),
		zap.Int("questions", len(questionIDs)),
		zap.Int("warnings", len(result.Warnings)))
	return result
}

// compensate deletes every committed record, most recent first. Failures are
// logged and skipped; the remaining actions still run.
func (t *QuizCreationTransaction) compensate(ctx context.Context, undo []undoAction) {
	for i := len(undo) - 1; i >= 0; i-- {
		action := undo[i]
		err := t.store.Delete(ctx, action.collection, action.id)
		if err != nil {
			t.log.Warn("compensation failed",
				zap.String("collection", action.collection),
				zap.String("id", action.id),
				zap.Error(err))
		}
		if t.audit != nil {
			t.audit.LogCompensation(action.collection, action.id, err)
		}
	}
}

func (t *QuizCreationTransaction) integrityCheck(ctx context.Context, quizID string, questionIDs []string) []string {
	var warnings []string

	record, err := t.store.Find(ctx, CollectionQuizzes, quizID)
	if err != nil {
		return append(warnings, fmt.Sprintf("integrity check could not load quiz %s: %v", quizID, err))
	}
	stored, _ := record["questionIds"].([]any)
	if len(stored) != len(questionIDs) {
		warnings = append(warnings, fmt.Sprintf("quiz references %d questions, %d were created", len(stored), len(questionIDs)))
	}

	for _, id := range questionIDs {
		if _, err := t.store.Find(ctx, CollectionQuestions, id); err != nil {
			warnings = append(warnings, fmt.Sprintf("question %s does not resolve: %v", id, err))
		}
	}
	return warnings
}

// validateCreationRequest collects every fail-fast problem with the request.
func validateCreationRequest(draft *QuizDraft, meta CreationMeta) []string {
	var errs []string
	if draft == nil || len(draft.Questions) == 0 {
		return append(errs, "quiz draft has no questions")
	}
	if len(draft.Questions) > maxQuestions {
		errs = append(errs, fmt.Sprintf("too many questions (%d, max %d)", len(draft.Questions), maxQuestions))
	}
	if _, ok := levelRules[meta.Level]; !ok {
		errs = append(errs, fmt.Sprintf("unknown study level %q", meta.Level))
	}
	if meta.CategoryID == "" {
		errs = append(errs, "missing category id")
	}
	if meta.UserID == "" {
		errs = append(errs, "missing user id")
	}
	return errs
}

func firstCritical(issues []ValidationIssue) *ValidationIssue {
	for i := range issues {
		if issues[i].Severity == SeverityCritical {
			return &issues[i]
		}
	}
	return nil
}

func questionRecord(q *QuestionDraft) map[string]any {
	return map[string]any{
		"questionText": q.QuestionText,
		"options":      q.Options,
		"explanation":  q.Explanation,
		"difficulty":   string(q.Difficulty),
		"tags":         q.Tags,
		"score":        q.Score,
	}
}
