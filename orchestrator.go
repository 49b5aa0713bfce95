package medquiz

import (
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"
)

// ValidationOrchestrator runs the four validators in order and folds their
// findings into a single ValidationResult. It owns no state across calls;
// given the same content and rule tables, two runs yield identical results.
//
// The pipeline is a small state machine: structural -> content/medical/
// pedagogical -> aggregate -> decide. A structural failure is terminal and
// the remaining validators never run.
type ValidationOrchestrator struct {
	structural *StructuralValidator
	content    *BusinessContentValidator
	medical    *MedicalContentValidator
	level      *LevelValidator
	log        *zap.Logger
}

// NewValidationOrchestrator wires the orchestrator with its validators.
func NewValidationOrchestrator(log *zap.Logger) *ValidationOrchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &ValidationOrchestrator{
		structural: NewStructuralValidator(),
		content:    NewBusinessContentValidator(),
		medical:    NewMedicalContentValidator(),
		level:      NewLevelValidator(),
		log:        log.With(zap.String("component", "orchestrator")),
	}
}

// Validate validates raw quiz content for the given study level and mode.
func (o *ValidationOrchestrator) Validate(content map[string]any, level StudentLevel, mode ValidationMode) *ValidationResult {
	result := &ValidationResult{
		Metadata: ValidationMetadata{CheckedAt: time.Now().UTC()},
	}

	structReport := o.structural.Validate(content)
	result.Issues = append(result.Issues, structReport.Issues...)
	result.Categories.Structure = clampScore(100 - structReport.Penalty)

	if !structReport.IsValid {
		// Terminal state: structural validity is a precondition for every
		// other validator.
		result.OverallScore = 0
		result.CompositeScore = 0
		result.Recommendations = []string{"fix the structural issues before anything else; no other check ran"}
		o.log.Debug("structural validation failed",
			zap.Int("issues", len(structReport.Issues)))
		return result
	}

	draft := DecodeQuizDraft(content)
	return o.finish(result, &draft, level, mode)
}

// ValidateDraft validates an already-typed draft. The draft is re-encoded so
// the structural stage sees exactly what it would see on the wire.
func (o *ValidationOrchestrator) ValidateDraft(draft *QuizDraft, level StudentLevel, mode ValidationMode) *ValidationResult {
	return o.Validate(draftContent(draft), level, mode)
}

func (o *ValidationOrchestrator) finish(result *ValidationResult, draft *QuizDraft, level StudentLevel, mode ValidationMode) *ValidationResult {
	contentReport := o.content.Validate(draft)
	medReport := o.medical.Validate(draft)
	levelReport := o.level.Validate(draft, level)

	result.Issues = append(result.Issues, contentReport.Issues...)
	result.Issues = append(result.Issues, medReport.Issues...)
	result.Issues = append(result.Issues, levelReport.Issues...)
	result.Warnings = append(result.Warnings, contentReport.Warnings...)
	result.Warnings = append(result.Warnings, medReport.Warnings...)
	result.Warnings = append(result.Warnings, levelReport.Warnings...)

	result.Categories.Content = clampScore(100 - contentReport.Penalty - medReport.ContentPenalty)
	result.Categories.Medical = clampScore(100 - medReport.MedicalPenalty)
	result.Categories.Pedagogical = clampScore(100 - levelReport.Penalty)

	s := result.Categories
	result.OverallScore = roundScore(
		weightStructure*float64(s.Structure) +
			weightContent*float64(s.Content) +
			weightMedical*float64(s.Medical) +
			weightPedagogical*float64(s.Pedagogical))

	// Structure is confirmed valid at this point, so the composite lets
	// medical and pedagogical quality dominate the accept signal.
	medPed := float64(s.Medical+s.Pedagogical) / 2
	result.CompositeScore = roundScore(
		compositeWeightStructure*100 +
			compositeWeightContent*float64(s.Content) +
			compositeWeightMedPed*medPed)

	result.Metadata.TerminologyRatio = medReport.TerminologyRatio
	fillAverages(&result.Metadata, draft)

	result.IsValid = o.decide(result, mode)
	recs := buildRecommendations(s)
	recs = append(recs, medReport.Recommendations...)
	recs = append(recs, levelReport.Recommendations...)
	result.Recommendations = recs

	o.log.Debug("validation finished",
		zap.Bool("valid", result.IsValid),
		zap.Int("overall", result.OverallScore),
		zap.Int("composite", result.CompositeScore),
		zap.Int("issues", len(result.Issues)))
	return result
}

// decide applies the acceptance rule. A critical issue always blocks. Strict
// mode requires every category to clear its own minimum; lenient mode accepts
// when either the content or the level-aware score clears the overall bar.
func (o *ValidationOrchestrator) decide(result *ValidationResult, mode ValidationMode) bool {
	if result.CountBySeverity(SeverityCritical) > 0 {
		return false
	}
	if result.CountBySeverity(SeverityMajor) > maxMajorIssues {
		return false
	}
	if result.OverallScore < overallScoreMin {
		return false
	}
	s := result.Categories
	if mode == ModeLenient {
		return s.Content >= overallScoreMin || s.Pedagogical >= overallScoreMin
	}
	return s.Structure >= structureScoreMin &&
		s.Content >= contentScoreMin &&
		s.Medical >= medicalScoreMin &&
		s.Pedagogical >= pedagogicalScoreMin
}

// buildRecommendations emits one recommendation per category below its
// minimum, ranked by the category's configured priority.
func buildRecommendations(s CategoryScores) []string {
	type shortfall struct {
		category IssueCategory
		message  string
	}
	var falls []shortfall
	if s.Structure < structureScoreMin {
		falls = append(falls, shortfall{CategoryStructure, "tighten the quiz structure: lengths, counts and required fields"})
	}
	if s.Content < contentScoreMin {
		falls = append(falls, shortfall{CategoryContent, "rework the options: remove duplicates and paraphrases of the correct answer"})
	}
	if s.Medical < medicalScoreMin {
		falls = append(falls, shortfall{CategoryMedical, "review the medical content: remove unsafe wording and raise terminology density"})
	}
	if s.Pedagogical < pedagogicalScoreMin {
		falls = append(falls, shortfall{CategoryPedagogical, "align difficulty and vocabulary with the target study level"})
	}
	sort.SliceStable(falls, func(i, j int) bool {
		return recommendationPriority[falls[i].category] < recommendationPriority[falls[j].category]
	})
	recs := make([]string, 0, len(falls))
	for _, f := range falls {
		recs = append(recs, f.message)
	}
	return recs
}

func fillAverages(meta *ValidationMetadata, draft *QuizDraft) {
	if len(draft.Questions) == 0 {
		return
	}
	var qLen, oLen, eLen, oCount int
	hist := make(map[Difficulty]int)
	for i := range draft.Questions {
		q := &draft.Questions[i]
		qLen += len([]rune(q.QuestionText))
		eLen += len([]rune(q.Explanation))
		for _, opt := range q.Options {
			oLen += len([]rune(opt.Text))
			oCount++
		}
		if q.Difficulty != "" {
			hist[q.Difficulty]++
		}
	}
	meta.AvgQuestionLength = qLen / len(draft.Questions)
	meta.AvgExplanationLength = eLen / len(draft.Questions)
	if oCount > 0 {
		meta.AvgOptionLength = oLen / oCount
	}
	if len(hist) > 0 {
		meta.DifficultyHistogram = hist
	}
}

// draftContent re-encodes a typed draft into the raw wire shape the
// structural validator checks.
func draftContent(draft *QuizDraft) map[string]any {
	questions := make([]any, 0, len(draft.Questions))
	for i := range draft.Questions {
		q := &draft.Questions[i]
		options := make([]any, 0, len(q.Options))
		for _, opt := range q.Options {
			options = append(options, map[string]any{
				"text":      opt.Text,
				"isCorrect": opt.IsCorrect,
			})
		}
		question := map[string]any{
			"questionText": q.QuestionText,
			"options":      options,
			"explanation":  q.Explanation,
		}
		if q.Difficulty != "" {
			question["difficulty"] = string(q.Difficulty)
		}
		if len(q.Tags) > 0 {
			tags := make([]any, 0, len(q.Tags))
			for _, t := range q.Tags {
				tags = append(tags, t)
			}
			question["tags"] = tags
		}
		questions = append(questions, question)
	}
	return map[string]any{
		"quiz": map[string]any{
			"title":             draft.Title,
			"description":       draft.Description,
			"estimatedDuration": draft.EstimatedDurationMinutes,
		},
		"questions": questions,
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func roundScore(score float64) int {
	return clampScore(int(math.Round(score)))
}

// String renders a compact human-readable summary, handy in CLI output.
func (s CategoryScores) String() string {
	return fmt.Sprintf("structure=%d content=%d medical=%d pedagogical=%d",
		s.Structure, s.Content, s.Medical, s.Pedagogical)
}
