package medquiz

import "time"

// StudentLevel identifies the study track a quiz is aimed at. Each level
// carries its own vocabulary and difficulty rule set.
type StudentLevel string

const (
	LevelPASS StudentLevel = "PASS"
	LevelLAS  StudentLevel = "LAS"
)

// Difficulty is the declared difficulty of a question, ordered easy < medium < hard.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// difficultyRank maps a difficulty to its ordinal position. Unknown values rank
// below easy so they never trip the level ceiling on their own.
func difficultyRank(d Difficulty) int {
	switch d {
	case DifficultyEasy:
		return 1
	case DifficultyMedium:
		return 2
	case DifficultyHard:
		return 3
	}
	return 0
}

// Option is a single answer choice of a multiple-choice question.
type Option struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// QuestionDraft is a generated question on its way through validation. Score,
// Issues and Forced are filled in by the generation loop once the draft has
// been through the single-question validator.
type QuestionDraft struct {
	ID           string              `json:"id,omitempty"`
	QuestionText string              `json:"questionText"`
	Options      []Option            `json:"options"`
	Explanation  string              `json:"explanation"`
	Difficulty   Difficulty          `json:"difficulty,omitempty"`
	Tags         []string            `json:"tags,omitempty"`
	Score        int                 `json:"score,omitempty"`
	Issues       []ValidationIssue   `json:"issues,omitempty"`
	Warnings     []ValidationWarning `json:"warnings,omitempty"`
	Attempts     int                 `json:"attempts,omitempty"`
	Forced       bool                `json:"forced,omitempty"`
}

// CorrectOption returns the single correct option and its index, or -1 if the
// draft does not contain exactly one correct option.
func (q *QuestionDraft) CorrectOption() (Option, int) {
	idx := -1
	for i, opt := range q.Options {
		if opt.IsCorrect {
			if idx >= 0 {
				return Option{}, -1
			}
			idx = i
		}
	}
	if idx < 0 {
		return Option{}, -1
	}
	return q.Options[idx], idx
}

// QuizDraft is a complete quiz candidate before persistence.
type QuizDraft struct {
	Title                    string          `json:"title"`
	Description              string          `json:"description"`
	EstimatedDurationMinutes int             `json:"estimatedDuration"`
	Questions                []QuestionDraft `json:"questions"`
}

// Severity classifies how strongly an issue weighs against acceptance.
// Critical issues always block.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityMinor    Severity = "minor"
)

// IssueCategory names the validation area an issue belongs to.
type IssueCategory string

const (
	CategoryStructure   IssueCategory = "structure"
	CategoryContent     IssueCategory = "content"
	CategoryMedical     IssueCategory = "medical"
	CategoryPedagogical IssueCategory = "pedagogical"
)

// ValidationIssue is a blocking or score-degrading finding on a draft.
type ValidationIssue struct {
	Category   IssueCategory `json:"category"`
	Severity   Severity      `json:"severity"`
	Field      string        `json:"field"`
	Message    string        `json:"message"`
	Suggestion string        `json:"suggestion,omitempty"`
}

// WarningCategory names the area a non-blocking warning belongs to.
type WarningCategory string

const (
	WarningQuality      WarningCategory = "quality"
	WarningStyle        WarningCategory = "style"
	WarningOptimization WarningCategory = "optimization"
	WarningLevel        WarningCategory = "level-specific"
)

// ValidationWarning is a non-blocking finding. Warnings never block acceptance
// on their own.
type ValidationWarning struct {
	Category   WarningCategory `json:"category"`
	Message    string          `json:"message"`
	Suggestion string          `json:"suggestion,omitempty"`
}

// CategoryScores holds the per-category scores of a validation run, each in
// [0,100].
type CategoryScores struct {
	Structure   int `json:"structure"`
	Content     int `json:"content"`
	Medical     int `json:"medical"`
	Pedagogical int `json:"pedagogical"`
}

// ValidationMetadata carries derived measurements alongside a result.
type ValidationMetadata struct {
	TerminologyRatio     float64            `json:"terminologyRatio"`
	AvgQuestionLength    int                `json:"avgQuestionLength"`
	AvgOptionLength      int                `json:"avgOptionLength"`
	AvgExplanationLength int                `json:"avgExplanationLength"`
	DifficultyHistogram  map[Difficulty]int `json:"difficultyHistogram,omitempty"`
	CheckedAt            time.Time          `json:"checkedAt"`
}

// ValidationResult is the full outcome of validating a quiz draft.
//
// OverallScore weights the category scores at structure 30%, content 25%,
// medical 25%, pedagogical 20%. CompositeScore is the coarser caller-facing
// signal folding structural pass/fail (20%) with the content score (30%) and
// the combined medical/pedagogical score (50%); once structure is confirmed
// valid it lets medical and pedagogical quality dominate the accept signal.
type ValidationResult struct {
	IsValid         bool                `json:"isValid"`
	OverallScore    int                 `json:"overallScore"`
	CompositeScore  int                 `json:"compositeScore"`
	Categories      CategoryScores      `json:"categories"`
	Issues          []ValidationIssue   `json:"issues,omitempty"`
	Warnings        []ValidationWarning `json:"warnings,omitempty"`
	Recommendations []string            `json:"recommendations,omitempty"`
	Metadata        ValidationMetadata  `json:"metadata"`
}

// CountBySeverity returns how many issues of the given severity the result holds.
func (r *ValidationResult) CountBySeverity(s Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == s {
			n++
		}
	}
	return n
}

// ValidationMode selects how strictly the orchestrator decides validity.
type ValidationMode string

const (
	// ModeStrict requires every sub-validator to pass its own minimum.
	ModeStrict ValidationMode = "strict"
	// ModeLenient accepts when either the content or the level-aware score
	// clears 70, even if the other is weaker.
	ModeLenient ValidationMode = "lenient"
)

// AttemptState tracks a question through the bounded generation retry loop.
type AttemptState string

const (
	AttemptPending        AttemptState = "pending"
	AttemptRetrying       AttemptState = "retrying"
	AttemptAccepted       AttemptState = "accepted"
	AttemptForcedAccepted AttemptState = "forced_accepted"
)

// GenerationAttempt records one iteration of the retry loop for a question.
// Attempts live only for the duration of the loop; the best-seen one is kept
// so forced acceptance has something to fall back on.
type GenerationAttempt struct {
	Index int            `json:"index"`
	Draft *QuestionDraft `json:"draft,omitempty"`
	Score int            `json:"score"`
	Err   string         `json:"error,omitempty"`
}

// GenerationRequest asks the generation loop for a batch of questions.
type GenerationRequest struct {
	Level         StudentLevel `json:"level"`
	Count         int          `json:"count"`
	Domain        string       `json:"domain"`
	SourceContent string       `json:"sourceContent,omitempty"`
	Difficulty    Difficulty   `json:"difficulty,omitempty"`
}

// CreationMeta carries the ownership context of a quiz creation request.
type CreationMeta struct {
	CategoryID string       `json:"categoryId"`
	Level      StudentLevel `json:"level"`
	UserID     string       `json:"userId"`
}

// CreationResult reports the outcome of the quiz creation transaction. It is
// immutable once returned: QuestionIDs are in input order and, on failure,
// empty because every created record has been compensated away.
type CreationResult struct {
	Success          bool          `json:"success"`
	QuizID           string        `json:"quizId,omitempty"`
	QuestionIDs      []string      `json:"questionIds,omitempty"`
	QuestionsCreated int           `json:"questionsCreated"`
	Errors           []string      `json:"errors,omitempty"`
	Warnings         []string      `json:"warnings,omitempty"`
	StartedAt        time.Time     `json:"startedAt"`
	Duration         time.Duration `json:"duration"`
}
