package medquiz

import (
	"fmt"
	"strings"
)

// LevelReport is the outcome of the level-specific (pedagogical) validation
// stage.
type LevelReport struct {
	Issues          []ValidationIssue
	Warnings        []ValidationWarning
	Recommendations []string
	Coverage        float64
	Penalty         int
}

// LevelValidator applies the study-level rule table: required and forbidden
// vocabulary, difficulty ceiling and recommended question length.
type LevelValidator struct{}

// NewLevelValidator creates a level validator.
func NewLevelValidator() *LevelValidator {
	return &LevelValidator{}
}

// Validate checks the draft against the rule table of the given level. An
// unknown level yields an empty report rather than an error; level checks are
// advisory by design and the orchestrator treats the category as untouched.
func (v *LevelValidator) Validate(draft *QuizDraft, level StudentLevel) LevelReport {
	rule, ok := levelRules[level]
	if !ok {
		return LevelReport{Coverage: 1}
	}

	var report LevelReport
	// Substring matching on normalized text, so inflected forms still count.
	text := combinedText(draft)

	// Forbidden vocabulary: each hit is its own major issue.
	for _, term := range rule.ForbiddenTerms {
		if strings.Contains(text, term) {
			report.Issues = append(report.Issues, ValidationIssue{
				Category:   CategoryPedagogical,
				Severity:   SeverityMajor,
				Field:      "questions",
				Message:    fmt.Sprintf("content too advanced for level %s: %q", level, term),
				Suggestion: fmt.Sprintf("replace %q with vocabulary from the %s curriculum", term, level),
			})
			report.Penalty += forbiddenTermPenalty
		}
	}

	covered := 0
	for _, term := range rule.RequiredTerms {
		if strings.Contains(text, term) {
			covered++
		}
	}
	if len(rule.RequiredTerms) > 0 {
		report.Coverage = float64(covered) / float64(len(rule.RequiredTerms))
	}
	if report.Coverage < requiredCoverageMin {
		report.Warnings = append(report.Warnings, ValidationWarning{
			Category:   WarningLevel,
			Message:    fmt.Sprintf("only %d of %d expected %s terms appear in the quiz", covered, len(rule.RequiredTerms), level),
			Suggestion: "cover more of the level's core vocabulary",
		})
		report.Recommendations = append(report.Recommendations,
			fmt.Sprintf("anchor the quiz in the %s curriculum vocabulary", level))
		report.Penalty += lowCoveragePenalty
	}

	for i := range draft.Questions {
		q := &draft.Questions[i]
		if l := len([]rune(q.QuestionText)); l < rule.QuestionLenMin || l > rule.QuestionLenMax {
			report.Warnings = append(report.Warnings, ValidationWarning{
				Category: WarningLevel,
				Message: fmt.Sprintf("questions[%d] length %d outside the %d-%d range recommended for %s",
					i, l, rule.QuestionLenMin, rule.QuestionLenMax, level),
				Suggestion: "adjust the question length to the level's attention span",
			})
		}
		if q.Difficulty != "" && difficultyRank(q.Difficulty) > difficultyRank(rule.MaxDifficulty) {
			report.Issues = append(report.Issues, ValidationIssue{
				Category:   CategoryPedagogical,
				Severity:   SeverityMinor,
				Field:      fmt.Sprintf("questions[%d].difficulty", i),
				Message:    fmt.Sprintf("difficulty %s exceeds the %s ceiling (%s)", q.Difficulty, level, rule.MaxDifficulty),
				Suggestion: "lower the declared difficulty or move the question to a harder quiz",
			})
			report.Penalty += difficultyPenalty
		}
	}
	return report
}
