package medquiz

import "fmt"

// ContentReport is the outcome of one post-structural validator. Penalty is
// subtracted from the validator's category score by the orchestrator.
type ContentReport struct {
	Issues   []ValidationIssue
	Warnings []ValidationWarning
	Penalty  int
}

func (r *ContentReport) addIssue(severity Severity, category IssueCategory, field, message, suggestion string) {
	r.Issues = append(r.Issues, ValidationIssue{
		Category:   category,
		Severity:   severity,
		Field:      field,
		Message:    message,
		Suggestion: suggestion,
	})
	r.Penalty += severityPenalty(severity)
}

func (r *ContentReport) addWarning(category WarningCategory, message, suggestion string) {
	r.Warnings = append(r.Warnings, ValidationWarning{
		Category:   category,
		Message:    message,
		Suggestion: suggestion,
	})
}

// BusinessContentValidator covers the checks a static schema cannot express:
// option uniqueness and similarity, question/explanation coherence, and
// stylistic length warnings.
type BusinessContentValidator struct{}

// NewBusinessContentValidator creates a business-content validator.
func NewBusinessContentValidator() *BusinessContentValidator {
	return &BusinessContentValidator{}
}

// Validate runs the content checks over every question of the draft.
func (v *BusinessContentValidator) Validate(draft *QuizDraft) ContentReport {
	var report ContentReport
	for i := range draft.Questions {
		v.validateQuestion(&draft.Questions[i], fmt.Sprintf("questions[%d]", i), &report)
	}

	if l := len([]rune(draft.Title)); l > 0 && l < titleMinLen+5 {
		report.addWarning(WarningStyle, "title is very short", "a more descriptive title helps students pick the right quiz")
	}
	return report
}

// validateQuestion applies the per-question content checks. Exposed to the
// single-question validator used by the generation loop.
func (v *BusinessContentValidator) validateQuestion(q *QuestionDraft, field string, report *ContentReport) {
	// Pairwise duplicate and near-duplicate detection on normalized text.
	for i := 0; i < len(q.Options); i++ {
		for j := i + 1; j < len(q.Options); j++ {
			a, b := q.Options[i].Text, q.Options[j].Text
			if Normalize(a) == Normalize(b) {
				report.addIssue(SeverityCritical, CategoryContent,
					fmt.Sprintf("%s.options[%d]", field, j),
					fmt.Sprintf("option %d duplicates option %d", j+1, i+1),
					"every option must be distinct")
			} else if NearDuplicate(a, b) {
				report.addIssue(SeverityMajor, CategoryContent,
					fmt.Sprintf("%s.options[%d]", field, j),
					fmt.Sprintf("option %d is a near-duplicate of option %d", j+1, i+1),
					"make the options clearly distinguishable")
			}
		}
	}

	// Distractors leaking the correct answer's vocabulary.
	if correct, idx := q.CorrectOption(); idx >= 0 {
		for i, opt := range q.Options {
			if i == idx {
				continue
			}
			if TokenOverlap(correct.Text, opt.Text) >= distractorOverlapMax {
				report.addIssue(SeverityMajor, CategoryContent,
					fmt.Sprintf("%s.options[%d]", field, i),
					fmt.Sprintf("distractor %d shares most of the correct answer's vocabulary", i+1),
					"rewrite the distractor so it does not paraphrase the correct answer")
			}
		}
	}

	// Weak coherence between question and explanation never blocks.
	if TokenOverlap(q.QuestionText, q.Explanation) < coherenceMin {
		report.addWarning(WarningQuality,
			fmt.Sprintf("%s: explanation shares little vocabulary with the question", field),
			"make the explanation address the question directly")
	}

	for i, opt := range q.Options {
		if len([]rune(opt.Text)) > optionMaxLen*3/4 {
			report.addWarning(WarningStyle,
				fmt.Sprintf("%s.options[%d] is very long", field, i),
				"long options slow students down; keep them concise")
		}
	}
	if len([]rune(q.QuestionText)) > questionMaxLen*4/5 {
		report.addWarning(WarningStyle,
			fmt.Sprintf("%s: question text is very long", field),
			"consider splitting the stem or moving context to the explanation")
	}
}
