package medquiz

import "fmt"

// QuestionReport scores a single question on a 0-100 scale. The generation
// loop accepts at a looser bar than the quiz-level orchestrator because a
// lone question carries no quiz context.
type QuestionReport struct {
	Score    int
	Issues   []ValidationIssue
	Warnings []ValidationWarning
}

// Acceptable reports whether the question clears the generation bar.
func (r *QuestionReport) Acceptable() bool {
	return r.Score >= questionAcceptScore
}

// QuestionValidator is the lighter single-question flavor of the content and
// medical validators, used per retry iteration by the generation loop.
type QuestionValidator struct {
	content *BusinessContentValidator
	medical *MedicalContentValidator
}

// NewQuestionValidator creates a single-question validator.
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{
		content: NewBusinessContentValidator(),
		medical: NewMedicalContentValidator(),
	}
}

// Validate checks shape, content and medical safety of one question.
func (v *QuestionValidator) Validate(q *QuestionDraft) QuestionReport {
	var report ContentReport
	v.checkShape(q, &report)
	v.content.validateQuestion(q, "question", &report)

	med := v.medical.ValidateQuestion(q)
	report.Issues = append(report.Issues, med.Issues...)
	report.Warnings = append(report.Warnings, med.Warnings...)

	penalty := report.Penalty + med.MedicalPenalty + med.ContentPenalty
	return QuestionReport{
		Score:    clampScore(100 - penalty),
		Issues:   report.Issues,
		Warnings: report.Warnings,
	}
}

func (v *QuestionValidator) checkShape(q *QuestionDraft, report *ContentReport) {
	if len(q.Options) != optionCount {
		report.addIssue(SeverityCritical, CategoryStructure, "question.options",
			fmt.Sprintf("exactly %d options required (found %d)", optionCount, len(q.Options)), "")
	} else if _, idx := q.CorrectOption(); idx < 0 {
		correct := 0
		for _, opt := range q.Options {
			if opt.IsCorrect {
				correct++
			}
		}
		report.addIssue(SeverityCritical, CategoryStructure, "question.options",
			fmt.Sprintf("exactly one correct answer required (found %d)", correct), "")
	}

	if l := len([]rune(q.QuestionText)); l < questionMinLen || l > questionMaxLen {
		report.addIssue(SeverityCritical, CategoryStructure, "question.questionText",
			fmt.Sprintf("questionText length %d outside %d-%d", l, questionMinLen, questionMaxLen), "")
	}
	if l := len([]rune(q.Explanation)); l < explanationMinLen || l > explanationMaxLen {
		report.addIssue(SeverityCritical, CategoryStructure, "question.explanation",
			fmt.Sprintf("explanation length %d outside %d-%d", l, explanationMinLen, explanationMaxLen), "")
	}
	for i, opt := range q.Options {
		if l := len([]rune(opt.Text)); l < optionMinLen || l > optionMaxLen {
			report.addIssue(SeverityCritical, CategoryStructure,
				fmt.Sprintf("question.options[%d].text", i),
				fmt.Sprintf("option text length %d outside %d-%d", l, optionMinLen, optionMaxLen), "")
		}
	}
}
