package medquiz

import "strings"

// MedicalReport is the outcome of the medical-content validation stage.
// MedicalPenalty applies to the medical category score; ContentPenalty is the
// spill-over applied to the content score when inappropriate content exists.
type MedicalReport struct {
	Issues           []ValidationIssue
	Warnings         []ValidationWarning
	Recommendations  []string
	TerminologyRatio float64
	MedicalPenalty   int
	ContentPenalty   int
}

// MedicalContentValidator measures medical-terminology density and scans for
// unsafe or inappropriate content against the pattern tables.
type MedicalContentValidator struct{}

// NewMedicalContentValidator creates a medical-content validator.
func NewMedicalContentValidator() *MedicalContentValidator {
	return &MedicalContentValidator{}
}

// Validate scans the combined normalized text of the whole draft.
func (v *MedicalContentValidator) Validate(draft *QuizDraft) MedicalReport {
	return v.validateText(combinedText(draft))
}

// ValidateQuestion runs the same scan over a single question, for the
// generation loop's lighter validator.
func (v *MedicalContentValidator) ValidateQuestion(q *QuestionDraft) MedicalReport {
	return v.validateText(combinedQuestionText(q))
}

func (v *MedicalContentValidator) validateText(text string) MedicalReport {
	report := MedicalReport{TerminologyRatio: terminologyRatio(text)}

	if report.TerminologyRatio < terminologyRatioMin {
		report.Warnings = append(report.Warnings, ValidationWarning{
			Category:   WarningQuality,
			Message:    "medical terminology density is low",
			Suggestion: "anchor questions in the reference vocabulary of the targeted domains",
		})
		report.Recommendations = append(report.Recommendations,
			"anchor the questions in the reference vocabulary of the targeted medical domains")
		report.MedicalPenalty += lowTerminologyPenalty
	}

	inappropriate := false
	for _, p := range inappropriatePatterns {
		if !p.Pattern.MatchString(text) {
			continue
		}
		inappropriate = true
		report.Issues = append(report.Issues, ValidationIssue{
			Category:   CategoryMedical,
			Severity:   p.Severity,
			Field:      string(p.Category),
			Message:    p.Message,
			Suggestion: p.Suggestion,
		})
	}

	// Fixed penalties, independent of how many patterns matched.
	if inappropriate {
		report.MedicalPenalty += inappropriateMedicalPenalty
		report.ContentPenalty += inappropriateContentPenalty
	}
	return report
}

// HasCriticalIssue reports whether any critical finding exists; a single one
// invalidates the whole draft regardless of other scores.
func (r *MedicalReport) HasCriticalIssue() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

// terminologyRatio is the fraction of the reference vocabulary present in the
// normalized text. Matching is by substring so plural and derived forms count
// ("proteines" matches "proteine"); this is a lexical heuristic, not
// understanding.
func terminologyRatio(normalized string) float64 {
	if len(allReferenceTerms) == 0 {
		return 0
	}
	found := 0
	for _, term := range allReferenceTerms {
		if strings.Contains(normalized, term) {
			found++
		}
	}
	return float64(found) / float64(len(allReferenceTerms))
}

// combinedText joins every text field of the draft, normalized.
func combinedText(draft *QuizDraft) string {
	var sb strings.Builder
	sb.WriteString(draft.Title)
	sb.WriteByte(' ')
	sb.WriteString(draft.Description)
	for i := range draft.Questions {
		sb.WriteByte(' ')
		sb.WriteString(combinedQuestionText(&draft.Questions[i]))
	}
	return Normalize(sb.String())
}

func combinedQuestionText(q *QuestionDraft) string {
	var sb strings.Builder
	sb.WriteString(q.QuestionText)
	for _, opt := range q.Options {
		sb.WriteByte(' ')
		sb.WriteString(opt.Text)
	}
	sb.WriteByte(' ')
	sb.WriteString(q.Explanation)
	return Normalize(sb.String())
}
