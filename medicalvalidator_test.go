package medquiz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMedicalValidatorCleanDraft(t *testing.T) {
	draft := goodDraft()
	report := NewMedicalContentValidator().Validate(&draft)
	assert.Empty(t, report.Issues)
	assert.False(t, report.HasCriticalIssue())
	assert.Zero(t, report.ContentPenalty)
	assert.InDelta(t, 6.0/41.0, report.TerminologyRatio, 1e-9)
}

func TestMedicalValidatorSelfMedicationIsCritical(t *testing.T) {
	for _, spelling := range []string{"auto-médication", "automédication", "auto médication"} {
		draft := goodDraft()
		draft.Questions[0].Explanation += " L'" + spelling + " est évoquée ici."

		report := NewMedicalContentValidator().Validate(&draft)
		require.NotEmpty(t, report.Issues, spelling)
		assert.True(t, report.HasCriticalIssue(), spelling)
		assert.True(t, containsIssue(report.Issues, "self-medication"), spelling)
		assert.Equal(t, inappropriateMedicalPenalty+lowTerminologyPenalty, report.MedicalPenalty, spelling)
		assert.Equal(t, inappropriateContentPenalty, report.ContentPenalty, spelling)
	}
}

func TestMedicalValidatorPseudoscienceIsMajor(t *testing.T) {
	draft := goodDraft()
	draft.Description = "Une série de questions qui aborde aussi la théorie réfutée de la mémoire de l'eau."

	report := NewMedicalContentValidator().Validate(&draft)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, SeverityMajor, report.Issues[0].Severity)
	assert.False(t, report.HasCriticalIssue())
	assert.Equal(t, inappropriateContentPenalty, report.ContentPenalty)
}

func TestMedicalValidatorFixedPenaltiesApplyOnce(t *testing.T) {
	report := NewMedicalContentValidator().validateText(Normalize(
		"Préférez l'auto-médication et doublez la dose en cas d'oubli."))

	assert.GreaterOrEqual(t, len(report.Issues), 2)
	assert.Equal(t, inappropriateMedicalPenalty+lowTerminologyPenalty, report.MedicalPenalty,
		"the inappropriate-content penalty is flat, not per finding")
	assert.Equal(t, inappropriateContentPenalty, report.ContentPenalty)
}

func TestMedicalValidatorTerminologyRatio(t *testing.T) {
	rich := strings.Join([]string{
		"coeur", "artere", "veine", "poumon", "foie", "rein", "cerveau",
		"estomac", "muscle", "nerf", "respiration", "circulation", "digestion",
	}, " ")
	report := NewMedicalContentValidator().validateText(rich)
	assert.Empty(t, report.Warnings)
	assert.Empty(t, report.Recommendations)
	assert.Zero(t, report.MedicalPenalty)
	assert.GreaterOrEqual(t, report.TerminologyRatio, terminologyRatioMin)

	poor := NewMedicalContentValidator().validateText("une question sans vocabulaire specialise")
	assert.True(t, containsWarning(poor.Warnings, "terminology density is low"))
	assert.Equal(t, lowTerminologyPenalty, poor.MedicalPenalty)
	require.Len(t, poor.Recommendations, 1)
	assert.Contains(t, poor.Recommendations[0], "reference vocabulary")
}

func TestMedicalValidatorMatchesInflectedTerms(t *testing.T) {
	// Substring matching: plurals still count toward the ratio.
	assert.Greater(t, terminologyRatio("les proteines et les enzymes"), 0.0)
}
