package medquiz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelValidatorCleanDraft(t *testing.T) {
	draft := goodDraft()
	report := NewLevelValidator().Validate(&draft, LevelPASS)
	assert.Empty(t, report.Issues)
	assert.Zero(t, report.Penalty)
	assert.GreaterOrEqual(t, report.Coverage, requiredCoverageMin)
}

func TestLevelValidatorUnknownLevel(t *testing.T) {
	draft := goodDraft()
	report := NewLevelValidator().Validate(&draft, StudentLevel("L3"))
	assert.Empty(t, report.Issues)
	assert.Empty(t, report.Warnings)
	assert.InDelta(t, 1.0, report.Coverage, 1e-9)
}

func TestLevelValidatorForbiddenTermTooAdvanced(t *testing.T) {
	draft := goodDraft()
	draft.Description = "Une série de questions qui mentionne la prescription médicamenteuse en contexte clinique."

	report := NewLevelValidator().Validate(&draft, LevelPASS)
	require.NotEmpty(t, report.Issues)
	assert.Equal(t, SeverityMajor, report.Issues[0].Severity)
	assert.True(t, containsIssue(report.Issues, "content too advanced for level PASS"))
	assert.Equal(t, forbiddenTermPenalty, report.Penalty)
}

func TestLevelValidatorLowCoverage(t *testing.T) {
	draft := QuizDraft{
		Title:       "QCM de culture générale",
		Description: "Des questions sans rapport avec le programme du niveau visé.",
		Questions: []QuestionDraft{{
			QuestionText: "Quelle est la capitale administrative des Pays-Bas ?",
			Options: []Option{
				{Text: "Amsterdam", IsCorrect: true},
				{Text: "La Haye"},
				{Text: "Rotterdam"},
				{Text: "Utrecht"},
			},
			Explanation: "Amsterdam est la capitale constitutionnelle, même si le gouvernement siège à La Haye.",
		}},
	}

	report := NewLevelValidator().Validate(&draft, LevelPASS)
	assert.Zero(t, report.Coverage)
	assert.True(t, containsWarning(report.Warnings, "expected PASS terms"))
	assert.NotEmpty(t, report.Recommendations)
	assert.Equal(t, lowCoveragePenalty, report.Penalty)
}

func TestLevelValidatorDifficultyCeiling(t *testing.T) {
	draft := goodDraft()
	draft.Questions[1].Difficulty = DifficultyHard

	report := NewLevelValidator().Validate(&draft, LevelPASS)
	require.NotEmpty(t, report.Issues)
	assert.Equal(t, SeverityMinor, report.Issues[0].Severity)
	assert.True(t, containsIssue(report.Issues, "exceeds the PASS ceiling"))
	assert.Equal(t, difficultyPenalty, report.Penalty)

	// LAS tolerates hard questions.
	report = NewLevelValidator().Validate(&draft, LevelLAS)
	assert.False(t, containsIssue(report.Issues, "exceeds"))
}

func TestLevelValidatorQuestionLengthWarnsOnly(t *testing.T) {
	draft := goodDraft()
	draft.Questions[0].QuestionText = "Pourquoi " + strings.Repeat("vraiment ", 28) + "?"

	report := NewLevelValidator().Validate(&draft, LevelPASS)
	assert.Empty(t, report.Issues)
	assert.True(t, containsWarning(report.Warnings, "outside the 20-250 range"))
	assert.Zero(t, report.Penalty)
}
