package medquiz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionValidatorAcceptsGoodQuestion(t *testing.T) {
	q := goodQuestions()[0]
	report := NewQuestionValidator().Validate(&q)

	assert.True(t, report.Acceptable())
	assert.Equal(t, 100-lowTerminologyPenalty, report.Score)
	assert.Empty(t, report.Issues)
}

func TestQuestionValidatorWrongOptionCount(t *testing.T) {
	q := goodQuestions()[0]
	q.Options = q.Options[:3]

	report := NewQuestionValidator().Validate(&q)
	assert.True(t, containsIssue(report.Issues, "exactly 4 options required (found 3)"))
	assert.Less(t, report.Score, 100-lowTerminologyPenalty)
}

func TestQuestionValidatorTwoCorrectAnswers(t *testing.T) {
	q := goodQuestions()[0]
	q.Options[1].IsCorrect = true

	report := NewQuestionValidator().Validate(&q)
	assert.True(t, containsIssue(report.Issues, "exactly one correct answer required (found 2)"))
}

func TestQuestionValidatorLengthBounds(t *testing.T) {
	q := goodQuestions()[0]
	q.QuestionText = "Trop court ?"
	q.Explanation = strings.Repeat("longue explication ", 60)
	q.Options[3].Text = "Non"

	report := NewQuestionValidator().Validate(&q)
	assert.True(t, containsIssue(report.Issues, "questionText length"))
	assert.True(t, containsIssue(report.Issues, "explanation length"))
	assert.True(t, containsIssue(report.Issues, "option text length"))
	assert.False(t, report.Acceptable())
}

func TestQuestionValidatorFlagsDangerousContent(t *testing.T) {
	q := goodQuestions()[0]
	q.Explanation += " En pratique, doublez la dose si un oubli survient."

	report := NewQuestionValidator().Validate(&q)
	require.NotEmpty(t, report.Issues)
	assert.True(t, containsIssue(report.Issues, "dangerous dosage advice"))
	assert.False(t, report.Acceptable())
}

func TestCorrectOption(t *testing.T) {
	q := goodQuestions()[0]
	opt, idx := q.CorrectOption()
	assert.Equal(t, 0, idx)
	assert.Equal(t, "La mitochondrie", opt.Text)

	q.Options[1].IsCorrect = true
	_, idx = q.CorrectOption()
	assert.Equal(t, -1, idx)

	none := QuestionDraft{Options: []Option{{Text: "Seule option"}}}
	_, idx = none.CorrectOption()
	assert.Equal(t, -1, idx)
}
