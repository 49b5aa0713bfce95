package medquiz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMeta() CreationMeta {
	return CreationMeta{
		CategoryID: "cat-biologie",
		Level:      LevelPASS,
		UserID:     "user-42",
	}
}

func TestCreateQuizFromDraftSuccess(t *testing.T) {
	store := newFakeStore()
	tx := NewQuizCreationTransaction(store, nil, nil)
	draft := goodDraft()

	result := tx.CreateQuizFromDraft(context.Background(), &draft, testMeta())

	require.True(t, result.Success, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, 2, result.QuestionsCreated)
	require.Len(t, result.QuestionIDs, 2)
	assert.NotEmpty(t, result.QuizID)

	// The quiz record references the question ids in input order.
	quiz, err := store.Find(context.Background(), CollectionQuizzes, result.QuizID)
	require.NoError(t, err)
	ids, ok := quiz["questionIds"].([]any)
	require.True(t, ok)
	require.Len(t, ids, 2)
	assert.Equal(t, result.QuestionIDs[0], ids[0])
	assert.Equal(t, result.QuestionIDs[1], ids[1])
	assert.Equal(t, "cat-biologie", quiz["categoryId"])
	assert.Equal(t, "PASS", quiz["level"])

	for _, id := range result.QuestionIDs {
		_, err := store.Find(context.Background(), CollectionQuestions, id)
		assert.NoError(t, err)
	}
}

func TestCreateQuizFromDraftRollsBackOnQuestionFailure(t *testing.T) {
	store := newFakeStore()
	store.failCreateOn = 2
	tx := NewQuizCreationTransaction(store, nil, nil)
	draft := goodDraft()

	result := tx.CreateQuizFromDraft(context.Background(), &draft, testMeta())

	assert.False(t, result.Success)
	assert.Empty(t, result.QuestionIDs)
	assert.Zero(t, result.QuestionsCreated)
	assert.Empty(t, result.QuizID)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "failed to create question 2")

	// The first question was compensated away: nothing is left behind.
	_, err := store.Find(context.Background(), CollectionQuestions, "questions-1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, store.records[CollectionQuestions])
	assert.Empty(t, store.records[CollectionQuizzes])
}

func TestCreateQuizFromDraftCompensatesInReverseOrder(t *testing.T) {
	store := newFakeStore()
	store.failCreateOn = 3 // both questions commit, the quiz create fails
	tx := NewQuizCreationTransaction(store, nil, nil)
	draft := goodDraft()

	result := tx.CreateQuizFromDraft(context.Background(), &draft, testMeta())

	assert.False(t, result.Success)
	assert.Equal(t, []string{
		CollectionQuestions + "/questions-2",
		CollectionQuestions + "/questions-1",
	}, store.deleted)
	assert.Empty(t, store.records[CollectionQuestions])
}

func TestCreateQuizFromDraftFailsFastOnBadRequest(t *testing.T) {
	store := newFakeStore()
	tx := NewQuizCreationTransaction(store, nil, nil)

	result := tx.CreateQuizFromDraft(context.Background(), &QuizDraft{}, testMeta())
	assert.False(t, result.Success)
	assert.Contains(t, result.Errors, "quiz draft has no questions")
	assert.Zero(t, store.createCalls, "no side effect before the request checks pass")

	draft := goodDraft()
	result = tx.CreateQuizFromDraft(context.Background(), &draft, CreationMeta{Level: "M2"})
	assert.False(t, result.Success)
	assert.Len(t, result.Errors, 3, "level, category and user problems are all reported")
	assert.Zero(t, store.createCalls)
}

func TestCreateQuizFromDraftBlocksCriticalQuestions(t *testing.T) {
	store := newFakeStore()
	tx := NewQuizCreationTransaction(store, nil, nil)

	draft := goodDraft()
	draft.Questions[0].Options = draft.Questions[0].Options[:2]

	result := tx.CreateQuizFromDraft(context.Background(), &draft, testMeta())

	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "question 1 failed pre-create validation")
	assert.Zero(t, store.createCalls)
}
