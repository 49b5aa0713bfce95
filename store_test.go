package medquiz

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "medquiz.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStoreQuestionRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	q := goodQuestions()[0]
	q.Score = 90
	id, err := store.Create(ctx, CollectionQuestions, questionRecord(&q))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	record, err := store.Find(ctx, CollectionQuestions, id)
	require.NoError(t, err)
	assert.Equal(t, q.QuestionText, record["questionText"])
	assert.Equal(t, q.Explanation, record["explanation"])
	assert.Equal(t, string(q.Difficulty), record["difficulty"])
	assert.Equal(t, 90, record["score"])

	options, ok := record["options"].([]any)
	require.True(t, ok)
	require.Len(t, options, 4)
	first := options[0].(map[string]any)
	assert.Equal(t, "La mitochondrie", first["text"])
	assert.Equal(t, true, first["isCorrect"])
}

func TestSQLiteStoreQuizRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, CollectionQuizzes, map[string]any{
		"title":             "QCM PASS — Biologie cellulaire",
		"description":       "Une série de questions de révision.",
		"estimatedDuration": 15,
		"categoryId":        "cat-biologie",
		"level":             "PASS",
		"userId":            "user-42",
		"questionIds":       []string{"q-1", "q-2"},
	})
	require.NoError(t, err)

	record, err := store.Find(ctx, CollectionQuizzes, id)
	require.NoError(t, err)
	assert.Equal(t, "QCM PASS — Biologie cellulaire", record["title"])
	assert.Equal(t, 15, record["estimatedDuration"])
	assert.Equal(t, "PASS", record["level"])

	ids, ok := record["questionIds"].([]any)
	require.True(t, ok)
	assert.Equal(t, []any{"q-1", "q-2"}, ids)
}

func TestSQLiteStoreDeleteIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	q := goodQuestions()[0]
	id, err := store.Create(ctx, CollectionQuestions, questionRecord(&q))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, CollectionQuestions, id))
	require.NoError(t, store.Delete(ctx, CollectionQuestions, id), "deleting an absent record is not an error")

	_, err = store.Find(ctx, CollectionQuestions, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStoreUnknownCollection(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, "users", map[string]any{})
	assert.Error(t, err)
	_, err = store.Find(ctx, "users", "x")
	assert.Error(t, err)
	assert.Error(t, store.Delete(ctx, "users", "x"))
}

func TestSQLiteStoreListQuizzes(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, title := range []string{"QCM PASS — Biologie", "QCM LAS — Physiologie"} {
		_, err := store.Create(ctx, CollectionQuizzes, map[string]any{
			"title":             title,
			"description":       "Une série de questions de révision.",
			"estimatedDuration": 10,
			"level":             "PASS",
			"questionIds":       []string{"q-1"},
		})
		require.NoError(t, err)
	}

	quizzes, err := store.ListQuizzes(ctx, 0)
	require.NoError(t, err)
	require.Len(t, quizzes, 2)
	for _, q := range quizzes {
		assert.Equal(t, 1, q.QuestionCount)
		assert.False(t, q.CreatedAt.IsZero())
	}

	limited, err := store.ListQuizzes(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
