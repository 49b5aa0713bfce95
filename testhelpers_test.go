package medquiz

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Fixture quiz: two PASS-level biology questions that clear every validator
// with margin. Tests mutate copies of these instead of rebuilding drafts by
// hand.

func goodQuestions() []QuestionDraft {
	return []QuestionDraft{
		{
			QuestionText: "Quel organite cellulaire est le siège principal de la production d'ATP dans la cellule ?",
			Options: []Option{
				{Text: "La mitochondrie", IsCorrect: true},
				{Text: "Le réticulum endoplasmique"},
				{Text: "L'appareil de Golgi"},
				{Text: "Le lysosome"},
			},
			Explanation: "La mitochondrie est l'organite responsable de la phosphorylation oxydative, qui produit l'essentiel de l'ATP utilisé par la cellule pour son métabolisme énergétique.",
			Difficulty:  DifficultyEasy,
		},
		{
			QuestionText: "Quelle est la nature biochimique de la grande majorité des enzymes présentes dans la cellule humaine ?",
			Options: []Option{
				{Text: "Des protéines", IsCorrect: true},
				{Text: "Des glucides complexes"},
				{Text: "Des lipides membranaires"},
				{Text: "Des acides nucléiques"},
			},
			Explanation: "Les enzymes sont des protéines qui catalysent les réactions chimiques dans la cellule; chaque molécule d'enzyme abaisse l'énergie d'activation de la réaction qu'elle accélère.",
			Difficulty:  DifficultyMedium,
		},
	}
}

func goodDraft() QuizDraft {
	return QuizDraft{
		Title:                    "QCM PASS — Biologie cellulaire",
		Description:              "Une série de questions de biologie cellulaire pour réviser les fondamentaux du premier cycle des études de santé.",
		EstimatedDurationMinutes: 15,
		Questions:                goodQuestions(),
	}
}

// validQuizContent returns the raw wire shape of the fixture draft.
func validQuizContent() map[string]any {
	draft := goodDraft()
	return draftContent(&draft)
}

func containsIssue(issues []ValidationIssue, substr string) bool {
	for _, issue := range issues {
		if strings.Contains(issue.Message, substr) {
			return true
		}
	}
	return false
}

func containsWarning(warnings []ValidationWarning, substr string) bool {
	for _, warning := range warnings {
		if strings.Contains(warning.Message, substr) {
			return true
		}
	}
	return false
}

// scriptedGenerator replays a fixed sequence of model responses. An empty
// string in the script simulates a transport failure.
type scriptedGenerator struct {
	responses []string
	calls     int
}

func (g *scriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.calls >= len(g.responses) {
		return "", errors.New("script exhausted")
	}
	resp := g.responses[g.calls]
	g.calls++
	if resp == "" {
		return "", errors.New("model unavailable")
	}
	return resp, nil
}

// fakeStore is an in-memory Store with failure injection: the Nth Create call
// (1-based) fails when failCreateOn is set.
type fakeStore struct {
	records      map[string]map[string]map[string]any
	createCalls  int
	failCreateOn int
	deleted      []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[string]map[string]map[string]any{
		CollectionQuizzes:   {},
		CollectionQuestions: {},
	}}
}

func (s *fakeStore) Create(ctx context.Context, collection string, data map[string]any) (string, error) {
	s.createCalls++
	if s.failCreateOn != 0 && s.createCalls == s.failCreateOn {
		return "", errors.New("store unavailable")
	}
	id := fmt.Sprintf("%s-%d", collection, s.createCalls)
	s.records[collection][id] = data
	return id, nil
}

func (s *fakeStore) Delete(ctx context.Context, collection, id string) error {
	delete(s.records[collection], id)
	s.deleted = append(s.deleted, collection+"/"+id)
	return nil
}

func (s *fakeStore) Find(ctx context.Context, collection, id string) (map[string]any, error) {
	record, ok := s.records[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	out := make(map[string]any, len(record))
	for k, v := range record {
		// Mirror the JSON round-trip of the real store: string slices come
		// back as []any.
		if ids, isStrs := v.([]string); isStrs {
			anys := make([]any, len(ids))
			for i, s := range ids {
				anys[i] = s
			}
			out[k] = anys
			continue
		}
		out[k] = v
	}
	return out, nil
}
