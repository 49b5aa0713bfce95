package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"medquiz"
)

// quizaudit walks every persisted quiz and re-runs the integrity checks the
// creation transaction performs once: every referenced question id must
// resolve, and every stored question must still have exactly 4 options with
// exactly one correct answer.
func main() {
	var (
		dbPath  = flag.String("db", "./medquiz.db", "Path to the quiz database")
		limit   = flag.Int("limit", 0, "Max quizzes to audit (0 = all)")
		verbose = flag.Bool("verbose", false, "Print healthy quizzes too")
	)
	flag.Parse()

	store, err := medquiz.OpenSQLiteStore(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	quizzes, err := store.ListQuizzes(ctx, *limit)
	if err != nil {
		log.Fatalf("Failed to list quizzes: %v", err)
	}

	failures := 0
	for _, summary := range quizzes {
		problems := auditQuiz(ctx, store, summary.ID)
		if len(problems) == 0 {
			if *verbose {
				fmt.Printf("OK   %s (%s, %d questions)\n", summary.ID, summary.Title, summary.QuestionCount)
			}
			continue
		}
		failures++
		fmt.Printf("FAIL %s (%s)\n", summary.ID, summary.Title)
		for _, p := range problems {
			fmt.Printf("     - %s\n", p)
		}
	}

	fmt.Printf("\nAudited %d quizzes, %d with problems\n", len(quizzes), failures)
	if failures > 0 {
		os.Exit(1)
	}
}

func auditQuiz(ctx context.Context, store *medquiz.SQLiteStore, quizID string) []string {
	var problems []string

	quiz, err := store.Find(ctx, medquiz.CollectionQuizzes, quizID)
	if err != nil {
		return append(problems, fmt.Sprintf("quiz does not resolve: %v", err))
	}

	ids, ok := quiz["questionIds"].([]any)
	if !ok || len(ids) == 0 {
		return append(problems, "quiz references no questions")
	}

	for i, raw := range ids {
		id, ok := raw.(string)
		if !ok {
			problems = append(problems, fmt.Sprintf("question reference %d is not an id", i))
			continue
		}
		question, err := store.Find(ctx, medquiz.CollectionQuestions, id)
		if err != nil {
			problems = append(problems, fmt.Sprintf("question %s does not resolve: %v", id, err))
			continue
		}
		problems = append(problems, auditOptions(id, question)...)
	}
	return problems
}

func auditOptions(id string, question map[string]any) []string {
	var problems []string

	// Options come back as decoded JSON; re-marshal into the typed shape.
	raw, err := json.Marshal(question["options"])
	if err != nil {
		return append(problems, fmt.Sprintf("question %s: unreadable options", id))
	}
	var options []medquiz.Option
	if err := json.Unmarshal(raw, &options); err != nil {
		return append(problems, fmt.Sprintf("question %s: unreadable options", id))
	}

	if len(options) != 4 {
		problems = append(problems, fmt.Sprintf("question %s: %d options instead of 4", id, len(options)))
	}
	correct := 0
	for _, opt := range options {
		if opt.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		problems = append(problems, fmt.Sprintf("question %s: %d correct answers instead of 1", id, correct))
	}
	return problems
}
