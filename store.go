package medquiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Collections known to the store.
const (
	CollectionQuizzes   = "quizzes"
	CollectionQuestions = "questions"
)

// ErrNotFound is returned by Find when no record matches.
var ErrNotFound = errors.New("record not found")

// Store is the narrow persistence boundary the creation transaction depends
// on. Anything resembling an ORM stays behind it.
type Store interface {
	Create(ctx context.Context, collection string, data map[string]any) (string, error)
	Delete(ctx context.Context, collection, id string) error
	Find(ctx context.Context, collection, id string) (map[string]any, error)
}

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (and if needed initializes) the database at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS quizzes (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			estimated_duration INTEGER NOT NULL,
			category_id TEXT,
			level TEXT NOT NULL,
			user_id TEXT,
			question_ids TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS questions (
			id TEXT PRIMARY KEY,
			question_text TEXT NOT NULL,
			options TEXT NOT NULL,
			explanation TEXT,
			difficulty TEXT,
			tags TEXT,
			score INTEGER,
			created_at DATETIME NOT NULL
		)`,
	}
	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute %s: %w", query, err)
		}
	}
	return nil
}

// Create inserts a record and returns its generated id.
func (s *SQLiteStore) Create(ctx context.Context, collection string, data map[string]any) (string, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	switch collection {
	case CollectionQuestions:
		_, err := s.db.ExecContext(ctx,
			"INSERT INTO questions (id, question_text, options, explanation, difficulty, tags, score, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			id,
			asString(data["questionText"]),
			jsonField(data["options"]),
			asString(data["explanation"]),
			asString(data["difficulty"]),
			jsonField(data["tags"]),
			asInt(data["score"]),
			now,
		)
		if err != nil {
			return "", fmt.Errorf("failed to create question: %w", err)
		}
	case CollectionQuizzes:
		_, err := s.db.ExecContext(ctx,
			"INSERT INTO quizzes (id, title, description, estimated_duration, category_id, level, user_id, question_ids, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
			id,
			asString(data["title"]),
			asString(data["description"]),
			asInt(data["estimatedDuration"]),
			asString(data["categoryId"]),
			asString(data["level"]),
			asString(data["userId"]),
			jsonField(data["questionIds"]),
			now,
		)
		if err != nil {
			return "", fmt.Errorf("failed to create quiz: %w", err)
		}
	default:
		return "", fmt.Errorf("unknown collection: %s", collection)
	}
	return id, nil
}

// Delete removes a record. Deleting an absent record is not an error, so
// compensations stay idempotent.
func (s *SQLiteStore) Delete(ctx context.Context, collection, id string) error {
	table, err := tableFor(collection)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), id); err != nil {
		return fmt.Errorf("failed to delete from %s: %w", collection, err)
	}
	return nil
}

// Find retrieves a record by id, or ErrNotFound.
func (s *SQLiteStore) Find(ctx context.Context, collection, id string) (map[string]any, error) {
	switch collection {
	case CollectionQuestions:
		var text, options, explanation, difficulty, tags string
		var score int
		err := s.db.QueryRowContext(ctx,
			"SELECT question_text, options, explanation, difficulty, tags, score FROM questions WHERE id = ?",
			id,
		).Scan(&text, &options, &explanation, &difficulty, &tags, &score)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("failed to find question: %w", err)
		}
		return map[string]any{
			"id":           id,
			"questionText": text,
			"options":      decodeJSONField(options),
			"explanation":  explanation,
			"difficulty":   difficulty,
			"tags":         decodeJSONField(tags),
			"score":        score,
		}, nil
	case CollectionQuizzes:
		var title, description, categoryID, level, userID, questionIDs string
		var duration int
		err := s.db.QueryRowContext(ctx,
			"SELECT title, description, estimated_duration, category_id, level, user_id, question_ids FROM quizzes WHERE id = ?",
			id,
		).Scan(&title, &description, &duration, &categoryID, &level, &userID, &questionIDs)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("failed to find quiz: %w", err)
		}
		return map[string]any{
			"id":                id,
			"title":             title,
			"description":       description,
			"estimatedDuration": duration,
			"categoryId":        categoryID,
			"level":             level,
			"userId":            userID,
			"questionIds":       decodeJSONField(questionIDs),
		}, nil
	default:
		return nil, fmt.Errorf("unknown collection: %s", collection)
	}
}

// QuizSummary is a row of the admin listing.
type QuizSummary struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Level         string    `json:"level"`
	QuestionCount int       `json:"questionCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ListQuizzes returns the most recent quizzes, newest first.
func (s *SQLiteStore) ListQuizzes(ctx context.Context, limit int) ([]QuizSummary, error) {
	query := "SELECT id, title, level, question_ids, created_at FROM quizzes ORDER BY created_at DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	defer rows.Close()

	var quizzes []QuizSummary
	for rows.Next() {
		var q QuizSummary
		var questionIDs string
		if err := rows.Scan(&q.ID, &q.Title, &q.Level, &questionIDs, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan quiz: %w", err)
		}
		var ids []string
		if err := json.Unmarshal([]byte(questionIDs), &ids); err == nil {
			q.QuestionCount = len(ids)
		}
		quizzes = append(quizzes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quizzes: %w", err)
	}
	return quizzes, nil
}

func tableFor(collection string) (string, error) {
	switch collection {
	case CollectionQuizzes, CollectionQuestions:
		return collection, nil
	}
	return "", fmt.Errorf("unknown collection: %s", collection)
}

func jsonField(v any) string {
	if v == nil {
		return "null"
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(data)
}

func decodeJSONField(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil
	}
	return v
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}
