package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"medquiz"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// Server is the small admin surface over the pipeline: validate drafts,
// trigger generation, browse what was persisted.
type Server struct {
	svc      *medquiz.QuizService
	store    *medquiz.SQLiteStore
	sessions *sessions.CookieStore
	password string
	log      *zap.Logger
}

func main() {
	configFile := flag.String("config", "", "Config file path (optional)")
	flag.Parse()

	cfg, err := medquiz.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := medquiz.NewLogger(cfg.Logging, cfg.Server.Mode)
	defer logger.Sync()

	apiKey := cfg.OpenAI.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		log.Fatal("OpenAI API key is required. Set openai.api_key or OPENAI_API_KEY.")
	}

	store, err := medquiz.OpenSQLiteStore(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	secret := cfg.Server.SessionSecret
	if secret == "" {
		secret = uuid.New().String()
		logger.Warn("no session secret configured, sessions reset on restart")
	}
	password := os.Getenv("MEDQUIZ_ADMIN_PASSWORD")
	if password == "" {
		log.Fatal("MEDQUIZ_ADMIN_PASSWORD environment variable is required")
	}

	gen := medquiz.NewOpenAIGenerator(apiKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Model)
	server := &Server{
		svc:      medquiz.NewQuizService(gen, store, nil, logger),
		store:    store,
		sessions: sessions.NewCookieStore([]byte(secret)),
		password: password,
		log:      logger.With(zap.String("component", "webserver")),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", server.handleLogin)
	mux.HandleFunc("POST /api/validate", server.auth(server.handleValidate))
	mux.HandleFunc("POST /api/quizzes", server.auth(server.handleGenerate))
	mux.HandleFunc("GET /api/quizzes", server.auth(server.handleList))
	mux.HandleFunc("GET /api/quizzes/{id}", server.auth(server.handleGet))

	logger.Info("webserver listening", zap.String("addr", cfg.Server.Addr))
	if err := http.ListenAndServe(cfg.Server.Addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

const sessionName = "medquiz-admin"

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Password != s.password {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	session, _ := s.sessions.Get(r, sessionName)
	session.Values["authenticated"] = true
	session.Options.MaxAge = int((12 * time.Hour).Seconds())
	if err := session.Save(r, w); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := s.sessions.Get(r, sessionName)
		if ok, _ := session.Values["authenticated"].(bool); !ok {
			writeError(w, http.StatusUnauthorized, "login required")
			return
		}
		next(w, r)
	}
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Content json.RawMessage `json:"content"`
		Level   string          `json:"level"`
		Mode    string          `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	mode := medquiz.ModeStrict
	if strings.EqualFold(body.Mode, string(medquiz.ModeLenient)) {
		mode = medquiz.ModeLenient
	}
	result := s.svc.Validate(body.Content, medquiz.StudentLevel(body.Level), mode)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Level         string `json:"level"`
		Count         int    `json:"count"`
		Domain        string `json:"domain"`
		SourceContent string `json:"sourceContent"`
		CategoryID    string `json:"categoryId"`
		UserID        string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req := medquiz.GenerationRequest{
		Level:         medquiz.StudentLevel(body.Level),
		Count:         body.Count,
		Domain:        body.Domain,
		SourceContent: body.SourceContent,
	}
	draft, result, err := s.svc.GenerateAndCreate(r.Context(), req, medquiz.CreationMeta{
		CategoryID: body.CategoryID,
		Level:      req.Level,
		UserID:     body.UserID,
	})
	if err != nil {
		s.log.Error("generation failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	status := http.StatusCreated
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, map[string]any{"draft": draft, "creation": result})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	quizzes, err := s.store.ListQuizzes(r.Context(), 50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, quizzes)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	quiz, err := s.store.Find(r.Context(), medquiz.CollectionQuizzes, id)
	if err != nil {
		if err == medquiz.ErrNotFound {
			writeError(w, http.StatusNotFound, "quiz not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var questions []map[string]any
	if ids, ok := quiz["questionIds"].([]any); ok {
		for _, raw := range ids {
			qid, ok := raw.(string)
			if !ok {
				continue
			}
			question, err := s.store.Find(r.Context(), medquiz.CollectionQuestions, qid)
			if err != nil {
				continue
			}
			questions = append(questions, question)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"quiz": quiz, "questions": questions})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
