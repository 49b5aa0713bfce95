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

	"github.com/google/uuid"
)

func main() {
	var (
		level      = flag.String("level", "PASS", "Study level (PASS or LAS)")
		count      = flag.Int("count", 10, "Number of questions to generate")
		domain     = flag.String("domain", "", "Medical domain, e.g. biochimie (required)")
		sourceFile = flag.String("source", "", "File with source material to base questions on")
		difficulty = flag.String("difficulty", "", "Target difficulty (easy, medium, hard)")
		outputFile = flag.String("output", "", "Output file for the result JSON (default: stdout)")
		configFile = flag.String("config", "", "Config file path (optional)")
		mode       = flag.String("mode", "strict", "Validation mode (strict or lenient)")
		create     = flag.Bool("create", false, "Persist the generated quiz to the database")
		categoryID = flag.String("category", "", "Category id for persistence (required with -create)")
		userID     = flag.String("user", "", "User id for persistence (required with -create)")
	)

	flag.Parse()

	if *domain == "" {
		log.Fatal("Domain is required. Use -domain flag.")
	}

	cfg, err := medquiz.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := medquiz.NewLogger(cfg.Logging, cfg.Server.Mode)
	defer logger.Sync()

	apiKey := cfg.OpenAI.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			log.Fatal("OpenAI API key is required. Set openai.api_key or OPENAI_API_KEY.")
		}
	}

	req := medquiz.GenerationRequest{
		Level:      medquiz.StudentLevel(*level),
		Count:      *count,
		Domain:     *domain,
		Difficulty: medquiz.Difficulty(*difficulty),
	}
	if *sourceFile != "" {
		source, err := os.ReadFile(*sourceFile)
		if err != nil {
			log.Fatalf("Failed to read source file: %v", err)
		}
		req.SourceContent = string(source)
	}

	gen := medquiz.NewOpenAIGenerator(apiKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Model)

	var store medquiz.Store
	if *create {
		sqlite, err := medquiz.OpenSQLiteStore(cfg.Database.Path)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer sqlite.Close()
		store = sqlite
	}

	runID := uuid.New().String()
	audit, err := medquiz.NewAuditLogger(cfg.Audit.Dir, runID, req)
	if err != nil {
		// Continue without auditing rather than failing the run.
		log.Printf("Failed to create audit logger: %v", err)
	} else {
		defer audit.Close()
	}

	svc := medquiz.NewQuizService(gen, store, audit, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if *create {
		draft, result, err := svc.GenerateAndCreate(ctx, req, medquiz.CreationMeta{
			CategoryID: *categoryID,
			Level:      req.Level,
			UserID:     *userID,
		})
		if err != nil {
			log.Fatalf("Failed to generate quiz: %v", err)
		}
		writeOutput(*outputFile, map[string]any{"draft": draft, "creation": result})
		if !result.Success {
			os.Exit(1)
		}
		return
	}

	drafts, err := svc.GenerateQuestions(ctx, req)
	if err != nil {
		log.Fatalf("Failed to generate questions: %v", err)
	}
	draft := medquiz.AssembleQuizDraft(req, drafts)
	validation := svc.ValidateDraft(&draft, req.Level, medquiz.ValidationMode(*mode))
	writeOutput(*outputFile, map[string]any{"draft": draft, "validation": validation})
}

func writeOutput(path string, payload any) {
	output, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal output: %v", err)
	}
	if path != "" {
		if err := os.WriteFile(path, output, 0644); err != nil {
			log.Fatalf("Failed to write output file: %v", err)
		}
		log.Printf("Result saved to: %s", path)
		return
	}
	fmt.Println(string(output))
}
