package medquiz

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// AuditLogger records every generator interaction and persistence decision of
// one pipeline run to its own file. It is a fire-and-forget sink: write
// failures are swallowed so auditing can never fail the primary operation.
type AuditLogger struct {
	file  *os.File
	mu    sync.Mutex
	runID string
}

// NewAuditLogger creates an audit logger for a specific run under dir.
func NewAuditLogger(dir, runID string, req GenerationRequest) (*AuditLogger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create audit directory: %w", err)
	}

	filename := filepath.Join(dir, fmt.Sprintf("%s.log", runID))
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create audit file: %w", err)
	}

	logger := &AuditLogger{file: file, runID: runID}

	logger.logf("=== Quiz Pipeline Audit ===\n")
	logger.logf("Run ID: %s\n", runID)
	logger.logf("Level: %s\n", req.Level)
	logger.logf("Domain: %s\n", req.Domain)
	logger.logf("Questions requested: %d\n", req.Count)
	if req.SourceContent != "" {
		logger.logf("Source content length: %d characters\n", len(req.SourceContent))
	}
	logger.logf("Started: %s\n", time.Now().Format(time.RFC3339))
	logger.logf("===========================\n\n")

	return logger, nil
}

// logf writes a timestamped entry. Errors are deliberately dropped.
func (a *AuditLogger) logf(format string, args ...interface{}) {
	if a == nil || a.file == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	timestamp := time.Now().Format("15:04:05.000")
	fmt.Fprintf(a.file, "[%s] %s", timestamp, fmt.Sprintf(format, args...))
	a.file.Sync()
}

// LogGeneratorRequest records a prompt sent to the text generator.
func (a *AuditLogger) LogGeneratorRequest(module, prompt string) {
	a.logf("=== GENERATOR REQUEST (%s) ===\n", module)
	a.logf("Prompt:\n%s\n", prompt)
	a.logf("==============================\n\n")
}

// LogGeneratorResponse records a raw generator response.
func (a *AuditLogger) LogGeneratorResponse(module, response string) {
	a.logf("=== GENERATOR RESPONSE (%s) ===\n", module)
	a.logf("Response:\n%s\n", response)
	a.logf("===============================\n\n")
}

// LogQuestionResult records the outcome of one question's retry loop.
func (a *AuditLogger) LogQuestionResult(questionID, state, reason string) {
	a.logf("Question %s: %s - %s\n", questionID, state, reason)
}

// LogCreationEvent records one step of the creation transaction.
func (a *AuditLogger) LogCreationEvent(collection, recordID, event string) {
	a.logf("Record %s/%s: %s\n", collection, recordID, event)
}

// LogCompensation records an undo action executed while rolling back.
func (a *AuditLogger) LogCompensation(collection, recordID string, err error) {
	if err != nil {
		a.logf("Compensation %s/%s FAILED: %v\n", collection, recordID, err)
		return
	}
	a.logf("Compensation %s/%s: deleted\n", collection, recordID)
}

// Close finalizes and closes the audit file.
func (a *AuditLogger) Close() error {
	if a == nil || a.file == nil {
		return nil
	}
	a.logf("=== Pipeline Run Complete ===\n")
	a.logf("Completed: %s\n", time.Now().Format(time.RFC3339))
	a.logf("=============================\n")

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.file.Close()
}
