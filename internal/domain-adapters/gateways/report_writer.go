package gateways

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ochairo/jfintegrity/internal/domain/entities"
)

// SummaryFileName is the name of the optional machine-readable run summary
const SummaryFileName = "summary.json"

// reportFiles maps each category to the file its paths are written to
var reportFiles = map[entities.Category]string{
	entities.CategoryTraceable:   "traceable_artifacts",
	entities.CategoryUntraceable: "untraceable_artifacts",
	entities.CategoryTraceFailed: "trace_failure_artifacts",
	entities.CategoryDeleted:     "deleted_artifacts",
	entities.CategoryNotDeleted:  "not_deleted_artifacts",
	entities.CategoryIsFolder:    "folder_artifacts",
}

// ReportFileName returns the report file name for a category
func ReportFileName(c entities.Category) string {
	return reportFiles[c]
}

// ReportWriter persists category-partitioned artifact lists to a directory
type ReportWriter struct {
	outputDir string
}

// NewReportWriter creates a writer rooted at outputDir ("." when empty)
func NewReportWriter(outputDir string) *ReportWriter {
	if outputDir == "" {
		outputDir = "."
	}
	return &ReportWriter{outputDir: outputDir}
}

// runSummary is the JSON shape of summary.json
type runSummary struct {
	RunID      string         `json:"run_id"`
	Operation  string         `json:"operation"`
	StartedAt  time.Time      `json:"started_at"`
	DurationMS int64          `json:"duration_ms"`
	Total      int            `json:"total"`
	Counts     map[string]int `json:"counts"`
}

// Write writes one file per category of the report's operation and returns their paths.
// Files are overwritten and written even when their category is empty.
func (w *ReportWriter) Write(report *entities.AuditReport) ([]string, error) {
	if err := os.MkdirAll(w.outputDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	written := make([]string, 0, len(report.Operation.Categories()))
	for _, c := range report.Operation.Categories() {
		filename := filepath.Join(w.outputDir, ReportFileName(c))
		if err := writeListFile(filename, report.ByCategory(c)); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", filename, err)
		}
		written = append(written, filename)
	}

	return written, nil
}

// WriteSummary writes summary.json next to the category files and returns its path
func (w *ReportWriter) WriteSummary(report *entities.AuditReport) (string, error) {
	counts := make(map[string]int)
	for c, n := range report.Counts() {
		counts[string(c)] = n
	}

	summary := runSummary{
		RunID:      report.RunID,
		Operation:  string(report.Operation),
		StartedAt:  report.StartedAt.UTC(),
		DurationMS: report.Duration.Milliseconds(),
		Total:      len(report.Outcomes),
		Counts:     counts,
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal summary: %w", err)
	}

	filename := filepath.Join(w.outputDir, SummaryFileName)
	if err := os.WriteFile(filename, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write summary: %w", err)
	}
	return filename, nil
}

func writeListFile(filename string, paths []string) error {
	if len(paths) == 0 {
		return os.WriteFile(filename, []byte{}, 0600)
	}
	return os.WriteFile(filename, []byte(strings.Join(paths, "\n")+"\n"), 0600)
}
