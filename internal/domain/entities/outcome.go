package entities

import (
	"fmt"
	"time"
)

// Category is the classification label assigned to a processed artifact
type Category string

const (
	CategoryTraceable   Category = "artifact_traceable"
	CategoryUntraceable Category = "artifact_untraceable"
	CategoryTraceFailed Category = "trace_failure"
	CategoryDeleted     Category = "artifact_deleted"
	CategoryNotDeleted  Category = "artifact_not_deleted"
	CategoryIsFolder    Category = "artifact_is_folder"
)

// CheckCategories lists the categories produced by the check flow, in report order
var CheckCategories = []Category{CategoryTraceable, CategoryUntraceable, CategoryTraceFailed}

// DeleteCategories lists the categories produced by the delete flow, in report order
var DeleteCategories = []Category{CategoryDeleted, CategoryNotDeleted, CategoryIsFolder}

// Operation names the kind of audit run
type Operation string

const (
	OperationCheck  Operation = "check"
	OperationDelete Operation = "delete"
)

// Categories returns the categories an operation can produce
func (o Operation) Categories() []Category {
	if o == OperationDelete {
		return DeleteCategories
	}
	return CheckCategories
}

// Outcome pairs an artifact path with its classification
type Outcome struct {
	Path     string
	Category Category
}

// AuditReport represents the result of one check or delete run
type AuditReport struct {
	RunID     string
	Operation Operation
	StartedAt time.Time
	Duration  time.Duration
	Outcomes  []Outcome
}

// ByCategory returns the paths classified under c, in recording order
func (r *AuditReport) ByCategory(c Category) []string {
	paths := make([]string, 0)
	for _, o := range r.Outcomes {
		if o.Category == c {
			paths = append(paths, o.Path)
		}
	}
	return paths
}

// Counts returns the number of outcomes per category for the report's operation.
// Every category of the operation is present, even with a zero count.
func (r *AuditReport) Counts() map[Category]int {
	counts := make(map[Category]int)
	for _, c := range r.Operation.Categories() {
		counts[c] = 0
	}
	for _, o := range r.Outcomes {
		counts[o.Category]++
	}
	return counts
}

// GetSummary generates a human-readable run summary
func (r *AuditReport) GetSummary() string {
	counts := r.Counts()
	summary := "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"
	summary += fmt.Sprintf("📊 %s summary (run %s)\n", r.Operation, r.RunID)
	for _, c := range r.Operation.Categories() {
		summary += fmt.Sprintf("   %-22s %d\n", c, counts[c])
	}
	summary += fmt.Sprintf("   %-22s %d\n", "total", len(r.Outcomes))
	summary += fmt.Sprintf("⏱️  Duration: %v\n", r.Duration.Round(time.Millisecond))
	summary += "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"
	return summary
}
