// Package services defines interfaces for domain service contracts.
package services

import (
	"context"
	"time"

	"github.com/ochairo/jfintegrity/internal/domain/entities"
)

// WorkSetService resolves the set of artifact paths one run operates on
type WorkSetService interface {
	// ReadItems reads newline-delimited entries from a file
	ReadItems(file string) ([]string, error)

	// ListRepositoryArtifacts lists non-folder artifacts of each repository,
	// keeping only entries modified strictly after the cutoff when one is given
	ListRepositoryArtifacts(ctx context.Context, repos []string, after *time.Time) []string

	// CompileWorkSet unions every source of the request without duplicates
	CompileWorkSet(ctx context.Context, req entities.WorkSetRequest) ([]string, error)
}

// ClassificationService maps remote results onto outcome categories
type ClassificationService interface {
	// ClassifyTrace classifies a trace log; fetched is false when the trace call failed
	ClassifyTrace(trace string, fetched bool) entities.Category

	// IsFolder reports whether the path must be treated as a folder
	IsFolder(ctx context.Context, path string) bool
}
