// Package entities defines core domain models and data structures.
package entities

import (
	"errors"
	"time"
)

// ErrConfiguration marks errors caused by bad input files, flags or credentials.
// The CLI treats them as fatal.
var ErrConfiguration = errors.New("configuration error")

// RepositoryEntry represents one file or folder returned by a deep repository listing
type RepositoryEntry struct {
	URI          string
	Folder       bool
	LastModified string
	Size         int64
	SHA1         string
	SHA2         string
}

// RepositoryListing represents the storage listing of a single repository
type RepositoryListing struct {
	URI     string
	Created string
	Files   []RepositoryEntry
}

// StorageStats is the raw storage metadata payload for an artifact or folder
type StorageStats map[string]any

// HasKey reports whether the payload carries the given top-level key
func (s StorageStats) HasKey(key string) bool {
	if s == nil {
		return false
	}
	_, ok := s[key]
	return ok
}

// WorkSetRequest describes the sources a work set is compiled from
type WorkSetRequest struct {
	Repos        []string
	ArtifactFile string
	RepoFile     string
	After        *time.Time
}
