// Package services implements domain business logic and use cases.
package services

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ochairo/jfintegrity/internal/domain/entities"
	"github.com/ochairo/jfintegrity/internal/domain/interfaces"
	"github.com/ochairo/jfintegrity/internal/domain/interfaces/gateways"
	"github.com/ochairo/jfintegrity/internal/domain/interfaces/services"
)

// naiveLayouts are the ISO-8601 forms accepted without a zone; they are read as UTC
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 timestamp. A trailing "Z" is dropped and
// zone-less values are taken as UTC; an explicit offset is honored.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "Z") || strings.HasSuffix(s, "z") {
		s = s[:len(s)-1]
	} else if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}

	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO-8601 timestamp %q", s)
}

// workSetService implements WorkSetService on top of the repository listing API
type workSetService struct {
	gateway gateways.ArtifactoryGateway
	logger  interfaces.Logger
}

// NewWorkSetService creates a new work set service with dependency injection
func NewWorkSetService(gateway gateways.ArtifactoryGateway, logger interfaces.Logger) services.WorkSetService {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &workSetService{gateway: gateway, logger: logger}
}

// ReadItems reads one entry per line, skipping blank lines
func (s *workSetService) ReadItems(file string) ([]string, error) {
	f, err := os.Open(file) //nolint:gosec // G304: Input list path is provided by the operator
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read %s: %w", entities.ErrConfiguration, file, err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	items := make([]string, 0)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimRight(scanner.Text(), "\r"))
		if line == "" {
			continue
		}
		items = append(items, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: cannot read %s: %w", entities.ErrConfiguration, file, err)
	}

	return items, nil
}

// ListRepositoryArtifacts lists the non-folder artifacts of each repository in order.
// With a cutoff only entries modified strictly after it are kept.
func (s *workSetService) ListRepositoryArtifacts(ctx context.Context, repos []string, after *time.Time) []string {
	artifacts := make([]string, 0)

	for _, repo := range repos {
		listing, err := s.gateway.Contents(ctx, repo)
		if err != nil {
			s.logger.Error("failed to list repository, skipping", interfaces.F("repository", repo), interfaces.Err(err))
			continue
		}

		kept := 0
		for _, entry := range listing.Files {
			if entry.Folder {
				continue
			}
			if after != nil && !s.modifiedAfter(repo, entry, *after) {
				continue
			}
			artifacts = append(artifacts, repo+entry.URI)
			kept++
		}

		s.logger.Debug("listed repository", interfaces.F("repository", repo),
			interfaces.F("entries", len(listing.Files)), interfaces.F("kept", kept))
	}

	return artifacts
}

func (s *workSetService) modifiedAfter(repo string, entry entities.RepositoryEntry, cutoff time.Time) bool {
	modified, err := ParseTimestamp(entry.LastModified)
	if err != nil {
		s.logger.Warn("unparseable lastModified, excluding entry", interfaces.F("repository", repo),
			interfaces.F("uri", entry.URI), interfaces.Err(err))
		return false
	}
	return modified.After(cutoff)
}

// CompileWorkSet unions repository listings, the artifact file and the repository
// file's listings. Duplicates collapse, keeping the first occurrence.
func (s *workSetService) CompileWorkSet(ctx context.Context, req entities.WorkSetRequest) ([]string, error) {
	var sources [][]string

	if len(req.Repos) > 0 {
		sources = append(sources, s.ListRepositoryArtifacts(ctx, req.Repos, req.After))
	}

	if req.ArtifactFile != "" {
		items, err := s.ReadItems(req.ArtifactFile)
		if err != nil {
			return nil, err
		}
		sources = append(sources, items)
	}

	if req.RepoFile != "" {
		repos, err := s.ReadItems(req.RepoFile)
		if err != nil {
			return nil, err
		}
		sources = append(sources, s.ListRepositoryArtifacts(ctx, repos, req.After))
	}

	return dedupe(sources...), nil
}

func dedupe(lists ...[]string) []string {
	seen := make(map[string]struct{})
	result := make([]string, 0)
	for _, list := range lists {
		for _, item := range list {
			if _, ok := seen[item]; ok {
				continue
			}
			seen[item] = struct{}{}
			result = append(result, item)
		}
	}
	return result
}
