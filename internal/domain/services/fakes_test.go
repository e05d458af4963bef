package services

import (
	"context"
	"sync"

	"github.com/ochairo/jfintegrity/internal/domain/entities"
	"github.com/ochairo/jfintegrity/internal/domain/interfaces/gateways"
)

// fakeGateway is an in-memory ArtifactoryGateway
type fakeGateway struct {
	mu       sync.Mutex
	listings map[string]*entities.RepositoryListing
	stats    map[string]entities.StorageStats
	listed   []string
}

func (f *fakeGateway) Stats(_ context.Context, path string) (entities.StorageStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.stats[path]; ok {
		return s, nil
	}
	return nil, &gateways.RequestError{Op: "get stats", Target: path, Kind: gateways.KindStatus, StatusCode: 404}
}

func (f *fakeGateway) Trace(_ context.Context, _ string) (string, error) {
	return "", nil
}

func (f *fakeGateway) Contents(_ context.Context, repository string) (*entities.RepositoryListing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listed = append(f.listed, repository)
	if l, ok := f.listings[repository]; ok {
		return l, nil
	}
	return nil, &gateways.RequestError{Op: "get contents", Target: repository, Kind: gateways.KindStatus, StatusCode: 404}
}

func (f *fakeGateway) Delete(_ context.Context, _ string) error {
	return nil
}

func (f *fakeGateway) Ping(_ context.Context) error {
	return nil
}

// sampleListing mirrors a deep listing with the root folder and three artifacts
func sampleListing() *entities.RepositoryListing {
	return &entities.RepositoryListing{
		URI: "https://example.jfrog.io/artifactory/api/storage/my-repo",
		Files: []entities.RepositoryEntry{
			{URI: "/", Folder: true, LastModified: "2021-01-01T00:00:00.000Z"},
			{URI: "/art1", LastModified: "2023-01-10T08:53:43.553Z"},
			{URI: "/art2", LastModified: "2021-12-10T08:53:43.553Z"},
			{URI: "/art3", LastModified: "2023-02-10T08:53:43.553Z"},
		},
	}
}
