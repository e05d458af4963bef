package orchestrators

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ochairo/jfintegrity/internal/domain/entities"
	"github.com/ochairo/jfintegrity/internal/domain/interfaces/gateways"
	domainservices "github.com/ochairo/jfintegrity/internal/domain/services"
)

// mockGateway serves canned responses and records mutating calls
type mockGateway struct {
	mu       sync.Mutex
	traces   map[string]string
	stats    map[string]entities.StorageStats
	listings map[string]*entities.RepositoryListing
	deleteOK map[string]bool
	deleted  []string
}

func (m *mockGateway) Stats(_ context.Context, path string) (entities.StorageStats, error) {
	if s, ok := m.stats[path]; ok {
		return s, nil
	}
	return nil, &gateways.RequestError{Op: "get stats", Target: path, Kind: gateways.KindStatus, StatusCode: 404}
}

func (m *mockGateway) Trace(_ context.Context, path string) (string, error) {
	if t, ok := m.traces[path]; ok {
		return t, nil
	}
	return "", &gateways.RequestError{Op: "get trace", Target: path, Kind: gateways.KindTransport}
}

func (m *mockGateway) Contents(_ context.Context, repository string) (*entities.RepositoryListing, error) {
	if l, ok := m.listings[repository]; ok {
		return l, nil
	}
	return nil, &gateways.RequestError{Op: "get contents", Target: repository, Kind: gateways.KindStatus, StatusCode: 404}
}

func (m *mockGateway) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	m.deleted = append(m.deleted, path)
	m.mu.Unlock()
	if m.deleteOK[path] {
		return nil
	}
	return &gateways.RequestError{Op: "delete", Target: path, Kind: gateways.KindStatus, StatusCode: 403}
}

func (m *mockGateway) Ping(_ context.Context) error {
	return nil
}

func newTestOrchestrator(gw gateways.ArtifactoryGateway) *AuditOrchestrator {
	return NewAuditOrchestrator(
		gw,
		domainservices.NewWorkSetService(gw, nil),
		domainservices.NewClassificationService(gw, nil),
		nil,
		AuditOrchestratorConfig{Workers: 3},
	)
}

func categories(report *entities.AuditReport) map[string]entities.Category {
	byPath := make(map[string]entities.Category, len(report.Outcomes))
	for _, o := range report.Outcomes {
		byPath[o.Path] = o.Category
	}
	return byPath
}

func TestAuditOrchestrator_Check(t *testing.T) {
	gw := &mockGateway{
		listings: map[string]*entities.RepositoryListing{
			"my-repo": {Files: []entities.RepositoryEntry{
				{URI: "/", Folder: true},
				{URI: "/ok.jar", LastModified: "2023-01-10T00:00:00.000Z"},
				{URI: "/broken.jar", LastModified: "2023-01-10T00:00:00.000Z"},
				{URI: "/gone.jar", LastModified: "2023-01-10T00:00:00.000Z"},
			}},
		},
		traces: map[string]string{
			"my-repo/ok.jar":     "Request ID: 1\nRequest succeeded\n",
			"my-repo/broken.jar": "Request ID: 2\nChecksum mismatch\n",
		},
	}

	report, err := newTestOrchestrator(gw).Check(context.Background(), entities.WorkSetRequest{
		Repos: []string{"my-repo", "my-repo"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, entities.OperationCheck, report.Operation)
	assert.Equal(t, map[string]entities.Category{
		"my-repo/ok.jar":     entities.CategoryTraceable,
		"my-repo/broken.jar": entities.CategoryUntraceable,
		"my-repo/gone.jar":   entities.CategoryTraceFailed,
	}, categories(report))
	assert.Equal(t, map[entities.Category]int{
		entities.CategoryTraceable:   1,
		entities.CategoryUntraceable: 1,
		entities.CategoryTraceFailed: 1,
	}, report.Counts())
}

func TestAuditOrchestrator_Delete(t *testing.T) {
	gw := &mockGateway{
		stats: map[string]entities.StorageStats{
			"repo/a.jar":      {"path": "/a.jar", "size": "1"},
			"repo/locked.jar": {"path": "/locked.jar"},
			"repo/dir":        {"children": []any{}},
			"repo/err":        {"errors": []any{map[string]any{"status": 404}}},
		},
		deleteOK: map[string]bool{"repo/a.jar": true},
	}

	list := filepath.Join(t.TempDir(), "del")
	content := "repo/a.jar\nrepo/dir\nrepo/err\nrepo/unknown\nrepo/locked.jar\nrepo/a.jar\n"
	require.NoError(t, os.WriteFile(list, []byte(content), 0600))

	report, err := newTestOrchestrator(gw).Delete(context.Background(), list)
	require.NoError(t, err)

	assert.Equal(t, map[string]entities.Category{
		"repo/a.jar":      entities.CategoryDeleted,
		"repo/dir":        entities.CategoryIsFolder,
		"repo/err":        entities.CategoryIsFolder,
		"repo/unknown":    entities.CategoryIsFolder,
		"repo/locked.jar": entities.CategoryNotDeleted,
	}, categories(report))
	assert.Len(t, report.Outcomes, 5)

	// Folders and undeterminable paths never reach DELETE
	assert.ElementsMatch(t, []string{"repo/a.jar", "repo/locked.jar"}, gw.deleted)
}

func TestAuditOrchestrator_Delete_MissingList(t *testing.T) {
	_, err := newTestOrchestrator(&mockGateway{}).Delete(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, entities.ErrConfiguration)
}

func TestAuditOrchestrator_Run_UnknownOperation(t *testing.T) {
	_, err := newTestOrchestrator(&mockGateway{}).Run(context.Background(), entities.Operation("prune"), []string{"a"})
	assert.Error(t, err)
}

func TestTraceOperation_Scenarios(t *testing.T) {
	gw := &mockGateway{traces: map[string]string{
		"r/good": "Request succeeded",
		"r/bad":  "nothing useful",
	}}
	op := NewTraceOperation(gw, domainservices.NewClassificationService(gw, nil), nil)
	ctx := context.Background()

	assert.Equal(t, entities.CategoryTraceable, op.Process(ctx, "r/good"))
	assert.Equal(t, entities.CategoryUntraceable, op.Process(ctx, "r/bad"))
	assert.Equal(t, entities.CategoryTraceFailed, op.Process(ctx, "r/missing"))
	assert.Equal(t, entities.CategoryTraceFailed, op.FailureCategory())
}

func TestDeleteOperation_PlainFileDeleted(t *testing.T) {
	gw := &mockGateway{
		stats:    map[string]entities.StorageStats{"r/file.zip": {"path": "/file.zip"}},
		deleteOK: map[string]bool{"r/file.zip": true},
	}
	op := NewDeleteOperation(gw, domainservices.NewClassificationService(gw, nil), nil)

	assert.Equal(t, entities.CategoryDeleted, op.Process(context.Background(), "r/file.zip"))
	assert.Equal(t, []string{"r/file.zip"}, gw.deleted)
	assert.Equal(t, entities.CategoryNotDeleted, op.FailureCategory())
}
