package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ochairo/jfintegrity/internal/domain/entities"
)

func TestClassifyTrace(t *testing.T) {
	tests := []struct {
		name    string
		trace   string
		fetched bool
		want    entities.Category
	}{
		{"success marker", "Request ID: 12\nRequest succeeded\n", true, entities.CategoryTraceable},
		{"marker mid-line", "step 3: Request succeeded with 200", true, entities.CategoryTraceable},
		{"no marker", "Request ID: 12\nArtifact not found\n", true, entities.CategoryUntraceable},
		{"empty body", "", true, entities.CategoryUntraceable},
		{"fetch failed", "", false, entities.CategoryTraceFailed},
		{"fetch failed ignores text", "Request succeeded", false, entities.CategoryTraceFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyTrace(tt.trace, tt.fetched); got != tt.want {
				t.Errorf("ClassifyTrace() = %v, want %v", got, tt.want)
			}
			// Same input, same answer
			if got := ClassifyTrace(tt.trace, tt.fetched); got != tt.want {
				t.Errorf("ClassifyTrace() second call = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsFolderStats(t *testing.T) {
	tests := []struct {
		name  string
		stats entities.StorageStats
		err   error
		want  bool
	}{
		{"plain file", entities.StorageStats{"path": "/a.jar", "size": "10"}, nil, false},
		{"children key", entities.StorageStats{"children": []any{}}, nil, true},
		{"errors key", entities.StorageStats{"errors": []any{map[string]any{"status": 404}}}, nil, true},
		{"lookup failed", nil, errors.New("boom"), true},
		{"empty payload", entities.StorageStats{}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFolderStats(tt.stats, tt.err); got != tt.want {
				t.Errorf("IsFolderStats() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassificationService_IsFolder(t *testing.T) {
	gw := &fakeGateway{stats: map[string]entities.StorageStats{
		"repo/a.jar": {"path": "/a.jar"},
		"repo/dir":   {"children": []any{map[string]any{"uri": "/x", "folder": false}}},
	}}
	svc := NewClassificationService(gw, nil)
	ctx := context.Background()

	if svc.IsFolder(ctx, "repo/a.jar") {
		t.Error("IsFolder(repo/a.jar) = true, want false")
	}
	if !svc.IsFolder(ctx, "repo/dir") {
		t.Error("IsFolder(repo/dir) = false, want true")
	}
	if !svc.IsFolder(ctx, "repo/unknown") {
		t.Error("IsFolder(repo/unknown) = false, want true when stat fails")
	}
	if got := svc.ClassifyTrace("Request succeeded", true); got != entities.CategoryTraceable {
		t.Errorf("ClassifyTrace() = %v, want %v", got, entities.CategoryTraceable)
	}
}
