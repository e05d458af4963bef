package yaml

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ochairo/jfintegrity/internal/domain/entities"
)

func TestConfigRepository_LoadConfig_Success(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("url: https://example.jfrog.io\nthreads: 3\n"), 0600); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	cfg, err := NewConfigRepository(path).LoadConfig(context.Background())
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.URL != "https://example.jfrog.io" || cfg.Threads != 3 {
		t.Errorf("LoadConfig() = %+v", cfg)
	}
}

func TestConfigRepository_LoadConfig_MissingDefault(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := NewConfigRepository("").LoadConfig(context.Background())
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.URL != "" || cfg.Threads != 0 {
		t.Errorf("LoadConfig() = %+v, want empty config", cfg)
	}
}

func TestConfigRepository_LoadConfig_MissingExplicit(t *testing.T) {
	_, err := NewConfigRepository(filepath.Join(t.TempDir(), "nope.yml")).LoadConfig(context.Background())
	if !errors.Is(err, entities.ErrConfiguration) {
		t.Errorf("LoadConfig() error = %v, want ErrConfiguration", err)
	}
}

func TestConfigRepository_LoadConfig_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("timeout: later\n"), 0600); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	_, err := NewConfigRepository(path).LoadConfig(context.Background())
	if !errors.Is(err, entities.ErrConfiguration) {
		t.Errorf("LoadConfig() error = %v, want ErrConfiguration", err)
	}
}

// chdir changes the working directory for the duration of the test
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
