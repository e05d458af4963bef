// Package repositories defines interfaces for data access layers.
package repositories

import (
	"context"

	"github.com/ochairo/jfintegrity/internal/domain/entities"
)

// ConfigRepository defines the interface for reading persisted tool settings
type ConfigRepository interface {
	// LoadConfig returns the stored settings; a missing source yields an empty config
	LoadConfig(ctx context.Context) (*entities.Config, error)
}
