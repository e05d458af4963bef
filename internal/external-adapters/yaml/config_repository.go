package yaml

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ochairo/jfintegrity/internal/domain/entities"
)

// DefaultConfigFile is looked up in the working directory when no path is given
const DefaultConfigFile = ".jfintegrity.yml"

// ConfigRepository implements repositories.ConfigRepository using a YAML file
type ConfigRepository struct {
	path     string
	explicit bool
	parser   *ConfigParser
}

// NewConfigRepository creates a new YAML-based config repository.
// An empty path selects DefaultConfigFile, which may be absent.
func NewConfigRepository(path string) *ConfigRepository {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	return &ConfigRepository{
		path:     path,
		explicit: explicit,
		parser:   NewConfigParser(),
	}
}

// LoadConfig reads the config file. A missing default file yields an empty config;
// a missing explicit file or malformed content is a configuration error.
func (r *ConfigRepository) LoadConfig(_ context.Context) (*entities.Config, error) {
	if _, err := os.Stat(r.path); errors.Is(err, fs.ErrNotExist) {
		if r.explicit {
			return nil, fmt.Errorf("%w: config file not found: %s", entities.ErrConfiguration, r.path)
		}
		return &entities.Config{}, nil
	}

	cfg, err := r.parser.ParseFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", entities.ErrConfiguration, r.path, err)
	}
	return cfg, nil
}
