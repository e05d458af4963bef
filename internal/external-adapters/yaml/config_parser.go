// Package yaml provides YAML-based configuration parsing and repository implementations.
package yaml

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ochairo/jfintegrity/internal/domain/entities"
	"gopkg.in/yaml.v3"
)

// yamlConfig represents the raw YAML structure of .jfintegrity.yml
type yamlConfig struct {
	URL         string      `yaml:"url"`
	AccessToken string      `yaml:"access_token"`
	Threads     int         `yaml:"threads"`
	Timeout     string      `yaml:"timeout"`
	OutputDir   string      `yaml:"output_dir"`
	LogFile     string      `yaml:"log_file"`
	Archive     yamlArchive `yaml:"archive"`
	Delete      yamlDelete  `yaml:"delete"`
}

type yamlArchive struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    *bool  `yaml:"use_ssl"`
}

type yamlDelete struct {
	Keyring          string `yaml:"keyring"`
	RequireSignature bool   `yaml:"require_signature"`
}

// ConfigParser parses YAML configuration files
type ConfigParser struct{}

// NewConfigParser creates a new YAML parser
func NewConfigParser() *ConfigParser {
	return &ConfigParser{}
}

// ParseFile parses a YAML configuration file into a Config entity
func (p *ConfigParser) ParseFile(filePath string) (*entities.Config, error) {
	//nolint:gosec // G304: filePath is the operator-selected config file
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	return p.Parse(data)
}

// Parse parses YAML bytes into a Config entity. Unset fields stay zero.
func (p *ConfigParser) Parse(data []byte) (*entities.Config, error) {
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if yc.Threads < 0 {
		return nil, fmt.Errorf("threads must not be negative, got %d", yc.Threads)
	}

	var timeout time.Duration
	if yc.Timeout != "" {
		d, err := time.ParseDuration(yc.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout %q: %w", yc.Timeout, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("timeout must be positive, got %s", yc.Timeout)
		}
		timeout = d
	}

	return &entities.Config{
		URL:         strings.TrimSpace(yc.URL),
		AccessToken: strings.TrimSpace(yc.AccessToken),
		Threads:     yc.Threads,
		Timeout:     timeout,
		OutputDir:   yc.OutputDir,
		LogFile:     yc.LogFile,
		Archive:     convertArchive(yc.Archive),
		Delete: entities.DeleteConfig{
			Keyring:          yc.Delete.Keyring,
			RequireSignature: yc.Delete.RequireSignature,
		},
	}, nil
}

func convertArchive(ya yamlArchive) entities.ArchiveConfig {
	useSSL := true
	if ya.UseSSL != nil {
		useSSL = *ya.UseSSL
	}
	return entities.ArchiveConfig{
		Endpoint:  ya.Endpoint,
		Region:    ya.Region,
		AccessKey: ya.AccessKey,
		SecretKey: ya.SecretKey,
		Bucket:    ya.Bucket,
		UseSSL:    useSSL,
	}
}
