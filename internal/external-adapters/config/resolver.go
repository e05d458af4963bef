// Package config resolves tool settings from flags, environment, files and the terminal.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ochairo/jfintegrity/internal/domain/entities"
	"github.com/ochairo/jfintegrity/internal/domain/interfaces/repositories"
)

// Environment variables consulted during resolution
const (
	EnvURL           = "JFROG_URL"
	EnvAccessToken   = "JFROG_ACCESS_TOKEN"
	EnvThreads       = "JFINTEGRITY_THREADS"
	EnvTimeout       = "JFINTEGRITY_TIMEOUT"
	EnvArchiveEnd    = "ARCHIVE_S3_ENDPOINT"
	EnvArchiveRegion = "ARCHIVE_S3_REGION"
	EnvArchiveAccess = "ARCHIVE_S3_ACCESS_KEY"
	EnvArchiveSecret = "ARCHIVE_S3_SECRET_KEY"
	EnvArchiveBucket = "ARCHIVE_S3_BUCKET"
	EnvArchiveUseSSL = "ARCHIVE_S3_USE_SSL"
)

// Legacy single-value credential files
const (
	urlDotfile         = ".url"
	accessTokenDotfile = ".access_token"
)

// Overrides carries values given on the command line; zero values mean unset
type Overrides struct {
	URL         string
	AccessToken string
	Threads     int
	Timeout     time.Duration
	OutputDir   string
	LogFile     string
	Keyring     string
}

// Prompter asks the operator for a missing value
type Prompter interface {
	Prompt(label string, secret bool) (string, error)
}

// Resolver merges every configuration source into one Config
type Resolver struct {
	repo       repositories.ConfigRepository
	prompter   Prompter
	envFile    string
	dotfileDir string
	lookupEnv  func(string) (string, bool)
}

// Option customizes a Resolver
type Option func(*Resolver)

// WithPrompter sets the prompter used for missing credentials; nil disables prompting
func WithPrompter(p Prompter) Option {
	return func(r *Resolver) { r.prompter = p }
}

// WithEnvFile sets the dotenv file consulted after the process environment
func WithEnvFile(path string) Option {
	return func(r *Resolver) { r.envFile = path }
}

// WithDotfileDir sets the directory holding the .url and .access_token files
func WithDotfileDir(dir string) Option {
	return func(r *Resolver) { r.dotfileDir = dir }
}

// WithLookupEnv replaces os.LookupEnv
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(r *Resolver) { r.lookupEnv = fn }
}

// NewResolver creates a resolver reading persisted settings from repo
func NewResolver(repo repositories.ConfigRepository, opts ...Option) *Resolver {
	r := &Resolver{
		repo:       repo,
		envFile:    ".env",
		dotfileDir: ".",
		lookupEnv:  os.LookupEnv,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve applies, per field: flag, environment (.env included), config file,
// legacy dotfiles, then the prompter. Missing URL or token is a configuration error.
func (r *Resolver) Resolve(ctx context.Context, o Overrides) (*entities.Config, error) {
	env, err := r.environment()
	if err != nil {
		return nil, err
	}

	file, err := r.repo.LoadConfig(ctx)
	if err != nil {
		return nil, err
	}

	cfg := &entities.Config{
		URL:         firstNonEmpty(o.URL, env(EnvURL), file.URL, r.readDotfile(urlDotfile)),
		AccessToken: firstNonEmpty(o.AccessToken, env(EnvAccessToken), file.AccessToken, r.readDotfile(accessTokenDotfile)),
		OutputDir:   firstNonEmpty(o.OutputDir, file.OutputDir, "."),
		LogFile:     firstNonEmpty(o.LogFile, file.LogFile, entities.DefaultLogFile),
		Delete: entities.DeleteConfig{
			Keyring:          firstNonEmpty(o.Keyring, file.Delete.Keyring),
			RequireSignature: file.Delete.RequireSignature,
		},
	}

	if cfg.Threads, err = resolveThreads(o.Threads, env(EnvThreads), file.Threads); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = resolveTimeout(o.Timeout, env(EnvTimeout), file.Timeout); err != nil {
		return nil, err
	}
	if cfg.Archive, err = resolveArchive(env, file.Archive); err != nil {
		return nil, err
	}

	if cfg.URL == "" {
		if cfg.URL, err = r.prompt("Artifactory URL", false); err != nil {
			return nil, err
		}
	}
	if cfg.AccessToken == "" {
		if cfg.AccessToken, err = r.prompt("Access token", true); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// environment returns a lookup over the process environment, falling back to the dotenv file
func (r *Resolver) environment() (func(string) string, error) {
	dotenv := map[string]string{}
	if r.envFile != "" {
		values, err := godotenv.Read(r.envFile)
		switch {
		case err == nil:
			dotenv = values
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("%w: cannot read %s: %w", entities.ErrConfiguration, r.envFile, err)
		}
	}

	return func(key string) string {
		if v, ok := r.lookupEnv(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return strings.TrimSpace(dotenv[key])
	}, nil
}

func (r *Resolver) readDotfile(name string) string {
	//nolint:gosec // G304: Fixed credential file names under the working directory
	data, err := os.ReadFile(filepath.Join(r.dotfileDir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func (r *Resolver) prompt(label string, secret bool) (string, error) {
	if r.prompter == nil {
		return "", fmt.Errorf("%w: %s is not configured", entities.ErrConfiguration, strings.ToLower(label))
	}
	value, err := r.prompter.Prompt(label, secret)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", entities.ErrConfiguration, strings.ToLower(label), err)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w: %s is empty", entities.ErrConfiguration, strings.ToLower(label))
	}
	return value, nil
}

func resolveThreads(flag int, env string, file int) (int, error) {
	if flag < 0 {
		return 0, fmt.Errorf("%w: threads must be at least 1, got %d", entities.ErrConfiguration, flag)
	}
	if flag > 0 {
		return flag, nil
	}
	if env != "" {
		n, err := strconv.Atoi(env)
		if err != nil || n < 1 {
			return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", entities.ErrConfiguration, EnvThreads, env)
		}
		return n, nil
	}
	if file > 0 {
		return file, nil
	}
	return entities.DefaultThreads, nil
}

func resolveTimeout(flag time.Duration, env string, file time.Duration) (time.Duration, error) {
	if flag < 0 {
		return 0, fmt.Errorf("%w: timeout must be positive, got %s", entities.ErrConfiguration, flag)
	}
	if flag > 0 {
		return flag, nil
	}
	if env != "" {
		d, err := time.ParseDuration(env)
		if err != nil || d <= 0 {
			return 0, fmt.Errorf("%w: %s must be a positive duration, got %q", entities.ErrConfiguration, EnvTimeout, env)
		}
		return d, nil
	}
	if file > 0 {
		return file, nil
	}
	return entities.DefaultTimeout, nil
}

func resolveArchive(env func(string) string, file entities.ArchiveConfig) (entities.ArchiveConfig, error) {
	// TLS stays on unless the config file that names the endpoint turns it off
	useSSL := file.UseSSL || file.Endpoint == ""

	archive := entities.ArchiveConfig{
		Endpoint:  firstNonEmpty(env(EnvArchiveEnd), file.Endpoint),
		Region:    firstNonEmpty(env(EnvArchiveRegion), file.Region, "us-east-1"),
		AccessKey: firstNonEmpty(env(EnvArchiveAccess), file.AccessKey),
		SecretKey: firstNonEmpty(env(EnvArchiveSecret), file.SecretKey),
		Bucket:    firstNonEmpty(env(EnvArchiveBucket), file.Bucket),
		UseSSL:    useSSL,
	}

	if raw := env(EnvArchiveUseSSL); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return archive, fmt.Errorf("%w: %s must be a boolean, got %q", entities.ErrConfiguration, EnvArchiveUseSSL, raw)
		}
		archive.UseSSL = parsed
	}

	return archive, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
