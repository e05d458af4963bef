package entities

import "time"

const (
	// DefaultThreads is the worker count used when none is configured
	DefaultThreads = 10
	// DefaultTimeout bounds every individual HTTP call
	DefaultTimeout = 60 * time.Second
	// DefaultLogFile receives the persistent log stream
	DefaultLogFile = "log"
)

// Config represents the resolved tool settings
type Config struct {
	URL         string
	AccessToken string
	Threads     int
	Timeout     time.Duration
	OutputDir   string
	LogFile     string
	Archive     ArchiveConfig
	Delete      DeleteConfig
}

// ArchiveConfig describes the optional S3-compatible report archive
type ArchiveConfig struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Enabled reports whether enough settings are present to archive reports
func (a ArchiveConfig) Enabled() bool {
	return a.Endpoint != "" && a.Bucket != ""
}

// DeleteConfig holds safety settings for the delete flow
type DeleteConfig struct {
	Keyring          string
	RequireSignature bool
}
