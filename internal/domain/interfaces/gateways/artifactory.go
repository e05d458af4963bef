// Package gateways defines interfaces for external service adapters.
package gateways

import (
	"context"
	"errors"
	"fmt"

	"github.com/ochairo/jfintegrity/internal/domain/entities"
)

// FailureKind classifies why a remote call did not succeed
type FailureKind string

const (
	// KindTimeout means the call exceeded its deadline
	KindTimeout FailureKind = "timeout"
	// KindStatus means the server answered with a non-2xx status
	KindStatus FailureKind = "status"
	// KindTransport means the request never produced a response
	KindTransport FailureKind = "transport"
)

// RequestError is the single failure contract of ArtifactoryGateway calls
type RequestError struct {
	Op         string
	Target     string
	Kind       FailureKind
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("%s %s: received status %d", e.Op, e.Target, e.StatusCode)
	case KindTimeout:
		return fmt.Sprintf("%s %s: timed out: %v", e.Op, e.Target, e.Err)
	default:
		return fmt.Sprintf("%s %s: %v", e.Op, e.Target, e.Err)
	}
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// FailureKindOf extracts the failure kind from err, or "" when err is not a RequestError
func FailureKindOf(err error) FailureKind {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Kind
	}
	return ""
}

// ArtifactoryGateway defines the remote calls the audit core depends on
type ArtifactoryGateway interface {
	// Stats fetches storage metadata for an artifact or folder
	Stats(ctx context.Context, path string) (entities.StorageStats, error)

	// Trace requests a simulated download and returns the server's step log
	Trace(ctx context.Context, path string) (string, error)

	// Contents lists every file of a repository with modification timestamps
	Contents(ctx context.Context, repository string) (*entities.RepositoryListing, error)

	// Delete removes an artifact
	Delete(ctx context.Context, path string) error

	// Ping issues a request against the server root
	Ping(ctx context.Context) error
}
