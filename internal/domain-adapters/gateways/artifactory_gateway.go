// Package gateways provides adapter implementations for external services and tools.
package gateways

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ochairo/jfintegrity/internal/domain/entities"
	"github.com/ochairo/jfintegrity/internal/domain/interfaces"
	"github.com/ochairo/jfintegrity/internal/domain/interfaces/gateways"
)

const (
	// maxTraceSize caps how much of a trace log is read into memory
	maxTraceSize = 4 * 1024 * 1024
	userAgent    = "jfintegrity/1.0"
)

// HTTPArtifactoryGateway implements ArtifactoryGateway using standard HTTP client
type HTTPArtifactoryGateway struct {
	client  *http.Client
	baseURL string
	token   string
	logger  interfaces.Logger
}

// NewHTTPArtifactoryGateway creates a new Artifactory gateway with HTTP client.
// A zero timeout falls back to entities.DefaultTimeout.
func NewHTTPArtifactoryGateway(baseURL, token string, timeout time.Duration, logger interfaces.Logger) *HTTPArtifactoryGateway {
	if timeout <= 0 {
		timeout = entities.DefaultTimeout
	}
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &HTTPArtifactoryGateway{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		logger:  logger,
	}
}

// artifactoryListing represents the Artifactory storage listing format
type artifactoryListing struct {
	URI     string             `json:"uri"`
	Created string             `json:"created"`
	Files   []artifactoryEntry `json:"files"`
}

// artifactoryEntry represents one element of a storage listing
type artifactoryEntry struct {
	URI          string `json:"uri"`
	Size         int64  `json:"size"`
	LastModified string `json:"lastModified"`
	Folder       bool   `json:"folder"`
	SHA1         string `json:"sha1"`
	SHA2         string `json:"sha2"`
}

// escapePath escapes each segment of a repository path, keeping the separators
func escapePath(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

func (g *HTTPArtifactoryGateway) artifactURL(path string, query url.Values) string {
	u := g.baseURL + "/artifactory/" + escapePath(path)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (g *HTTPArtifactoryGateway) storageURL(path string, query url.Values) string {
	u := g.baseURL + "/artifactory/api/storage/" + escapePath(path)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do sends an authenticated request and converts every failure into a RequestError.
// On success the caller owns the response body.
func (g *HTTPArtifactoryGateway) do(ctx context.Context, op, method, target, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, &gateways.RequestError{Op: op, Target: target, Kind: gateways.KindTransport, Err: err}
	}

	req.Header.Set("Authorization", "Bearer "+g.token)
	req.Header.Set("User-Agent", userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		kind := gateways.KindTransport
		if isTimeout(err) {
			kind = gateways.KindTimeout
		}
		reqErr := &gateways.RequestError{Op: op, Target: target, Kind: kind, Err: err}
		g.logger.Error("request failed", interfaces.F("op", op), interfaces.F("target", target),
			interfaces.F("kind", string(kind)), interfaces.Err(err))
		return nil, reqErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
		//nolint:errcheck,gosec // G104: Best effort close on non-2xx response
		resp.Body.Close()
		g.logger.Error(fmt.Sprintf("could not %s %s, received %d", op, target, resp.StatusCode),
			interfaces.F("op", op), interfaces.F("target", target), interfaces.F("status", resp.StatusCode))
		return nil, &gateways.RequestError{Op: op, Target: target, Kind: gateways.KindStatus, StatusCode: resp.StatusCode}
	}

	return resp, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Stats fetches storage metadata for an artifact or folder
func (g *HTTPArtifactoryGateway) Stats(ctx context.Context, path string) (entities.StorageStats, error) {
	resp, err := g.do(ctx, "get stats", http.MethodGet, path, g.storageURL(path, nil))
	if err != nil {
		return nil, err
	}
	//nolint:errcheck // Defer close on HTTP response body
	defer resp.Body.Close()

	var stats entities.StorageStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, &gateways.RequestError{Op: "get stats", Target: path, Kind: gateways.KindTransport,
			Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	return stats, nil
}

// Trace requests a simulated download; the server answers with a step log and
// does not update download statistics
func (g *HTTPArtifactoryGateway) Trace(ctx context.Context, path string) (string, error) {
	query := url.Values{}
	query.Set("skipUpdateStats", "true")
	query.Set("trace", "")

	resp, err := g.do(ctx, "get trace", http.MethodGet, path, g.artifactURL(path, query))
	if err != nil {
		return "", err
	}
	//nolint:errcheck // Defer close on HTTP response body
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTraceSize))
	if err != nil {
		kind := gateways.KindTransport
		if isTimeout(err) {
			kind = gateways.KindTimeout
		}
		return "", &gateways.RequestError{Op: "get trace", Target: path, Kind: kind, Err: err}
	}

	return string(body), nil
}

// Contents lists a repository deeply, without folders, with modification timestamps
func (g *HTTPArtifactoryGateway) Contents(ctx context.Context, repository string) (*entities.RepositoryListing, error) {
	query := url.Values{}
	query.Set("list", "")
	query.Set("deep", "1")
	query.Set("listFolders", "0")
	query.Set("mdTimestamps", "1")
	query.Set("includeRootPath", "1")

	resp, err := g.do(ctx, "get contents", http.MethodGet, repository, g.storageURL(repository, query))
	if err != nil {
		return nil, err
	}
	//nolint:errcheck // Defer close on HTTP response body
	defer resp.Body.Close()

	var result artifactoryListing
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &gateways.RequestError{Op: "get contents", Target: repository, Kind: gateways.KindTransport,
			Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	files := make([]entities.RepositoryEntry, len(result.Files))
	for i, f := range result.Files {
		files[i] = entities.RepositoryEntry{
			URI:          f.URI,
			Folder:       f.Folder,
			LastModified: f.LastModified,
			Size:         f.Size,
			SHA1:         f.SHA1,
			SHA2:         f.SHA2,
		}
	}

	return &entities.RepositoryListing{
		URI:     result.URI,
		Created: result.Created,
		Files:   files,
	}, nil
}

// Delete removes an artifact
func (g *HTTPArtifactoryGateway) Delete(ctx context.Context, path string) error {
	resp, err := g.do(ctx, "delete", http.MethodDelete, path, g.artifactURL(path, nil))
	if err != nil {
		return err
	}
	//nolint:errcheck,gosec // G104: Nothing to read from a delete response
	resp.Body.Close()
	return nil
}

// Ping issues a GET against the server root. Any HTTP answer counts as reachable.
func (g *HTTPArtifactoryGateway) Ping(ctx context.Context) error {
	u, err := url.Parse(g.baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &gateways.RequestError{Op: "connect", Target: g.baseURL, Kind: gateways.KindTransport,
			Err: fmt.Errorf("invalid URL %q: scheme and host are required", g.baseURL)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL, nil)
	if err != nil {
		return &gateways.RequestError{Op: "connect", Target: g.baseURL, Kind: gateways.KindTransport, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+g.token)
	req.Header.Set("User-Agent", userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		kind := gateways.KindTransport
		if isTimeout(err) {
			kind = gateways.KindTimeout
		}
		return &gateways.RequestError{Op: "connect", Target: g.baseURL, Kind: kind, Err: err}
	}
	//nolint:errcheck,gosec // G104: Best effort close after health check
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		g.logger.Warn("server root answered with non-2xx status", interfaces.F("url", g.baseURL),
			interfaces.F("status", resp.StatusCode))
	}
	return nil
}

// TestConnection reports whether the server is reachable. Missing schemes,
// refused connections and redirect loops yield false.
func (g *HTTPArtifactoryGateway) TestConnection(ctx context.Context) bool {
	if err := g.Ping(ctx); err != nil {
		g.logger.Error(fmt.Sprintf("error connecting to %s", g.baseURL), interfaces.Err(err))
		return false
	}
	return true
}
