package gateways

import "context"

// ReportArchive stores finished report files outside the working directory
type ReportArchive interface {
	// Put uploads a local report file under the given run
	Put(ctx context.Context, runID, localPath string) error

	// PutAll uploads several report files under the given run
	PutAll(ctx context.Context, runID string, localPaths []string) error
}
