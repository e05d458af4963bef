// Package s3archive uploads run reports to S3-compatible object storage.
package s3archive

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"golang.org/x/sync/errgroup"

	"github.com/ochairo/jfintegrity/internal/domain/entities"
)

// maxParallelUploads bounds concurrent uploads per PutAll call
const maxParallelUploads = 4

// Archive stores report files under <bucket>/<run_id>/<file name>
type Archive struct {
	client     *minio.Client
	bucketName string
	region     string
	initOnce   sync.Once
	initErr    error
}

// New creates an archive client from the resolved archive settings
func New(cfg entities.ArchiveConfig) (*Archive, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	var creds *credentials.Credentials
	if cfg.AccessKey != "" || cfg.SecretKey != "" {
		creds = credentials.NewStaticV4(strings.TrimSpace(cfg.AccessKey), strings.TrimSpace(cfg.SecretKey), "")
	} else {
		creds = credentials.NewEnvAWS()
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  creds,
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	return &Archive{
		client:     client,
		bucketName: bucket,
		region:     region,
	}, nil
}

func (a *Archive) ensureBucket(ctx context.Context) error {
	a.initOnce.Do(func() {
		exists, err := a.client.BucketExists(ctx, a.bucketName)
		if err != nil {
			a.initErr = err
			return
		}
		if exists {
			return
		}
		a.initErr = a.client.MakeBucket(ctx, a.bucketName, minio.MakeBucketOptions{Region: a.region})
	})
	return a.initErr
}

// Put uploads one local file as <run_id>/<base name>
func (a *Archive) Put(ctx context.Context, runID, localPath string) error {
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return fmt.Errorf("run_id is required")
	}
	if strings.TrimSpace(localPath) == "" {
		return fmt.Errorf("path is required")
	}
	if err := a.ensureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}

	key := ObjectKey(runID, localPath)
	if _, err := a.client.FPutObject(ctx, a.bucketName, key, localPath, minio.PutObjectOptions{
		ContentType: contentType(localPath),
	}); err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

// PutAll uploads every file concurrently and returns the first failure
func (a *Archive) PutAll(ctx context.Context, runID string, localPaths []string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelUploads)

	for _, p := range localPaths {
		p := p
		g.Go(func() error {
			return a.Put(gctx, runID, p)
		})
	}
	return g.Wait()
}

// ObjectKey returns the object name a local report is stored under
func ObjectKey(runID, localPath string) string {
	return strings.TrimSpace(runID) + "/" + filepath.Base(localPath)
}

func contentType(localPath string) string {
	if strings.HasSuffix(localPath, ".json") {
		return "application/json"
	}
	return "text/plain; charset=utf-8"
}
