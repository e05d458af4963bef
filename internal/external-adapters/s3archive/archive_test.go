package s3archive

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ochairo/jfintegrity/internal/domain/entities"
)

// fakeS3 implements the handful of path-style S3 calls the archive makes
type fakeS3 struct {
	mu            sync.Mutex
	bucketCreated bool
	makeBucket    int
	objects       map[string]string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/"), "/", 2)
	bucket := strings.TrimSuffix(parts[0], "/")
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}

	switch {
	case r.Method == http.MethodHead && key == "":
		if !f.bucketCreated {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut && key == "":
		_, _ = io.Copy(io.Discard, r.Body)
		f.bucketCreated = true
		f.makeBucket++
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[bucket+"/"+key] = string(body)
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusNotImplemented)
	}
}

func newTestArchive(t *testing.T, fake *fakeS3) *Archive {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	archive, err := New(entities.ArchiveConfig{
		Endpoint:  strings.TrimPrefix(server.URL, "http://"),
		AccessKey: "ak",
		SecretKey: "sk",
		Bucket:    "audits",
		UseSSL:    false,
	})
	require.NoError(t, err)
	return archive
}

func TestNew_Validation(t *testing.T) {
	_, err := New(entities.ArchiveConfig{Bucket: "b"})
	assert.Error(t, err, "endpoint is required")

	_, err = New(entities.ArchiveConfig{Endpoint: "minio:9000"})
	assert.Error(t, err, "bucket is required")

	archive, err := New(entities.ArchiveConfig{Endpoint: "minio:9000", Bucket: "b"})
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", archive.region)
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "run-1/traceable_artifacts", ObjectKey("run-1", "/tmp/reports/traceable_artifacts"))
	assert.Equal(t, "run-1/summary.json", ObjectKey(" run-1 ", "summary.json"))
}

func TestArchive_PutAll(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{}}
	archive := newTestArchive(t, fake)

	dir := t.TempDir()
	files := []string{
		filepath.Join(dir, "traceable_artifacts"),
		filepath.Join(dir, "untraceable_artifacts"),
		filepath.Join(dir, "summary.json"),
	}
	require.NoError(t, os.WriteFile(files[0], []byte("repo/a.jar\n"), 0600))
	require.NoError(t, os.WriteFile(files[1], []byte{}, 0600))
	require.NoError(t, os.WriteFile(files[2], []byte(`{"total":1}`), 0600))

	require.NoError(t, archive.PutAll(context.Background(), "run-1", files))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, 1, fake.makeBucket)
	assert.Len(t, fake.objects, 3)
	assert.Contains(t, fake.objects["audits/run-1/traceable_artifacts"], "repo/a.jar")
	assert.Contains(t, fake.objects, "audits/run-1/untraceable_artifacts")
	assert.Contains(t, fake.objects, "audits/run-1/summary.json")
}

func TestArchive_Put_Errors(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{}}
	archive := newTestArchive(t, fake)
	ctx := context.Background()

	assert.Error(t, archive.Put(ctx, "", "file"))
	assert.Error(t, archive.Put(ctx, "run-1", " "))
	assert.Error(t, archive.Put(ctx, "run-1", filepath.Join(t.TempDir(), "missing")))
}
