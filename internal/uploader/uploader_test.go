package uploader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"jsonoracle/internal/config"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func TestNewDisabledIsNoop(t *testing.T) {
	up, err := New(config.StorageConfig{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if up.Enabled() {
		t.Fatalf("expected disabled uploader")
	}
	loc, err := up.UploadDir(context.Background(), t.TempDir())
	if err != nil || loc != "" {
		t.Fatalf("noop upload returned %q, %v", loc, err)
	}
}

func TestNewRejectsMissingBucket(t *testing.T) {
	if _, err := New(config.StorageConfig{S3: config.S3Config{Enabled: true}}); err == nil {
		t.Fatalf("expected s3 bucket error")
	}
	if _, err := New(config.StorageConfig{GCS: config.GCSConfig{Enabled: true}}); err == nil {
		t.Fatalf("expected gcs bucket error")
	}
}

func TestUploadFilesKeysAndTypes(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "case_0001_abc")
	if err := os.MkdirAll(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for _, name := range []string{"verdict.json", "input.bin", "case.tar.zst", "report.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	type put struct {
		Key  string
		Type string
	}
	var got []put
	prefix, err := uploadFiles(context.Background(), dir, "/nightly/", func(_ context.Context, _, key, contentType string) error {
		got = append(got, put{Key: key, Type: contentType})
		return nil
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if prefix != "nightly/case_0001_abc/" {
		t.Fatalf("unexpected prefix: %s", prefix)
	}
	want := []put{
		{Key: "nightly/case_0001_abc/case.tar.zst", Type: "application/zstd"},
		{Key: "nightly/case_0001_abc/input.bin", Type: "application/octet-stream"},
		{Key: "nightly/case_0001_abc/report.txt", Type: "text/plain; charset=utf-8"},
		{Key: "nightly/case_0001_abc/verdict.json", Type: "application/json"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("uploads mismatch (-want +got):\n%s", diff)
	}
}

func TestUploadFilesStopsOnError(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.json"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := uploadFiles(context.Background(), dir, "", func(context.Context, string, string, string) error {
		return errors.New("denied")
	})
	if err == nil {
		t.Fatalf("expected upload error")
	}
}
