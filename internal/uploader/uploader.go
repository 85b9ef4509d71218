// Package uploader copies case directories to object storage.
package uploader

import (
	"context"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"jsonoracle/internal/config"

	"github.com/pkg/errors"
)

// Uploader publishes a case directory and returns its remote location.
type Uploader interface {
	Enabled() bool
	UploadDir(ctx context.Context, dir string) (string, error)
}

// NoopUploader is used when no storage is configured.
type NoopUploader struct{}

// Enabled implements Uploader.
func (NoopUploader) Enabled() bool {
	return false
}

// UploadDir implements Uploader.
func (NoopUploader) UploadDir(context.Context, string) (string, error) {
	return "", nil
}

// New picks the configured backend. GCS wins when both are enabled.
func New(storage config.StorageConfig) (Uploader, error) {
	switch {
	case storage.GCS.Enabled:
		return NewGCS(storage.GCS)
	case storage.S3.Enabled:
		return NewS3(storage.S3)
	default:
		return NoopUploader{}, nil
	}
}

// putFunc stores one local file under key.
type putFunc func(ctx context.Context, path, key, contentType string) error

// uploadFiles sends the regular files of dir, in name order, under
// prefix/<dir base name>/ and returns that key prefix.
func uploadFiles(ctx context.Context, dir, prefix string, put putFunc) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", errors.Wrapf(err, "read case dir %s", dir)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	base := objectPrefix(prefix, filepath.Base(dir))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		key := base + entry.Name()
		if err := put(ctx, filepath.Join(dir, entry.Name()), key, contentTypeFor(entry.Name())); err != nil {
			return "", errors.Wrapf(err, "upload %s", key)
		}
	}
	return base, nil
}

func objectPrefix(prefix, caseDir string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return caseDir + "/"
	}
	return prefix + "/" + caseDir + "/"
}

func contentTypeFor(name string) string {
	switch filepath.Ext(name) {
	case ".zst":
		return "application/zstd"
	case ".bin":
		return "application/octet-stream"
	case ".json":
		return "application/json"
	case ".txt":
		return "text/plain; charset=utf-8"
	}
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}
