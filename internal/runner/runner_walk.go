package runner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"jsonoracle/internal/util"

	"github.com/pkg/errors"
)

// walk queues the regular files under paths in lexical order. Oversized files
// are counted as skipped and never read.
func (r *Runner) walk(ctx context.Context, paths []string, jobs chan<- job) error {
	for _, root := range paths {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			if info.Size() > int64(r.cfg.MaxInputBytes) {
				r.observeSkip()
				util.Detailf("skip %s size=%d limit=%d", path, info.Size(), r.cfg.MaxInputBytes)
				return nil
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case jobs <- job{path: path, size: info.Size()}:
				return nil
			}
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return errors.Wrapf(err, "walk %s", root)
		}
	}
	return nil
}

// readInput re-checks the size limit, since the file may have grown after
// it was queued.
func readInput(path string, limit int) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, errors.Wrapf(err, "read input %s", path)
	}
	if len(data) > limit {
		return nil, false, nil
	}
	return data, true, nil
}
