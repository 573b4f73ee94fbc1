// Package archive retains the raw payload of every download so a run can be
// audited or replayed. Payloads go to a local directory or to S3 compatible
// object storage.
package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"indicators/internal/config"
)

// stampLayout prefixes archived names so reruns never overwrite each other.
const stampLayout = "20060102T150405Z"

// Archive stores raw payloads.
type Archive interface {
	// Put stores body under dataset and returns where it was written.
	Put(ctx context.Context, dataset, name string, body []byte) (string, error)
}

// New returns the archive selected by cfg.Backend.
func New(ctx context.Context, cfg config.ArchiveConfig) (Archive, error) {
	switch cfg.Backend {
	case "none":
		return Nop{}, nil
	case "s3":
		return NewS3(ctx, cfg.S3)
	case "local", "":
		return NewLocal(cfg.Dir), nil
	default:
		return nil, fmt.Errorf("unknown archive backend %q", cfg.Backend)
	}
}

// Nop discards payloads.
type Nop struct{}

func (Nop) Put(context.Context, string, string, []byte) (string, error) {
	return "", nil
}

// Local writes payloads to Dir/<dataset>/<stamp>_<name>.
type Local struct {
	Dir string
	now func() time.Time
}

// NewLocal returns a Local archive rooted at dir.
func NewLocal(dir string) *Local {
	return &Local{Dir: dir, now: time.Now}
}

func (l *Local) Put(ctx context.Context, dataset, name string, body []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dir := filepath.Join(l.Dir, dataset)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create archive directory: %w", err)
	}
	path := filepath.Join(dir, objectName(l.now(), name))
	if err := os.WriteFile(path, body, 0644); err != nil {
		return "", fmt.Errorf("write archive file: %w", err)
	}
	return path, nil
}

func objectName(t time.Time, name string) string {
	return t.UTC().Format(stampLayout) + "_" + filepath.Base(name)
}
