package sources

import (
	"fmt"
	"os"
)

// WithTempDir creates a temporary directory, passes it to fn and removes it
// afterwards, whether fn returns an error or panics.
func WithTempDir(prefix string, fn func(dir string) error) (err error) {
	dir, err := os.MkdirTemp("", prefix)
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil && err == nil {
			err = fmt.Errorf("remove temp dir: %w", rmErr)
		}
	}()
	return fn(dir)
}
