package iconstub

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/k1LoW/errors"
)

// writeFile is replaced in tests.
var writeFile = os.WriteFile

// writeFileAtomic writes b to a temporary file next to path and renames it over path.
func writeFileAtomic(path string, b []byte) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	dir, base := filepath.Split(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", base, uuid.New().String()))

	defer func() {
		if err != nil {
			// Clean up temporary file on error
			if rmErr := os.Remove(tmp); rmErr != nil && !os.IsNotExist(rmErr) {
				err = errors.Join(err, rmErr)
			}
		}
	}()

	if err := writeFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
