package docs

import (
	"io/fs"
	"os"
	"path/filepath"
)

// CountFiles counts every regular file under root. A missing root counts zero.
func CountFiles(root string) (int, error) {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return 0, nil
	}
	n := 0
	err := filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			n++
		}
		return nil
	})
	return n, err
}
