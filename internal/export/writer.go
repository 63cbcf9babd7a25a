package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extension is appended to export paths that lack it.
const Extension = ".xlsx"

// WorkbookPath returns path with the workbook extension.
func WorkbookPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), Extension) {
		return path
	}
	return path + Extension
}

// Save writes a workbook next to its destination and renames it into place,
// so a previous export is either kept whole or replaced whole. It returns the
// path written.
func Save(path string, workbook []byte) (string, error) {
	path = WorkbookPath(path)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating export directory %s: %w", dir, err)
	}

	partial, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return "", fmt.Errorf("creating partial workbook: %w", err)
	}
	partialPath := partial.Name()

	if err := fill(partial, workbook); err != nil {
		os.Remove(partialPath)
		return "", err
	}
	if err := os.Rename(partialPath, path); err != nil {
		os.Remove(partialPath)
		return "", fmt.Errorf("replacing %s: %w", path, err)
	}
	return path, nil
}

func fill(f *os.File, workbook []byte) error {
	_, err := f.Write(workbook)
	if err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(f.Name(), 0o644)
	}
	if err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
