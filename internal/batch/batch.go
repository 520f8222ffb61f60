// Package batch manages the import-directory workflow: unconverted exports
// live in <root>/import/, converted ones move to <root>/import/processed/.
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// importDir is the subdirectory holding exports awaiting conversion.
const importDir = "import"

// processedDir is the subdirectory converted exports are moved into.
const processedDir = "import/processed"

// convertedDir is the subdirectory converted output is written to.
const convertedDir = "converted"

// FileInfo describes a CSV file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// Scan returns CSV files in <root>/import/.
func Scan(root string) ([]FileInfo, error) {
	dir := filepath.Join(root, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// OutputPath returns where the converted CSV for fileName is written,
// creating the converted directory if needed.
func OutputPath(root, fileName string) (string, error) {
	dir := filepath.Join(root, convertedDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating converted dir: %w", err)
	}
	return filepath.Join(dir, fileName), nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(root, fileName string) error {
	src := filepath.Join(root, importDir, fileName)
	dstDir := filepath.Join(root, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
