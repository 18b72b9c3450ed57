package client

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

type FileHandler struct {
	folderPath string
}

func NewFileHandler(folderPath string) *FileHandler {
	return &FileHandler{
		folderPath: folderPath,
	}
}

// GetFilesWithPattern lists, in name order, the regular files whose name contains pattern.
func (fh *FileHandler) GetFilesWithPattern(pattern string) ([]string, error) {
	entries, err := os.ReadDir(fh.folderPath)
	if err != nil {
		return nil, fmt.Errorf("error reading directory %s: %w", fh.folderPath, err)
	}

	var fileNames []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if strings.Contains(entry.Name(), pattern) {
			fileNames = append(fileNames, entry.Name())
		}
	}

	if len(fileNames) == 0 {
		return nil, fmt.Errorf("no files in %s matched the pattern %q", fh.folderPath, pattern)
	}

	sort.Strings(fileNames)
	return fileNames, nil
}
