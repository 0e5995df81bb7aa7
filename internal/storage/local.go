package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrInvalidName = errors.New("invalid file name")

// LocalStorage resolves paper PDFs under a venue's PDF directory.
type LocalStorage struct {
	Root string
}

func NewLocalStorage(root string) *LocalStorage {
	return &LocalStorage{Root: root}
}

// PDFPath returns <root>/<paperID>.pdf. Paper IDs come from user-editable CSV
// files and URLs, so anything that could leave the root is rejected.
func (s *LocalStorage) PDFPath(paperID string) (string, error) {
	if paperID == "" || paperID == "." || paperID == ".." ||
		strings.ContainsAny(paperID, `/\`) || strings.Contains(paperID, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, paperID)
	}
	return filepath.Join(s.Root, paperID+".pdf"), nil
}

// Exists reports whether path is a readable regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
