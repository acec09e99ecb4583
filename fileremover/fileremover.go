package fileremover

import (
	"fmt"
	"os"
)

// FileRemover ...
type FileRemover interface {
	RemoveAll(path string) error
	ResetDir(path string) error
}

type fileRemover struct{}

// NewFileRemover ...
func NewFileRemover() FileRemover {
	return fileRemover{}
}

func (r fileRemover) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// ResetDir leaves an empty directory at path, deleting whatever a previous run left there.
func (r fileRemover) ResetDir(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	return nil
}
