package test

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

// TmpFile returns the path to a unique file to be used in tests
func TmpFile(t *testing.T) string {
	dir := t.TempDir()
	return filepath.Join(dir, uuid.New().String())
}

// RandomName returns a unique name for resources that carry a
// uniqueness constraint on their name.
func RandomName() string {
	return "test-" + uuid.New().String()[:8]
}
