// Package testutil provides common test helpers for vmsetup tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/javanstorm/vmsetup/pkg/hypervisor"
)

// GiB is one gibibyte.
const GiB = uint64(1) << 30

// Bounds are synthetic platform bounds wide enough for typical hosts:
// 1-8 CPUs and 2-32 GiB of memory.
func Bounds() hypervisor.StaticBounds {
	return hypervisor.StaticBounds{
		MinCPUs:   1,
		MaxCPUs:   8,
		MinMemory: 2 * GiB,
		MaxMemory: 32 * GiB,
	}
}

// CreateTestDisk creates a sparse disk file at the given path with the specified size.
// The file is created as a sparse file, so it doesn't actually allocate all the space.
func CreateTestDisk(t *testing.T, path string, sizeBytes int64) {
	t.Helper()

	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create directory %s: %v", dir, err)
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create test disk at %s: %v", path, err)
	}
	defer f.Close()

	if err := f.Truncate(sizeBytes); err != nil {
		t.Fatalf("failed to truncate test disk to %d bytes: %v", sizeBytes, err)
	}
}

// Logger returns a logger that records entries instead of printing them.
func Logger(t *testing.T) (*logrus.Logger, *test.Hook) {
	t.Helper()

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logger, hook
}

// FileSize returns the length of the file at path.
func FileSize(t *testing.T, path string) int64 {
	t.Helper()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("failed to stat %s: %v", path, err)
	}
	return info.Size()
}
