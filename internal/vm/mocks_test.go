package vm

import (
	"github.com/javanstorm/vmsetup/internal/disk"
)

// mockDisks is a mock implementation of DiskProvisioner for testing.
type mockDisks struct {
	// Configurable behavior
	ensurePrimaryFunc func(path string) (disk.Image, error)
	findSecondaryFunc func(path string) (*disk.Image, error)

	// Call tracking
	ensurePrimaryCalls []string
	findSecondaryCalls []string
}

// newMockDisks creates a mock that creates the primary image and finds no
// secondary image.
func newMockDisks() *mockDisks {
	m := &mockDisks{}

	m.ensurePrimaryFunc = func(path string) (disk.Image, error) {
		return disk.Image{Path: path, Size: disk.PrimarySize, Created: true}, nil
	}

	m.findSecondaryFunc = func(path string) (*disk.Image, error) {
		return nil, nil
	}

	return m
}

func (m *mockDisks) EnsurePrimary(path string) (disk.Image, error) {
	m.ensurePrimaryCalls = append(m.ensurePrimaryCalls, path)
	return m.ensurePrimaryFunc(path)
}

func (m *mockDisks) FindSecondary(path string) (*disk.Image, error) {
	m.findSecondaryCalls = append(m.findSecondaryCalls, path)
	return m.findSecondaryFunc(path)
}
