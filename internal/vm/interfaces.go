package vm

import "github.com/javanstorm/vmsetup/internal/disk"

// DiskProvisioner defines the disk operations needed for assembly.
//
// In production, this is satisfied by *disk.Provisioner.
// In tests, this is satisfied by mock implementations.
type DiskProvisioner interface {
	// EnsurePrimary creates the primary image if needed and attaches it
	EnsurePrimary(path string) (disk.Image, error)

	// FindSecondary attaches the secondary image if it exists
	FindSecondary(path string) (*disk.Image, error)
}
