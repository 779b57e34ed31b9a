package hypervisor

import "fmt"

// Bounds are the platform limits for guest CPU count and memory size.
// All four values are inclusive.
type Bounds struct {
	MinCPUs   uint   `json:"min_cpus" yaml:"min_cpus"`
	MaxCPUs   uint   `json:"max_cpus" yaml:"max_cpus"`
	MinMemory uint64 `json:"min_memory" yaml:"min_memory"`
	MaxMemory uint64 `json:"max_memory" yaml:"max_memory"`
}

// Validate reports whether the bounds describe a non-empty range.
func (b Bounds) Validate() error {
	if b.MinCPUs > b.MaxCPUs {
		return fmt.Errorf("%w: cpus %d > %d", ErrInvalidBounds, b.MinCPUs, b.MaxCPUs)
	}
	if b.MinMemory > b.MaxMemory {
		return fmt.Errorf("%w: memory %d > %d", ErrInvalidBounds, b.MinMemory, b.MaxMemory)
	}
	return nil
}

// BoundsProvider supplies the platform bounds of the hypervisor engine.
// The values may differ between platforms and engine versions.
type BoundsProvider interface {
	Bounds() Bounds
}

// StaticBounds is a BoundsProvider returning fixed values.
type StaticBounds Bounds

// Bounds implements BoundsProvider.
func (s StaticBounds) Bounds() Bounds {
	return Bounds(s)
}

// DefaultBounds is used on platforms without an engine that reports its own
// limits.
var DefaultBounds = Bounds{
	MinCPUs:   1,
	MaxCPUs:   64,
	MinMemory: 128 << 20,
	MaxMemory: 1 << 40,
}
