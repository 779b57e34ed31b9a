// Package host reads the facts about the host machine that guest sizing
// depends on: logical CPU count, physical memory and the main screen.
package host

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Capabilities are the host facts read at assembly time.
type Capabilities struct {
	// CPUs is the number of logical CPUs.
	CPUs int `json:"cpus" yaml:"cpus"`

	// MemoryBytes is the physical memory size.
	MemoryBytes uint64 `json:"memory_bytes" yaml:"memory_bytes"`

	// Screen is the main screen, or NoScreen.
	Screen Screen `json:"screen" yaml:"screen"`
}

// Size is a width/height pair. Units depend on the field it is used in.
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// IsZero reports whether the size was not reported.
func (s Size) IsZero() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Screen is either NoScreen or ScreenMetrics.
type Screen interface {
	isScreen()
}

// NoScreen means no screen is attached or it could not be queried.
type NoScreen struct{}

func (NoScreen) isScreen() {}

// ScreenMetrics describe an attached screen. A zero Size or Resolution means
// the screen did not report that value.
type ScreenMetrics struct {
	// Size is the screen size in points.
	Size Size `json:"size" yaml:"size"`

	// Resolution is the screen density in dots per inch.
	Resolution Size `json:"resolution" yaml:"resolution"`

	// BackingScaleFactor is the ratio of pixels to points.
	BackingScaleFactor float64 `json:"backing_scale_factor" yaml:"backing_scale_factor"`

	// SafeAreaTop is the height in points covered by host chrome such as
	// a camera housing.
	SafeAreaTop float64 `json:"safe_area_top" yaml:"safe_area_top"`
}

func (ScreenMetrics) isScreen() {}

// Probe reads the capabilities of the current host.
func Probe(ctx context.Context) (Capabilities, error) {
	cpus, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		return Capabilities{}, fmt.Errorf("count logical CPUs: %w", err)
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Capabilities{}, fmt.Errorf("read physical memory: %w", err)
	}

	return Capabilities{
		CPUs:        cpus,
		MemoryBytes: vm.Total,
		Screen:      MainScreen(),
	}, nil
}
