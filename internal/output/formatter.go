// Package output renders assembled configurations and host reports in
// various formats (text, YAML, JSON).
package output

import (
	"fmt"

	"github.com/javanstorm/vmsetup/internal/host"
	"github.com/javanstorm/vmsetup/pkg/hypervisor"
)

// Format represents an output format type.
type Format string

const (
	// FormatText is a human-readable summary.
	FormatText Format = "text"
	// FormatYAML is a YAML document.
	FormatYAML Format = "yaml"
	// FormatJSON is a JSON document for machine consumption.
	FormatJSON Format = "json"
)

// AssemblyReport is the result of one assembly.
type AssemblyReport struct {
	VMName        string                    `json:"vm_name" yaml:"vm_name"`
	Platform      hypervisor.Info           `json:"platform" yaml:"platform"`
	Configuration *hypervisor.Configuration `json:"configuration" yaml:"configuration"`
}

// HostReport describes the host and the guest sizing it would get.
type HostReport struct {
	Platform    hypervisor.Info `json:"platform" yaml:"platform"`
	CPUs        int             `json:"cpus" yaml:"cpus"`
	MemoryBytes uint64          `json:"memory_bytes" yaml:"memory_bytes"`

	// Screen is nil when no screen could be measured.
	Screen *host.ScreenMetrics `json:"screen,omitempty" yaml:"screen,omitempty"`

	Bounds hypervisor.Bounds `json:"bounds" yaml:"bounds"`
	Guest  GuestSizing       `json:"guest" yaml:"guest"`
}

// GuestSizing is the sizing derived from a HostReport.
type GuestSizing struct {
	CPUs       uint                            `json:"cpus" yaml:"cpus"`
	MemorySize uint64                          `json:"memory_size" yaml:"memory_size"`
	Display    hypervisor.DisplayConfiguration `json:"display" yaml:"display"`
}

// NewHostReport builds a HostReport from probed capabilities.
func NewHostReport(caps host.Capabilities, b hypervisor.Bounds, guest GuestSizing) *HostReport {
	r := &HostReport{
		Platform:    hypervisor.PlatformInfo(),
		CPUs:        caps.CPUs,
		MemoryBytes: caps.MemoryBytes,
		Bounds:      b,
		Guest:       guest,
	}
	if s, ok := caps.Screen.(host.ScreenMetrics); ok {
		r.Screen = &s
	}
	return r
}

// Formatter formats vmsetup reports for output.
type Formatter interface {
	// FormatAssembly formats an assembled configuration.
	FormatAssembly(r *AssemblyReport) (string, error)

	// FormatHost formats a host report.
	FormatHost(r *HostReport) (string, error)
}

// NewFormatter creates a new Formatter based on the specified format.
func NewFormatter(format Format) (Formatter, error) {
	switch format {
	case FormatText:
		return &TextFormatter{}, nil
	case FormatYAML:
		return &YAMLFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (supported: text, yaml, json)", format)
	}
}
