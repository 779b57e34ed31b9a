// Package hypervisor describes the configuration handed to the hypervisor
// engine and the platform limits it imposes. On macOS it also translates the
// configuration into Virtualization.framework objects.
package hypervisor

import "runtime"

// Info describes the engine available on this host.
type Info struct {
	Name string `json:"name" yaml:"name"` // "vz" or "none"
	OS   string `json:"os" yaml:"os"`
	Arch string `json:"arch" yaml:"arch"`
}

// SupportedPlatform returns true if the current platform has an engine that
// can consume a Configuration.
func SupportedPlatform() bool {
	return runtime.GOOS == "darwin"
}

// PlatformInfo returns information about the engine on this host.
func PlatformInfo() Info {
	return Info{
		Name: engineName,
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
	}
}
