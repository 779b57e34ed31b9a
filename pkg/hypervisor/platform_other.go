//go:build !darwin

package hypervisor

const engineName = "none"

// PlatformBounds returns fallback as a static provider; no engine on this
// platform reports its own limits.
func PlatformBounds(fallback Bounds) BoundsProvider {
	return StaticBounds(fallback)
}

// AttachDiskImage is unavailable without an engine.
func AttachDiskImage(path string, readOnly bool) error {
	return ErrUnsupportedPlatform
}
