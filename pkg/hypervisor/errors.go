package hypervisor

import "errors"

// Configuration errors
var (
	ErrCPUOutOfBounds      = errors.New("hypervisor: CPU count outside platform bounds")
	ErrMemoryOutOfBounds   = errors.New("hypervisor: memory size outside platform bounds")
	ErrMissingPrimaryDisk  = errors.New("hypervisor: primary disk is required")
	ErrReadOnlyPrimaryDisk = errors.New("hypervisor: primary disk must be read/write")
	ErrDisplayCount        = errors.New("hypervisor: graphics device needs exactly one display")
	ErrAudioStreams        = errors.New("hypervisor: audio device needs one input and one output stream")
	ErrInvalidBounds       = errors.New("hypervisor: minimum bound exceeds maximum")
)

// Platform errors
var (
	ErrUnsupportedPlatform = errors.New("hypervisor: platform not supported")
)
