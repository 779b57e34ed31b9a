package disk

import (
	"errors"
	"fmt"
)

// Failure kinds. A *ProvisionError matches exactly one of them with errors.Is.
var (
	ErrDiskCreation   = errors.New("disk: create image")
	ErrDiskAttachment = errors.New("disk: attach image")
)

// Provisioning steps that can fail.
const (
	OpOpen     = "open"
	OpTruncate = "truncate"
	OpClose    = "close"
	OpAttach   = "attach"
)

// ProvisionError reports which step failed for which image.
type ProvisionError struct {
	Op   string
	Path string
	Err  error
}

func (e *ProvisionError) Error() string {
	var what string
	switch e.Op {
	case OpOpen:
		what = "cannot create disk image"
	case OpTruncate:
		what = "cannot extend disk image"
	case OpClose:
		what = "failed to close disk image"
	case OpAttach:
		what = "cannot attach disk image"
	default:
		what = "disk image " + e.Op + " failed"
	}
	return fmt.Sprintf("%s %s: %v", what, e.Path, e.Err)
}

// Unwrap exposes both the failure kind and the underlying OS error.
func (e *ProvisionError) Unwrap() []error {
	return []error{e.Kind(), e.Err}
}

// Kind returns ErrDiskAttachment for attach failures and ErrDiskCreation
// otherwise.
func (e *ProvisionError) Kind() error {
	if e.Op == OpAttach {
		return ErrDiskAttachment
	}
	return ErrDiskCreation
}
