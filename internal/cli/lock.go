package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/juju/fslock"
)

// ErrVMBusy is returned when another process holds the VM lock.
var ErrVMBusy = errors.New("VM is being assembled by another process")

// lockPath returns the lock file guarding the VM whose primary disk is diskPath.
func lockPath(diskPath string) string {
	return diskPath + ".lock"
}

// lockVM takes the assembly lock for the VM owning diskPath. A zero timeout
// fails immediately if the lock is held.
func lockVM(diskPath string, timeout time.Duration) (*fslock.Lock, error) {
	path := lockPath(diskPath)
	l := fslock.New(path)

	var err error
	if timeout <= 0 {
		err = l.TryLock()
	} else {
		err = l.LockWithTimeout(timeout)
	}

	switch {
	case err == nil:
		log.WithField("path", path).Debug("Acquired VM lock")
		return l, nil
	case errors.Is(err, fslock.ErrLocked), errors.Is(err, fslock.ErrTimeout):
		return nil, fmt.Errorf("%w: %s", ErrVMBusy, path)
	default:
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
}

// unlockVM releases l, logging instead of failing since the result is
// already produced.
func unlockVM(l *fslock.Lock) {
	if err := l.Unlock(); err != nil {
		log.WithError(err).Warn("Failed to release VM lock")
	}
}
