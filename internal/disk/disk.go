// Package disk provisions the image files backing guest block devices.
package disk

import (
	"errors"
	"io/fs"
	"os"

	"github.com/docker/go-units"
	"github.com/sirupsen/logrus"
)

const (
	// PrimarySize is the logical length of a newly created primary image.
	PrimarySize int64 = 64 << 30

	// FilePermissions are the permissions for created images.
	FilePermissions = 0o600
)

// Image is a disk image file on the host.
type Image struct {
	Path string

	// Size is the logical length of the file in bytes.
	Size int64

	// Created is true when this provisioning run created the file.
	Created bool
}

// Attacher opens an image as block storage for the hypervisor.
type Attacher interface {
	Attach(path string, readOnly bool) error
}

// AttacherFunc adapts a function to Attacher.
type AttacherFunc func(path string, readOnly bool) error

// Attach implements Attacher.
func (f AttacherFunc) Attach(path string, readOnly bool) error {
	return f(path, readOnly)
}

// FileAttacher checks that the image opens with the requested access.
var FileAttacher = AttacherFunc(openForAttach)

func openForAttach(path string, readOnly bool) error {
	flag := os.O_RDWR
	if readOnly {
		flag = os.O_RDONLY
	}
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return err
	}
	return f.Close()
}

// Provisioner ensures disk images exist and can be attached.
type Provisioner struct {
	attacher Attacher
	log      logrus.FieldLogger
}

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithAttacher replaces FileAttacher.
func WithAttacher(a Attacher) Option {
	return func(p *Provisioner) {
		p.attacher = a
	}
}

// WithLogger sets the logger used for provisioning messages.
func WithLogger(l logrus.FieldLogger) Option {
	return func(p *Provisioner) {
		p.log = l
	}
}

// NewProvisioner creates a provisioner.
func NewProvisioner(opts ...Option) *Provisioner {
	p := &Provisioner{
		attacher: FileAttacher,
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// EnsurePrimary creates a sparse PrimarySize image at path if none exists,
// then attaches it read/write. An existing file is used as is.
func (p *Provisioner) EnsurePrimary(path string) (Image, error) {
	log := p.log.WithField("path", path)
	img := Image{Path: path}

	created, err := createSparseImage(path, PrimarySize)
	switch {
	case err != nil:
		return Image{}, err
	case created:
		img.Size = PrimarySize
		img.Created = true
		log.WithField("size", units.BytesSize(float64(PrimarySize))).Info("Created disk image")
	default:
		info, err := os.Stat(path)
		if err != nil {
			return Image{}, &ProvisionError{Op: OpOpen, Path: path, Err: err}
		}
		img.Size = info.Size()
		log.Debug("Using existing disk image")
	}

	if err := p.attacher.Attach(path, false); err != nil {
		return Image{}, &ProvisionError{Op: OpAttach, Path: path, Err: err}
	}
	return img, nil
}

// FindSecondary attaches the image at path read/write if the file exists.
// A missing file is not an error and returns nil.
func (p *Provisioner) FindSecondary(path string) (*Image, error) {
	if path == "" {
		return nil, nil
	}
	log := p.log.WithField("path", path)

	info, err := os.Stat(path)
	if err != nil {
		log.WithError(err).Debug("No secondary disk image")
		return nil, nil
	}

	if err := p.attacher.Attach(path, false); err != nil {
		return nil, &ProvisionError{Op: OpAttach, Path: path, Err: err}
	}
	log.Debug("Using secondary disk image")
	return &Image{Path: path, Size: info.Size()}, nil
}

// createSparseImage exclusively creates path and sets its length without
// writing data. It reports created=false if the file already exists. A file
// it created is removed again if it cannot be brought to full length.
func createSparseImage(path string, size int64) (created bool, err error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, FilePermissions)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, &ProvisionError{Op: OpOpen, Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &ProvisionError{Op: OpClose, Path: path, Err: cerr}
		}
		if err != nil {
			created = false
			_ = os.Remove(path)
		}
	}()

	if err := f.Truncate(size); err != nil {
		return false, &ProvisionError{Op: OpTruncate, Path: path, Err: err}
	}
	return true, nil
}
