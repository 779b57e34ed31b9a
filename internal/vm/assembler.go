package vm

import (
	"fmt"

	"github.com/docker/go-units"
	"github.com/sirupsen/logrus"

	"github.com/javanstorm/vmsetup/internal/disk"
	"github.com/javanstorm/vmsetup/internal/display"
	"github.com/javanstorm/vmsetup/internal/host"
	"github.com/javanstorm/vmsetup/internal/sizing"
	"github.com/javanstorm/vmsetup/pkg/hypervisor"
)

// Device names used in AssemblyError.
const (
	DevicePrimaryDisk   = "primary block device"
	DeviceSecondaryDisk = "secondary block device"
	DeviceConfiguration = "configuration"
)

// Identity holds the paths a VM's descriptor record owns. The assembler only
// borrows them for the duration of one call.
type Identity struct {
	// PrimaryDiskPath is the main disk image. It is created if missing.
	PrimaryDiskPath string `json:"primary_disk_path" yaml:"primary_disk_path"`

	// SecondaryDiskPath is an optional extra disk image. It is attached
	// only if the file exists.
	SecondaryDiskPath string `json:"secondary_disk_path,omitempty" yaml:"secondary_disk_path,omitempty"`
}

// AssemblyError reports which device failed to assemble and for which path.
type AssemblyError struct {
	Device string
	Path   string
	Err    error
}

func (e *AssemblyError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("assemble VM: %s: %v", e.Device, e.Err)
	}
	return fmt.Sprintf("assemble VM: %s %s: %v", e.Device, e.Path, e.Err)
}

func (e *AssemblyError) Unwrap() error {
	return e.Err
}

// Assembler turns host facts and a VM identity into a Configuration.
type Assembler struct {
	bounds hypervisor.BoundsProvider
	disks  DiskProvisioner
	log    logrus.FieldLogger
	policy SecondaryPolicy
	mac    string
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithDiskProvisioner replaces the default *disk.Provisioner.
func WithDiskProvisioner(d DiskProvisioner) Option {
	return func(a *Assembler) {
		a.disks = d
	}
}

// WithLogger sets the logger for assembly messages.
func WithLogger(l logrus.FieldLogger) Option {
	return func(a *Assembler) {
		a.log = l
	}
}

// WithSecondaryPolicy sets how an unattachable secondary disk is handled.
func WithSecondaryPolicy(p SecondaryPolicy) Option {
	return func(a *Assembler) {
		a.policy = p
	}
}

// WithMACAddress pins the guest NIC address. It must already be valid.
func WithMACAddress(mac string) Option {
	return func(a *Assembler) {
		a.mac = mac
	}
}

// NewAssembler creates an assembler sizing guests against bounds.
func NewAssembler(bounds hypervisor.BoundsProvider, opts ...Option) *Assembler {
	a := &Assembler{
		bounds: bounds,
		log:    logrus.StandardLogger(),
		policy: SecondaryStrict,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.disks == nil {
		a.disks = disk.NewProvisioner(disk.WithLogger(a.log))
	}
	return a
}

// Assemble builds the complete configuration for one guest. Steps run in a
// fixed order and the first failure aborts the whole assembly; no partial
// configuration is ever returned.
func (a *Assembler) Assemble(caps host.Capabilities, id Identity) (*hypervisor.Configuration, error) {
	b := a.bounds.Bounds()
	if err := b.Validate(); err != nil {
		return nil, &AssemblyError{Device: DeviceConfiguration, Err: err}
	}

	cfg := &hypervisor.Configuration{
		CPUs:       sizing.CPUCount(caps.CPUs, b),
		MemorySize: sizing.MemorySize(caps.MemoryBytes, b),
	}
	a.log.WithFields(logrus.Fields{
		"cpus":   cfg.CPUs,
		"memory": units.BytesSize(float64(cfg.MemorySize)),
	}).Debug("Sized guest")

	// 1. Boot loader
	cfg.BootLoader = NewBootLoader()

	// 2. Graphics
	d := display.Resolve(caps.Screen)
	cfg.Graphics = NewGraphicsDevice(d)
	a.log.WithFields(logrus.Fields{
		"width":  d.WidthInPixels,
		"height": d.HeightInPixels,
		"ppi":    d.PixelsPerInch,
	}).Debug("Resolved display")

	// 3. Primary disk
	if id.PrimaryDiskPath == "" {
		return nil, &AssemblyError{Device: DevicePrimaryDisk, Err: hypervisor.ErrMissingPrimaryDisk}
	}
	primary, err := a.disks.EnsurePrimary(id.PrimaryDiskPath)
	if err != nil {
		return nil, &AssemblyError{Device: DevicePrimaryDisk, Path: id.PrimaryDiskPath, Err: err}
	}
	cfg.Storage = []hypervisor.BlockDevice{NewBlockDevice(primary)}

	// 4. Secondary disk
	secondary, err := a.disks.FindSecondary(id.SecondaryDiskPath)
	switch {
	case err != nil && a.policy == SecondaryLenient:
		a.log.WithError(err).WithField("path", id.SecondaryDiskPath).
			Warn("Skipping secondary disk image that cannot be attached")
	case err != nil:
		return nil, &AssemblyError{Device: DeviceSecondaryDisk, Path: id.SecondaryDiskPath, Err: err}
	case secondary != nil:
		cfg.Storage = append(cfg.Storage, NewBlockDevice(*secondary))
	}

	// 5-9. Stateless devices
	cfg.Network = []hypervisor.NetworkDevice{NewNetworkDevice(a.mac)}
	cfg.Pointing = []hypervisor.PointingDevice{NewPointingDevice()}
	cfg.MultiTouch = []hypervisor.MultiTouchDevice{NewMultiTouchDevice()}
	cfg.Keyboards = []hypervisor.KeyboardDevice{NewKeyboardDevice()}
	cfg.Audio = []hypervisor.AudioDevice{NewAudioDevice()}

	if err := cfg.Validate(b); err != nil {
		return nil, &AssemblyError{Device: DeviceConfiguration, Err: err}
	}

	a.log.WithField("disks", len(cfg.Storage)).Debug("Assembled VM configuration")
	return cfg, nil
}
