package hypervisor

// Configuration is the fully assembled description of one guest VM.
// It is handed to the hypervisor engine, which owns starting and stopping the
// guest. Every member is a plain value; nothing here touches the host.
type Configuration struct {
	// CPUs is the number of virtual CPUs.
	CPUs uint `json:"cpus" yaml:"cpus"`

	// MemorySize is the guest memory size in bytes.
	MemorySize uint64 `json:"memory_size" yaml:"memory_size"`

	BootLoader BootLoader     `json:"boot_loader" yaml:"boot_loader"`
	Graphics   GraphicsDevice `json:"graphics" yaml:"graphics"`

	// Storage holds the primary block device first, followed by the
	// secondary one when it exists.
	Storage []BlockDevice `json:"storage" yaml:"storage"`

	Network    []NetworkDevice    `json:"network" yaml:"network"`
	Pointing   []PointingDevice   `json:"pointing" yaml:"pointing"`
	MultiTouch []MultiTouchDevice `json:"multi_touch" yaml:"multi_touch"`
	Keyboards  []KeyboardDevice   `json:"keyboards" yaml:"keyboards"`
	Audio      []AudioDevice      `json:"audio" yaml:"audio"`
}

// PrimaryDisk returns the primary block device.
func (c *Configuration) PrimaryDisk() (BlockDevice, bool) {
	if len(c.Storage) == 0 {
		return BlockDevice{}, false
	}
	return c.Storage[0], true
}

// SecondaryDisk returns the secondary block device, if one was attached.
func (c *Configuration) SecondaryDisk() (BlockDevice, bool) {
	if len(c.Storage) < 2 {
		return BlockDevice{}, false
	}
	return c.Storage[1], true
}

// Validate checks the invariants of an assembled configuration against the
// platform bounds it was sized for.
func (c *Configuration) Validate(b Bounds) error {
	if c.CPUs < b.MinCPUs || c.CPUs > b.MaxCPUs {
		return ErrCPUOutOfBounds
	}
	if c.MemorySize < b.MinMemory || c.MemorySize > b.MaxMemory {
		return ErrMemoryOutOfBounds
	}
	primary, ok := c.PrimaryDisk()
	if !ok || primary.Path == "" {
		return ErrMissingPrimaryDisk
	}
	if primary.ReadOnly {
		return ErrReadOnlyPrimaryDisk
	}
	if len(c.Graphics.Displays) != 1 {
		return ErrDisplayCount
	}
	for _, a := range c.Audio {
		if len(a.Streams) != 2 {
			return ErrAudioStreams
		}
	}
	return nil
}
