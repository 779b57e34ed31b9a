//go:build darwin

package hypervisor

import (
	"fmt"
	"net"

	"github.com/Code-Hex/vz/v3"
)

const engineName = "vz"

// vzBounds reads the limits of the running Virtualization.framework.
type vzBounds struct{}

func (vzBounds) Bounds() Bounds {
	return Bounds{
		MinCPUs:   vz.VirtualMachineConfigurationMinimumAllowedCPUCount(),
		MaxCPUs:   vz.VirtualMachineConfigurationMaximumAllowedCPUCount(),
		MinMemory: vz.VirtualMachineConfigurationMinimumAllowedMemorySize(),
		MaxMemory: vz.VirtualMachineConfigurationMaximumAllowedMemorySize(),
	}
}

// PlatformBounds returns the limits reported by Virtualization.framework.
// fallback is ignored on macOS.
func PlatformBounds(fallback Bounds) BoundsProvider {
	return vzBounds{}
}

// AttachDiskImage opens path as a disk image storage attachment to confirm
// the framework accepts it.
func AttachDiskImage(path string, readOnly bool) error {
	if _, err := vz.NewDiskImageStorageDeviceAttachment(path, readOnly); err != nil {
		return fmt.Errorf("vz: attach disk image %s: %w", path, err)
	}
	return nil
}

// NewVZConfiguration translates cfg into a Virtualization.framework
// configuration. The platform configuration (hardware model, machine
// identifier, auxiliary storage) belongs to the engine and is not set here.
func NewVZConfiguration(cfg *Configuration) (*vz.VirtualMachineConfiguration, error) {
	bootLoader, err := newVZBootLoader(cfg.BootLoader)
	if err != nil {
		return nil, err
	}

	vmCfg, err := vz.NewVirtualMachineConfiguration(bootLoader, cfg.CPUs, cfg.MemorySize)
	if err != nil {
		return nil, fmt.Errorf("vz: create VM config: %w", err)
	}

	graphics, err := newVZGraphics(cfg.Graphics)
	if err != nil {
		return nil, err
	}
	vmCfg.SetGraphicsDevicesVirtualMachineConfiguration([]vz.GraphicsDeviceConfiguration{graphics})

	var storage []vz.StorageDeviceConfiguration
	for _, d := range cfg.Storage {
		attachment, err := vz.NewDiskImageStorageDeviceAttachment(d.Path, d.ReadOnly)
		if err != nil {
			return nil, fmt.Errorf("vz: create disk attachment %s: %w", d.Path, err)
		}
		blockDevice, err := vz.NewVirtioBlockDeviceConfiguration(attachment)
		if err != nil {
			return nil, fmt.Errorf("vz: create block device %s: %w", d.Path, err)
		}
		storage = append(storage, blockDevice)
	}
	vmCfg.SetStorageDevicesVirtualMachineConfiguration(storage)

	var network []*vz.VirtioNetworkDeviceConfiguration
	for _, n := range cfg.Network {
		netConfig, err := newVZNetwork(n)
		if err != nil {
			return nil, err
		}
		network = append(network, netConfig)
	}
	vmCfg.SetNetworkDevicesVirtualMachineConfiguration(network)

	var pointing []vz.PointingDeviceConfiguration
	for _, p := range cfg.Pointing {
		if p.Kind != PointingUSBScreenCoordinate {
			return nil, fmt.Errorf("vz: unsupported pointing device %q", p.Kind)
		}
		dev, err := vz.NewUSBScreenCoordinatePointingDeviceConfiguration()
		if err != nil {
			return nil, fmt.Errorf("vz: create pointing device: %w", err)
		}
		pointing = append(pointing, dev)
	}
	// The public framework exposes multi-touch input as a trackpad, which is
	// registered alongside the other pointing devices.
	for _, m := range cfg.MultiTouch {
		if m.Kind != MultiTouchSurface {
			return nil, fmt.Errorf("vz: unsupported multi-touch device %q", m.Kind)
		}
		dev, err := vz.NewMacTrackpadConfiguration()
		if err != nil {
			return nil, fmt.Errorf("vz: create multi-touch device: %w", err)
		}
		pointing = append(pointing, dev)
	}
	vmCfg.SetPointingDevicesVirtualMachineConfiguration(pointing)

	var keyboards []vz.KeyboardConfiguration
	for _, k := range cfg.Keyboards {
		if k.Kind != KeyboardUSB {
			return nil, fmt.Errorf("vz: unsupported keyboard %q", k.Kind)
		}
		dev, err := vz.NewUSBKeyboardConfiguration()
		if err != nil {
			return nil, fmt.Errorf("vz: create keyboard: %w", err)
		}
		keyboards = append(keyboards, dev)
	}
	vmCfg.SetKeyboardsVirtualMachineConfiguration(keyboards)

	var audio []vz.AudioDeviceConfiguration
	for _, a := range cfg.Audio {
		dev, err := newVZAudio(a)
		if err != nil {
			return nil, err
		}
		audio = append(audio, dev)
	}
	vmCfg.SetAudioDevicesVirtualMachineConfiguration(audio)

	return vmCfg, nil
}

func newVZBootLoader(b BootLoader) (vz.BootLoader, error) {
	switch b.Kind {
	case BootLoaderMacOS:
		bootLoader, err := vz.NewMacOSBootLoader()
		if err != nil {
			return nil, fmt.Errorf("vz: create boot loader: %w", err)
		}
		return bootLoader, nil
	default:
		return nil, fmt.Errorf("vz: unsupported boot loader %q", b.Kind)
	}
}

func newVZGraphics(g GraphicsDevice) (*vz.MacGraphicsDeviceConfiguration, error) {
	graphics, err := vz.NewMacGraphicsDeviceConfiguration()
	if err != nil {
		return nil, fmt.Errorf("vz: create graphics device: %w", err)
	}
	displays := make([]*vz.MacGraphicsDisplayConfiguration, 0, len(g.Displays))
	for _, d := range g.Displays {
		display, err := vz.NewMacGraphicsDisplayConfiguration(d.WidthInPixels, d.HeightInPixels, d.PixelsPerInch)
		if err != nil {
			return nil, fmt.Errorf("vz: create display %dx%d: %w", d.WidthInPixels, d.HeightInPixels, err)
		}
		displays = append(displays, display)
	}
	graphics.SetDisplays(displays...)
	return graphics, nil
}

func newVZNetwork(n NetworkDevice) (*vz.VirtioNetworkDeviceConfiguration, error) {
	if n.Attachment != NetworkNAT {
		return nil, fmt.Errorf("vz: unsupported network attachment %q", n.Attachment)
	}
	natAttachment, err := vz.NewNATNetworkDeviceAttachment()
	if err != nil {
		return nil, fmt.Errorf("vz: create NAT attachment: %w", err)
	}
	netConfig, err := vz.NewVirtioNetworkDeviceConfiguration(natAttachment)
	if err != nil {
		return nil, fmt.Errorf("vz: create network config: %w", err)
	}

	var macAddr *vz.MACAddress
	if n.MACAddress != "" {
		hwAddr, err := net.ParseMAC(n.MACAddress)
		if err != nil {
			return nil, fmt.Errorf("vz: parse MAC address: %w", err)
		}
		macAddr, err = vz.NewMACAddress(hwAddr)
		if err != nil {
			return nil, fmt.Errorf("vz: create MAC address: %w", err)
		}
	} else {
		macAddr, err = vz.NewRandomLocallyAdministeredMACAddress()
		if err != nil {
			return nil, fmt.Errorf("vz: generate random MAC: %w", err)
		}
	}
	netConfig.SetMACAddress(macAddr)

	return netConfig, nil
}

func newVZAudio(a AudioDevice) (*vz.VirtioSoundDeviceConfiguration, error) {
	sound, err := vz.NewVirtioSoundDeviceConfiguration()
	if err != nil {
		return nil, fmt.Errorf("vz: create sound device: %w", err)
	}

	var streams []vz.VirtioSoundDeviceStreamConfiguration
	for _, s := range a.Streams {
		switch {
		case s.Direction == StreamInput && s.Source == HostMicrophone:
			in, err := vz.NewVirtioSoundDeviceHostInputStreamConfiguration()
			if err != nil {
				return nil, fmt.Errorf("vz: create input stream: %w", err)
			}
			streams = append(streams, in)
		case s.Direction == StreamOutput && s.Sink == HostSpeakers:
			out, err := vz.NewVirtioSoundDeviceHostOutputStreamConfiguration()
			if err != nil {
				return nil, fmt.Errorf("vz: create output stream: %w", err)
			}
			streams = append(streams, out)
		default:
			return nil, fmt.Errorf("vz: unsupported audio stream %s", s.Direction)
		}
	}
	sound.SetStreams(streams...)

	return sound, nil
}
