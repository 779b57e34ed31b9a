package vm

import (
	"github.com/javanstorm/vmsetup/internal/disk"
	"github.com/javanstorm/vmsetup/pkg/hypervisor"
)

// NewBootLoader returns the macOS boot loader.
func NewBootLoader() hypervisor.BootLoader {
	return hypervisor.BootLoader{Kind: hypervisor.BootLoaderMacOS}
}

// NewGraphicsDevice returns a GPU driving a single display.
func NewGraphicsDevice(d hypervisor.DisplayConfiguration) hypervisor.GraphicsDevice {
	return hypervisor.GraphicsDevice{
		Displays: []hypervisor.DisplayConfiguration{d},
	}
}

// NewBlockDevice returns a read/write virtio disk backed by img.
func NewBlockDevice(img disk.Image) hypervisor.BlockDevice {
	return hypervisor.BlockDevice{
		Path:     img.Path,
		Size:     img.Size,
		ReadOnly: false,
	}
}

// NewNetworkDevice returns a NIC attached to the host through NAT.
// An empty mac lets the engine pick a random address.
func NewNetworkDevice(mac string) hypervisor.NetworkDevice {
	return hypervisor.NetworkDevice{
		Attachment: hypervisor.NetworkNAT,
		MACAddress: mac,
	}
}

func NewPointingDevice() hypervisor.PointingDevice {
	return hypervisor.PointingDevice{Kind: hypervisor.PointingUSBScreenCoordinate}
}

func NewMultiTouchDevice() hypervisor.MultiTouchDevice {
	return hypervisor.MultiTouchDevice{Kind: hypervisor.MultiTouchSurface}
}

func NewKeyboardDevice() hypervisor.KeyboardDevice {
	return hypervisor.KeyboardDevice{Kind: hypervisor.KeyboardUSB}
}

// NewAudioDevice returns a sound adapter with one input stream from the host
// microphone and one output stream to the host speakers.
func NewAudioDevice() hypervisor.AudioDevice {
	return hypervisor.AudioDevice{
		Streams: []hypervisor.AudioStream{
			{Direction: hypervisor.StreamInput, Source: hypervisor.HostMicrophone},
			{Direction: hypervisor.StreamOutput, Sink: hypervisor.HostSpeakers},
		},
	}
}
