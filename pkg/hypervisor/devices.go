package hypervisor

// BootLoaderKind selects the guest boot loader.
type BootLoaderKind string

// BootLoaderMacOS boots a macOS guest from its own disk.
const BootLoaderMacOS BootLoaderKind = "macos"

// BootLoader has no parameters beyond its kind.
type BootLoader struct {
	Kind BootLoaderKind `json:"kind" yaml:"kind"`
}

// DisplayConfiguration is the pixel geometry of one guest display.
type DisplayConfiguration struct {
	WidthInPixels  int64 `json:"width_in_pixels" yaml:"width_in_pixels"`
	HeightInPixels int64 `json:"height_in_pixels" yaml:"height_in_pixels"`
	PixelsPerInch  int64 `json:"pixels_per_inch" yaml:"pixels_per_inch"`
}

// FallbackDisplay is used when no host screen can be measured.
var FallbackDisplay = DisplayConfiguration{
	WidthInPixels:  1920,
	HeightInPixels: 1080,
	PixelsPerInch:  144,
}

// GraphicsDevice is a guest GPU with its attached displays.
type GraphicsDevice struct {
	Displays []DisplayConfiguration `json:"displays" yaml:"displays"`
}

// BlockDevice is a virtio disk backed by a host image file.
type BlockDevice struct {
	// Path is the host path of the disk image.
	Path string `json:"path" yaml:"path"`

	// Size is the logical length of the image in bytes.
	Size int64 `json:"size" yaml:"size"`

	ReadOnly bool `json:"read_only" yaml:"read_only"`
}

// NetworkAttachment describes how a guest NIC reaches the host network.
type NetworkAttachment string

// NetworkNAT shares the host connection through network address translation.
const NetworkNAT NetworkAttachment = "nat"

// NetworkDevice is a virtio NIC.
type NetworkDevice struct {
	Attachment NetworkAttachment `json:"attachment" yaml:"attachment"`

	// MACAddress is optional. Empty means the engine generates a random
	// locally administered address.
	MACAddress string `json:"mac_address,omitempty" yaml:"mac_address,omitempty"`
}

// PointingKind identifies a pointing device model.
type PointingKind string

// PointingUSBScreenCoordinate reports absolute screen coordinates over USB.
const PointingUSBScreenCoordinate PointingKind = "usb-screen-coordinate"

// PointingDevice is a mouse-class input device.
type PointingDevice struct {
	Kind PointingKind `json:"kind" yaml:"kind"`
}

// MultiTouchKind identifies a multi-touch device model.
type MultiTouchKind string

// MultiTouchSurface is a touch surface reporting several contacts at once.
const MultiTouchSurface MultiTouchKind = "touch-surface"

// MultiTouchDevice is a multi-touch input device.
type MultiTouchDevice struct {
	Kind MultiTouchKind `json:"kind" yaml:"kind"`
}

// KeyboardKind identifies a keyboard model.
type KeyboardKind string

// KeyboardUSB is a USB HID keyboard.
const KeyboardUSB KeyboardKind = "usb"

// KeyboardDevice is a keyboard input device.
type KeyboardDevice struct {
	Kind KeyboardKind `json:"kind" yaml:"kind"`
}

// StreamDirection is the direction of an audio stream relative to the guest.
type StreamDirection string

const (
	StreamInput  StreamDirection = "input"
	StreamOutput StreamDirection = "output"
)

// AudioEndpoint is the host side of an audio stream.
type AudioEndpoint string

const (
	HostMicrophone AudioEndpoint = "host-microphone"
	HostSpeakers   AudioEndpoint = "host-speakers"
)

// AudioStream connects one guest audio stream to the host.
// Input streams set Source, output streams set Sink.
type AudioStream struct {
	Direction StreamDirection `json:"direction" yaml:"direction"`
	Source    AudioEndpoint   `json:"source,omitempty" yaml:"source,omitempty"`
	Sink      AudioEndpoint   `json:"sink,omitempty" yaml:"sink,omitempty"`
}

// AudioDevice is a virtio sound adapter.
type AudioDevice struct {
	Streams []AudioStream `json:"streams" yaml:"streams"`
}
