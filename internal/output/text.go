package output

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"github.com/docker/go-units"

	"github.com/javanstorm/vmsetup/pkg/hypervisor"
)

// TextFormatter formats reports as aligned key/value text.
type TextFormatter struct{}

// FormatAssembly formats an assembled configuration as text.
func (f *TextFormatter) FormatAssembly(r *AssemblyReport) (string, error) {
	if r.Configuration == nil {
		return "", fmt.Errorf("no configuration to format")
	}
	cfg := r.Configuration

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintf(w, "VM:\t%s\n", r.VMName)
	_, _ = fmt.Fprintf(w, "Engine:\t%s (%s/%s)\n", r.Platform.Name, r.Platform.OS, r.Platform.Arch)
	_, _ = fmt.Fprintf(w, "CPUs:\t%d\n", cfg.CPUs)
	_, _ = fmt.Fprintf(w, "Memory:\t%s\n", units.BytesSize(float64(cfg.MemorySize)))
	_, _ = fmt.Fprintf(w, "Boot loader:\t%s\n", cfg.BootLoader.Kind)
	for _, d := range cfg.Graphics.Displays {
		_, _ = fmt.Fprintf(w, "Display:\t%s\n", formatDisplay(d))
	}
	for i, d := range cfg.Storage {
		label := "Primary disk"
		if i > 0 {
			label = "Secondary disk"
		}
		_, _ = fmt.Fprintf(w, "%s:\t%s (%s)\n", label, d.Path, units.BytesSize(float64(d.Size)))
	}
	for _, n := range cfg.Network {
		mac := n.MACAddress
		if mac == "" {
			mac = "random"
		}
		_, _ = fmt.Fprintf(w, "Network:\t%s, MAC %s\n", n.Attachment, mac)
	}
	for _, p := range cfg.Pointing {
		_, _ = fmt.Fprintf(w, "Pointing:\t%s\n", p.Kind)
	}
	for _, m := range cfg.MultiTouch {
		_, _ = fmt.Fprintf(w, "Multi-touch:\t%s\n", m.Kind)
	}
	for _, k := range cfg.Keyboards {
		_, _ = fmt.Fprintf(w, "Keyboard:\t%s\n", k.Kind)
	}
	for _, a := range cfg.Audio {
		for _, s := range a.Streams {
			endpoint := s.Source
			if s.Direction == hypervisor.StreamOutput {
				endpoint = s.Sink
			}
			_, _ = fmt.Fprintf(w, "Audio %s:\t%s\n", s.Direction, endpoint)
		}
	}

	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush output: %w", err)
	}
	return buf.String(), nil
}

// FormatHost formats a host report as text.
func (f *TextFormatter) FormatHost(r *HostReport) (string, error) {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintf(w, "Engine:\t%s (%s/%s)\n", r.Platform.Name, r.Platform.OS, r.Platform.Arch)
	_, _ = fmt.Fprintf(w, "Host CPUs:\t%d\n", r.CPUs)
	_, _ = fmt.Fprintf(w, "Host memory:\t%s\n", units.BytesSize(float64(r.MemoryBytes)))
	if r.Screen != nil {
		_, _ = fmt.Fprintf(w, "Screen:\t%gx%g pt @ %gx, %g dpi\n",
			r.Screen.Size.Width, r.Screen.Size.Height, r.Screen.BackingScaleFactor, r.Screen.Resolution.Width)
	} else {
		_, _ = fmt.Fprintln(w, "Screen:\tnone")
	}
	_, _ = fmt.Fprintf(w, "CPU bounds:\t%d-%d\n", r.Bounds.MinCPUs, r.Bounds.MaxCPUs)
	_, _ = fmt.Fprintf(w, "Memory bounds:\t%s-%s\n",
		units.BytesSize(float64(r.Bounds.MinMemory)), units.BytesSize(float64(r.Bounds.MaxMemory)))
	_, _ = fmt.Fprintf(w, "Guest CPUs:\t%d\n", r.Guest.CPUs)
	_, _ = fmt.Fprintf(w, "Guest memory:\t%s\n", units.BytesSize(float64(r.Guest.MemorySize)))
	_, _ = fmt.Fprintf(w, "Guest display:\t%s\n", formatDisplay(r.Guest.Display))

	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush output: %w", err)
	}
	return buf.String(), nil
}

func formatDisplay(d hypervisor.DisplayConfiguration) string {
	return fmt.Sprintf("%dx%d @ %d ppi", d.WidthInPixels, d.HeightInPixels, d.PixelsPerInch)
}
