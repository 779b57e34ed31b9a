package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/javanstorm/vmsetup/internal/config"
	"github.com/javanstorm/vmsetup/internal/display"
	"github.com/javanstorm/vmsetup/internal/host"
	"github.com/javanstorm/vmsetup/internal/output"
	"github.com/javanstorm/vmsetup/internal/sizing"
	"github.com/javanstorm/vmsetup/pkg/hypervisor"
)

var hostCmd = &cobra.Command{
	Use:   "host",
	Short: "Show host capabilities and the guest sizing they give",
	Long: `Display the host CPU count, memory and main screen, the hypervisor's
platform bounds, and the CPUs, memory and display a guest would be assigned.

No disk images are touched.`,
	Args: cobra.NoArgs,
	RunE: runHost,
}

var hostOutput string

func init() {
	hostCmd.Flags().StringVarP(&hostOutput, "output", "o", string(output.FormatText), "Output format (text, yaml, json)")
}

func runHost(cmd *cobra.Command, args []string) error {
	formatter, err := output.NewFormatter(output.Format(hostOutput))
	if err != nil {
		return err
	}

	caps, err := host.Probe(cmd.Context())
	if err != nil {
		return fmt.Errorf("probe host: %w", err)
	}

	fallback, err := config.Global.Bounds.Hypervisor()
	if err != nil {
		return err
	}

	report := hostReport(caps, hypervisor.PlatformBounds(fallback))
	rendered, err := formatter.FormatHost(report)
	if err != nil {
		return err
	}
	_, err = io.WriteString(cmd.OutOrStdout(), rendered)
	return err
}

// hostReport applies the sizing policy and display resolution to caps.
func hostReport(caps host.Capabilities, bounds hypervisor.BoundsProvider) *output.HostReport {
	b := bounds.Bounds()
	return output.NewHostReport(caps, b, output.GuestSizing{
		CPUs:       sizing.CPUCount(caps.CPUs, b),
		MemorySize: sizing.MemorySize(caps.MemoryBytes, b),
		Display:    display.Resolve(caps.Screen),
	})
}
