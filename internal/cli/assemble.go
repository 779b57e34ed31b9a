package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/javanstorm/vmsetup/internal/config"
	"github.com/javanstorm/vmsetup/internal/disk"
	"github.com/javanstorm/vmsetup/internal/host"
	"github.com/javanstorm/vmsetup/internal/output"
	"github.com/javanstorm/vmsetup/internal/timing"
	"github.com/javanstorm/vmsetup/internal/vm"
	"github.com/javanstorm/vmsetup/pkg/hypervisor"
)

var assembleCmd = &cobra.Command{
	Use:   "assemble",
	Short: "Assemble the VM configuration",
	Long: `Probe the host, provision the VM's disk images and print the assembled
device configuration.

The primary disk image is created as a 64 GiB sparse file if it does not
exist. The secondary disk image is attached only if it already exists.
Concurrent runs for the same VM are serialized with a lock file next to the
primary disk image.`,
	Args: cobra.NoArgs,
	RunE: runAssemble,
}

var (
	assembleDisk      string
	assembleExtraDisk string
	assembleOutput    string
	assembleTiming    bool
	assembleCheck     bool
)

func init() {
	assembleCmd.Flags().StringVar(&assembleDisk, "disk", "", "Primary disk image (default from config)")
	assembleCmd.Flags().StringVar(&assembleExtraDisk, "extra-disk", "", "Secondary disk image (default from config)")
	assembleCmd.Flags().StringVarP(&assembleOutput, "output", "o", string(output.FormatText), "Output format (text, yaml, json)")
	assembleCmd.Flags().BoolVar(&assembleTiming, "timing", false, "Print a timing report to stderr")
	assembleCmd.Flags().BoolVar(&assembleCheck, "check", false, "Translate the configuration into hypervisor objects (macOS only)")
}

// assembleOptions are the per-run settings layered over the configuration.
type assembleOptions struct {
	DiskPath      string
	ExtraDiskPath string
	Format        output.Format
	Timing        bool
	Check         bool
}

func runAssemble(cmd *cobra.Command, args []string) error {
	opts := assembleOptions{
		DiskPath:      assembleDisk,
		ExtraDiskPath: assembleExtraDisk,
		Format:        output.Format(assembleOutput),
		// VMSETUP_TIMING=1 enables the report without the flag.
		Timing: assembleTiming || os.Getenv("VMSETUP_TIMING") == "1",
		Check:  assembleCheck,
	}
	return assembleVM(cmd.Context(), config.Global, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// assembleVM runs one assembly for cfg and writes the rendered result to out.
func assembleVM(ctx context.Context, cfg *config.Config, opts assembleOptions, out, errOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	formatter, err := output.NewFormatter(opts.Format)
	if err != nil {
		return err
	}

	timer := timing.New()

	identity := vm.Identity{
		PrimaryDiskPath:   cfg.DiskPath,
		SecondaryDiskPath: cfg.ExtraDiskPath,
	}
	if opts.DiskPath != "" {
		identity.PrimaryDiskPath = opts.DiskPath
	}
	if opts.ExtraDiskPath != "" {
		identity.SecondaryDiskPath = opts.ExtraDiskPath
	}

	caps, err := host.Probe(ctx)
	if err != nil {
		return fmt.Errorf("probe host: %w", err)
	}
	timer.Mark("host_probe")

	assembler, err := newAssembler(cfg, log)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(identity.PrimaryDiskPath), 0755); err != nil {
		return fmt.Errorf("create VM directory: %w", err)
	}
	lock, err := lockVM(identity.PrimaryDiskPath, cfg.LockTimeout)
	if err != nil {
		return err
	}
	defer unlockVM(lock)
	timer.Mark("lock")

	vmCfg, err := assembler.Assemble(caps, identity)
	if err != nil {
		return err
	}
	timer.Mark("assemble")

	if opts.Check {
		if err := checkConfiguration(vmCfg); err != nil {
			return fmt.Errorf("check configuration: %w", err)
		}
		timer.Mark("check")
	}

	rendered, err := formatter.FormatAssembly(&output.AssemblyReport{
		VMName:        cfg.VMName,
		Platform:      hypervisor.PlatformInfo(),
		Configuration: vmCfg,
	})
	if err != nil {
		return err
	}
	if _, err := io.WriteString(out, rendered); err != nil {
		return err
	}
	timer.Mark("render")

	log.WithFields(timer.Fields()).Debug("Assembly timing")
	if opts.Timing {
		timer.Report(errOut)
	}
	return nil
}

// newAssembler wires an assembler for the current platform from cfg.
func newAssembler(cfg *config.Config, l logrus.FieldLogger) (*vm.Assembler, error) {
	policy, err := vm.ParseSecondaryPolicy(cfg.SecondaryDiskPolicy)
	if err != nil {
		return nil, err
	}

	fallback, err := cfg.Bounds.Hypervisor()
	if err != nil {
		return nil, err
	}

	attacher := disk.FileAttacher
	if hypervisor.SupportedPlatform() {
		attacher = disk.AttacherFunc(hypervisor.AttachDiskImage)
	}

	return vm.NewAssembler(hypervisor.PlatformBounds(fallback),
		vm.WithLogger(l),
		vm.WithSecondaryPolicy(policy),
		vm.WithMACAddress(cfg.MACAddress),
		vm.WithDiskProvisioner(disk.NewProvisioner(
			disk.WithAttacher(attacher),
			disk.WithLogger(l),
		)),
	), nil
}
