package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/javanstorm/vmsetup/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Print the configuration after merging defaults, the config file and
VMSETUP_* environment variables.

Use 'vmsetup config init' to write a config file with the defaults.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configInitForce bool

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "Overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if used := config.ConfigFileUsed(); used != "" {
		fmt.Fprintf(out, "# %s\n", used)
	} else {
		fmt.Fprintln(out, "# no config file, using defaults")
	}

	data, err := yaml.Marshal(config.Global)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	_, err = out.Write(data)
	return err
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	paths, err := config.GetPaths()
	if err != nil {
		return fmt.Errorf("get paths: %w", err)
	}
	if err := writeDefaultConfig(paths, configInitForce); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", paths.ConfigFile)
	return nil
}

// writeDefaultConfig writes the default configuration to paths.ConfigFile.
// Disk paths are left empty so they follow vm_name and data_dir.
func writeDefaultConfig(paths *config.Paths, force bool) error {
	if _, err := os.Stat(paths.ConfigFile); err == nil && !force {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", paths.ConfigFile)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	defaults := config.DefaultConfig()
	defaults.DataDir = paths.DataDir

	data, err := yaml.Marshal(defaults)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(paths.ConfigFile, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
