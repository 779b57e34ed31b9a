// Package cli provides the command-line interface for vmsetup.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/javanstorm/vmsetup/internal/config"
	"github.com/javanstorm/vmsetup/internal/version"
)

// log is configured from log_level before any command runs.
var log = logrus.New()

var rootCmd = &cobra.Command{
	Use:   "vmsetup",
	Short: "vmsetup - assemble macOS guest VM configurations",
	Long: `vmsetup sizes a macOS guest from the host it runs on, provisions its
disk images, and assembles the complete device configuration handed to the
hypervisor engine.

Nothing is booted. Run 'vmsetup assemble' to build the configuration for the
configured VM, or 'vmsetup host' to see what the host would give a guest.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for commands that don't need it
		switch cmd.Name() {
		case "version", "completion", "init":
			return nil
		}
		if err := config.Load(); err != nil {
			return err
		}

		errs := config.Validate(config.Global)
		if len(errs) > 0 {
			fmt.Fprint(cmd.ErrOrStderr(), config.FormatValidationErrors(errs))
		}
		if config.HasFatal(errs) {
			return fmt.Errorf("invalid configuration")
		}

		if err := configureLogger(log, config.Global.LogLevel, cmd.ErrOrStderr()); err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"version": version.UserAgent(),
			"config":  config.ConfigFileUsed(),
		}).Debug("Loaded configuration")
		return nil
	},
}

// configureLogger sets the level and destination of l.
func configureLogger(l *logrus.Logger, level string, w io.Writer) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	l.SetLevel(lvl)
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return nil
}

// Execute runs the root command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return fmt.Errorf("command failed: %w", err)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(assembleCmd)
	rootCmd.AddCommand(hostCmd)
	rootCmd.AddCommand(configCmd)
}
