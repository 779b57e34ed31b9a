package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/javanstorm/vmsetup/internal/vm"
	"github.com/javanstorm/vmsetup/pkg/hypervisor"
)

// ValidationError represents a configuration issue.
type ValidationError struct {
	Field   string
	Message string
	Fatal   bool // true = can't proceed, false = will be ignored
}

// Validate checks the configuration before it is used for assembly.
// Returns a list of validation errors/warnings.
func Validate(cfg *Config) []ValidationError {
	var errors []ValidationError

	if cfg.VMName == "" || strings.ContainsAny(cfg.VMName, `/\`) || cfg.VMName == "." || cfg.VMName == ".." {
		errors = append(errors, ValidationError{
			Field:   "vm_name",
			Message: fmt.Sprintf("%q is not a valid VM directory name", cfg.VMName),
			Fatal:   true,
		})
	}

	if cfg.DiskPath != "" && cfg.DiskPath == cfg.ExtraDiskPath {
		errors = append(errors, ValidationError{
			Field:   "extra_disk_path",
			Message: "secondary disk image cannot be the primary disk image",
			Fatal:   true,
		})
	}

	if _, err := vm.ParseSecondaryPolicy(cfg.SecondaryDiskPolicy); err != nil {
		errors = append(errors, ValidationError{
			Field:   "secondary_disk_policy",
			Message: err.Error(),
			Fatal:   true,
		})
	}

	if cfg.MACAddress != "" {
		if _, err := net.ParseMAC(cfg.MACAddress); err != nil {
			errors = append(errors, ValidationError{
				Field:   "mac_address",
				Message: err.Error(),
				Fatal:   true,
			})
		}
	}

	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		errors = append(errors, ValidationError{
			Field:   "log_level",
			Message: err.Error(),
			Fatal:   true,
		})
	}

	if cfg.LockTimeout < 0 {
		errors = append(errors, ValidationError{
			Field:   "lock_timeout",
			Message: "must not be negative",
			Fatal:   true,
		})
	}

	b, err := cfg.Bounds.Hypervisor()
	if err != nil {
		errors = append(errors, ValidationError{
			Field:   "bounds",
			Message: err.Error(),
			Fatal:   true,
		})
	} else if err := b.Validate(); err != nil {
		errors = append(errors, ValidationError{
			Field:   "bounds",
			Message: err.Error(),
			Fatal:   true,
		})
	} else if b.MinCPUs == 0 {
		errors = append(errors, ValidationError{
			Field:   "bounds.min_cpus",
			Message: "0 allows no CPUs; guests still get at least one",
			Fatal:   false,
		})
	}

	if hypervisor.SupportedPlatform() && cfg.Bounds != DefaultConfig().Bounds {
		errors = append(errors, ValidationError{
			Field:   "bounds",
			Message: "ignored on this platform; the hypervisor reports its own limits",
			Fatal:   false,
		})
	}

	return errors
}

// HasFatal reports whether any of errors prevents assembly.
func HasFatal(errors []ValidationError) bool {
	for _, e := range errors {
		if e.Fatal {
			return true
		}
	}
	return false
}

// FormatValidationErrors returns human-readable error summary.
func FormatValidationErrors(errors []ValidationError) string {
	if len(errors) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Configuration warnings:\n")
	for _, e := range errors {
		prefix := "Warning"
		if e.Fatal {
			prefix = "Error"
		}
		fmt.Fprintf(&b, "  %s [%s]: %s\n", prefix, e.Field, e.Message)
	}
	return b.String()
}
