package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/spf13/viper"

	"github.com/javanstorm/vmsetup/pkg/hypervisor"
)

// Config holds all vmsetup configuration.
type Config struct {
	// VMName names the VM directory under DataDir.
	VMName string `mapstructure:"vm_name" yaml:"vm_name" json:"vm_name"`

	// DataDir is the root of all VM directories.
	DataDir string `mapstructure:"data_dir" yaml:"data_dir" json:"data_dir"`

	// DiskPath is the primary disk image. Empty means <data_dir>/<vm_name>/Disk.img.
	DiskPath string `mapstructure:"disk_path" yaml:"disk_path" json:"disk_path"`

	// ExtraDiskPath is the optional secondary disk image.
	// Empty means <data_dir>/<vm_name>/Extra.img.
	ExtraDiskPath string `mapstructure:"extra_disk_path" yaml:"extra_disk_path" json:"extra_disk_path"`

	// SecondaryDiskPolicy is "strict" or "lenient".
	SecondaryDiskPolicy string `mapstructure:"secondary_disk_policy" yaml:"secondary_disk_policy" json:"secondary_disk_policy"`

	// MACAddress is an optional custom MAC address (empty = auto-generate).
	MACAddress string `mapstructure:"mac_address" yaml:"mac_address" json:"mac_address"`

	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`

	// LockTimeout bounds how long assemble waits for another run on the same VM.
	LockTimeout time.Duration `mapstructure:"lock_timeout" yaml:"lock_timeout" json:"lock_timeout"`

	// Bounds are used on platforms without hypervisor-reported limits.
	Bounds BoundsConfig `mapstructure:"bounds" yaml:"bounds" json:"bounds"`
}

// BoundsConfig holds platform bounds with memory in human-readable sizes
// such as "128MiB" or "1TiB".
type BoundsConfig struct {
	MinCPUs   uint   `mapstructure:"min_cpus" yaml:"min_cpus" json:"min_cpus"`
	MaxCPUs   uint   `mapstructure:"max_cpus" yaml:"max_cpus" json:"max_cpus"`
	MinMemory string `mapstructure:"min_memory" yaml:"min_memory" json:"min_memory"`
	MaxMemory string `mapstructure:"max_memory" yaml:"max_memory" json:"max_memory"`
}

// Hypervisor parses the configured bounds.
func (b BoundsConfig) Hypervisor() (hypervisor.Bounds, error) {
	minMem, err := units.RAMInBytes(b.MinMemory)
	if err != nil {
		return hypervisor.Bounds{}, fmt.Errorf("parse bounds.min_memory: %w", err)
	}
	maxMem, err := units.RAMInBytes(b.MaxMemory)
	if err != nil {
		return hypervisor.Bounds{}, fmt.Errorf("parse bounds.max_memory: %w", err)
	}
	if minMem < 0 || maxMem < 0 {
		return hypervisor.Bounds{}, fmt.Errorf("memory bounds must not be negative")
	}
	return hypervisor.Bounds{
		MinCPUs:   b.MinCPUs,
		MaxCPUs:   b.MaxCPUs,
		MinMemory: uint64(minMem),
		MaxMemory: uint64(maxMem),
	}, nil
}

// VMDir returns the directory holding the VM's disk images.
func (c *Config) VMDir() string {
	return filepath.Join(c.DataDir, c.VMName)
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	paths, err := GetPaths()
	if err != nil {
		// Fallback if we can't determine home directory
		paths = &Paths{
			DataDir: "/tmp/vmsetup",
		}
	}

	return &Config{
		VMName:              "default",
		DataDir:             paths.DataDir,
		SecondaryDiskPolicy: "strict",
		LogLevel:            "info",
		LockTimeout:         30 * time.Second,
		Bounds: BoundsConfig{
			MinCPUs:   hypervisor.DefaultBounds.MinCPUs,
			MaxCPUs:   hypervisor.DefaultBounds.MaxCPUs,
			MinMemory: "128MiB",
			MaxMemory: "1TiB",
		},
	}
}

// Global holds the loaded configuration.
var Global *Config

// Load reads configuration from file, environment, and defaults into Global.
func Load() error {
	paths, err := GetPaths()
	if err != nil {
		return fmt.Errorf("failed to determine paths: %w", err)
	}

	cfg, err := LoadFrom(viper.GetViper(), paths)
	if err != nil {
		return err
	}
	Global = cfg
	return nil
}

// LoadFrom reads configuration through v, looking for config.yaml in the
// data and config directories of paths.
func LoadFrom(v *viper.Viper, paths *Paths) (*Config, error) {
	defaults := DefaultConfig()
	v.SetDefault("vm_name", defaults.VMName)
	v.SetDefault("data_dir", paths.DataDir)
	v.SetDefault("disk_path", "")
	v.SetDefault("extra_disk_path", "")
	v.SetDefault("secondary_disk_policy", defaults.SecondaryDiskPolicy)
	v.SetDefault("mac_address", "")
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("lock_timeout", defaults.LockTimeout)
	v.SetDefault("bounds.min_cpus", defaults.Bounds.MinCPUs)
	v.SetDefault("bounds.max_cpus", defaults.Bounds.MaxCPUs)
	v.SetDefault("bounds.min_memory", defaults.Bounds.MinMemory)
	v.SetDefault("bounds.max_memory", defaults.Bounds.MaxMemory)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(paths.DataDir)
	v.AddConfigPath(paths.ConfigDir)

	// Environment variable support: VMSETUP_VM_NAME, VMSETUP_BOUNDS_MAX_CPUS, etc.
	v.SetEnvPrefix("VMSETUP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (optional - not an error if missing)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.DiskPath == "" {
		cfg.DiskPath = filepath.Join(cfg.VMDir(), "Disk.img")
	}
	if cfg.ExtraDiskPath == "" {
		cfg.ExtraDiskPath = filepath.Join(cfg.VMDir(), "Extra.img")
	}

	return cfg, nil
}

// ConfigFileUsed returns the path of the config file being used, if any.
func ConfigFileUsed() string {
	return viper.ConfigFileUsed()
}
