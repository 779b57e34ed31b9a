package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/javanstorm/vmsetup/pkg/hypervisor"
)

func testPaths(t *testing.T) *Paths {
	t.Helper()
	dir := t.TempDir()
	return &Paths{
		DataDir:    filepath.Join(dir, "data"),
		ConfigDir:  filepath.Join(dir, "config"),
		ConfigFile: filepath.Join(dir, "data", "config.yaml"),
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig should not return nil")
	}
	if cfg.VMName != "default" {
		t.Errorf("VMName should be 'default', got %q", cfg.VMName)
	}
	if cfg.SecondaryDiskPolicy != "strict" {
		t.Errorf("SecondaryDiskPolicy should be 'strict', got %q", cfg.SecondaryDiskPolicy)
	}
	if cfg.LockTimeout != 30*time.Second {
		t.Errorf("LockTimeout should be 30s, got %v", cfg.LockTimeout)
	}

	b, err := cfg.Bounds.Hypervisor()
	if err != nil {
		t.Fatalf("default bounds should parse: %v", err)
	}
	if b != hypervisor.DefaultBounds {
		t.Errorf("default bounds = %+v, want %+v", b, hypervisor.DefaultBounds)
	}
}

func TestLoadFromDefaults(t *testing.T) {
	paths := testPaths(t)

	cfg, err := LoadFrom(viper.New(), paths)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.DataDir != paths.DataDir {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, paths.DataDir)
	}
	wantDisk := filepath.Join(paths.DataDir, "default", "Disk.img")
	if cfg.DiskPath != wantDisk {
		t.Errorf("DiskPath = %q, want %q", cfg.DiskPath, wantDisk)
	}
	wantExtra := filepath.Join(paths.DataDir, "default", "Extra.img")
	if cfg.ExtraDiskPath != wantExtra {
		t.Errorf("ExtraDiskPath = %q, want %q", cfg.ExtraDiskPath, wantExtra)
	}
	if errs := Validate(cfg); HasFatal(errs) {
		t.Errorf("defaults should validate:\n%s", FormatValidationErrors(errs))
	}
}

func TestLoadFromConfigFile(t *testing.T) {
	paths := testPaths(t)
	if err := os.MkdirAll(paths.DataDir, 0755); err != nil {
		t.Fatal(err)
	}

	content := `vm_name: work
secondary_disk_policy: lenient
mac_address: "aa:bb:cc:dd:ee:ff"
lock_timeout: 5s
bounds:
  max_cpus: 4
  min_memory: 1GiB
  max_memory: 8GiB
`
	if err := os.WriteFile(paths.ConfigFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(viper.New(), paths)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.VMName != "work" {
		t.Errorf("VMName = %q, want work", cfg.VMName)
	}
	if cfg.DiskPath != filepath.Join(paths.DataDir, "work", "Disk.img") {
		t.Errorf("DiskPath = %q", cfg.DiskPath)
	}
	if cfg.SecondaryDiskPolicy != "lenient" {
		t.Errorf("SecondaryDiskPolicy = %q", cfg.SecondaryDiskPolicy)
	}
	if cfg.MACAddress != "aa:bb:cc:dd:ee:ff" {
		t.Errorf("MACAddress = %q", cfg.MACAddress)
	}
	if cfg.LockTimeout != 5*time.Second {
		t.Errorf("LockTimeout = %v", cfg.LockTimeout)
	}

	b, err := cfg.Bounds.Hypervisor()
	if err != nil {
		t.Fatalf("bounds should parse: %v", err)
	}
	want := hypervisor.Bounds{MinCPUs: 1, MaxCPUs: 4, MinMemory: 1 << 30, MaxMemory: 8 << 30}
	if b != want {
		t.Errorf("bounds = %+v, want %+v", b, want)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	paths := testPaths(t)
	t.Setenv("VMSETUP_VM_NAME", "ci")
	t.Setenv("VMSETUP_DISK_PATH", "/images/ci.img")
	t.Setenv("VMSETUP_BOUNDS_MAX_CPUS", "2")

	cfg, err := LoadFrom(viper.New(), paths)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.VMName != "ci" {
		t.Errorf("VMName = %q, want ci", cfg.VMName)
	}
	if cfg.DiskPath != "/images/ci.img" {
		t.Errorf("DiskPath = %q, want /images/ci.img", cfg.DiskPath)
	}
	if cfg.ExtraDiskPath != filepath.Join(paths.DataDir, "ci", "Extra.img") {
		t.Errorf("ExtraDiskPath = %q", cfg.ExtraDiskPath)
	}
	if cfg.Bounds.MaxCPUs != 2 {
		t.Errorf("Bounds.MaxCPUs = %d, want 2", cfg.Bounds.MaxCPUs)
	}
}

func TestLoadFromInvalidFile(t *testing.T) {
	paths := testPaths(t)
	if err := os.MkdirAll(paths.DataDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(paths.ConfigFile, []byte("vm_name: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(viper.New(), paths); err == nil {
		t.Error("LoadFrom should fail on malformed config")
	}
}

func TestBoundsConfigHypervisor(t *testing.T) {
	tests := []struct {
		name    string
		bounds  BoundsConfig
		want    hypervisor.Bounds
		wantErr bool
	}{
		{
			name:   "binary units",
			bounds: BoundsConfig{MinCPUs: 1, MaxCPUs: 8, MinMemory: "512MiB", MaxMemory: "16GiB"},
			want:   hypervisor.Bounds{MinCPUs: 1, MaxCPUs: 8, MinMemory: 512 << 20, MaxMemory: 16 << 30},
		},
		{
			name:   "short units",
			bounds: BoundsConfig{MinCPUs: 2, MaxCPUs: 4, MinMemory: "1g", MaxMemory: "2g"},
			want:   hypervisor.Bounds{MinCPUs: 2, MaxCPUs: 4, MinMemory: 1 << 30, MaxMemory: 2 << 30},
		},
		{
			name:    "bad min",
			bounds:  BoundsConfig{MinMemory: "lots", MaxMemory: "1GiB"},
			wantErr: true,
		},
		{
			name:    "bad max",
			bounds:  BoundsConfig{MinMemory: "1GiB", MaxMemory: ""},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.bounds.Hypervisor()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Hypervisor() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Hypervisor() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantField string
		wantFatal bool
	}{
		{
			name:      "empty vm name",
			modify:    func(c *Config) { c.VMName = "" },
			wantField: "vm_name",
			wantFatal: true,
		},
		{
			name:      "vm name with separator",
			modify:    func(c *Config) { c.VMName = "../escape" },
			wantField: "vm_name",
			wantFatal: true,
		},
		{
			name:      "same primary and secondary",
			modify:    func(c *Config) { c.ExtraDiskPath = c.DiskPath },
			wantField: "extra_disk_path",
			wantFatal: true,
		},
		{
			name:      "unknown policy",
			modify:    func(c *Config) { c.SecondaryDiskPolicy = "ignore" },
			wantField: "secondary_disk_policy",
			wantFatal: true,
		},
		{
			name:      "bad mac",
			modify:    func(c *Config) { c.MACAddress = "not-a-mac" },
			wantField: "mac_address",
			wantFatal: true,
		},
		{
			name:      "bad log level",
			modify:    func(c *Config) { c.LogLevel = "loud" },
			wantField: "log_level",
			wantFatal: true,
		},
		{
			name:      "negative lock timeout",
			modify:    func(c *Config) { c.LockTimeout = -time.Second },
			wantField: "lock_timeout",
			wantFatal: true,
		},
		{
			name:      "inverted cpu bounds",
			modify:    func(c *Config) { c.Bounds.MinCPUs = 8; c.Bounds.MaxCPUs = 2 },
			wantField: "bounds",
			wantFatal: true,
		},
		{
			name:      "unparseable memory",
			modify:    func(c *Config) { c.Bounds.MaxMemory = "huge" },
			wantField: "bounds",
			wantFatal: true,
		},
		{
			name:      "zero min cpus",
			modify:    func(c *Config) { c.Bounds.MinCPUs = 0 },
			wantField: "bounds.min_cpus",
			wantFatal: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.DiskPath = "/vm/Disk.img"
			cfg.ExtraDiskPath = "/vm/Extra.img"
			tt.modify(cfg)

			var found *ValidationError
			for _, e := range Validate(cfg) {
				if e.Field == tt.wantField {
					found = &e
					break
				}
			}
			if found == nil {
				t.Fatalf("expected a %s validation error", tt.wantField)
			}
			if found.Fatal != tt.wantFatal {
				t.Errorf("Fatal = %v, want %v", found.Fatal, tt.wantFatal)
			}
		})
	}
}

func TestValidateValidMAC(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DiskPath = "/vm/Disk.img"
	cfg.ExtraDiskPath = "/vm/Extra.img"
	cfg.MACAddress = "02:00:00:00:00:01"

	for _, e := range Validate(cfg) {
		if e.Field == "mac_address" {
			t.Errorf("valid MAC rejected: %s", e.Message)
		}
	}
}

func TestFormatValidationErrors(t *testing.T) {
	if got := FormatValidationErrors(nil); got != "" {
		t.Errorf("FormatValidationErrors(nil) = %q, want empty", got)
	}

	out := FormatValidationErrors([]ValidationError{
		{Field: "mac_address", Message: "invalid", Fatal: true},
		{Field: "bounds", Message: "ignored", Fatal: false},
	})
	if !strings.Contains(out, "Error [mac_address]: invalid") {
		t.Errorf("missing fatal line in:\n%s", out)
	}
	if !strings.Contains(out, "Warning [bounds]: ignored") {
		t.Errorf("missing warning line in:\n%s", out)
	}
}

func TestHasFatal(t *testing.T) {
	if HasFatal([]ValidationError{{Fatal: false}}) {
		t.Error("warnings alone are not fatal")
	}
	if !HasFatal([]ValidationError{{Fatal: false}, {Fatal: true}}) {
		t.Error("expected fatal")
	}
}

func TestGetPaths(t *testing.T) {
	paths, err := GetPaths()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	if filepath.Base(paths.DataDir) != ".vmsetup" {
		t.Errorf("DataDir = %q, want ~/.vmsetup", paths.DataDir)
	}
	if filepath.Dir(paths.ConfigFile) != paths.DataDir {
		t.Errorf("ConfigFile %q should live in DataDir", paths.ConfigFile)
	}
}

func TestEnsureDirectories(t *testing.T) {
	paths := testPaths(t)
	if err := paths.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{paths.DataDir, paths.ConfigDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("%s should be a directory", dir)
		}
	}
}
