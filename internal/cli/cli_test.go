package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/juju/fslock"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/javanstorm/vmsetup/internal/config"
	"github.com/javanstorm/vmsetup/internal/host"
	"github.com/javanstorm/vmsetup/internal/output"
	"github.com/javanstorm/vmsetup/internal/testutil"
	"github.com/javanstorm/vmsetup/pkg/hypervisor"
)

// testConfig returns a configuration rooted in a temporary data directory.
func testConfig(t *testing.T) *config.Config {
	t.Helper()

	if _, err := host.Probe(context.Background()); err != nil {
		t.Skipf("host probe unavailable: %v", err)
	}

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.DataDir = dir
	cfg.DiskPath = filepath.Join(dir, "default", "Disk.img")
	cfg.ExtraDiskPath = filepath.Join(dir, "default", "Extra.img")
	cfg.LockTimeout = 0
	return cfg
}

type assembledJSON struct {
	VMName        string `json:"vm_name"`
	Configuration struct {
		CPUs    uint `json:"cpus"`
		Storage []struct {
			Path string `json:"path"`
			Size int64  `json:"size"`
		} `json:"storage"`
	} `json:"configuration"`
}

func TestAssembleVM(t *testing.T) {
	cfg := testConfig(t)

	var out, errOut bytes.Buffer
	err := assembleVM(context.Background(), cfg, assembleOptions{Format: output.FormatJSON}, &out, &errOut)
	if err != nil {
		t.Fatalf("assembleVM failed: %v", err)
	}

	var got assembledJSON
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out.String())
	}
	if got.VMName != "default" {
		t.Errorf("vm_name = %q", got.VMName)
	}
	if got.Configuration.CPUs == 0 {
		t.Error("guest should have at least one CPU")
	}
	if len(got.Configuration.Storage) != 1 || got.Configuration.Storage[0].Path != cfg.DiskPath {
		t.Errorf("storage = %+v", got.Configuration.Storage)
	}
	if size := testutil.FileSize(t, cfg.DiskPath); size != 64<<30 {
		t.Errorf("primary disk size = %d", size)
	}
	if errOut.Len() != 0 {
		t.Errorf("unexpected stderr output without --timing:\n%s", errOut.String())
	}
}

func TestAssembleVMDiskOverrides(t *testing.T) {
	cfg := testConfig(t)
	dir := t.TempDir()
	primary := filepath.Join(dir, "Other.img")
	secondary := filepath.Join(dir, "Data.img")
	testutil.CreateTestDisk(t, secondary, 1<<20)

	var out bytes.Buffer
	opts := assembleOptions{
		DiskPath:      primary,
		ExtraDiskPath: secondary,
		Format:        output.FormatJSON,
	}
	if err := assembleVM(context.Background(), cfg, opts, &out, &bytes.Buffer{}); err != nil {
		t.Fatalf("assembleVM failed: %v", err)
	}

	var got assembledJSON
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	storage := got.Configuration.Storage
	if len(storage) != 2 || storage[0].Path != primary || storage[1].Path != secondary {
		t.Errorf("storage = %+v", storage)
	}
	if _, err := os.Stat(cfg.DiskPath); !os.IsNotExist(err) {
		t.Error("configured disk should not be created when overridden")
	}
}

func TestAssembleVMLocked(t *testing.T) {
	cfg := testConfig(t)
	if err := os.MkdirAll(filepath.Dir(cfg.DiskPath), 0755); err != nil {
		t.Fatal(err)
	}

	held := fslock.New(lockPath(cfg.DiskPath))
	if err := held.TryLock(); err != nil {
		t.Fatalf("TryLock: %v", err)
	}
	defer held.Unlock()

	err := assembleVM(context.Background(), cfg, assembleOptions{Format: output.FormatText}, &bytes.Buffer{}, &bytes.Buffer{})
	if !errors.Is(err, ErrVMBusy) {
		t.Fatalf("error = %v, want ErrVMBusy", err)
	}
	if _, err := os.Stat(cfg.DiskPath); !os.IsNotExist(err) {
		t.Error("disk should not be created while another process holds the lock")
	}
}

func TestAssembleVMReleasesLock(t *testing.T) {
	cfg := testConfig(t)

	for i := 0; i < 2; i++ {
		if err := assembleVM(context.Background(), cfg, assembleOptions{Format: output.FormatText}, &bytes.Buffer{}, &bytes.Buffer{}); err != nil {
			t.Fatalf("run %d failed: %v", i, err)
		}
	}
}

func TestAssembleVMInvalidFormat(t *testing.T) {
	cfg := testConfig(t)

	err := assembleVM(context.Background(), cfg, assembleOptions{Format: "xml"}, &bytes.Buffer{}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "unsupported output format") {
		t.Fatalf("error = %v", err)
	}
	if _, err := os.Stat(cfg.DiskPath); !os.IsNotExist(err) {
		t.Error("disk should not be created for an invalid format")
	}
}

func TestAssembleVMTiming(t *testing.T) {
	cfg := testConfig(t)

	var errOut bytes.Buffer
	opts := assembleOptions{Format: output.FormatText, Timing: true}
	if err := assembleVM(context.Background(), cfg, opts, &bytes.Buffer{}, &errOut); err != nil {
		t.Fatalf("assembleVM failed: %v", err)
	}
	for _, want := range []string{"Assembly Timing", "host_probe:", "assemble:", "TOTAL:"} {
		if !strings.Contains(errOut.String(), want) {
			t.Errorf("timing report missing %q:\n%s", want, errOut.String())
		}
	}
}

func TestAssembleVMCheckUnsupported(t *testing.T) {
	if runtime.GOOS == "darwin" {
		t.Skip("Virtualization.framework is available")
	}
	cfg := testConfig(t)

	err := assembleVM(context.Background(), cfg, assembleOptions{Format: output.FormatText, Check: true}, &bytes.Buffer{}, &bytes.Buffer{})
	if !errors.Is(err, hypervisor.ErrUnsupportedPlatform) {
		t.Fatalf("error = %v, want ErrUnsupportedPlatform", err)
	}
}

func TestNewAssemblerRejectsBadPolicy(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SecondaryDiskPolicy = "sometimes"

	logger, _ := testutil.Logger(t)
	if _, err := newAssembler(cfg, logger); err == nil {
		t.Error("expected error for unknown secondary disk policy")
	}
}

func TestHostReport(t *testing.T) {
	caps := host.Capabilities{CPUs: 8, MemoryBytes: 16 * testutil.GiB, Screen: host.NoScreen{}}

	r := hostReport(caps, testutil.Bounds())
	if r.Guest.CPUs != 4 {
		t.Errorf("guest CPUs = %d, want 4", r.Guest.CPUs)
	}
	if r.Guest.MemorySize != 8*testutil.GiB {
		t.Errorf("guest memory = %d, want %d", r.Guest.MemorySize, 8*testutil.GiB)
	}
	if r.Guest.Display != hypervisor.FallbackDisplay {
		t.Errorf("guest display = %+v", r.Guest.Display)
	}
	if r.Screen != nil {
		t.Error("screen should be omitted without a screen")
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	paths := &config.Paths{
		DataDir:    filepath.Join(dir, "data"),
		ConfigDir:  filepath.Join(dir, "config"),
		ConfigFile: filepath.Join(dir, "data", "config.yaml"),
	}

	if err := writeDefaultConfig(paths, false); err != nil {
		t.Fatalf("writeDefaultConfig failed: %v", err)
	}
	if err := writeDefaultConfig(paths, false); err == nil {
		t.Error("second write without force should fail")
	}
	if err := writeDefaultConfig(paths, true); err != nil {
		t.Errorf("forced write failed: %v", err)
	}

	cfg, err := config.LoadFrom(viper.New(), paths)
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if cfg.DiskPath != filepath.Join(paths.DataDir, "default", "Disk.img") {
		t.Errorf("DiskPath = %q", cfg.DiskPath)
	}
	if cfg.LockTimeout != config.DefaultConfig().LockTimeout {
		t.Errorf("LockTimeout = %v", cfg.LockTimeout)
	}
	if errs := config.Validate(cfg); config.HasFatal(errs) {
		t.Errorf("written config is invalid:\n%s", config.FormatValidationErrors(errs))
	}
}

func TestConfigureLogger(t *testing.T) {
	l := logrus.New()
	var buf bytes.Buffer

	if err := configureLogger(l, "debug", &buf); err != nil {
		t.Fatalf("configureLogger failed: %v", err)
	}
	if l.GetLevel() != logrus.DebugLevel {
		t.Errorf("level = %v, want debug", l.GetLevel())
	}
	l.Debug("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("log output missing message: %q", buf.String())
	}

	if err := configureLogger(l, "chatty", &buf); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	defer versionCmd.SetOut(nil)

	versionCmd.Run(versionCmd, nil)
	if !strings.HasPrefix(buf.String(), "vmsetup ") {
		t.Errorf("unexpected version output: %q", buf.String())
	}
}
