// Package config provides configuration management for vmsetup.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Paths holds platform-specific directory paths for vmsetup.
//
// Each VM owns one directory under DataDir, named after vm_name:
//
//	~/.vmsetup/
//	  config.yaml
//	  <vm_name>/
//	    Disk.img        primary image, created on first assembly
//	    Disk.img.lock   held while an assembly runs
//	    Extra.img       optional secondary image, never created
type Paths struct {
	// ConfigDir is the directory for configuration files.
	// macOS: ~/Library/Application Support/vmsetup
	// Linux: ~/.config/vmsetup (or XDG_CONFIG_HOME)
	ConfigDir string

	// DataDir is the default data_dir.
	// All platforms: ~/.vmsetup
	DataDir string

	// ConfigFile is where 'config init' writes. Load also searches ConfigDir.
	ConfigFile string
}

// GetPaths returns platform-aware paths for vmsetup.
func GetPaths() (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	p := &Paths{
		DataDir: filepath.Join(home, ".vmsetup"),
	}

	switch runtime.GOOS {
	case "darwin":
		p.ConfigDir = filepath.Join(home, "Library", "Application Support", "vmsetup")
	default:
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			p.ConfigDir = filepath.Join(xdgConfig, "vmsetup")
		} else {
			p.ConfigDir = filepath.Join(home, ".config", "vmsetup")
		}
	}

	p.ConfigFile = filepath.Join(p.DataDir, "config.yaml")

	return p, nil
}

// EnsureDirectories creates the config and data directories if they don't exist.
func (p *Paths) EnsureDirectories() error {
	if err := os.MkdirAll(p.ConfigDir, 0755); err != nil {
		return err
	}
	return os.MkdirAll(p.DataDir, 0755)
}
