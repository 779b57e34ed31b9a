//go:build darwin

package cli

import "github.com/javanstorm/vmsetup/pkg/hypervisor"

// checkConfiguration builds the Virtualization.framework objects for cfg.
func checkConfiguration(cfg *hypervisor.Configuration) error {
	if _, err := hypervisor.NewVZConfiguration(cfg); err != nil {
		return err
	}
	log.Debug("Configuration accepted by Virtualization.framework")
	return nil
}
