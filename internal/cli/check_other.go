//go:build !darwin

package cli

import (
	"fmt"
	"runtime"

	"github.com/javanstorm/vmsetup/pkg/hypervisor"
)

func checkConfiguration(cfg *hypervisor.Configuration) error {
	return fmt.Errorf("%w: %s", hypervisor.ErrUnsupportedPlatform, runtime.GOOS)
}
