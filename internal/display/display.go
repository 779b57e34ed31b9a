// Package display derives the guest display geometry from the host screen.
package display

import (
	"math"

	"github.com/javanstorm/vmsetup/internal/host"
	"github.com/javanstorm/vmsetup/pkg/hypervisor"
)

// Resolve returns a display matching the host screen in native pixels, minus
// the area hidden behind host chrome at the top. Screens that do not report
// their size or resolution, or whose metrics yield an empty display, get
// hypervisor.FallbackDisplay.
func Resolve(screen host.Screen) hypervisor.DisplayConfiguration {
	switch s := screen.(type) {
	case host.ScreenMetrics:
		if s.Size.IsZero() || s.Resolution.IsZero() {
			return hypervisor.FallbackDisplay
		}
		pointHeight := s.Size.Height - s.SafeAreaTop
		d := hypervisor.DisplayConfiguration{
			WidthInPixels:  int64(math.Round(s.Size.Width * s.BackingScaleFactor)),
			HeightInPixels: int64(math.Round(pointHeight * s.BackingScaleFactor)),
			PixelsPerInch:  int64(math.Round(s.Resolution.Width)),
		}
		if d.WidthInPixels <= 0 || d.HeightInPixels <= 0 || d.PixelsPerInch <= 0 {
			return hypervisor.FallbackDisplay
		}
		return d
	default:
		return hypervisor.FallbackDisplay
	}
}
