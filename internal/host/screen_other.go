//go:build !darwin

package host

// MainScreen always returns NoScreen; only macOS reports screen metrics.
func MainScreen() Screen {
	return NoScreen{}
}
