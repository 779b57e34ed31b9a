//go:build darwin

package host

import (
	"sync"

	"github.com/ebitengine/purego"
	"github.com/ebitengine/purego/objc"
)

// Cocoa geometry mirrors.
type nsSize struct {
	W float64
	H float64
}

type nsEdgeInsets struct {
	Top    float64
	Left   float64
	Bottom float64
	Right  float64
}

var (
	loadOnce sync.Once
	loadErr  error

	selAlloc                objc.SEL
	selInit                 objc.SEL
	selRelease              objc.SEL
	selMainScreen           objc.SEL
	selBackingScaleFactor   objc.SEL
	selDeviceDescription    objc.SEL
	selObjectForKey         objc.SEL
	selSizeValue            objc.SEL
	selSafeAreaInsets       objc.SEL
	selRespondsToSelector   objc.SEL
	selStringWithUTF8String objc.SEL
)

func loadAppKit() error {
	loadOnce.Do(func() {
		if _, err := purego.Dlopen("/usr/lib/libobjc.A.dylib", purego.RTLD_GLOBAL); err != nil {
			loadErr = err
			return
		}
		if _, err := purego.Dlopen("/System/Library/Frameworks/AppKit.framework/AppKit", purego.RTLD_GLOBAL); err != nil {
			loadErr = err
			return
		}

		selAlloc = objc.RegisterName("alloc")
		selInit = objc.RegisterName("init")
		selRelease = objc.RegisterName("release")
		selMainScreen = objc.RegisterName("mainScreen")
		selBackingScaleFactor = objc.RegisterName("backingScaleFactor")
		selDeviceDescription = objc.RegisterName("deviceDescription")
		selObjectForKey = objc.RegisterName("objectForKey:")
		selSizeValue = objc.RegisterName("sizeValue")
		selSafeAreaInsets = objc.RegisterName("safeAreaInsets")
		selRespondsToSelector = objc.RegisterName("respondsToSelector:")
		selStringWithUTF8String = objc.RegisterName("stringWithUTF8String:")
	})
	return loadErr
}

// MainScreen queries NSScreen.mainScreen. It returns NoScreen when AppKit
// cannot be loaded or no screen is attached.
func MainScreen() Screen {
	if err := loadAppKit(); err != nil {
		return NoScreen{}
	}

	// May run before any NSApplication exists, so keep a local pool.
	pool := objc.ID(objc.GetClass("NSAutoreleasePool")).Send(selAlloc)
	pool = pool.Send(selInit)
	if pool != 0 {
		defer pool.Send(selRelease)
	}

	screenClass := objc.GetClass("NSScreen")
	if screenClass == 0 {
		return NoScreen{}
	}
	main := objc.ID(screenClass).Send(selMainScreen)
	if main == 0 {
		return NoScreen{}
	}

	m := ScreenMetrics{
		BackingScaleFactor: objc.Send[float64](main, selBackingScaleFactor),
	}

	desc := main.Send(selDeviceDescription)
	if desc != 0 {
		m.Resolution = deviceSize(desc, "NSDeviceResolution")
		m.Size = deviceSize(desc, "NSDeviceSize")
	}

	// safeAreaInsets exists from macOS 12.
	if objc.Send[bool](main, selRespondsToSelector, selSafeAreaInsets) {
		insets := objc.Send[nsEdgeInsets](main, selSafeAreaInsets)
		m.SafeAreaTop = insets.Top
	}

	return m
}

// deviceSize reads an NSValue-wrapped NSSize from a screen's device
// description. A missing key yields a zero Size.
func deviceSize(desc objc.ID, key string) Size {
	v := desc.Send(selObjectForKey, nsString(key))
	if v == 0 {
		return Size{}
	}
	sz := objc.Send[nsSize](v, selSizeValue)
	return Size{Width: sz.W, Height: sz.H}
}

func nsString(v string) objc.ID {
	return objc.ID(objc.GetClass("NSString")).Send(selStringWithUTF8String, v+"\x00")
}
