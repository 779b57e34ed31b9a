package vm

import "fmt"

// SecondaryPolicy decides what happens when a secondary disk image exists
// but cannot be attached.
type SecondaryPolicy int

const (
	// SecondaryStrict aborts the assembly. A present file means the user
	// intends to use it.
	SecondaryStrict SecondaryPolicy = iota

	// SecondaryLenient logs a warning and assembles without the disk.
	SecondaryLenient
)

func (p SecondaryPolicy) String() string {
	switch p {
	case SecondaryStrict:
		return "strict"
	case SecondaryLenient:
		return "lenient"
	default:
		return "unknown"
	}
}

// ParseSecondaryPolicy parses "strict" or "lenient". Empty means strict.
func ParseSecondaryPolicy(s string) (SecondaryPolicy, error) {
	switch s {
	case "", "strict":
		return SecondaryStrict, nil
	case "lenient":
		return SecondaryLenient, nil
	default:
		return SecondaryStrict, fmt.Errorf("secondary disk policy must be 'strict' or 'lenient', got %q", s)
	}
}
