package common

import "strings"

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// NoneName is the placeholder the OVO exporter writes for an absent reference.
const NoneName = "[none]"

// OptionalName returns name with the "[none]" placeholder and surrounding whitespace mapped to "".
func OptionalName(name string) string {
	name = strings.TrimSpace(name)
	if name == NoneName {
		return ""
	}
	return name
}
