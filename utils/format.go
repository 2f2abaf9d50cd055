package utils

import "fmt"

// Format renders a possibly-nil pointer for display, empty string when nil.
func Format[T any](ptr *T) string {
	if ptr == nil {
		return ""
	}
	return fmt.Sprint(*ptr)
}

func FormatBoolean(value bool, yes string, no string) string {
	if value {
		return yes
	}
	return no
}
