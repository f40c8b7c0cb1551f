package utils

import (
	"strconv"
)

// StringToInt converts string to int, returns fallback on error.
func StringToInt(s string, fallback int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return i
}

// StringToUint converts string to uint, returns 0 and false on error.
func StringToUint(s string) (uint, bool) {
	i, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(i), true
}
