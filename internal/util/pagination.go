package util

import "strconv"

const MaxLimit = 100

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// Limit clamps n to (0, MaxLimit]. Zero or negative input means no limit and
// is returned as 0.
func Limit(n int) int {
	switch {
	case n <= 0:
		return 0
	case n > MaxLimit:
		return MaxLimit
	default:
		return n
	}
}
