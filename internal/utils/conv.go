package utils

import (
	"strconv"
)

// ParseID parses a positive numeric path parameter; ok is false otherwise.
func ParseID(s string) (uint, bool) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
