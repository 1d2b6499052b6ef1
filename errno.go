//go:build linux

package uringio

import "golang.org/x/sys/unix"

// errnoError wraps a positive errno magnitude (as carried, negated, in a
// CQE's Res field) as a standard Go error.
func errnoError(magnitude int32) error {
	return unix.Errno(magnitude)
}
