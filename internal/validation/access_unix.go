//go:build !windows

package validation

import "golang.org/x/sys/unix"

// checkAccess reports whether the current process can list, read, and write dir.
func checkAccess(dir string) error {
	return unix.Access(dir, unix.R_OK|unix.W_OK|unix.X_OK)
}
