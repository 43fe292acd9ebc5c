//go:build windows

package validation

import "os"

// checkAccess reports whether the current process can list and write dir.
func checkAccess(dir string) error {
	if _, err := os.ReadDir(dir); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".syncguard-access-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
