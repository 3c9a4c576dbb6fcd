//go:build !windows

package util

// IsRunFromGUI is always false off Windows; there the binary is started from
// a terminal or a service manager.
func IsRunFromGUI() bool {
	return false
}
