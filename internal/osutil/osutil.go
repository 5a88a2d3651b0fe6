// Package osutil holds operating system constants shared across packages.
package osutil

const Windows = "windows"

type exitCode int

const ExitError exitCode = 1

const (
	DirPermission  = 0o755
	FilePermission = 0o644
)

// Code returns the numeric process exit status.
func (c exitCode) Code() int {
	return int(c)
}
