//go:build !windows

package report

import "os"

// Without a native dialog primitive, notifications go to stderr.
func newDialog() Channel {
	return NewConsole(os.Stderr)
}
