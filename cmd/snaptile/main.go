// Command snaptile snaps the edge of a window onto the nearest edge of a
// neighbouring window when a move or resize ends.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
