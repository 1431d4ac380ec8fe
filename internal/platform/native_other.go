//go:build !windows && !linux

package platform

// Open reports that this platform has no window-system backend.
func Open(Options) (Native, error) {
	return nil, ErrUnsupported
}
