//go:build !windows

package transport

import "fmt"

// dialNamedPipe has no non-Windows equivalent; npipe:// addresses are a
// Windows-only address family. Mirrors the teacher's driver_fallback.go:
// a platform with no backend for the requested facility returns an
// explicit error rather than silently degrading.
func dialNamedPipe(name string) (Transport, error) {
	return nil, fmt.Errorf("transport: npipe address %q requires Windows", name)
}
