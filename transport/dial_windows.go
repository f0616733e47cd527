//go:build windows

package transport

import (
	"context"
	"fmt"

	"github.com/Microsoft/go-winio"
)

// dialNamedPipe connects to a Windows named pipe, the npipe:// address
// family's only backend.
func dialNamedPipe(name string) (Transport, error) {
	pipePath := `\\.\pipe\` + name
	conn, err := winio.DialPipeContext(context.Background(), pipePath)
	if err != nil {
		return nil, fmt.Errorf("transport: dial named pipe %s: %w", pipePath, err)
	}
	return newConnTransport(conn), nil
}
