// Package jgd is a graphics device recorder: it plugs into a host
// statistical-plotting runtime as the current output device, captures
// every drawing primitive the runtime emits, serializes each complete
// plot as a newline-delimited JSON frame, and streams the frame to an
// external renderer over a local transport (§1).
package jgd

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/grantmcdermott/jgd/transport"
)

// HostSocketOption mirrors the host-runtime option named "jgd.socket"
// in §4.A's discovery order: a host integration that reads its own
// option table sets this before calling Open. JGD_SOCKET, when set,
// takes precedence over it; left empty, resolution falls through to the
// discovery file.
var HostSocketOption string

// currentDevice is the device the host runtime currently has open.
// Mirrors the source's single-current-device model (§6): the host
// calls PollResize without a handle, and PollResize must be safe to
// call when no device is open.
var currentDevice *Device

// Open registers a new device with the host graphics engine (§6 "Entry
// point contract"). widthIn, heightIn, and dpi must be positive. addr is
// an optional explicit transport URI; when empty, the address is
// resolved per §4.A. A connection failure is logged as a diagnostic and
// Open still returns a usable, disconnected device — ops are simply
// dropped until the host closes it (§7).
func Open(widthIn, heightIn, dpi float64, addr string, host Host) (*Device, error) {
	if widthIn <= 0 || heightIn <= 0 || dpi <= 0 {
		return nil, &StateError{Msg: fmt.Sprintf("open: width=%g height=%g dpi=%g must all be positive", widthIn, heightIn, dpi)}
	}

	d := &Device{
		WidthIn:      widthIn,
		HeightIn:     heightIn,
		DPI:          dpi,
		SessionID:    newSessionID(),
		host:         host,
		snapshots:    newSnapshotStore(DefaultSnapshotCapacity),
		metricsCache: newMetricsCache(),
	}

	resolved, err := transport.Resolve(addr, HostSocketOption)
	if err != nil {
		diag.Printf("%v", &ConnectError{Addr: addr, Err: err})
		currentDevice = d
		return d, nil
	}

	tr, err := transport.Connect(resolved)
	if err != nil {
		diag.Printf("%v", &ConnectError{Addr: resolved, Err: err})
		currentDevice = d
		return d, nil
	}

	d.tr = tr
	currentDevice = d
	return d, nil
}

// PollResize is the package-level half of the §6 "poll-resize" entry
// point: it is safe to call when no device is current, returning false.
func PollResize() bool {
	if currentDevice == nil {
		return false
	}
	return currentDevice.PollResize()
}

func newSessionID() string {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		diag.Printf("session id: %v, falling back to zero id", err)
	}
	return hex.EncodeToString(buf[:])
}
