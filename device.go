package jgd

import (
	"golang.org/x/mobile/event/size"

	"github.com/grantmcdermott/jgd/transport"
)

// Host is the contract the recorder needs from the statistical-plotting
// runtime it is embedded in (§1 "the host runtime's own display-list
// (replay) mechanism"). It is the only way the device mutates or reads
// anything outside its own state.
type Host interface {
	// ReplayCurrentPlot asks the host to re-issue every drawing
	// callback for the plot in progress, so the recorder can re-emit it
	// at new dimensions.
	ReplayCurrentPlot()
	// ReplaySnapshot asks the host to re-issue drawing callbacks for a
	// previously captured plot snapshot, at the given pixel dimensions.
	ReplaySnapshot(snap Snapshot, widthPx, heightPx int)
	// CaptureSnapshot asks the host for a handle that preserves enough
	// state to replay the plot currently on the page. May return nil if
	// the host has nothing to preserve.
	CaptureSnapshot() Snapshot
}

// Device is the per-session recorder state (§3 "Device state"). It is
// created by Open and mutated only on the host thread; there is no
// internal locking because the contract is single-threaded cooperative
// (§5).
type Device struct {
	WidthIn, HeightIn float64 // inches
	DPI               float64
	SessionID         string

	host Host
	tr   transport.Transport

	pageCount int
	drawing   bool
	holdLevel int
	replaying bool

	page        *Page
	newPageFlag bool // next complete flush carries "newPage":true

	pendingResize size.Event // pixels; meaningful only while hasPending
	hasPending    bool

	plotIndexResize struct {
		present bool
		dims    size.Event
		index   int
	}

	snapshots    *snapshotStore
	lastSnapshot Snapshot

	metricsCache *metricsCache
	nextMsgID    uint32

	bg     Color
	hasBG  bool
	closed bool
}

// pxWidth is the device's current horizontal extent in pixels.
func (d *Device) pxWidth() int { return int(d.WidthIn * d.DPI) }

// pxHeight is the device's current vertical extent in pixels.
func (d *Device) pxHeight() int { return int(d.HeightIn * d.DPI) }

// Connected reports whether the transport is currently usable. A host
// can use this to skip issuing ops it knows will be dropped; it does
// not change wire behavior (§6 "Supplemental entry points").
func (d *Device) Connected() bool { return d.tr != nil }

// Size reports the device's current extent in pixels, top-left origin
// (§4.D "size"): left=0, right=W*dpi, bottom=H*dpi, top=0.
func (d *Device) Size() (left, top, right, bottom float64) {
	return 0, 0, float64(d.pxWidth()), float64(d.pxHeight())
}
