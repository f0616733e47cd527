package jgd

import (
	"encoding/json"

	"golang.org/x/mobile/event/size"
)

// pollLineTimeoutMs bounds a single opportunistic read in checkIncoming
// and PollResize: both callers already confirmed HasData(), so this is
// just enough budget to let a short read complete, not a wait for new
// data to arrive.
const pollLineTimeoutMs = 50

type inboundKind int

const (
	inboundOther inboundKind = iota
	inboundResize
	inboundMetricsResponse
)

type resizeMsg struct {
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	PlotIndex *int    `json:"plotIndex,omitempty"`
}

type metricsResponseMsg struct {
	ID      uint32  `json:"id"`
	Width   float64 `json:"width"`
	Ascent  float64 `json:"ascent,omitempty"`
	Descent float64 `json:"descent,omitempty"`
}

type inboundMsg struct {
	Kind    inboundKind
	Resize  resizeMsg
	Metrics metricsResponseMsg
}

// parseInbound decodes one control-channel line by its "type" field.
// Unknown top-level types, and server_info, resolve to inboundOther and
// are ignored by the caller (§6 "Forward-compatibility").
func parseInbound(line []byte) (inboundMsg, error) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(line, &env); err != nil {
		return inboundMsg{}, err
	}
	switch env.Type {
	case "resize":
		var m resizeMsg
		if err := json.Unmarshal(line, &m); err != nil {
			return inboundMsg{}, err
		}
		return inboundMsg{Kind: inboundResize, Resize: m}, nil
	case "metrics_response":
		var m metricsResponseMsg
		if err := json.Unmarshal(line, &m); err != nil {
			return inboundMsg{}, err
		}
		return inboundMsg{Kind: inboundMetricsResponse, Metrics: m}, nil
	default:
		return inboundMsg{Kind: inboundOther}, nil
	}
}

// routeResize stashes one resize message per §4.F: plotIndex resizes go
// into the single-slot buffer (dropped if already full); normal resizes
// overwrite pending_w/h, so only the latest survives.
func (d *Device) routeResize(m resizeMsg) {
	if m.PlotIndex != nil {
		if d.plotIndexResize.present {
			return // single-slot: drop the new one
		}
		d.plotIndexResize.present = true
		d.plotIndexResize.index = *m.PlotIndex
		d.plotIndexResize.dims = size.Event{WidthPx: int(m.Width), HeightPx: int(m.Height)}
		return
	}
	d.pendingResize = size.Event{WidthPx: int(m.Width), HeightPx: int(m.Height)}
	d.hasPending = true
}

// pollOneMessage reads at most one line, non-blocking beyond the
// opportunistic budget, and routes it if it is a resize. Any other
// message type is ignored here (§4.F routing rules apply only to
// resize).
func (d *Device) pollOneMessage() {
	if d.tr == nil || !d.tr.HasData() {
		return
	}
	line, err := d.tr.RecvLine(pollLineTimeoutMs)
	if err != nil {
		return
	}
	msg, perr := parseInbound(line)
	if perr != nil {
		diag.Printf("%v", &BadMessage{Line: string(line), Err: perr})
		return
	}
	if msg.Kind == inboundResize {
		d.routeResize(msg.Resize)
	}
}

// checkIncoming is called at new-page boundaries (§4.F #1): it reads at
// most one line when available, unless the plotIndex buffer is already
// full, in which case it returns without reading at all to avoid
// overwriting buffered plotIndex state.
func (d *Device) checkIncoming() {
	if d.plotIndexResize.present {
		return
	}
	d.pollOneMessage()
}

// applyPendingAtNewPage consumes any pending normal resize into the
// device's inch dimensions before the next page is allocated (§4.F
// "Apply-pending-resize also runs at the top of new_page"). It does not
// trigger a replay — new_page's own drawing callbacks are the new plot.
func (d *Device) applyPendingAtNewPage() {
	if !d.hasPending {
		return
	}
	d.WidthIn = float64(d.pendingResize.WidthPx) / d.DPI
	d.HeightIn = float64(d.pendingResize.HeightPx) / d.DPI
	d.hasPending = false
}

// PollResize is called at host idle (§4.F #2, §6 entry point contract).
// It scans for at most one additional message, then resolves whichever
// resize is buffered — plotIndex takes priority over a pending normal
// resize — into exactly one host-driven replay. It reports whether a
// replay was applied. d must be non-nil; the package-level PollResize is
// the variant that is safe to call with no device open.
func (d *Device) PollResize() bool {
	d.pollOneMessage()

	if d.plotIndexResize.present {
		idx := d.plotIndexResize.index
		dims := d.plotIndexResize.dims
		d.plotIndexResize.present = false

		snap := d.snapshots.at(idx)
		if snap == nil {
			diag.Printf("%v", &StateError{Msg: "plotIndex resize for unknown or evicted snapshot"})
			return false
		}
		d.page = newPage(dims.WidthPx, dims.HeightPx, d.DPI, d.bg, d.hasBG)
		d.replaying = true
		if d.host != nil {
			d.host.ReplaySnapshot(snap, dims.WidthPx, dims.HeightPx)
		}
		d.replaying = false
		return true
	}

	if d.hasPending {
		dims := d.pendingResize
		d.hasPending = false
		d.WidthIn = float64(dims.WidthPx) / d.DPI
		d.HeightIn = float64(dims.HeightPx) / d.DPI
		d.page = newPage(dims.WidthPx, dims.HeightPx, d.DPI, d.bg, d.hasBG)
		d.replaying = true
		if d.host != nil {
			d.host.ReplayCurrentPlot()
		}
		d.replaying = false
		return true
	}

	return false
}
