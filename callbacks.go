package jgd

// This file is the callback shim (§4.D): one method per graphics
// primitive the host runtime emits, plus page/mode lifecycle. All
// methods run on the host's thread; there is no locking (§5).

// connected reports whether ops should be appended at all. A
// disconnected transport means the recorder drops ops rather than
// growing the page forever with nothing to flush them to (§7).
func (d *Device) connected() bool { return d.tr != nil }

// NewPage signals the start of a plot. bg is the background color in
// force for the new page; hasBG is false when the host passed no
// color.
func (d *Device) NewPage(bg Color, hasBG bool) {
	if d.page != nil && d.page.OpCount() > d.page.LastFlushedOps() && !d.replaying {
		d.flush(true)
	}
	d.checkIncoming()

	if d.lastSnapshot != nil {
		d.snapshots.add(d.lastSnapshot)
		d.lastSnapshot = nil
	}

	d.page = nil
	d.applyPendingAtNewPage()

	d.bg = bg
	d.hasBG = hasBG
	d.page = newPage(d.pxWidth(), d.pxHeight(), d.DPI, bg, hasBG)
	d.newPageFlag = true
	d.pageCount++
}

// Close is idempotent: un-registers this device as the current one,
// flushes any unflushed ops, sends the close message, releases every
// snapshot, and closes the transport. Every exit path releases every
// resource (§5).
func (d *Device) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true

	if currentDevice == d {
		currentDevice = nil
	}

	if d.page != nil && d.page.OpCount() > d.page.LastFlushedOps() {
		d.flush(true)
	}
	if d.tr != nil {
		if err := d.tr.Send([]byte(`{"type":"close"}`)); err != nil {
			d.disconnect(err)
		}
	}

	if d.lastSnapshot != nil {
		d.lastSnapshot.Release()
		d.lastSnapshot = nil
	}
	if d.snapshots != nil {
		d.snapshots.releaseAll()
	}
	d.page = nil

	if d.tr != nil {
		err := d.tr.Close()
		d.tr = nil
		return err
	}
	return nil
}

func (d *Device) appendOp(op Op) {
	if !d.connected() || d.page == nil {
		return
	}
	d.page.Append(op)
}

func (d *Device) Clip(x0, y0, x1, y1 float64) {
	d.appendOp(ClipOp{X0: x0, Y0: y0, X1: x1, Y1: y1})
}

func (d *Device) Line(x1, y1, x2, y2 float64, gc GC) {
	d.appendOp(LineOp{X1: x1, Y1: y1, X2: x2, Y2: y2, GC: gc})
}

func (d *Device) Polyline(x, y []float64, gc GC) {
	d.appendOp(PolylineOp{X: x, Y: y, GC: gc})
}

func (d *Device) Polygon(x, y []float64, gc GC) {
	d.appendOp(PolygonOp{X: x, Y: y, GC: gc})
}

func (d *Device) Rect(x0, y0, x1, y1 float64, gc GC) {
	d.appendOp(RectOp{X0: x0, Y0: y0, X1: x1, Y1: y1, GC: gc})
}

func (d *Device) Circle(x, y, r float64, gc GC) {
	d.appendOp(CircleOp{X: x, Y: y, R: r, GC: gc})
}

func (d *Device) Text(x, y, rot, hadj float64, str string, gc GC) {
	d.appendOp(TextOp{X: x, Y: y, Rot: rot, Hadj: hadj, Str: str, GC: gc})
}

func (d *Device) Path(subpaths [][]Point, winding Winding, gc GC) {
	d.appendOp(PathOp{Subpaths: subpaths, Winding: winding, GC: gc})
}

func (d *Device) Raster(x, y, w, h, rot float64, interpolate bool, pw, ph int, dataURI string) {
	d.appendOp(RasterOp{X: x, Y: y, W: w, H: h, Rot: rot, Interpolate: interpolate, PW: pw, PH: ph, DataURI: dataURI})
}

// Mode marks the start (begin=true) or end (begin=false) of a drawing
// burst. On end, it flushes the accumulated page unless holds are
// outstanding (§4.D).
func (d *Device) Mode(begin bool) {
	if begin {
		d.drawing = true
		return
	}
	d.drawing = false
	if d.holdLevel > 0 {
		return
	}
	if d.page == nil {
		return
	}
	if d.page.OpCount() > d.page.LastFlushedOps() {
		full := d.page.LastFlushedOps() == 0
		d.flush(full)
	}
}

// HoldFlush maintains hold_level as a clamped non-negative counter.
// Dropping from >0 back to 0 with unflushed ops forces a full flush
// (and a snapshot capture) regardless of how many prior flushes this
// page has already had (§4.D, §8 S6).
func (d *Device) HoldFlush(delta int) {
	before := d.holdLevel
	d.holdLevel += delta
	if d.holdLevel < 0 {
		d.holdLevel = 0
	}
	if before > 0 && d.holdLevel == 0 && d.page != nil && d.page.OpCount() > d.page.LastFlushedOps() {
		d.flush(true)
	}
}

// flush serializes and sends the current page, clearing newPageFlag and
// (on a full flush) rotating the held snapshot.
func (d *Device) flush(full bool) {
	if d.page == nil || d.tr == nil {
		return
	}
	wasNewPage := d.newPageFlag
	d.newPageFlag = false

	line := d.page.SerializeFrame(d.SessionID, wasNewPage, !full)
	if err := d.tr.Send([]byte(line)); err != nil {
		d.disconnect(err)
		return
	}
	if full {
		if d.lastSnapshot != nil {
			d.lastSnapshot.Release()
			d.lastSnapshot = nil
		}
		if d.host != nil {
			d.lastSnapshot = d.host.CaptureSnapshot()
		}
	}
}

// disconnect latches the transport to disconnected after any I/O
// failure (§7 TransportError). Subsequent sends and op appends become
// no-ops until Close.
func (d *Device) disconnect(err error) {
	diag.Printf("%v", &TransportError{Op: "send", Err: err})
	if d.tr != nil {
		d.tr.Close()
		d.tr = nil
	}
}
