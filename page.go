package jgd

import "github.com/grantmcdermott/jgd/frame"

// Page is the accumulated op list for one plot, together with the
// device dimensions in force when the page began (§3 Page). Ops are
// pre-serialized at append time into an internal byte buffer shaped
// "[op1,op2,...", so that a delta flush is a byte slice of that buffer
// rather than a re-walk of the op list (§4.C).
type Page struct {
	Width, Height  int // device pixels
	DPI            float64
	Background     Color
	HasBackground  bool

	opsBuf          []byte
	opCount         int
	lastFlushOffset int // byte offset into opsBuf where the next delta starts
	lastFlushedOps  int // op count as of the last successful flush
}

func newPage(width, height int, dpi float64, bg Color, hasBG bool) *Page {
	p := &Page{
		Width:         width,
		Height:        height,
		DPI:           dpi,
		Background:    bg,
		HasBackground: hasBG,
		opsBuf:        []byte{'['},
	}
	p.lastFlushOffset = len(p.opsBuf)
	return p
}

// Append adds one op to the page. Once appended an op is never
// retracted (§4.D invariant).
func (p *Page) Append(op Op) {
	w := frame.New()
	op.writeOp(w)
	enc := w.Output()
	if len(p.opsBuf) > 1 {
		p.opsBuf = append(p.opsBuf, ',')
	}
	p.opsBuf = append(p.opsBuf, enc...)
	p.opCount++
}

// OpCount is the number of ops appended so far (monotonic, invariant 4).
func (p *Page) OpCount() int { return p.opCount }

// LastFlushedOps is the op count as of the most recent flush. The shim
// uses this to decide full-vs-delta on a mode(0) flush: zero means this
// page has never been flushed, forcing a full frame.
func (p *Page) LastFlushedOps() int { return p.lastFlushedOps }

// opsJSON returns the ops array payload for a flush and whether it was
// produced as a delta. A delta slices opsBuf from lastFlushOffset to the
// current end, stripping a leading comma if present; a full flush
// re-walks the whole buffer. Both paths advance lastFlushOffset and
// lastFlushedOps, which is the "truncate and reopen" step of §4.C: the
// buffer itself isn't rewound, later appends simply write past the new
// watermark.
func (p *Page) opsJSON(incremental bool) (json string, delta bool) {
	defer func() {
		p.lastFlushOffset = len(p.opsBuf)
		p.lastFlushedOps = p.opCount
	}()

	if incremental && p.lastFlushOffset <= len(p.opsBuf) {
		tail := p.opsBuf[p.lastFlushOffset:]
		if len(tail) > 0 && tail[0] == ',' {
			tail = tail[1:]
		}
		return "[" + string(tail) + "]", true
	}
	return string(p.opsBuf) + "]", false
}

// SerializeFrame builds the complete NDJSON frame envelope (§4.B) for
// this page: version 1, device extent and background, and the ops
// payload from opsJSON. newPage is true only for the first complete
// flush after a new-page signal.
func (p *Page) SerializeFrame(sessionID string, newPage, incremental bool) string {
	opsPayload, isDelta := p.opsJSON(incremental)

	w := frame.New()
	w.BeginObject()
	w.Field("type")
	w.String("frame")
	w.Field("incremental")
	w.Bool(isDelta)
	if newPage {
		w.Field("newPage")
		w.Bool(true)
	}
	w.Field("plot")
	w.BeginObject()
	w.Field("version")
	w.Int(1)
	w.Field("sessionId")
	w.String(sessionID)
	w.Field("device")
	w.BeginObject()
	w.Field("width")
	w.Int(p.Width)
	w.Field("height")
	w.Int(p.Height)
	w.Field("dpi")
	w.Number(p.DPI)
	w.Field("bg")
	if p.HasBackground {
		writeColor(w, p.Background)
	} else {
		w.Null()
	}
	w.EndObject()
	w.Field("ops")
	w.Raw(opsPayload)
	w.EndObject()
	w.EndObject()
	return w.Output()
}
