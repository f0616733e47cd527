package jgd

import (
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	"golang.org/x/image/math/fixed"

	"github.com/grantmcdermott/jgd/frame"
	"github.com/grantmcdermott/jgd/transport"
)

// metricsCacheSize is the fixed table size from §4.E: ~512 entries,
// open-addressed, hash-only (a deliberate collision-for-simplicity
// tradeoff, documented as such there).
const metricsCacheSize = 512

const (
	metricsMaxAttempts   = 5
	metricsLineTimeoutMs = 500
)

type metricsKind byte

const (
	metricsKindWidth metricsKind = iota
	metricsKindInfo
)

type metricsEntry struct {
	occupied bool
	hash     uint64
	kind     metricsKind
	width    fixed.Int26_6
	ascent   fixed.Int26_6
	descent  fixed.Int26_6
}

// metricsCache is the per-device text-metrics cache (§9 "global
// mutable state" note: this hangs off *Device, not a package global, so
// multiple devices never share a counter or cache).
type metricsCache struct {
	entries [metricsCacheSize]metricsEntry
}

func newMetricsCache() *metricsCache {
	return &metricsCache{}
}

func hashMetricsKey(key string, face Face, size float64) uint64 {
	h := fnv.New64a()
	h.Write([]byte(key))
	var buf [12]byte
	buf[0] = byte(face)
	bits := math.Float64bits(size)
	for i := 0; i < 8; i++ {
		buf[4+i] = byte(bits >> (8 * i))
	}
	h.Write(buf[:])
	return h.Sum64()
}

func (c *metricsCache) slot(key string, face Face, size float64) (*metricsEntry, uint64) {
	h := hashMetricsKey(key, face, size)
	return &c.entries[h%metricsCacheSize], h
}

func (c *metricsCache) lookupWidth(key string, face Face, size float64) (fixed.Int26_6, bool) {
	e, h := c.slot(key, face, size)
	if e.occupied && e.hash == h && e.kind == metricsKindWidth {
		return e.width, true
	}
	return 0, false
}

func (c *metricsCache) lookupInfo(key string, face Face, size float64) (ascent, descent, width fixed.Int26_6, ok bool) {
	e, h := c.slot(key, face, size)
	if e.occupied && e.hash == h && e.kind == metricsKindInfo {
		return e.ascent, e.descent, e.width, true
	}
	return 0, 0, 0, false
}

func (c *metricsCache) storeWidth(key string, face Face, size float64, width fixed.Int26_6) {
	e, h := c.slot(key, face, size)
	*e = metricsEntry{occupied: true, hash: h, kind: metricsKindWidth, width: width}
}

func (c *metricsCache) storeInfo(key string, face Face, size float64, ascent, descent, width fixed.Int26_6) {
	e, h := c.slot(key, face, size)
	*e = metricsEntry{occupied: true, hash: h, kind: metricsKindInfo, ascent: ascent, descent: descent, width: width}
}

func toFixed(f float64) fixed.Int26_6  { return fixed.Int26_6(math.Round(f * 64)) }
func fromFixed(x fixed.Int26_6) float64 { return float64(x) / 64 }

// StrWidth returns the rendered width of str under gc, device pixels.
// It consults the cache first, then the synchronous RPC, then the
// built-in approximation (§4.E, §4.H).
func (d *Device) StrWidth(str string, gc GC) float64 {
	key := "s\x00" + gc.Font.Family + "\x00" + str
	if w, ok := d.metricsCache.lookupWidth(key, gc.Font.Face, gc.Font.Size); ok {
		return fromFixed(w)
	}
	if w, ok := d.requestWidth(str, gc); ok {
		d.metricsCache.storeWidth(key, gc.Font.Face, gc.Font.Size, toFixed(w))
		return w
	}
	return approximateWidth(str, gc.Font)
}

// MetricInfo returns (ascent, descent, width) for the single character
// c under gc, device pixels.
func (d *Device) MetricInfo(c rune, gc GC) (ascent, descent, width float64) {
	key := fmt.Sprintf("c\x00%s\x00%d", gc.Font.Family, c)
	if a, de, w, ok := d.metricsCache.lookupInfo(key, gc.Font.Face, gc.Font.Size); ok {
		return fromFixed(a), fromFixed(de), fromFixed(w)
	}
	if a, de, w, ok := d.requestMetricInfo(c, gc); ok {
		d.metricsCache.storeInfo(key, gc.Font.Face, gc.Font.Size, toFixed(a), toFixed(de), toFixed(w))
		return a, de, w
	}
	return approximateMetricInfo(c, gc.Font)
}

// requestWidth issues a strWidth metrics_request and waits for its
// response, stashing any resize messages that arrive in the meantime.
func (d *Device) requestWidth(str string, gc GC) (float64, bool) {
	res, ok := d.metricsRPC("strWidth", str, 0, gc)
	if !ok {
		return 0, false
	}
	return res.Width, true
}

func (d *Device) requestMetricInfo(c rune, gc GC) (ascent, descent, width float64, ok bool) {
	res, ok := d.metricsRPC("metricInfo", "", c, gc)
	if !ok {
		return 0, 0, 0, false
	}
	return res.Ascent, res.Descent, res.Width, true
}

type metricsRPCResult struct {
	Width, Ascent, Descent float64
}

// metricsRPC sends one metrics_request and reads lines until the
// matching metrics_response arrives, a resize stashes and is skipped, or
// the attempt budget is exhausted (§4.E). It never blocks the host
// thread past metricsMaxAttempts * metricsLineTimeoutMs.
func (d *Device) metricsRPC(kind, str string, c rune, gc GC) (metricsRPCResult, bool) {
	if d.tr == nil {
		return metricsRPCResult{}, false
	}
	id := d.nextID()
	req := buildMetricsRequest(id, kind, str, c, gc)
	if err := d.tr.Send([]byte(req)); err != nil {
		d.disconnect(err)
		return metricsRPCResult{}, false
	}

	for attempt := 0; attempt < metricsMaxAttempts; attempt++ {
		line, err := d.tr.RecvLine(metricsLineTimeoutMs)
		if err != nil {
			if err == transport.ErrTimeout {
				continue
			}
			d.disconnect(err)
			return metricsRPCResult{}, false
		}
		msg, perr := parseInbound(line)
		if perr != nil {
			diag.Printf("%v", &BadMessage{Line: string(line), Err: perr})
			continue
		}
		switch msg.Kind {
		case inboundMetricsResponse:
			if msg.Metrics.ID != id {
				continue
			}
			return metricsRPCResult{
				Width:   msg.Metrics.Width,
				Ascent:  msg.Metrics.Ascent,
				Descent: msg.Metrics.Descent,
			}, true
		case inboundResize:
			d.routeResize(msg.Resize)
		}
	}
	diag.Printf("%v", &MetricsTimeout{RequestID: id})
	return metricsRPCResult{}, false
}

func (d *Device) nextID() uint32 {
	d.nextMsgID++
	return d.nextMsgID
}

func buildMetricsRequest(id uint32, kind, str string, c rune, gc GC) string {
	w := frame.New()
	w.BeginObject()
	w.Field("type")
	w.String("metrics_request")
	w.Field("id")
	w.Int(int(id))
	w.Field("kind")
	w.String(kind)
	if kind == "strWidth" {
		w.Field("str")
		w.String(str)
	} else {
		w.Field("c")
		w.Int(int(c))
	}
	w.Field("gc")
	w.BeginObject()
	w.Field("font")
	w.BeginObject()
	w.Field("family")
	w.String(gc.Font.Family)
	w.Field("face")
	w.Int(int(gc.Font.Face))
	w.Field("size")
	w.Number(gc.Font.Size)
	w.EndObject()
	w.EndObject()
	w.EndObject()
	return w.Output()
}

// Font-metric approximation, §4.H. Used only when the cache misses and
// the frontend is unreachable or slow to answer.

func widthRatio(f Font) float64 {
	bold := f.Face == FaceBold || f.Face == FaceBoldItalic
	switch strings.ToLower(f.Family) {
	case "mono", "monospace", "courier":
		return 0.60
	case "sans", "sans-serif", "helvetica", "arial":
		if bold {
			return 0.56
		}
		return 0.53
	default: // serif is the family default fallback
		if bold {
			return 0.52
		}
		return 0.48
	}
}

// approximateWidth counts codepoints, not bytes (ranging over a string
// already decodes UTF-8 one rune at a time), and special-cases the
// space character per §4.H.
func approximateWidth(str string, f Font) float64 {
	ratio := widthRatio(f)
	var total float64
	for _, r := range str {
		if r == ' ' {
			total += 0.25 * f.Size
		} else {
			total += ratio * f.Size
		}
	}
	return total
}

func approximateMetricInfo(c rune, f Font) (ascent, descent, width float64) {
	ascent = 0.75 * f.Size
	descent = 0.25 * f.Size
	if c == ' ' {
		width = 0.25 * f.Size
	} else {
		width = widthRatio(f) * f.Size
	}
	return
}
