package jgd

import "github.com/grantmcdermott/jgd/frame"

// Op is one drawing primitive recorded onto a page (§3 Operation
// record). Implementations write their own JSON object; the page
// assembler only wraps them in array commas.
type Op interface {
	writeOp(w *frame.Writer)
}

// ClipOp pushes a rectangular clip (§3). Consumers maintain a
// save/restore stack; a clip bounds every op that follows it until the
// next clip or new page.
type ClipOp struct {
	X0, Y0, X1, Y1 float64
}

func (o ClipOp) writeOp(w *frame.Writer) {
	w.BeginObject()
	w.Field("op")
	w.String("clip")
	w.Field("x0")
	w.Number(o.X0)
	w.Field("y0")
	w.Number(o.Y0)
	w.Field("x1")
	w.Number(o.X1)
	w.Field("y1")
	w.Number(o.Y1)
	w.EndObject()
}

// LineOp is a single segment.
type LineOp struct {
	X1, Y1, X2, Y2 float64
	GC             GC
}

func (o LineOp) writeOp(w *frame.Writer) {
	w.BeginObject()
	w.Field("op")
	w.String("line")
	w.Field("x1")
	w.Number(o.X1)
	w.Field("y1")
	w.Number(o.Y1)
	w.Field("x2")
	w.Number(o.X2)
	w.Field("y2")
	w.Number(o.Y2)
	w.Field("gc")
	o.GC.write(w)
	w.EndObject()
}

func writePointArrays(w *frame.Writer, x, y []float64) {
	w.Field("x")
	w.BeginArray()
	for _, v := range x {
		w.Elem()
		w.Number(v)
	}
	w.EndArray()
	w.Field("y")
	w.BeginArray()
	for _, v := range y {
		w.Elem()
		w.Number(v)
	}
	w.EndArray()
}

// PolylineOp is an open polyline; len(X) == len(Y) >= 2.
type PolylineOp struct {
	X, Y []float64
	GC   GC
}

func (o PolylineOp) writeOp(w *frame.Writer) {
	w.BeginObject()
	w.Field("op")
	w.String("polyline")
	writePointArrays(w, o.X, o.Y)
	w.Field("gc")
	o.GC.write(w)
	w.EndObject()
}

// PolygonOp is a closed polygon; len(X) == len(Y) >= 3 logical vertices.
// The consumer closes the shape.
type PolygonOp struct {
	X, Y []float64
	GC   GC
}

func (o PolygonOp) writeOp(w *frame.Writer) {
	w.BeginObject()
	w.Field("op")
	w.String("polygon")
	writePointArrays(w, o.X, o.Y)
	w.Field("gc")
	o.GC.write(w)
	w.EndObject()
}

// RectOp is an axis-aligned rectangle; corners may be given in any
// order, the consumer normalizes.
type RectOp struct {
	X0, Y0, X1, Y1 float64
	GC             GC
}

func (o RectOp) writeOp(w *frame.Writer) {
	w.BeginObject()
	w.Field("op")
	w.String("rect")
	w.Field("x0")
	w.Number(o.X0)
	w.Field("y0")
	w.Number(o.Y0)
	w.Field("x1")
	w.Number(o.X1)
	w.Field("y1")
	w.Number(o.Y1)
	w.Field("gc")
	o.GC.write(w)
	w.EndObject()
}

// CircleOp is a circle of radius R > 0 centered at (X, Y).
type CircleOp struct {
	X, Y, R float64
	GC      GC
}

func (o CircleOp) writeOp(w *frame.Writer) {
	w.BeginObject()
	w.Field("op")
	w.String("circle")
	w.Field("x")
	w.Number(o.X)
	w.Field("y")
	w.Number(o.Y)
	w.Field("r")
	w.Number(o.R)
	w.Field("gc")
	o.GC.write(w)
	w.EndObject()
}

// TextOp draws Str at (X, Y), rotated Rot degrees counter-clockwise
// from the x-axis, with horizontal anchor Hadj in [0,1] (0=left,
// 0.5=center, 1=right).
type TextOp struct {
	X, Y, Rot, Hadj float64
	Str             string
	GC              GC
}

func (o TextOp) writeOp(w *frame.Writer) {
	w.BeginObject()
	w.Field("op")
	w.String("text")
	w.Field("x")
	w.Number(o.X)
	w.Field("y")
	w.Number(o.Y)
	w.Field("str")
	w.String(o.Str)
	w.Field("rot")
	w.Number(o.Rot)
	w.Field("hadj")
	w.Number(o.Hadj)
	w.Field("gc")
	o.GC.write(w)
	w.EndObject()
}

// Winding is a path's fill rule.
type Winding int

const (
	WindingNonZero Winding = iota
	WindingEvenOdd
)

func (w Winding) String() string {
	if w == WindingEvenOdd {
		return "evenodd"
	}
	return "nonzero"
}

// Point is one vertex of a PathOp subpath.
type Point struct{ X, Y float64 }

// PathOp is one or more subpaths sharing a fill rule.
type PathOp struct {
	Subpaths [][]Point
	Winding  Winding
	GC       GC
}

func (o PathOp) writeOp(w *frame.Writer) {
	w.BeginObject()
	w.Field("op")
	w.String("path")
	w.Field("subpaths")
	w.BeginArray()
	for _, sub := range o.Subpaths {
		w.Elem()
		w.BeginArray()
		for _, p := range sub {
			w.Elem()
			w.BeginArray()
			w.Elem()
			w.Number(p.X)
			w.Elem()
			w.Number(p.Y)
			w.EndArray()
		}
		w.EndArray()
	}
	w.EndArray()
	w.Field("winding")
	w.String(o.Winding.String())
	w.Field("gc")
	o.GC.write(w)
	w.EndObject()
}

// RasterOp embeds a base64 PNG at (X, Y), the bottom-left of the
// destination rectangle in the device's top-left coordinate system. W
// or H may be negative to flip an axis.
type RasterOp struct {
	X, Y, W, H   float64
	Rot          float64
	Interpolate  bool
	PW, PH       int
	DataURI      string // "data:image/png;base64,..."
}

func (o RasterOp) writeOp(w *frame.Writer) {
	w.BeginObject()
	w.Field("op")
	w.String("raster")
	w.Field("x")
	w.Number(o.X)
	w.Field("y")
	w.Number(o.Y)
	w.Field("w")
	w.Number(o.W)
	w.Field("h")
	w.Number(o.H)
	w.Field("rot")
	w.Number(o.Rot)
	w.Field("interpolate")
	w.Bool(o.Interpolate)
	w.Field("pw")
	w.Int(o.PW)
	w.Field("ph")
	w.Int(o.PH)
	w.Field("data")
	w.String(o.DataURI)
	w.EndObject()
}
