package jgd

import (
	"fmt"

	"github.com/grantmcdermott/jgd/frame"
)

// Color is a packed ARGB color, the host's own representation. Alpha
// 0 means fully transparent, which the wire encoding renders as JSON
// null rather than the string "transparent" (§3 Color, §8 property 6).
type Color uint32

// NoColor is the host's "no color" sentinel, serialized identically to
// a fully transparent color.
const NoColor Color = 0

func (c Color) a() uint8 { return uint8(c >> 24) }
func (c Color) r() uint8 { return uint8(c >> 16) }
func (c Color) g() uint8 { return uint8(c >> 8) }
func (c Color) b() uint8 { return uint8(c) }

// writeColor emits c as null when transparent, "rgba(r,g,b,1)" when
// fully opaque, or "rgba(r,g,b,D)" with a 3-decimal alpha fraction
// otherwise.
func writeColor(w *frame.Writer, c Color) {
	if c == NoColor || c.a() == 0 {
		w.Null()
		return
	}
	if c.a() == 255 {
		w.String(fmt.Sprintf("rgba(%d,%d,%d,1)", c.r(), c.g(), c.b()))
		return
	}
	alpha := float64(c.a()) / 255
	w.String(fmt.Sprintf("rgba(%d,%d,%d,%.3f)", c.r(), c.g(), c.b(), alpha))
}

// LineEnd is the line-cap style, gc.lend in §3.
type LineEnd int

const (
	LineEndRound LineEnd = iota
	LineEndButt
	LineEndSquare
)

func (e LineEnd) String() string {
	switch e {
	case LineEndButt:
		return "butt"
	case LineEndSquare:
		return "square"
	default:
		return "round"
	}
}

// LineJoin is the line-join style, gc.ljoin in §3.
type LineJoin int

const (
	LineJoinRound LineJoin = iota
	LineJoinMiter
	LineJoinBevel
)

func (j LineJoin) String() string {
	switch j {
	case LineJoinMiter:
		return "miter"
	case LineJoinBevel:
		return "bevel"
	default:
		return "round"
	}
}

// Face is a font face/style selector (§3 font.face).
type Face int

const (
	FacePlain Face = 1 + iota
	FaceBold
	FaceItalic
	FaceBoldItalic
	FaceSymbol
)

// Font describes the text attributes attached to a gc.
type Font struct {
	Family     string
	Face       Face
	Size       float64 // points * cex
	LineHeight float64
}

// GC is the graphics context attached to every drawing op (§3).
type GC struct {
	Col    Color // stroke color, NoColor for none
	Fill   Color // fill color, NoColor for none
	HasCol bool
	HasFill bool
	Lwd    float64
	Lty    []float64 // dash array, device pixels, empty = solid
	Lend   LineEnd
	Ljoin  LineJoin
	Lmitre float64
	Font   Font
}

// write emits the gc object. col/fill are written as null whenever the
// caller did not set them, matching the host's "no color" signal.
func (gc GC) write(w *frame.Writer) {
	w.BeginObject()
	w.Field("col")
	if gc.HasCol {
		writeColor(w, gc.Col)
	} else {
		w.Null()
	}
	w.Field("fill")
	if gc.HasFill {
		writeColor(w, gc.Fill)
	} else {
		w.Null()
	}
	w.Field("lwd")
	w.Number(gc.Lwd)
	w.Field("lty")
	writeLty(w, gc.Lty)
	w.Field("lend")
	w.String(gc.Lend.String())
	w.Field("ljoin")
	w.String(gc.Ljoin.String())
	w.Field("lmitre")
	w.Number(gc.Lmitre)
	w.Field("font")
	w.BeginObject()
	w.Field("family")
	w.String(gc.Font.Family)
	w.Field("face")
	w.Int(int(gc.Font.Face))
	w.Field("size")
	w.Number(gc.Font.Size)
	w.Field("lineheight")
	w.Number(gc.Font.LineHeight)
	w.EndObject()
	w.EndObject()
}

// writeLty emits the dash array: empty means solid, non-empty is the
// successive on/off lengths already scaled by lwd by the caller.
func writeLty(w *frame.Writer, lty []float64) {
	w.BeginArray()
	for _, seg := range lty {
		w.Elem()
		w.Number(seg)
	}
	w.EndArray()
}
