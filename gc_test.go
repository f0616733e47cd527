package jgd

import (
	"testing"

	"github.com/grantmcdermott/jgd/frame"
	"github.com/stretchr/testify/require"
)

// Property 6: color round-trip.
func TestColorRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		c    Color
		want string
	}{
		{"fully transparent", Color(0x00112233), "null"},
		{"opaque", Color(0xFF0A141E), `"rgba(10,20,30,1)"`},
		{"half alpha", Color(0x800A141E), `"rgba(10,20,30,0.502)"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := frame.New()
			writeColor(w, tc.c)
			require.Equal(t, tc.want, w.Output())
		})
	}
}

func TestNoColorIsNull(t *testing.T) {
	w := frame.New()
	writeColor(w, NoColor)
	require.Equal(t, "null", w.Output())
}

func TestLtyEmptyIsSolid(t *testing.T) {
	w := frame.New()
	writeLty(w, nil)
	require.Equal(t, "[]", w.Output())
}

func TestLtyNonEmpty(t *testing.T) {
	w := frame.New()
	writeLty(w, []float64{4, 2})
	require.Equal(t, "[4,2]", w.Output())
}
