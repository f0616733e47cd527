package frame

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriterObjectAndArray(t *testing.T) {
	w := New()
	w.BeginObject()
	w.Field("a")
	w.Int(1)
	w.Field("b")
	w.BeginArray()
	w.Elem()
	w.Int(1)
	w.Elem()
	w.Int(2)
	w.EndArray()
	w.EndObject()
	require.Equal(t, `{"a":1,"b":[1,2]}`, w.Output())
}

func TestWriterStringEscaping(t *testing.T) {
	w := New()
	w.String("a\"b\\c\n\t\x01")
	require.Equal(t, "\"a\\\"b\\\\c\\n\\t\\u0001\"", w.Output())
}

func TestWriterStringPassesThroughNonASCII(t *testing.T) {
	w := New()
	w.String("café")
	require.Equal(t, "\"café\"", w.Output())
}

func TestWriterNumberTrimsTrailingZeros(t *testing.T) {
	cases := map[float64]string{
		1.0:       "1",
		1.5:       "1.5",
		1.2345678: "1.2346",
		0.0:       "0",
		-0.0001:   "-0.0001",
		100.100:   "100.1",
	}
	for in, want := range cases {
		w := New()
		w.Number(in)
		require.Equal(t, want, w.Output(), "Number(%v)", in)
	}
}

func TestWriterNumberNonFinite(t *testing.T) {
	w := New()
	w.Number(math.NaN())
	require.Equal(t, "null", w.Output())
}

func TestWriterNull(t *testing.T) {
	w := New()
	w.Null()
	require.Equal(t, "null", w.Output())
}

func TestWriterRawSplice(t *testing.T) {
	w := New()
	w.BeginArray()
	w.Raw(`1,2,3`)
	w.EndArray()
	require.Equal(t, "[1,2,3]", w.Output())
}
