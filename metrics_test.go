package jgd

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func helloGC() GC {
	return GC{Font: Font{Family: "sans", Face: FacePlain, Size: 12}}
}

// Property 5: metrics cache correctness. A second identical StrWidth
// call must not issue a second metrics_request.
func TestMetricsCacheAvoidsSecondRequest(t *testing.T) {
	d, tr, _ := newTestDevice(7, 7, 72)
	tr.queue(`{"type":"metrics_response","id":1,"width":42.5}`)

	w1 := d.StrWidth("Hello", helloGC())
	require.InDelta(t, 42.5, w1, 0.001)
	require.Len(t, tr.sent, 1)

	w2 := d.StrWidth("Hello", helloGC())
	require.InDelta(t, 42.5, w2, 0.001)
	require.Len(t, tr.sent, 1, "cache hit must not issue a second request")
}

// S5: a resize arriving mid-metrics-RPC is stashed, not lost, and the
// RPC still returns its matching response.
func TestMetricsRPCStashesInterleavedResize(t *testing.T) {
	d, tr, host := newTestDevice(7, 7, 72)
	tr.queue(`{"type":"resize","width":900,"height":700}`)
	tr.queue(`{"type":"metrics_response","id":1,"width":42.5}`)

	w := d.StrWidth("Hello", helloGC())
	require.InDelta(t, 42.5, w, 0.001)
	require.True(t, d.hasPending)
	require.Equal(t, 900, d.pendingResize.WidthPx)

	applied := d.PollResize()
	require.True(t, applied)
	require.Equal(t, 1, host.replayCurrentCalls)
}

func TestMetricsFallsBackToApproximationWhenDisconnected(t *testing.T) {
	d, _, _ := newTestDevice(7, 7, 72)
	d.tr = nil // no frontend reachable

	w := d.StrWidth("Hello", helloGC())
	require.Greater(t, w, 0.0)
	require.InDelta(t, float64(len("Hello"))*0.53*12, w, 0.001)
}

func TestMetricsFallsBackAfterTimeout(t *testing.T) {
	d, tr, _ := newTestDevice(7, 7, 72)
	// No queued response: every RecvLine call returns ErrTimeout until
	// the attempt budget is exhausted.
	w := d.StrWidth("Hello", helloGC())
	require.Greater(t, w, 0.0)
	require.Len(t, tr.sent, 1) // the request itself was still sent
}

func TestApproximateWidthCountsCodepointsNotBytes(t *testing.T) {
	f := Font{Family: "sans", Face: FacePlain, Size: 10}
	// café has 4 codepoints but 5 bytes (é is 2 bytes in UTF-8).
	want := approximateWidth("café", f)
	require.InDelta(t, 4*0.53*10, want, 0.001)
}

func TestApproximateWidthSpaceOverride(t *testing.T) {
	f := Font{Family: "mono", Face: FacePlain, Size: 10}
	require.InDelta(t, 0.25*10, approximateWidth(" ", f), 0.001)
}

func TestMetricInfoSecondCallHitsCache(t *testing.T) {
	d, tr, _ := newTestDevice(7, 7, 72)
	tr.queue(fmt.Sprintf(`{"type":"metrics_response","id":1,"width":7,"ascent":9,"descent":2}`))

	a, de, w := d.MetricInfo('x', helloGC())
	require.InDelta(t, 9, a, 0.001)
	require.InDelta(t, 2, de, 0.001)
	require.InDelta(t, 7, w, 0.001)
	require.Len(t, tr.sent, 1)

	a2, de2, w2 := d.MetricInfo('x', helloGC())
	require.Equal(t, a, a2)
	require.Equal(t, de, de2)
	require.Equal(t, w, w2)
	require.Len(t, tr.sent, 1)
}
