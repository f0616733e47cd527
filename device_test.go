package jgd

import (
	"errors"

	"github.com/grantmcdermott/jgd/transport"
)

// fakeTransport is an in-memory transport.Transport for driving the
// shim's flush/RPC/resize logic without a real socket.
type fakeTransport struct {
	sent   [][]byte
	inbox  [][]byte
	closed bool
}

func (f *fakeTransport) Send(data []byte) error {
	if f.closed {
		return errors.New("fakeTransport: send on closed transport")
	}
	cp := append([]byte(nil), data...)
	f.sent = append(f.sent, cp)
	return nil
}

func (f *fakeTransport) HasData() bool { return len(f.inbox) > 0 }

func (f *fakeTransport) RecvLine(timeoutMs int) ([]byte, error) {
	if len(f.inbox) == 0 {
		return nil, transport.ErrTimeout
	}
	line := f.inbox[0]
	f.inbox = f.inbox[1:]
	return line, nil
}

func (f *fakeTransport) Close() error {
	f.closed = true
	return nil
}

func (f *fakeTransport) queue(line string) {
	f.inbox = append(f.inbox, []byte(line))
}

// fakeSnapshot is an opaque Snapshot for tests.
type fakeSnapshot struct {
	id       int
	released bool
}

func (s *fakeSnapshot) Release() { s.released = true }

// fakeHost records every call the shim makes into the host contract.
type fakeHost struct {
	replayCurrentCalls int
	replaySnapshots    []struct {
		snap Snapshot
		w, h int
	}
	captures     int
	nextSnapshot func() Snapshot
	onReplay     func() // lets a test simulate the host re-issuing draws
}

func (h *fakeHost) ReplayCurrentPlot() {
	h.replayCurrentCalls++
	if h.onReplay != nil {
		h.onReplay()
	}
}

func (fh *fakeHost) ReplaySnapshot(snap Snapshot, w, h int) {
	fh.replaySnapshots = append(fh.replaySnapshots, struct {
		snap Snapshot
		w, h int
	}{snap, w, h})
}

func (h *fakeHost) CaptureSnapshot() Snapshot {
	h.captures++
	if h.nextSnapshot != nil {
		return h.nextSnapshot()
	}
	return &fakeSnapshot{id: h.captures}
}

// newTestDevice returns a connected device wired to a fakeTransport and
// fakeHost, matching the state Open would leave it in.
func newTestDevice(widthIn, heightIn, dpi float64) (*Device, *fakeTransport, *fakeHost) {
	tr := &fakeTransport{}
	host := &fakeHost{}
	d := &Device{
		WidthIn:      widthIn,
		HeightIn:     heightIn,
		DPI:          dpi,
		SessionID:    "test-session",
		host:         host,
		tr:           tr,
		snapshots:    newSnapshotStore(DefaultSnapshotCapacity),
		metricsCache: newMetricsCache(),
	}
	return d, tr, host
}
