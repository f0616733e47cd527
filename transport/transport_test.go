package transport

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseAddrTCP(t *testing.T) {
	a, err := ParseAddr("tcp://localhost:9000")
	require.NoError(t, err)
	require.Equal(t, Addr{Scheme: "tcp", Host: "localhost:9000"}, a)
}

func TestParseAddrUnixBothForms(t *testing.T) {
	a, err := ParseAddr("unix:///tmp/jgd.sock")
	require.NoError(t, err)
	require.Equal(t, Addr{Scheme: "unix", Host: "/tmp/jgd.sock"}, a)

	a2, err := ParseAddr("unix://localhost/tmp/jgd.sock")
	require.NoError(t, err)
	require.Equal(t, a, a2)
}

func TestParseAddrNpipeBothForms(t *testing.T) {
	a, err := ParseAddr("npipe:///jgd")
	require.NoError(t, err)
	require.Equal(t, Addr{Scheme: "npipe", Host: "jgd"}, a)

	a2, err := ParseAddr("npipe://localhost/jgd")
	require.NoError(t, err)
	require.Equal(t, a, a2)
}

func TestParseAddrRejectsSchemeless(t *testing.T) {
	_, err := ParseAddr("/just/a/path")
	require.Error(t, err)
}

func TestResolvePrefersExplicit(t *testing.T) {
	t.Setenv("JGD_SOCKET", "tcp://127.0.0.1:1")
	got, err := Resolve("unix:///explicit.sock", "tcp://host-option:2")
	require.NoError(t, err)
	require.Equal(t, "unix:///explicit.sock", got)
}

func TestResolveFallsBackToEnvThenOption(t *testing.T) {
	t.Setenv("JGD_SOCKET", "tcp://127.0.0.1:1")
	got, err := Resolve("", "tcp://host-option:2")
	require.NoError(t, err)
	require.Equal(t, "tcp://127.0.0.1:1", got)

	t.Setenv("JGD_SOCKET", "")
	got, err = Resolve("", "tcp://host-option:2")
	require.NoError(t, err)
	require.Equal(t, "tcp://host-option:2", got)
}

func TestConnTransportSendRecvLine(t *testing.T) {
	srv, cli := net.Pipe()
	defer srv.Close()
	defer cli.Close()

	serverSide := newConnTransport(srv)
	clientSide := newConnTransport(cli)

	go func() {
		_ = clientSide.Send([]byte(`{"type":"resize","width":10,"height":20}`))
	}()

	line, err := serverSide.RecvLine(1000)
	require.NoError(t, err)
	require.Equal(t, `{"type":"resize","width":10,"height":20}`, string(line))
}

func TestConnTransportRecvLineTimeout(t *testing.T) {
	srv, cli := net.Pipe()
	defer srv.Close()
	defer cli.Close()

	serverSide := newConnTransport(srv)
	_, err := serverSide.RecvLine(20)
	require.ErrorIs(t, err, ErrTimeout)
	_ = time.Millisecond
}
