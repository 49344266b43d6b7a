package tcp_test

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"github.com/aretw0/morselink/pkg/adapters/tcp"
	"github.com/aretw0/morselink/pkg/domain"
	"github.com/aretw0/morselink/pkg/link"
	"github.com/aretw0/morselink/pkg/ports"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// linePeer is a serial peer behind a bridge: it prints every received line.
type linePeer struct {
	ln    net.Listener
	lines chan string
	conns chan net.Conn
}

func startPeer(t *testing.T) *linePeer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	p := &linePeer{ln: ln, lines: make(chan string, 64), conns: make(chan net.Conn, 8)}
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			p.conns <- c
			go func() {
				sc := bufio.NewScanner(c)
				for sc.Scan() {
					p.lines <- sc.Text()
				}
			}()
		}
	}()
	t.Cleanup(func() { _ = ln.Close() })
	return p
}

func (p *linePeer) addr() string { return p.ln.Addr().String() }

func (p *linePeer) next(t *testing.T) string {
	t.Helper()
	select {
	case l := <-p.lines:
		return l
	case <-time.After(2 * time.Second):
		t.Fatal("peer received no line")
		return ""
	}
}

func TestTCPTransport_Contract(t *testing.T) {
	peer := startPeer(t)
	tr := tcp.NewTransport([]ports.Peer{
		{Name: "kitchen-radio", Address: "127.0.0.1:1"},
		{Name: "raspberrypi", Address: peer.addr()},
	})

	ports.RunTransportContract(t, ports.TransportHarness{
		Transport: tr,
		PeerName:  "raspberry",
		NextLine:  peer.next,
	})
}

func TestTCPTransport_DetectsPeerHangup(t *testing.T) {
	peer := startPeer(t)
	tr := tcp.NewTransport([]ports.Peer{{Name: "pi", Address: peer.addr()}})

	conn, err := tr.Dial(t.Context(), ports.Peer{Name: "pi", Address: peer.addr()}, uuid.Nil)
	require.NoError(t, err)
	defer conn.Close()

	server := <-peer.conns
	require.NoError(t, server.Close())

	assert.Eventually(t, func() bool { return !conn.Alive() }, 2*time.Second, 10*time.Millisecond)
}

func TestTCPTransport_DialRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	tr := tcp.NewTransport(nil, tcp.WithDialTimeout(time.Second))
	_, err = tr.Dial(t.Context(), ports.Peer{Name: "gone", Address: addr}, uuid.Nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), addr)
}

func TestTCPTransport_WriterClosed(t *testing.T) {
	peer := startPeer(t)
	tr := tcp.NewTransport(nil)

	conn, err := tr.Dial(t.Context(), ports.Peer{Name: "pi", Address: peer.addr()}, uuid.Nil)
	require.NoError(t, err)
	defer conn.Close()

	w, err := conn.Writer()
	require.NoError(t, err)
	_, _ = w.Write([]byte("-- --- .-. ... .\n"))
	require.NoError(t, w.Close(), "Close flushes pending bytes")
	assert.Equal(t, "-- --- .-. ... .", peer.next(t))

	_, err = w.Write([]byte("."))
	assert.ErrorIs(t, err, tcp.ErrWriterClosed)
	assert.NoError(t, w.Close())
}

func TestTCPTransport_WithSession(t *testing.T) {
	peer := startPeer(t)
	tr := tcp.NewTransport([]ports.Peer{{Name: "raspberrypi", Address: peer.addr()}})
	s := link.New(tr, nil)
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, s.EnsureConnected(ctx))
	require.NoError(t, s.Send(ctx, []byte(".--. .. / -.-. .- .-.. .-..")))
	assert.Equal(t, ".--. .. / -.-. .- .-.. .-..", peer.next(t))

	// The peer hangs up: the session notices on the next EnsureConnected and redials.
	server := <-peer.conns
	require.NoError(t, server.Close())
	require.Eventually(t, func() bool {
		if s.EnsureConnected(ctx) != nil {
			return false
		}
		select {
		case <-peer.conns:
			return true
		default:
			return false
		}
	}, 2*time.Second, 20*time.Millisecond)
	require.NoError(t, s.Send(ctx, []byte("..")))
	assert.Equal(t, "..", peer.next(t))
	assert.Equal(t, domain.LinkConnected, s.State())
}
