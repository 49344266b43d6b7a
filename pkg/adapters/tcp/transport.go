// Package tcp reaches serial peers through TCP bridges (ser2net, rfcomm-to-tcp relays).
// Each configured peer is a host:port that forwards bytes to the remote serial port.
package tcp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/morselink/internal/logging"
	"github.com/aretw0/morselink/pkg/ports"
	"github.com/google/uuid"
)

const (
	DefaultDialTimeout = 5 * time.Second
	writeBufSize       = 4096
)

// ErrWriterClosed is returned when writing through a released writer.
var ErrWriterClosed = errors.New("tcp: writer closed")

// Transport dials a static list of bridge endpoints.
type Transport struct {
	peers       []ports.Peer
	dialTimeout time.Duration
	keepAlive   time.Duration
	logger      *slog.Logger
}

// Option configures the Transport.
type Option func(*Transport)

// WithDialTimeout bounds a single dial (default 5s). Zero leaves it to ctx.
func WithDialTimeout(d time.Duration) Option {
	return func(t *Transport) {
		t.dialTimeout = d
	}
}

// WithKeepAlive sets the TCP keep-alive period.
func WithKeepAlive(d time.Duration) Option {
	return func(t *Transport) {
		t.keepAlive = d
	}
}

// WithLogger configures a logger for the Transport.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transport) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// NewTransport creates a Transport over the given bridges.
func NewTransport(peers []ports.Peer, opts ...Option) *Transport {
	t := &Transport{
		peers:       append([]ports.Peer(nil), peers...),
		dialTimeout: DefaultDialTimeout,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Peers returns the configured bridges.
func (t *Transport) Peers(ctx context.Context) ([]ports.Peer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]ports.Peer(nil), t.peers...), nil
}

// Dial connects to the bridge at peer.Address.
// The service identifier is only logged: a bridge port is already bound to one service.
func (t *Transport) Dial(ctx context.Context, peer ports.Peer, service uuid.UUID) (ports.Conn, error) {
	d := net.Dialer{Timeout: t.dialTimeout, KeepAlive: t.keepAlive}
	nc, err := d.DialContext(ctx, "tcp", peer.Address)
	if err != nil {
		return nil, fmt.Errorf("tcp: dial %s: %w", peer.Address, err)
	}
	t.logger.Info("tcp: connected", "peer", peer.Name, "addr", peer.Address, "service", service)

	c := &Conn{
		nc:     nc,
		logger: t.logger.With("addr", peer.Address),
		done:   make(chan struct{}),
	}
	c.alive.Store(true)
	go c.watch()
	return c, nil
}

// Conn is a live bridge connection.
type Conn struct {
	nc     net.Conn
	logger *slog.Logger
	alive  atomic.Bool
	once   sync.Once
	done   chan struct{}
}

// watch drains whatever the peer sends and marks the link dead once the stream ends.
func (c *Conn) watch() {
	defer close(c.done)
	n, err := io.Copy(io.Discard, c.nc)
	if c.alive.Swap(false) {
		c.logger.Info("tcp: connection lost", "discarded", n, "err", err)
	}
}

// Writer returns a buffered writer over the connection.
func (c *Conn) Writer() (ports.Writer, error) {
	if !c.alive.Load() {
		return nil, net.ErrClosed
	}
	return &writer{conn: c, buf: bufio.NewWriterSize(c.nc, writeBufSize)}, nil
}

func (c *Conn) Alive() bool {
	return c.alive.Load()
}

// Close closes the socket and waits for the watcher to exit.
func (c *Conn) Close() error {
	var err error
	c.once.Do(func() {
		c.alive.Store(false)
		err = c.nc.Close()
		<-c.done
	})
	return err
}

type writer struct {
	conn   *Conn
	buf    *bufio.Writer
	closed bool
}

func (w *writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, ErrWriterClosed
	}
	return w.buf.Write(p)
}

func (w *writer) Flush() error {
	if w.closed {
		return ErrWriterClosed
	}
	if err := w.buf.Flush(); err != nil {
		w.conn.alive.Store(false)
		return fmt.Errorf("tcp: flush: %w", err)
	}
	return nil
}

// Close flushes pending bytes and releases the writer. The socket stays open until Conn.Close.
func (w *writer) Close() error {
	if w.closed {
		return nil
	}
	var err error
	if w.conn.alive.Load() {
		err = w.Flush()
	}
	w.closed = true
	return err
}
