package memory

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/morselink/pkg/ports"
	"github.com/google/uuid"
)

// ErrClosed is returned when writing to a closed in-memory connection.
var ErrClosed = errors.New("memory: connection closed")

// Line is one newline terminated line delivered to a peer.
type Line struct {
	Address string
	Text    string
}

// Transport implements ports.Transport in memory.
// Safe for concurrent use.
type Transport struct {
	mu        sync.Mutex
	peers     []ports.Peer
	inbox     map[string][]string
	conns     []*Conn
	dials     int
	lastDial  uuid.UUID
	peersErr  error
	dialErr   error
	writeErr  error
	dialDelay time.Duration

	received chan Line
}

// NewTransport creates a transport that knows the given peers.
func NewTransport(peers ...ports.Peer) *Transport {
	return &Transport{
		peers:    append([]ports.Peer(nil), peers...),
		inbox:    make(map[string][]string),
		received: make(chan Line, 256),
	}
}

// Peers returns the known peers.
func (t *Transport) Peers(ctx context.Context) ([]ports.Peer, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.peersErr != nil {
		return nil, t.peersErr
	}
	return append([]ports.Peer(nil), t.peers...), nil
}

// Dial opens an in-memory connection to peer.
func (t *Transport) Dial(ctx context.Context, peer ports.Peer, service uuid.UUID) (ports.Conn, error) {
	t.mu.Lock()
	t.dials++
	t.lastDial = service
	delay, dialErr := t.dialDelay, t.dialErr
	t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	if dialErr != nil {
		return nil, dialErr
	}

	c := &Conn{transport: t, peer: peer}
	c.alive.Store(true)

	t.mu.Lock()
	t.conns = append(t.conns, c)
	t.mu.Unlock()
	return c, nil
}

// AddPeer registers another known peer.
func (t *Transport) AddPeer(p ports.Peer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.peers = append(t.peers, p)
}

// FailPeers makes Peers return err (nil clears it).
func (t *Transport) FailPeers(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.peersErr = err
}

// FailDial makes Dial return err (nil clears it).
func (t *Transport) FailDial(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dialErr = err
}

// FailWrites makes every write on any connection return err (nil clears it).
func (t *Transport) FailWrites(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writeErr = err
}

// SetDialDelay makes Dial block for d or until its context ends.
func (t *Transport) SetDialDelay(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dialDelay = d
}

// DropAll marks every open connection as no longer alive.
func (t *Transport) DropAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, c := range t.conns {
		c.alive.Store(false)
	}
}

// Dials returns how many times Dial was called.
func (t *Transport) Dials() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dials
}

// LastService returns the service identifier passed to the last Dial.
func (t *Transport) LastService() uuid.UUID {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastDial
}

// Lines returns every line delivered to the peer at address, in order.
func (t *Transport) Lines(address string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.inbox[address]...)
}

// Received streams delivered lines as they are flushed.
func (t *Transport) Received() <-chan Line {
	return t.received
}

// deliver records the complete lines in data and returns the unterminated remainder.
func (t *Transport) deliver(address string, data []byte) []byte {
	t.mu.Lock()
	var lines []string
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		lines = append(lines, string(data[:i]))
		data = data[i+1:]
	}
	t.inbox[address] = append(t.inbox[address], lines...)
	t.mu.Unlock()

	for _, l := range lines {
		select {
		case t.received <- Line{Address: address, Text: l}:
		default:
		}
	}
	return data
}

func (t *Transport) failure() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.writeErr
}

// Conn is an in-memory connection.
type Conn struct {
	transport *Transport
	peer      ports.Peer
	alive     atomic.Bool
	closes    atomic.Int32
}

// Writer returns a buffered writer delivering whole lines on Flush.
func (c *Conn) Writer() (ports.Writer, error) {
	if !c.alive.Load() {
		return nil, ErrClosed
	}
	return &writer{conn: c}, nil
}

func (c *Conn) Alive() bool {
	return c.alive.Load()
}

func (c *Conn) Close() error {
	c.alive.Store(false)
	c.closes.Add(1)
	return nil
}

// Closes returns how many times Close was called.
func (c *Conn) Closes() int {
	return int(c.closes.Load())
}

type writer struct {
	conn *Conn
	mu   sync.Mutex
	buf  bytes.Buffer
}

func (w *writer) Write(p []byte) (int, error) {
	if err := w.conn.transport.failure(); err != nil {
		return 0, err
	}
	if !w.conn.alive.Load() {
		return 0, ErrClosed
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func (w *writer) Flush() error {
	if err := w.conn.transport.failure(); err != nil {
		return err
	}
	if !w.conn.alive.Load() {
		return ErrClosed
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.buf.Len() == 0 {
		return nil
	}
	rest := w.conn.transport.deliver(w.conn.peer.Address, append([]byte(nil), w.buf.Bytes()...))
	w.buf.Reset()
	w.buf.Write(rest)
	return nil
}

func (w *writer) Close() error {
	if !w.conn.alive.Load() {
		return nil
	}
	return w.Flush()
}
