// Package device writes to serial links already bound to character devices,
// such as /dev/rfcomm0 after `rfcomm bind` or a USB serial adapter.
package device

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/aretw0/morselink/internal/logging"
	"github.com/aretw0/morselink/pkg/ports"
	"github.com/google/uuid"
)

// DefaultGlob matches RFCOMM devices bound by BlueZ.
const DefaultGlob = "/dev/rfcomm*"

var errWriterClosed = errors.New("device: writer closed")

// Transport lists named devices plus those matching a glob.
type Transport struct {
	named  []ports.Peer
	glob   string
	logger *slog.Logger
}

// Option configures the Transport.
type Option func(*Transport)

// WithGlob sets the device pattern scanned by Peers. Empty disables scanning.
func WithGlob(pattern string) Option {
	return func(t *Transport) {
		t.glob = pattern
	}
}

// WithPeers adds devices with a display name. Address is the device path.
func WithPeers(peers ...ports.Peer) Option {
	return func(t *Transport) {
		t.named = append(t.named, peers...)
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

// NewTransport creates a device Transport scanning DefaultGlob unless told otherwise.
func NewTransport(opts ...Option) *Transport {
	t := &Transport{glob: DefaultGlob, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Peers returns named devices first, then glob matches named after their file.
func (t *Transport) Peers(ctx context.Context) ([]ports.Peer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	peers := append([]ports.Peer(nil), t.named...)
	if t.glob == "" {
		return peers, nil
	}

	matches, err := filepath.Glob(t.glob)
	if err != nil {
		return nil, fmt.Errorf("device: scan %q: %w", t.glob, err)
	}
	sort.Strings(matches)

	seen := make(map[string]bool, len(peers))
	for _, p := range peers {
		seen[p.Address] = true
	}
	for _, path := range matches {
		if seen[path] {
			continue
		}
		peers = append(peers, ports.Peer{Name: filepath.Base(path), Address: path})
	}
	return peers, nil
}

// Dial opens the device for writing. Opening a tty can block until the remote side
// answers, so the open runs aside and a canceled ctx abandons it.
func (t *Transport) Dial(ctx context.Context, peer ports.Peer, service uuid.UUID) (ports.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type opened struct {
		f   *os.File
		err error
	}
	ch := make(chan opened, 1)
	go func() {
		f, err := os.OpenFile(peer.Address, os.O_WRONLY|os.O_APPEND, 0)
		ch <- opened{f, err}
	}()

	select {
	case <-ctx.Done():
		go func() {
			if o := <-ch; o.f != nil {
				_ = o.f.Close()
			}
		}()
		return nil, ctx.Err()
	case o := <-ch:
		if o.err != nil {
			return nil, fmt.Errorf("device: open %s: %w", peer.Address, o.err)
		}
		t.logger.Info("device: opened", "peer", peer.Name, "path", peer.Address, "service", service)
		c := &Conn{f: o.f, path: peer.Address}
		c.open.Store(true)
		return c, nil
	}
}

// Conn is an open device file.
type Conn struct {
	f    *os.File
	path string
	open atomic.Bool
	once sync.Once
}

func (c *Conn) Writer() (ports.Writer, error) {
	if !c.open.Load() {
		return nil, os.ErrClosed
	}
	return &writer{conn: c, buf: bufio.NewWriter(c.f)}, nil
}

// Alive reports whether the device node still exists and the handle is open.
// Unbinding an RFCOMM device removes its node.
func (c *Conn) Alive() bool {
	if !c.open.Load() {
		return false
	}
	_, err := os.Stat(c.path)
	return err == nil
}

func (c *Conn) Close() error {
	var err error
	c.once.Do(func() {
		c.open.Store(false)
		err = c.f.Close()
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
		return 0, errWriterClosed
	}
	return w.buf.Write(p)
}

func (w *writer) Flush() error {
	if w.closed {
		return errWriterClosed
	}
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("device: write %s: %w", w.conn.path, err)
	}
	return nil
}

func (w *writer) Close() error {
	if w.closed {
		return nil
	}
	err := w.Flush()
	w.closed = true
	return err
}
