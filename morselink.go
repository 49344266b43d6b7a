package morselink

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/morselink/internal/logging"
	"github.com/aretw0/morselink/pkg/codetable"
	"github.com/aretw0/morselink/pkg/domain"
	"github.com/aretw0/morselink/pkg/link"
	"github.com/aretw0/morselink/pkg/ports"
	"github.com/aretw0/morselink/pkg/transcoder"
	"github.com/google/uuid"
)

// ErrNoTransport is returned by New when no transport is supplied.
var ErrNoTransport = errors.New("morselink: transport is required")

// Messenger is the high-level entry point: it translates text and ships it to the peer.
// It wraps one Transcoder and one link Session.
type Messenger struct {
	transcoder *transcoder.Transcoder
	session    *link.Session

	table    *codetable.Table
	hooks    domain.Hooks
	logger   *slog.Logger
	linkOpts []link.Option
}

// Option defines a functional option for configuring the Messenger.
type Option func(*Messenger)

// WithTable selects the code table (default: codetable.Default).
func WithTable(t *codetable.Table) Option {
	return func(m *Messenger) {
		m.table = t
	}
}

// WithTargetName sets the peer name substring to look for (default: "raspberry").
func WithTargetName(name string) Option {
	return func(m *Messenger) {
		m.linkOpts = append(m.linkOpts, link.WithTargetName(name))
	}
}

// WithServiceUUID overrides the serial port service identifier.
func WithServiceUUID(id uuid.UUID) Option {
	return func(m *Messenger) {
		m.linkOpts = append(m.linkOpts, link.WithServiceUUID(id))
	}
}

// WithConnectTimeout bounds each connect attempt. Zero disables the bound.
func WithConnectTimeout(d time.Duration) Option {
	return func(m *Messenger) {
		m.linkOpts = append(m.linkOpts, link.WithConnectTimeout(d))
	}
}

// WithRequiredCapabilities replaces the permissions checked before connecting.
func WithRequiredCapabilities(caps ...ports.Capability) Option {
	return func(m *Messenger) {
		m.linkOpts = append(m.linkOpts, link.WithRequiredCapabilities(caps...))
	}
}

// WithLocker guards the peer with a cross-process lock.
func WithLocker(l ports.PeerLocker, ttl time.Duration) Option {
	return func(m *Messenger) {
		m.linkOpts = append(m.linkOpts, link.WithLocker(l))
		if ttl > 0 {
			m.linkOpts = append(m.linkOpts, link.WithLockTTL(ttl))
		}
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Messenger) {
		m.logger = logger
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.Hooks) Option {
	return func(m *Messenger) {
		m.hooks = hooks
	}
}

// New builds a Messenger over the host transport and permission gate.
// A nil gate grants every capability.
func New(transport ports.Transport, gate ports.PermissionGate, opts ...Option) (*Messenger, error) {
	if transport == nil {
		return nil, ErrNoTransport
	}

	m := &Messenger{table: codetable.Default}
	for _, opt := range opts {
		opt(m)
	}
	if m.table == nil {
		m.table = codetable.Default
	}
	if m.logger == nil {
		m.logger = logging.NewNop()
	}

	m.transcoder = transcoder.New(
		transcoder.WithTable(m.table),
		transcoder.WithLogger(m.logger),
	)

	linkOpts := []link.Option{
		link.WithLogger(m.logger),
		link.WithHooks(m.hooks.LinkHooks),
	}
	m.session = link.New(transport, gate, append(linkOpts, m.linkOpts...)...)

	return m, nil
}

// Translate encodes text without touching the link.
func (m *Messenger) Translate(text string) domain.Result {
	res := m.transcoder.Translate(text)
	if m.hooks.OnTranslate != nil {
		m.hooks.OnTranslate(&domain.TranslateEvent{
			Timestamp: time.Now(),
			Kind:      res.Kind,
			Runes:     len([]rune(text)),
		})
	}
	return res
}

// Transmit translates text and, when the result is sendable, connects and sends it.
// Results that are not sendable are returned with their error and cause no link I/O.
func (m *Messenger) Transmit(ctx context.Context, text string) (domain.Result, error) {
	res := m.Translate(text)
	if !res.Sendable() {
		return res, res.Err()
	}
	if err := m.session.EnsureConnected(ctx); err != nil {
		return res, err
	}
	if err := m.session.Send(ctx, res.Payload()); err != nil {
		return res, err
	}
	return res, nil
}

// Connect establishes the link ahead of the first Transmit.
func (m *Messenger) Connect(ctx context.Context) error {
	return m.session.EnsureConnected(ctx)
}

// Status returns a snapshot of the link.
func (m *Messenger) Status() domain.LinkStatus {
	return m.session.Status()
}

// Table returns the code table in use.
func (m *Messenger) Table() *codetable.Table {
	return m.table
}

// Session exposes the underlying link session.
func (m *Messenger) Session() *link.Session {
	return m.session
}

// Close releases the link. It never fails.
func (m *Messenger) Close() error {
	return m.session.Close()
}
