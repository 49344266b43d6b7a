package link

import (
	"log/slog"
	"time"

	"github.com/aretw0/morselink/pkg/domain"
	"github.com/aretw0/morselink/pkg/ports"
	"github.com/google/uuid"
)

// DefaultLockTTL bounds how long a peer lock survives a crashed holder.
const DefaultLockTTL = 10 * time.Minute

// Option configures the Session.
type Option func(*Session)

// WithTargetName sets the peer name substring (case-insensitive). Default: "raspberry".
func WithTargetName(name string) Option {
	return func(s *Session) {
		if name != "" {
			s.target = name
		}
	}
}

// WithServiceUUID overrides the rendezvous identifier passed to Dial.
func WithServiceUUID(id uuid.UUID) Option {
	return func(s *Session) {
		s.service = id
	}
}

// WithConnectTimeout bounds discovery plus dial. Zero (the default) means no bound.
func WithConnectTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.connectTimeout = d
	}
}

// WithRequiredCapabilities replaces the capability set checked before connecting.
func WithRequiredCapabilities(caps ...ports.Capability) Option {
	return func(s *Session) {
		s.required = caps
	}
}

// WithLocker enables cross-process peer locking.
func WithLocker(locker ports.PeerLocker) Option {
	return func(s *Session) {
		s.locker = locker
	}
}

// WithLockTTL sets the TTL requested from the PeerLocker.
func WithLockTTL(ttl time.Duration) Option {
	return func(s *Session) {
		s.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Session.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.LinkHooks) Option {
	return func(s *Session) {
		s.hooks = hooks
	}
}
