package link

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/morselink/internal/logging"
	"github.com/aretw0/morselink/pkg/domain"
	"github.com/aretw0/morselink/pkg/ports"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
)

// Session owns the connection to one peer.
// A connection handle exists if and only if the state is domain.LinkConnected.
type Session struct {
	transport ports.Transport
	gate      ports.PermissionGate
	locker    ports.PeerLocker
	logger    *slog.Logger
	hooks     domain.LinkHooks

	target         string
	service        uuid.UUID
	connectTimeout time.Duration
	lockTTL        time.Duration
	required       []ports.Capability

	mu     sync.Mutex // Serializes EnsureConnected, Send and Close
	conn   ports.Conn
	writer ports.Writer
	unlock ports.UnlockFunc

	// The snapshot is written under both mu and snap, and read under snap alone,
	// so status queries never wait for a dial in flight.
	snap    sync.RWMutex
	state   domain.LinkState
	since   time.Time
	peer    ports.Peer
	lastErr error
}

// New creates a disconnected Session over the host transport and permission gate.
// A nil gate grants everything.
func New(transport ports.Transport, gate ports.PermissionGate, opts ...Option) *Session {
	if gate == nil {
		gate = ports.AllowAll
	}
	s := &Session{
		transport: transport,
		gate:      gate,
		logger:    logging.NewNop(),
		target:    domain.DefaultPeerName,
		service:   uuid.MustParse(domain.SerialPortServiceUUID),
		lockTTL:   DefaultLockTTL,
		required:  ports.DefaultCapabilities,
		state:     domain.LinkDisconnected,
		since:     time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureConnected makes sure the session holds a live connection.
// It is idempotent: a live connection is reused without discovery or dialing.
func (s *Session) EnsureConnected(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case domain.LinkClosed:
		return domain.ErrSessionClosed
	case domain.LinkConnected:
		if s.conn.Alive() {
			return nil
		}
		s.logger.Warn("Link lost, reconnecting", "peer", s.peer.Name)
		s.release()
		s.transition(domain.LinkDisconnected, nil)
	}

	if missing := s.missingCapabilities(); len(missing) > 0 {
		return s.fail(fmt.Errorf("%w: missing %s", domain.ErrPermissionDenied, strings.Join(missing, ", ")))
	}

	s.transition(domain.LinkConnecting, nil)

	if s.connectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.connectTimeout)
		defer cancel()
	}

	peer, err := s.discover(ctx)
	if err != nil {
		return s.fail(err)
	}

	var unlock ports.UnlockFunc
	if s.locker != nil {
		unlock, err = s.locker.Lock(ctx, peerKey(peer), s.lockTTL)
		if err != nil {
			return s.fail(&domain.ConnectError{Peer: peer.Name, Err: fmt.Errorf("peer lock: %w", err)})
		}
	}

	s.logger.Debug("Dialing peer", "peer", peer.Name, "address", peer.Address, "service", s.service)
	conn, err := s.transport.Dial(ctx, peer, s.service)
	if err != nil {
		s.releaseLock(unlock)
		return s.fail(&domain.ConnectError{Peer: peer.Name, Err: err})
	}

	w, err := conn.Writer()
	if err != nil {
		if cerr := safely(conn.Close); cerr != nil {
			s.logger.Warn("Failed to release connection after writer error", "peer", peer.Name, "err", cerr)
		}
		s.releaseLock(unlock)
		return s.fail(&domain.ConnectError{Peer: peer.Name, Err: fmt.Errorf("acquire writer: %w", err)})
	}

	s.conn = conn
	s.writer = w
	s.unlock = unlock
	s.snap.Lock()
	s.peer = peer
	s.lastErr = nil
	s.snap.Unlock()
	s.transition(domain.LinkConnected, nil)
	s.logger.Info("Link connected", "peer", peer.Name, "address", peer.Address)
	return nil
}

// Send writes payload followed by a newline and flushes it.
// A failed write drops the connection; the caller must EnsureConnected before retrying.
func (s *Session) Send(ctx context.Context, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case domain.LinkClosed:
		return domain.ErrSessionClosed
	case domain.LinkConnected:
	default:
		return domain.ErrNotConnected
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	line := make([]byte, 0, len(payload)+1)
	line = append(line, payload...)
	line = append(line, domain.LineTerminator)

	peer := s.peer.Name
	_, err := s.writer.Write(line)
	if err == nil {
		err = s.writer.Flush()
	}
	if err != nil {
		serr := &domain.SendError{Err: err}
		s.logger.Warn("Send failed, dropping link", "peer", peer, "err", err)
		s.setLastErr(serr)
		s.release()
		s.transition(domain.LinkDisconnected, serr)
		s.emitSend(peer, 0, serr)
		return serr
	}

	s.logger.Debug("Line sent", "peer", peer, "bytes", len(line))
	s.emitSend(peer, len(line), nil)
	return nil
}

// Close tears the session down. It never fails: secondary errors are logged and dropped.
// Closing an already closed session is a no-op.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == domain.LinkClosed {
		return nil
	}
	s.release()
	s.transition(domain.LinkClosed, nil)
	return nil
}

// State returns the current connection state. It does not wait for a connect in progress.
func (s *Session) State() domain.LinkState {
	s.snap.RLock()
	defer s.snap.RUnlock()
	return s.state
}

// LastError returns the diagnostic of the last failed operation, if any.
func (s *Session) LastError() error {
	s.snap.RLock()
	defer s.snap.RUnlock()
	return s.lastErr
}

// Peer returns the connected peer.
func (s *Session) Peer() (ports.Peer, bool) {
	s.snap.RLock()
	defer s.snap.RUnlock()
	return s.peer, s.state == domain.LinkConnected
}

// Status returns a snapshot for status displays.
func (s *Session) Status() domain.LinkStatus {
	s.snap.RLock()
	defer s.snap.RUnlock()

	st := domain.LinkStatus{
		State:  s.state,
		Target: s.target,
		Since:  s.since,
	}
	if s.state == domain.LinkConnected {
		st.Peer = s.peer.Name
		st.Address = s.peer.Address
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
		st.ErrorKey = domain.MessageKey(s.lastErr)
	}
	return st
}

// discover picks the first known peer whose name contains the target, case-insensitively.
func (s *Session) discover(ctx context.Context) (ports.Peer, error) {
	peers, err := s.transport.Peers(ctx)
	if err != nil {
		return ports.Peer{}, &domain.ConnectError{Err: fmt.Errorf("list peers: %w", err)}
	}

	target := strings.ToLower(s.target)
	for _, p := range peers {
		if p.Name != "" && strings.Contains(strings.ToLower(p.Name), target) {
			return p, nil
		}
	}
	return ports.Peer{}, fmt.Errorf("%w: no name contains %q (%d known)", domain.ErrPeerNotFound, s.target, len(peers))
}

func (s *Session) missingCapabilities() []string {
	var missing []string
	for _, c := range s.required {
		if !s.gate.Granted(c) {
			missing = append(missing, string(c))
		}
	}
	return missing
}

// fail records err and returns to Disconnected.
func (s *Session) fail(err error) error {
	s.setLastErr(err)
	s.logger.Warn("Link connect failed", "target", s.target, "err", err)
	if s.state != domain.LinkDisconnected {
		s.transition(domain.LinkDisconnected, err)
	}
	return err
}

// release drops the writer, connection and peer lock, swallowing every error.
func (s *Session) release() {
	var errs *multierror.Error
	if s.writer != nil {
		if err := safely(s.writer.Flush); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("flush: %w", err))
		}
		if err := safely(s.writer.Close); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("close writer: %w", err))
		}
	}
	if s.conn != nil {
		if err := safely(s.conn.Close); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("close connection: %w", err))
		}
	}
	if s.unlock != nil {
		unlock := s.unlock
		if err := safely(func() error { return unlock(context.Background()) }); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("release peer lock: %w", err))
		}
	}

	if err := errs.ErrorOrNil(); err != nil {
		s.logger.Warn("Link teardown errors ignored", "peer", s.peer.Name, "err", err)
	}
	s.writer = nil
	s.conn = nil
	s.unlock = nil
	s.snap.Lock()
	s.peer = ports.Peer{}
	s.snap.Unlock()
}

func (s *Session) setLastErr(err error) {
	s.snap.Lock()
	s.lastErr = err
	s.snap.Unlock()
}

func (s *Session) releaseLock(unlock ports.UnlockFunc) {
	if unlock == nil {
		return
	}
	if err := safely(func() error { return unlock(context.Background()) }); err != nil {
		s.logger.Warn("Failed to release peer lock (will expire via TTL)", "err", err)
	}
}

func (s *Session) transition(to domain.LinkState, err error) {
	s.snap.Lock()
	from := s.state
	s.state = to
	s.since = time.Now()
	since, peer := s.since, s.peer.Name
	s.snap.Unlock()

	s.logger.Debug("Link state", "from", from, "to", to)
	if s.hooks.OnStateChange != nil {
		s.hooks.OnStateChange(&domain.StateEvent{
			Timestamp: since,
			From:      from,
			To:        to,
			Peer:      peer,
			Err:       err,
		})
	}
}

func (s *Session) emitSend(peer string, n int, err error) {
	if s.hooks.OnSend != nil {
		s.hooks.OnSend(&domain.SendEvent{
			Timestamp: time.Now(),
			Peer:      peer,
			Bytes:     n,
			Err:       err,
		})
	}
}

func peerKey(p ports.Peer) string {
	if p.Address != "" {
		return p.Address
	}
	return p.Name
}

// safely runs a teardown step, turning a panic into an error.
func safely(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return fn()
}
