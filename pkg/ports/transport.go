package ports

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// Peer is a remote endpoint already known to (bonded with) the host.
type Peer struct {
	// Name is the advertised display name, matched against the session target.
	Name string `json:"name" mapstructure:"name"`

	// Address identifies the peer for the transport (MAC, host:port, device path).
	Address string `json:"address" mapstructure:"address"`
}

// Transport is the serial-transport capability supplied by the host environment.
type Transport interface {
	// Peers lists the known peers in the host's order.
	Peers(ctx context.Context) ([]Peer, error)

	// Dial opens a reliable byte-stream connection to peer using the service identifier.
	// It may block for a long time; implementations should honour ctx cancellation.
	Dial(ctx context.Context, peer Peer, service uuid.UUID) (Conn, error)
}

// Conn is a live connection to a peer.
type Conn interface {
	// Writer acquires the write side of the stream.
	Writer() (Writer, error)

	// Alive reports whether the transport still considers the connection usable.
	Alive() bool

	// Close releases the connection. Calling it more than once is allowed.
	Close() error
}

// Writer is the write side of a connection.
type Writer interface {
	io.Writer

	// Flush pushes buffered bytes to the peer.
	Flush() error

	// Close flushes and releases the write handle.
	Close() error
}
