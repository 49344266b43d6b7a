package ports

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TransportHarness wires a Transport implementation into RunTransportContract.
type TransportHarness struct {
	Transport Transport

	// PeerName is the name of a peer the transport is expected to list and reach.
	PeerName string

	// NextLine blocks until the peer side has received one complete line and returns it
	// without the terminator.
	NextLine func(t *testing.T) string
}

// RunTransportContract runs a suite of tests to verify that a Transport implementation
// adheres to the defined interface contract.
func RunTransportContract(t *testing.T, h TransportHarness) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	service := uuid.MustParse("00001101-0000-1000-8000-00805F9B34FB")

	findPeer := func(t *testing.T) Peer {
		peers, err := h.Transport.Peers(ctx)
		require.NoError(t, err, "Peers should not return error")
		for _, p := range peers {
			if strings.Contains(strings.ToLower(p.Name), strings.ToLower(h.PeerName)) {
				return p
			}
		}
		t.Fatalf("peer %q not listed in %v", h.PeerName, peers)
		return Peer{}
	}

	t.Run("Peers", func(t *testing.T) {
		p := findPeer(t)
		assert.NotEmpty(t, p.Address, "listed peers should carry an address")
	})

	t.Run("Dial Write Close", func(t *testing.T) {
		conn, err := h.Transport.Dial(ctx, findPeer(t), service)
		require.NoError(t, err, "Dial should not return error")
		assert.True(t, conn.Alive(), "fresh connection should be alive")

		w, err := conn.Writer()
		require.NoError(t, err)

		_, err = w.Write([]byte("... --- ...\n"))
		require.NoError(t, err)
		require.NoError(t, w.Flush())
		assert.Equal(t, "... --- ...", h.NextLine(t))

		assert.NoError(t, w.Close())
		assert.NoError(t, conn.Close())
		assert.False(t, conn.Alive(), "closed connection should not be alive")
		assert.NotPanics(t, func() { _ = conn.Close() }, "second Close should be safe")
	})

	t.Run("Dial Canceled", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := h.Transport.Dial(canceled, findPeer(t), service)
		assert.Error(t, err, "Dial with a canceled context should fail")
	})
}
