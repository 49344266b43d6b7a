package device_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/morselink/pkg/adapters/device"
	"github.com/aretw0/morselink/pkg/ports"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// touch creates an empty file standing in for a bound device node.
func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, nil, 0o600))
}

func TestDeviceTransport_Contract(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rfcomm0")
	touch(t, path)

	tr := device.NewTransport(
		device.WithGlob(filepath.Join(dir, "rfcomm*")),
		device.WithPeers(ports.Peer{Name: "raspberrypi", Address: path}),
	)

	read := 0
	ports.RunTransportContract(t, ports.TransportHarness{
		Transport: tr,
		PeerName:  "raspberry",
		NextLine: func(t *testing.T) string {
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
			require.Greater(t, len(lines), read, "no new line written")
			read++
			return lines[read-1]
		},
	})
}

func TestDeviceTransport_Peers(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"rfcomm1", "rfcomm0", "ttyS0"} {
		touch(t, filepath.Join(dir, n))
	}
	named := ports.Peer{Name: "raspberrypi", Address: filepath.Join(dir, "rfcomm1")}

	tr := device.NewTransport(
		device.WithGlob(filepath.Join(dir, "rfcomm*")),
		device.WithPeers(named),
	)
	peers, err := tr.Peers(t.Context())
	require.NoError(t, err)

	assert.Equal(t, []ports.Peer{
		named,
		{Name: "rfcomm0", Address: filepath.Join(dir, "rfcomm0")},
	}, peers, "named devices come first and are not listed twice")
}

func TestDeviceTransport_MissingDevice(t *testing.T) {
	tr := device.NewTransport(device.WithGlob(""))
	_, err := tr.Dial(t.Context(), ports.Peer{Name: "pi", Address: filepath.Join(t.TempDir(), "rfcomm9")}, uuid.Nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDeviceTransport_AliveTracksNode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rfcomm0")
	touch(t, path)

	tr := device.NewTransport()
	conn, err := tr.Dial(t.Context(), ports.Peer{Name: "pi", Address: path}, uuid.Nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.True(t, conn.Alive())

	// rfcomm release removes the node.
	require.NoError(t, os.Remove(path))
	assert.Eventually(t, func() bool { return !conn.Alive() }, time.Second, 10*time.Millisecond)
}
