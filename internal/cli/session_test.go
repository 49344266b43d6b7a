package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/aretw0/morselink"
	"github.com/aretw0/morselink/pkg/adapters/memory"
	"github.com/aretw0/morselink/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionMessenger(t *testing.T, peers ...ports.Peer) (*morselink.Messenger, *memory.Transport) {
	t.Helper()
	tr := memory.NewTransport(peers...)
	m, err := morselink.New(tr, ports.AllowAll)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m, tr
}

var pi = ports.Peer{Name: "raspberrypi", Address: "pi"}

func TestRunSession_TransmitsLines(t *testing.T) {
	m, tr := newSessionMessenger(t, pi)
	var out bytes.Buffer

	err := RunSession(context.Background(), m, SessionOptions{
		In:  strings.NewReader("sos\n\na#b%#\n:status\n:quit\nignored\n"),
		Out: &out,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"... --- ..."}, tr.Lines("pi"))
	assert.Contains(t, out.String(), "... --- ...\n")
	assert.Contains(t, out.String(), ">>> Invalid characters: # %\n")
	assert.Contains(t, out.String(), "| State | **connected** |")
	assert.NotContains(t, out.String(), "ignored")
}

func TestRunSession_Prompt(t *testing.T) {
	m, _ := newSessionMessenger(t, pi)
	var out bytes.Buffer

	err := RunSession(context.Background(), m, SessionOptions{
		In:     strings.NewReader("e\nt\n"),
		Out:    &out,
		Prompt: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(out.String(), ">>> Connected to raspberrypi!"))
	assert.True(t, strings.HasPrefix(out.String(), "> "))
}

func TestRunSession_DryRun(t *testing.T) {
	m, tr := newSessionMessenger(t, pi)
	var out bytes.Buffer

	err := RunSession(context.Background(), m, SessionOptions{
		In:     strings.NewReader("hello world\n"),
		Out:    &out,
		DryRun: true,
	})
	require.NoError(t, err)

	assert.Equal(t, ".... . .-.. .-.. --- / ...- --- .-. .-.. -..\n", out.String())
	assert.Zero(t, tr.Dials())
}

func TestRunSession_LinkFailuresKeepSessionAlive(t *testing.T) {
	m, tr := newSessionMessenger(t)
	var out bytes.Buffer

	err := RunSession(context.Background(), m, SessionOptions{
		In:  strings.NewReader("a\n:connect\n"),
		Out: &out,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(out.String(), ">>> Peer not found among bonded devices"))
	assert.Contains(t, out.String(), ".-\n")
	assert.Zero(t, tr.Dials())
}

func TestRunSession_Connect(t *testing.T) {
	m, tr := newSessionMessenger(t, pi)
	var out bytes.Buffer

	err := RunSession(context.Background(), m, SessionOptions{
		In:  strings.NewReader(":connect\n:help\n"),
		Out: &out,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, tr.Dials())
	assert.Contains(t, out.String(), ">>> Connected to raspberrypi!")
	assert.Contains(t, out.String(), ":quit")
}

func TestRunSession_Cancelled(t *testing.T) {
	m, tr := newSessionMessenger(t, pi)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RunSession(ctx, m, SessionOptions{In: strings.NewReader("sos\n")})
	require.NoError(t, err)
	assert.Zero(t, tr.Dials())
}

func TestRunSession_ClosedMessenger(t *testing.T) {
	m, _ := newSessionMessenger(t, pi)
	require.NoError(t, m.Close())

	err := RunSession(context.Background(), m, SessionOptions{In: strings.NewReader("sos\nsos\n")})
	assert.ErrorContains(t, err, "closed")
}
