package morselink_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/morselink"
	"github.com/aretw0/morselink/pkg/adapters/memory"
	"github.com/aretw0/morselink/pkg/domain"
	"github.com/aretw0/morselink/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMessenger(t *testing.T, opts ...morselink.Option) (*morselink.Messenger, *memory.Transport) {
	t.Helper()
	tr := memory.NewTransport(ports.Peer{Name: "raspberrypi", Address: "pi"})
	m, err := morselink.New(tr, memory.NewGate(ports.DefaultCapabilities...), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m, tr
}

func TestNew_RequiresTransport(t *testing.T) {
	_, err := morselink.New(nil, nil)
	assert.ErrorIs(t, err, morselink.ErrNoTransport)
}

func TestMessenger_Transmit(t *testing.T) {
	m, tr := newMessenger(t)
	ctx := context.Background()

	res, err := m.Transmit(ctx, "hi there")
	require.NoError(t, err)
	assert.Equal(t, ".... .. / - .... . .-. .", res.Code)

	_, err = m.Transmit(ctx, "  again  ")
	require.NoError(t, err)

	assert.Equal(t, []string{".... .. / - .... . .-. .", ".- --. .- .. -."}, tr.Lines("pi"))
	assert.Equal(t, 1, tr.Dials())
}

func TestMessenger_Transmit_NotSendable(t *testing.T) {
	tests := []struct {
		name string
		text string
		kind domain.ResultKind
		err  error
	}{
		{"Empty", "   ", domain.KindEmpty, nil},
		{"Invalid", "a#b#c%", domain.KindInvalid, domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, tr := newMessenger(t)

			res, err := m.Transmit(context.Background(), tt.text)
			assert.Equal(t, tt.kind, res.Kind)
			if tt.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.err)
			}
			assert.Equal(t, 0, tr.Dials(), "no link I/O for unsendable results")
			assert.Equal(t, domain.LinkDisconnected, m.Status().State)
		})
	}
}

func TestMessenger_Transmit_LinkErrors(t *testing.T) {
	tr := memory.NewTransport(ports.Peer{Name: "speaker", Address: "spk"})
	m, err := morselink.New(tr, nil)
	require.NoError(t, err)

	res, err := m.Transmit(context.Background(), "sos")
	assert.ErrorIs(t, err, domain.ErrPeerNotFound)
	assert.Equal(t, "... --- ...", res.Code, "the translation is still reported")
	assert.Equal(t, domain.KeyLinkPeerNotFound, domain.MessageKey(err))
}

func TestMessenger_Transmit_SendFailure(t *testing.T) {
	m, tr := newMessenger(t)
	ctx := context.Background()
	require.NoError(t, m.Connect(ctx))

	tr.FailWrites(errors.New("connection reset"))
	_, err := m.Transmit(ctx, "sos")
	assert.ErrorIs(t, err, domain.ErrSendFailed)
	assert.Equal(t, domain.LinkDisconnected, m.Status().State)

	// Transmit reconnects on the next call.
	tr.FailWrites(nil)
	_, err = m.Transmit(ctx, "sos")
	require.NoError(t, err)
	assert.Equal(t, 2, tr.Dials())
}

func TestMessenger_Hooks(t *testing.T) {
	var kinds []domain.ResultKind
	var sent int
	hooks := domain.Hooks{
		LinkHooks: domain.LinkHooks{
			OnSend: func(e *domain.SendEvent) { sent += e.Bytes },
		},
		OnTranslate: func(e *domain.TranslateEvent) { kinds = append(kinds, e.Kind) },
	}
	m, _ := newMessenger(t, morselink.WithHooks(hooks))
	ctx := context.Background()

	_, _ = m.Transmit(ctx, "e")
	_, _ = m.Transmit(ctx, "#")
	m.Translate("")

	assert.Equal(t, []domain.ResultKind{domain.KindTranslated, domain.KindInvalid, domain.KindEmpty}, kinds)
	assert.Equal(t, 2, sent)
}

func TestMessenger_Close(t *testing.T) {
	m, _ := newMessenger(t)
	ctx := context.Background()
	require.NoError(t, m.Connect(ctx))

	assert.NoError(t, m.Close())
	assert.NoError(t, m.Close())

	_, err := m.Transmit(ctx, "sos")
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
	assert.Equal(t, domain.LinkClosed, m.Status().State)
}

func TestMessenger_TargetName(t *testing.T) {
	tr := memory.NewTransport(
		ports.Peer{Name: "raspberrypi", Address: "pi"},
		ports.Peer{Name: "HC-05", Address: "hc"},
	)
	m, err := morselink.New(tr, nil, morselink.WithTargetName("hc-05"))
	require.NoError(t, err)
	defer m.Close()

	_, err = m.Transmit(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, []string{"-.-"}, tr.Lines("hc"))
	assert.Equal(t, "HC-05", m.Status().Peer)
}
