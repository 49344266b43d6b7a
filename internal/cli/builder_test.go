package cli

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/morselink/internal/config"
	"github.com/aretw0/morselink/internal/logging"
	"github.com/aretw0/morselink/pkg/adapters/device"
	"github.com/aretw0/morselink/pkg/adapters/memory"
	"github.com/aretw0/morselink/pkg/adapters/tcp"
	"github.com/aretw0/morselink/pkg/codetable"
	"github.com/aretw0/morselink/pkg/domain"
	"github.com/aretw0/morselink/pkg/ports"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() config.Config {
	cfg := config.Default()
	cfg.Transport.Kind = config.TransportMemory
	cfg.Transport.Peers = []ports.Peer{pi}
	return cfg
}

func build(t *testing.T, cfg config.Config, opts BuildOptions) *App {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	app, err := Build(cfg, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func TestBuild_Memory(t *testing.T) {
	app := build(t, memoryConfig(), BuildOptions{})

	res, err := app.Messenger.Transmit(context.Background(), "sos")
	require.NoError(t, err)
	assert.Equal(t, "... --- ...", res.Code)

	tr, ok := app.Transport.(*memory.Transport)
	require.True(t, ok)
	assert.Equal(t, []string{"... --- ..."}, tr.Lines("pi"))
	assert.Equal(t, uuid.MustParse(domain.SerialPortServiceUUID), tr.LastService())
}

func TestBuild_Table(t *testing.T) {
	cfg := memoryConfig()
	cfg.Table = "itu"
	app := build(t, cfg, BuildOptions{})
	assert.Equal(t, ".--", app.Messenger.Translate("w").Code)

	cfg.Table = "klingon"
	_, err := Build(cfg, BuildOptions{Logger: logging.NewNop()})
	assert.ErrorIs(t, err, codetable.ErrUnknownTable)
}

func TestBuild_Permissions(t *testing.T) {
	cfg := memoryConfig()
	cfg.Permissions = []string{"connect"}
	app := build(t, cfg, BuildOptions{})

	_, err := app.Messenger.Transmit(context.Background(), "sos")
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	assert.Zero(t, app.Transport.(*memory.Transport).Dials())
}

func TestBuild_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	app := build(t, memoryConfig(), BuildOptions{Registerer: reg})

	_, err := app.Messenger.Transmit(context.Background(), "e")
	require.NoError(t, err)

	require.NotNil(t, app.Metrics)
	assert.Equal(t, float64(2), testutil.ToFloat64(app.Metrics.SentBytes))
	assert.Equal(t, float64(1), testutil.ToFloat64(app.Metrics.Translations.WithLabelValues("translated")))
}

func TestBuild_RedisLock(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := memoryConfig()
	cfg.Redis.Addr = mr.Addr()
	cfg.Redis.LockTTL = time.Minute

	app, err := Build(cfg, BuildOptions{Logger: logging.NewNop()})
	require.NoError(t, err)

	require.NoError(t, app.Messenger.Connect(context.Background()))
	assert.True(t, mr.Exists("morselink:lock:pi"))

	other := build(t, cfg, BuildOptions{Transport: memory.NewTransport(pi)})
	err = other.Messenger.Connect(context.Background())
	assert.ErrorIs(t, err, domain.ErrConnectFailed)

	require.NoError(t, app.Close())
	assert.False(t, mr.Exists("morselink:lock:pi"))
	require.NoError(t, other.Messenger.Connect(context.Background()))
}

func TestNewTransport(t *testing.T) {
	cfg := memoryConfig()
	logger := logging.NewNop()

	tests := []struct {
		kind string
		want any
	}{
		{config.TransportMemory, &memory.Transport{}},
		{config.TransportTCP, &tcp.Transport{}},
		{config.TransportDevice, &device.Transport{}},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			cfg.Transport.Kind = tt.kind
			tr, err := NewTransport(cfg, logger)
			require.NoError(t, err)
			assert.IsType(t, tt.want, tr)
		})
	}

	cfg.Transport.Kind = "carrier-pigeon"
	_, err := NewTransport(cfg, logger)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestNewGate(t *testing.T) {
	cfg := config.Default()
	cfg.Permissions = []string{"connect", "scan"}
	gate := NewGate(cfg)

	assert.True(t, gate.Granted(ports.CapabilityConnect))
	assert.True(t, gate.Granted(ports.CapabilityScan))
	assert.False(t, gate.Granted(ports.CapabilityLocation))
}
