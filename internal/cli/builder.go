package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/morselink"
	"github.com/aretw0/morselink/internal/config"
	"github.com/aretw0/morselink/internal/logging"
	"github.com/aretw0/morselink/pkg/adapters/device"
	"github.com/aretw0/morselink/pkg/adapters/memory"
	redisadapter "github.com/aretw0/morselink/pkg/adapters/redis"
	"github.com/aretw0/morselink/pkg/adapters/tcp"
	"github.com/aretw0/morselink/pkg/codetable"
	"github.com/aretw0/morselink/pkg/observability"
	"github.com/aretw0/morselink/pkg/ports"
	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// lockPoll is the retry interval when redis.wait is set.
const lockPoll = 100 * time.Millisecond

// BuildOptions override parts of the configuration-driven wiring.
type BuildOptions struct {
	// Logger replaces the logger derived from log.level.
	Logger *slog.Logger

	// Registerer receives the metrics collectors. Nil disables metrics.
	Registerer prometheus.Registerer

	// Transport replaces the transport selected by transport.kind.
	Transport ports.Transport
}

// App is a fully wired Messenger plus the resources it owns.
type App struct {
	Config    config.Config
	Logger    *slog.Logger
	Messenger *morselink.Messenger
	Transport ports.Transport
	Metrics   *observability.Metrics

	redis *redis.Client
}

// Build wires a Messenger from cfg.
func Build(cfg config.Config, opts BuildOptions) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		level, err := logging.ParseLevel(cfg.Log.Level)
		if err != nil {
			return nil, err
		}
		logger = logging.New(level)
	}

	table, err := codetable.ByName(cfg.Table)
	if err != nil {
		return nil, err
	}

	transport := opts.Transport
	if transport == nil {
		transport, err = NewTransport(cfg, logger)
		if err != nil {
			return nil, err
		}
	}

	app := &App{
		Config:    cfg,
		Logger:    logger,
		Transport: transport,
	}
	if opts.Registerer != nil {
		app.Metrics = observability.NewMetrics(opts.Registerer)
	}

	msgOpts := []morselink.Option{
		morselink.WithTable(table),
		morselink.WithTargetName(cfg.Peer.Name),
		morselink.WithServiceUUID(cfg.ServiceID()),
		morselink.WithConnectTimeout(cfg.Peer.ConnectTimeout),
		morselink.WithLogger(logger),
		morselink.WithHooks(observability.Hooks(logger, app.Metrics)),
	}

	if cfg.Redis.Addr != "" {
		app.redis = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		var lockOpts []redisadapter.Option
		if cfg.Redis.Wait {
			lockOpts = append(lockOpts, redisadapter.WithWait(lockPoll))
		}
		locker := redisadapter.NewLocker(app.redis, cfg.Redis.Prefix, lockOpts...)
		msgOpts = append(msgOpts, morselink.WithLocker(locker, cfg.Redis.LockTTL))
		logger.Debug("Peer lock enabled", "addr", cfg.Redis.Addr)
	}

	app.Messenger, err = morselink.New(transport, NewGate(cfg), msgOpts...)
	if err != nil {
		_ = app.closeRedis()
		return nil, err
	}
	return app, nil
}

// NewTransport selects the transport named by transport.kind.
func NewTransport(cfg config.Config, logger *slog.Logger) (ports.Transport, error) {
	peers := cfg.Transport.Peers
	switch cfg.Transport.Kind {
	case config.TransportMemory:
		return memory.NewTransport(peers...), nil
	case config.TransportTCP:
		opts := []tcp.Option{tcp.WithLogger(logger)}
		if cfg.Transport.DialTimeout > 0 {
			opts = append(opts, tcp.WithDialTimeout(cfg.Transport.DialTimeout))
		}
		return tcp.NewTransport(peers, opts...), nil
	case config.TransportDevice:
		opts := []device.Option{device.WithLogger(logger), device.WithPeers(peers...)}
		if cfg.Transport.DeviceGlob != "" {
			opts = append(opts, device.WithGlob(cfg.Transport.DeviceGlob))
		}
		return device.NewTransport(opts...), nil
	default:
		return nil, fmt.Errorf("%w: unknown transport kind %q", config.ErrInvalid, cfg.Transport.Kind)
	}
}

// NewGate grants exactly the capabilities listed under permissions.
func NewGate(cfg config.Config) ports.PermissionGate {
	granted := make(map[ports.Capability]bool)
	for _, c := range cfg.Capabilities() {
		granted[c] = true
	}
	return ports.PermissionFunc(func(c ports.Capability) bool {
		return granted[c]
	})
}

// Close releases the link and the Redis client.
func (a *App) Close() error {
	var errs *multierror.Error
	if a.Messenger != nil {
		if err := a.Messenger.Close(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	if err := a.closeRedis(); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("close redis: %w", err))
	}
	return errs.ErrorOrNil()
}

func (a *App) closeRedis() error {
	if a.redis == nil {
		return nil
	}
	err := a.redis.Close()
	a.redis = nil
	return err
}
