// Package config loads morselink settings from a YAML (or JSON) file and MORSELINK_*
// environment variables.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/morselink/internal/logging"
	"github.com/aretw0/morselink/pkg/codetable"
	"github.com/aretw0/morselink/pkg/domain"
	"github.com/aretw0/morselink/pkg/ports"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = "morselink.yaml"

// Transport kinds.
const (
	TransportMemory = "memory"
	TransportTCP    = "tcp"
	TransportDevice = "device"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the full application configuration.
type Config struct {
	Table       string          `mapstructure:"table" yaml:"table"`
	Peer        PeerConfig      `mapstructure:"peer" yaml:"peer"`
	Transport   TransportConfig `mapstructure:"transport" yaml:"transport"`
	Permissions []string        `mapstructure:"permissions" yaml:"permissions"`
	Redis       RedisConfig     `mapstructure:"redis" yaml:"redis"`
	HTTP        HTTPConfig      `mapstructure:"http" yaml:"http"`
	Log         LogConfig       `mapstructure:"log" yaml:"log"`
}

// PeerConfig selects the remote peer.
type PeerConfig struct {
	Name           string        `mapstructure:"name" yaml:"name"`
	ServiceUUID    string        `mapstructure:"service_uuid" yaml:"service_uuid"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" yaml:"connect_timeout"`
}

// TransportConfig selects how peers are reached.
type TransportConfig struct {
	Kind        string        `mapstructure:"kind" yaml:"kind"`
	Peers       []ports.Peer  `mapstructure:"peers" yaml:"peers"`
	DeviceGlob  string        `mapstructure:"device_glob" yaml:"device_glob"`
	DialTimeout time.Duration `mapstructure:"dial_timeout" yaml:"dial_timeout"`
}

// RedisConfig enables the cross-process peer lock when Addr is set.
type RedisConfig struct {
	Addr    string        `mapstructure:"addr" yaml:"addr"`
	Prefix  string        `mapstructure:"prefix" yaml:"prefix"`
	LockTTL time.Duration `mapstructure:"lock_ttl" yaml:"lock_ttl"`
	Wait    bool          `mapstructure:"wait" yaml:"wait"`
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	var c Config
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Table == "" {
		c.Table = "default"
	}
	if c.Peer.Name == "" {
		c.Peer.Name = domain.DefaultPeerName
	}
	if c.Peer.ServiceUUID == "" {
		c.Peer.ServiceUUID = domain.SerialPortServiceUUID
	}
	if c.Transport.Kind == "" {
		c.Transport.Kind = TransportDevice
	}
	if c.Permissions == nil {
		for _, p := range ports.DefaultCapabilities {
			c.Permissions = append(c.Permissions, string(p))
		}
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Load reads path (or DefaultFile when empty), overlays the environment, applies
// defaults and validates the result. A missing DefaultFile is not an error.
func Load(path string) (Config, error) {
	raw := map[string]any{}

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if raw, err = parse(path, data); err != nil {
			return Config{}, err
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	if err := overlayEnv(raw, os.LookupEnv); err != nil {
		return Config{}, err
	}

	cfg, err := decode(raw)
	if err != nil {
		return Config{}, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parse(path string, data []byte) (map[string]any, error) {
	raw := map[string]any{}
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return raw, nil
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

func decode(raw map[string]any) (Config, error) {
	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return Config{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return cfg, nil
}

// Validate checks every field that has a closed set of values.
func (c Config) Validate() error {
	var problems []string

	if _, err := codetable.ByName(c.Table); err != nil {
		problems = append(problems, err.Error())
	}
	if _, err := uuid.Parse(c.Peer.ServiceUUID); err != nil {
		problems = append(problems, fmt.Sprintf("peer.service_uuid: %v", err))
	}
	if c.Peer.ConnectTimeout < 0 {
		problems = append(problems, "peer.connect_timeout must not be negative")
	}

	switch c.Transport.Kind {
	case TransportMemory, TransportDevice:
	case TransportTCP:
		if len(c.Transport.Peers) == 0 {
			problems = append(problems, "transport.peers is required for the tcp transport")
		}
	default:
		problems = append(problems, fmt.Sprintf("transport.kind %q is not one of memory, tcp, device", c.Transport.Kind))
	}
	for i, p := range c.Transport.Peers {
		if p.Address == "" {
			problems = append(problems, fmt.Sprintf("transport.peers[%d] has no address", i))
		}
	}

	for _, p := range c.Permissions {
		switch ports.Capability(p) {
		case ports.CapabilityConnect, ports.CapabilityScan, ports.CapabilityLocation:
		default:
			problems = append(problems, fmt.Sprintf("unknown permission %q", p))
		}
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// ServiceID returns the parsed peer service UUID.
func (c Config) ServiceID() uuid.UUID {
	id, err := uuid.Parse(c.Peer.ServiceUUID)
	if err != nil {
		return uuid.MustParse(domain.SerialPortServiceUUID)
	}
	return id
}

// Capabilities returns the granted permissions.
func (c Config) Capabilities() []ports.Capability {
	caps := make([]ports.Capability, len(c.Permissions))
	for i, p := range c.Permissions {
		caps[i] = ports.Capability(p)
	}
	return caps
}
