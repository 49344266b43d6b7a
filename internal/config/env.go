package config

import (
	"fmt"
	"strings"
)

// EnvPrefix starts every environment override.
const EnvPrefix = "MORSELINK_"

// envKeys maps variables to config paths. Values are strings; the decoder converts them.
var envKeys = []struct {
	name string
	path []string
}{
	{"TABLE", []string{"table"}},
	{"PEER_NAME", []string{"peer", "name"}},
	{"PEER_SERVICE_UUID", []string{"peer", "service_uuid"}},
	{"PEER_CONNECT_TIMEOUT", []string{"peer", "connect_timeout"}},
	{"TRANSPORT_KIND", []string{"transport", "kind"}},
	{"TRANSPORT_DEVICE_GLOB", []string{"transport", "device_glob"}},
	{"TRANSPORT_DIAL_TIMEOUT", []string{"transport", "dial_timeout"}},
	{"PERMISSIONS", []string{"permissions"}},
	{"REDIS_ADDR", []string{"redis", "addr"}},
	{"REDIS_PREFIX", []string{"redis", "prefix"}},
	{"REDIS_LOCK_TTL", []string{"redis", "lock_ttl"}},
	{"REDIS_WAIT", []string{"redis", "wait"}},
	{"HTTP_ADDR", []string{"http", "addr"}},
	{"LOG_LEVEL", []string{"log", "level"}},
}

// overlayEnv writes MORSELINK_* values over the parsed file.
// MORSELINK_TRANSPORT_PEERS takes "name=address" pairs separated by commas.
func overlayEnv(raw map[string]any, lookup func(string) (string, bool)) error {
	for _, k := range envKeys {
		if v, ok := lookup(EnvPrefix + k.name); ok {
			setPath(raw, k.path, v)
		}
	}

	if v, ok := lookup(EnvPrefix + "TRANSPORT_PEERS"); ok {
		var peers []any
		for _, pair := range strings.Split(v, ",") {
			pair = strings.TrimSpace(pair)
			if pair == "" {
				continue
			}
			name, addr, found := strings.Cut(pair, "=")
			if !found {
				return fmt.Errorf("%w: %sTRANSPORT_PEERS entry %q is not name=address", ErrInvalid, EnvPrefix, pair)
			}
			peers = append(peers, map[string]any{"name": name, "address": addr})
		}
		setPath(raw, []string{"transport", "peers"}, peers)
	}
	return nil
}

func setPath(m map[string]any, path []string, v any) {
	for _, key := range path[:len(path)-1] {
		next, ok := m[key].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[key] = next
		}
		m = next
	}
	m[path[len(path)-1]] = v
}
