package memory

import (
	"sync"

	"github.com/aretw0/morselink/pkg/ports"
)

// Gate is a mutable PermissionGate. Safe for concurrent use.
type Gate struct {
	mu      sync.RWMutex
	granted map[ports.Capability]bool
}

// NewGate creates a gate granting caps.
func NewGate(caps ...ports.Capability) *Gate {
	g := &Gate{granted: make(map[ports.Capability]bool)}
	for _, c := range caps {
		g.granted[c] = true
	}
	return g
}

// Granted reports whether c has been granted.
func (g *Gate) Granted(c ports.Capability) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.granted[c]
}

// Grant adds capabilities.
func (g *Gate) Grant(caps ...ports.Capability) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, c := range caps {
		g.granted[c] = true
	}
}

// Revoke removes capabilities.
func (g *Gate) Revoke(caps ...ports.Capability) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, c := range caps {
		delete(g.granted, c)
	}
}
