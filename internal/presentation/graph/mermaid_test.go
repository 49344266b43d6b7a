package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/morselink/internal/presentation/graph"
	"github.com/aretw0/morselink/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name        string
		overlay     *graph.Overlay
		contains    []string
		notContains []string
	}{
		{
			name: "Transitions",
			contains: []string{
				"stateDiagram-v2",
				"[*] --> Disconnected",
				"Disconnected --> Connecting: EnsureConnected",
				"Connecting --> Connected: dial ok",
				"Connected --> Disconnected: send failed / link lost",
				"Closed --> [*]",
			},
			notContains: []string{"classDef"},
		},
		{
			name:    "Current State",
			overlay: &graph.Overlay{Current: domain.LinkConnected},
			contains: []string{
				"classDef current",
				"class Connected current",
			},
			notContains: []string{"note right of"},
		},
		{
			name:    "Error Note",
			overlay: &graph.Overlay{Current: domain.LinkDisconnected, ErrorKey: domain.KeyLinkPeerNotFound},
			contains: []string{
				"class Disconnected current",
				"note right of Disconnected: link.peer_not_found",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.overlay)
			for _, s := range tt.contains {
				assert.Contains(t, got, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, got, s)
			}
		})
	}
}

func TestGenerateMermaid_NoConnectingClose(t *testing.T) {
	// Close waits for an in-flight connect, so it never leaves Connecting directly.
	assert.False(t, strings.Contains(graph.GenerateMermaid(nil), "Connecting --> Closed"))
}
