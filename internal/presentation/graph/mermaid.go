package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/morselink/pkg/domain"
)

// Edge is one transition of the link state machine.
type Edge struct {
	From, To domain.LinkState
	Label    string
}

// LinkEdges lists every transition a link session can take.
var LinkEdges = []Edge{
	{domain.LinkDisconnected, domain.LinkConnecting, "EnsureConnected"},
	{domain.LinkConnecting, domain.LinkConnected, "dial ok"},
	{domain.LinkConnecting, domain.LinkDisconnected, "peer not found / connect failed"},
	{domain.LinkConnected, domain.LinkDisconnected, "send failed / link lost"},
	{domain.LinkDisconnected, domain.LinkClosed, "Close"},
	{domain.LinkConnected, domain.LinkClosed, "Close"},
}

// Overlay marks the live session on the diagram.
type Overlay struct {
	Current  domain.LinkState
	ErrorKey string
}

// GenerateMermaid produces a Mermaid state diagram of the link session.
// With an overlay, the current state is highlighted and annotated with the last error key.
func GenerateMermaid(overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("stateDiagram-v2\n")
	fmt.Fprintf(&sb, "    [*] --> %s\n", stateID(domain.LinkDisconnected))

	for _, e := range LinkEdges {
		fmt.Fprintf(&sb, "    %s --> %s: %s\n", stateID(e.From), stateID(e.To), e.Label)
	}
	fmt.Fprintf(&sb, "    %s --> [*]\n", stateID(domain.LinkClosed))

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast on both themes.
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000\n")
		fmt.Fprintf(&sb, "    class %s current\n", stateID(overlay.Current))
		if overlay.ErrorKey != "" {
			fmt.Fprintf(&sb, "    note right of %s: %s\n", stateID(overlay.Current), overlay.ErrorKey)
		}
	}

	return sb.String()
}

func stateID(s domain.LinkState) string {
	name := s.String()
	return strings.ToUpper(name[:1]) + name[1:]
}
