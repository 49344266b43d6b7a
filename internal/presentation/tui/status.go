package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/morselink/pkg/domain"
)

// StatusMarkdown renders a link status snapshot as a markdown table.
// describe turns a message key into user text; nil prints the raw key.
func StatusMarkdown(st domain.LinkStatus, describe func(key string) string) string {
	if describe == nil {
		describe = func(key string) string { return key }
	}

	var sb strings.Builder
	sb.WriteString("## Link\n\n")
	sb.WriteString("| Field | Value |\n|---|---|\n")
	row := func(k, v string) {
		if v != "" {
			fmt.Fprintf(&sb, "| %s | %s |\n", k, escape(v))
		}
	}
	row("State", "**"+st.State.String()+"**")
	row("Target", st.Target)
	row("Peer", st.Peer)
	row("Address", st.Address)
	if !st.Since.IsZero() {
		row("Since", st.Since.Format(time.RFC3339))
	}
	if st.ErrorKey != "" {
		row("Last error", describe(st.ErrorKey))
		row("Detail", st.LastError)
	}
	return sb.String()
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
