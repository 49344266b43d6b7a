package tui_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/aretw0/morselink/internal/presentation/tui"
	"github.com/aretw0/morselink/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestStatusMarkdown(t *testing.T) {
	st := domain.LinkStatus{
		State:     domain.LinkDisconnected,
		Target:    "raspberry",
		LastError: "link connect failed (peer \"pi\"): host | down",
		ErrorKey:  domain.KeyLinkConnectFailed,
		Since:     time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	md := tui.StatusMarkdown(st, func(key string) string { return "msg:" + key })
	assert.Contains(t, md, "| State | **disconnected** |")
	assert.Contains(t, md, "| Target | raspberry |")
	assert.Contains(t, md, "| Last error | msg:link.connect_failed |")
	assert.Contains(t, md, `host \| down`)
	assert.Contains(t, md, "2026-01-02T03:04:05Z")
	assert.NotContains(t, md, "| Peer |", "empty fields are omitted")

	plain := tui.StatusMarkdown(domain.LinkStatus{State: domain.LinkConnected, Peer: "pi"}, nil)
	assert.Contains(t, plain, "| Peer | pi |")
	assert.NotContains(t, plain, "Last error")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, "v1.2.3")
	assert.Contains(t, buf.String(), "-- --- .-. ... . .-.. .. -. -.-")
	assert.Contains(t, buf.String(), "v1.2.3")
}

func TestRenderers(t *testing.T) {
	out, err := tui.PlainRenderer()("# Title")
	assert.NoError(t, err)
	assert.Equal(t, "# Title", out)

	out, err = tui.NewRenderer()("**bold**")
	assert.NoError(t, err)
	assert.Contains(t, out, "bold")
}
