package observability

import (
	"log/slog"

	"github.com/aretw0/morselink/pkg/domain"
)

// Hooks builds lifecycle hooks that log each event and record it in metrics.
// Either argument may be nil.
func Hooks(logger *slog.Logger, metrics *Metrics) domain.Hooks {
	return domain.Hooks{
		LinkHooks: domain.LinkHooks{
			OnStateChange: func(e *domain.StateEvent) {
				if logger != nil {
					attrs := []any{"from", e.From.String(), "to", e.To.String()}
					if e.Peer != "" {
						attrs = append(attrs, "peer", e.Peer)
					}
					if e.Err != nil {
						attrs = append(attrs, "err", e.Err, "key", domain.MessageKey(e.Err))
					}
					logger.Info("link_state", attrs...)
				}
				if metrics != nil {
					metrics.observeState(e)
				}
			},
			OnSend: func(e *domain.SendEvent) {
				if logger != nil {
					if e.Err != nil {
						logger.Warn("line_send", "peer", e.Peer, "err", e.Err)
					} else {
						logger.Debug("line_send", "peer", e.Peer, "bytes", e.Bytes)
					}
				}
				if metrics != nil {
					metrics.observeSend(e)
				}
			},
		},
		OnTranslate: func(e *domain.TranslateEvent) {
			if logger != nil {
				logger.Debug("translate", "kind", e.Kind, "runes", e.Runes)
			}
			if metrics != nil {
				metrics.observeTranslate(e)
			}
		},
	}
}
