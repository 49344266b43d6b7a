package observability

import (
	"github.com/aretw0/morselink/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors fed by the lifecycle hooks.
type Metrics struct {
	Translations *prometheus.CounterVec
	Transitions  *prometheus.CounterVec
	Sends        *prometheus.CounterVec
	SentBytes    prometheus.Counter
	LinkState    *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg (nil skips registration).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Translations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "morselink_translations_total",
				Help: "Total number of translations by result kind",
			},
			[]string{"kind"},
		),
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "morselink_link_transitions_total",
				Help: "Total number of link state transitions by target state",
			},
			[]string{"to"},
		),
		Sends: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "morselink_sends_total",
				Help: "Total number of lines sent to the peer by outcome",
			},
			[]string{"result"},
		),
		SentBytes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "morselink_sent_bytes_total",
				Help: "Total number of bytes written to the peer",
			},
		),
		LinkState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "morselink_link_state",
				Help: "1 for the current link state, 0 otherwise",
			},
			[]string{"state"},
		),
	}

	for _, s := range []domain.LinkState{domain.LinkDisconnected, domain.LinkConnecting, domain.LinkConnected, domain.LinkClosed} {
		m.LinkState.WithLabelValues(s.String()).Set(0)
	}
	m.LinkState.WithLabelValues(domain.LinkDisconnected.String()).Set(1)

	if reg != nil {
		reg.MustRegister(m.Translations, m.Transitions, m.Sends, m.SentBytes, m.LinkState)
	}
	return m
}

func (m *Metrics) observeTranslate(e *domain.TranslateEvent) {
	m.Translations.WithLabelValues(string(e.Kind)).Inc()
}

func (m *Metrics) observeState(e *domain.StateEvent) {
	m.Transitions.WithLabelValues(e.To.String()).Inc()
	m.LinkState.WithLabelValues(e.From.String()).Set(0)
	m.LinkState.WithLabelValues(e.To.String()).Set(1)
}

func (m *Metrics) observeSend(e *domain.SendEvent) {
	if e.Err != nil {
		m.Sends.WithLabelValues("error").Inc()
		return
	}
	m.Sends.WithLabelValues("ok").Inc()
	m.SentBytes.Add(float64(e.Bytes))
}
