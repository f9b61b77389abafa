package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wifimon"

// Metrics are the dashboard pipeline counters.
type Metrics struct {
	gatherer prometheus.Gatherer

	polls          *prometheus.CounterVec
	actions        *prometheus.CounterVec
	packets        prometheus.Counter
	packetsDropped prometheus.Counter
}

// New creates metrics registered on a fresh registry.
func New() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		gatherer: registry,
		polls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "polls_total",
				Help:      "Network list refresh attempts by result",
			},
			[]string{"result"},
		),
		actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "actions_total",
				Help:      "Capture tool dispatches by result",
			},
			[]string{"result"},
		),
		packets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packets_total",
			Help:      "Packet events consumed from the push channel",
		}),
		packetsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packets_dropped_total",
			Help:      "Malformed push channel messages dropped",
		}),
	}

	for _, c := range []prometheus.Collector{m.polls, m.actions, m.packets, m.packetsDropped} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// PollCompleted counts a refresh attempt.
func (m *Metrics) PollCompleted(result string) {
	m.polls.WithLabelValues(result).Inc()
}

// ActionCompleted counts a capture tool dispatch.
func (m *Metrics) ActionCompleted(result string) {
	m.actions.WithLabelValues(result).Inc()
}

// PacketReceived counts a consumed packet event.
func (m *Metrics) PacketReceived() {
	m.packets.Inc()
}

// PacketDropped counts a malformed message.
func (m *Metrics) PacketDropped() {
	m.packetsDropped.Inc()
}

// Handler serves the metrics in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
