package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(wsConnected, pushEventsTotal, pushDropsTotal)
}

var (
	wsConnected = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ws_clients_connected",
		Help: "WebSocket clients currently connected.",
	})

	pushEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "push_events_total",
			Help: "Events delivered to WebSocket clients, by event type.",
		},
		[]string{"event"},
	)

	pushDropsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "push_drops_total",
		Help: "Events dropped because a client send buffer was full.",
	})
)

func ClientConnected()    { wsConnected.Inc() }
func ClientDisconnected() { wsConnected.Dec() }

func EventPushed(event string) { pushEventsTotal.WithLabelValues(norm(event)).Inc() }
func EventDropped()            { pushDropsTotal.Inc() }
