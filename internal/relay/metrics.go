package relay

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	messagesRelayedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_messages_total",
		Help: "Number of message:send events accepted for fan-out",
	})

	deliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_deliveries_total",
		Help: "Per-recipient delivery outcomes",
	}, []string{"result"}) // delivered, dropped, skipped

	translationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_translations_total",
		Help: "Translation attempts during rendering",
	}, []string{"outcome"}) // translated, passthrough, failed

	prefsUpdatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_prefs_updates_total",
		Help: "Number of accepted prefs:set events",
	})

	connectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "relay_connected_clients",
		Help: "Currently connected websocket clients",
	})
)
