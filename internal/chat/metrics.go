package chat

import "github.com/prometheus/client_golang/prometheus"

var (
	ConnectedSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chat_connected_sessions",
		Help: "Number of sessions currently registered",
	})

	MessagesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_messages_total",
		Help: "Total router operations by type",
	}, []string{"type"})

	EventProcessingDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chat_event_processing_seconds",
		Help:    "Time to route each event type",
		Buckets: prometheus.DefBuckets,
	}, []string{"type"})

	HistorySize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chat_history_size",
		Help: "Number of lines held in the replay history",
	})

	DroppedSends = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_dropped_sends_total",
		Help: "Lines not delivered to a session, by reason",
	}, []string{"reason"})
)

func init() {
	prometheus.MustRegister(ConnectedSessions)
	prometheus.MustRegister(MessagesTotal)
	prometheus.MustRegister(EventProcessingDuration)
	prometheus.MustRegister(HistorySize)
	prometheus.MustRegister(DroppedSends)
}
