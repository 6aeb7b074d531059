package observability

import (
	"chat-relay/domain"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector is what runtime hooks and transports report to.
type MetricsCollector interface {
	SetConnections(open, online int)
	RecordDelivery(outcome domain.DeliveryOutcome)
	RecordBroadcast(targets int)
	RecordFrame(frameType string)
	RecordError(code string)
	SetQueueDepth(queue string, length, capacity int)
}

var _ MetricsCollector = (*Collector)(nil)

type Collector struct {
	openConnections  prometheus.Gauge
	onlineUsers      prometheus.Gauge
	deliveries       *prometheus.CounterVec
	broadcasts       prometheus.Counter
	broadcastTargets prometheus.Counter
	frames           *prometheus.CounterVec
	frameErrors      *prometheus.CounterVec
	queueLength      *prometheus.GaugeVec
	queueCapacity    *prometheus.GaugeVec
}

// NewCollector registers every metric on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		openConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chat_relay_open_connections",
			Help: "Open websocket connections, anonymous or registered",
		}),
		onlineUsers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chat_relay_online_users",
			Help: "Users holding a presence entry",
		}),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_relay_deliveries_total",
			Help: "Send attempts by outcome",
		}, []string{"outcome"}),
		broadcasts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chat_relay_presence_broadcasts_total",
			Help: "Presence broadcasts pushed to connections",
		}),
		broadcastTargets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chat_relay_presence_broadcast_targets_total",
			Help: "Connections reached by presence broadcasts",
		}),
		frames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_relay_frames_total",
			Help: "Inbound websocket frames by type",
		}, []string{"type"}),
		frameErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_relay_frame_errors_total",
			Help: "Error frames sent back to clients by code",
		}, []string{"code"}),
		queueLength: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "chat_relay_queue_length",
			Help: "Sampled number of items waiting in an internal queue",
		}, []string{"queue"}),
		queueCapacity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "chat_relay_queue_capacity",
			Help: "Buffer size of an internal queue",
		}, []string{"queue"}),
	}

	reg.MustRegister(
		c.openConnections,
		c.onlineUsers,
		c.deliveries,
		c.broadcasts,
		c.broadcastTargets,
		c.frames,
		c.frameErrors,
		c.queueLength,
		c.queueCapacity,
	)
	return c
}

func (c *Collector) SetConnections(open, online int) {
	c.openConnections.Set(float64(open))
	c.onlineUsers.Set(float64(online))
}

func (c *Collector) RecordDelivery(outcome domain.DeliveryOutcome) {
	c.deliveries.WithLabelValues(string(outcome)).Inc()
}

func (c *Collector) RecordBroadcast(targets int) {
	c.broadcasts.Inc()
	c.broadcastTargets.Add(float64(targets))
}

func (c *Collector) RecordFrame(frameType string) {
	c.frames.WithLabelValues(frameType).Inc()
}

func (c *Collector) RecordError(code string) {
	c.frameErrors.WithLabelValues(code).Inc()
}

func (c *Collector) SetQueueDepth(queue string, length, capacity int) {
	c.queueLength.WithLabelValues(queue).Set(float64(length))
	c.queueCapacity.WithLabelValues(queue).Set(float64(capacity))
}

// Handler serves the Prometheus scrape endpoint.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
