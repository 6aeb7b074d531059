package observability

import (
	"chat-relay/domain"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T, reg *prometheus.Registry, name string) []*dto.Metric {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			return mf.GetMetric()
		}
	}
	t.Fatalf("%s metric not found", name)
	return nil
}

func TestCollector_SetConnections(t *testing.T) {
	req := require.New(t)
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.SetConnections(3, 2)

	req.Equal(3.0, gather(t, reg, "chat_relay_open_connections")[0].GetGauge().GetValue())
	req.Equal(2.0, gather(t, reg, "chat_relay_online_users")[0].GetGauge().GetValue())
}

func TestCollector_RecordDelivery_By_Outcome(t *testing.T) {
	req := require.New(t)
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordDelivery(domain.Forwarded)
	c.RecordDelivery(domain.Forwarded)
	c.RecordDelivery(domain.Offline)

	values := map[string]float64{}
	for _, m := range gather(t, reg, "chat_relay_deliveries_total") {
		values[m.GetLabel()[0].GetValue()] = m.GetCounter().GetValue()
	}
	req.Equal(map[string]float64{"forwarded": 2, "offline": 1}, values)
}

func TestCollector_RecordBroadcast(t *testing.T) {
	req := require.New(t)
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordBroadcast(2)
	c.RecordBroadcast(5)

	req.Equal(2.0, gather(t, reg, "chat_relay_presence_broadcasts_total")[0].GetCounter().GetValue())
	req.Equal(7.0, gather(t, reg, "chat_relay_presence_broadcast_targets_total")[0].GetCounter().GetValue())
}

func TestHandler_Exposes_Metrics(t *testing.T) {
	req := require.New(t)
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordFrame("send:message")
	c.RecordError("InvalidArgument")

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	req.Equal(200, rec.Code)
	body, err := io.ReadAll(rec.Body)
	req.NoError(err)
	req.Contains(string(body), `chat_relay_frames_total{type="send:message"} 1`)
	req.Contains(string(body), `chat_relay_frame_errors_total{code="InvalidArgument"} 1`)
}

func TestCollector_SetQueueDepth(t *testing.T) {
	req := require.New(t)
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.SetQueueDepth("presence_broadcasts", 3, 256)

	req.Equal(3.0, gather(t, reg, "chat_relay_queue_length")[0].GetGauge().GetValue())
	req.Equal(256.0, gather(t, reg, "chat_relay_queue_capacity")[0].GetGauge().GetValue())
}
