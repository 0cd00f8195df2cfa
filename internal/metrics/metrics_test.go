package metrics

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/overwatch/internal/pipeline"
)

type fixedStats pipeline.Stats

func (f fixedStats) Stats() pipeline.Stats { return pipeline.Stats(f) }

func TestPipelineCollector(t *testing.T) {
	src := fixedStats{
		Received:     10,
		DecodeErrors: 1,
		Admitted:     7,
		Dropped:      3,
		TableDrops: map[string]uint64{
			"ingress_ipv4_src": 3,
			"ingress_ipv4_dst": 0,
		},
	}

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(NewPipelineCollector(src)))

	families, err := reg.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			name := mf.GetName()
			for _, l := range m.GetLabel() {
				name += "/" + l.GetValue()
			}
			values[name] = m.GetCounter().GetValue()
		}
	}

	assert.Equal(t, 10.0, values["overwatch_pipeline_frames_total"])
	assert.Equal(t, 1.0, values["overwatch_pipeline_decode_errors_total"])
	assert.Equal(t, 7.0, values["overwatch_pipeline_admitted_total"])
	assert.Equal(t, 3.0, values["overwatch_pipeline_dropped_total/ingress_ipv4_src"])
	assert.NotContains(t, values, "overwatch_pipeline_dropped_total/ingress_ipv4_dst")
}

func TestServerServesCounters(t *testing.T) {
	FramesReadTotal.WithLabelValues("test").Inc()

	s := NewServer("127.0.0.1:0", "")
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop(context.Background())

	resp, err := http.Get("http://" + s.Addr() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `overwatch_frames_read_total{source="test"}`)
}

func TestServerStopWithoutStart(t *testing.T) {
	assert.NoError(t, NewServer(":0", "/metrics").Stop(context.Background()))
}
