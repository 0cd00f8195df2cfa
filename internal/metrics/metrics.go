// Package metrics implements Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"firestige.xyz/overwatch/internal/pipeline"
)

const namespace = "overwatch"

var (
	// FramesReadTotal counts frames handed over by the frame source
	FramesReadTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_read_total",
			Help:      "Total number of frames read from the frame source",
		},
		[]string{"source"},
	)

	// ReadErrorsTotal counts failed reads on the frame source
	ReadErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "read_errors_total",
			Help:      "Total number of frame source read errors",
		},
		[]string{"source"},
	)

	// FramesRenderedTotal counts admitted frames written to the output
	FramesRenderedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_rendered_total",
			Help:      "Total number of frames rendered",
		},
		[]string{"source"},
	)
)

// StatsSource is anything exposing pipeline counters.
type StatsSource interface {
	Stats() pipeline.Stats
}

// PipelineCollector exports the counters of a match pipeline at scrape time.
type PipelineCollector struct {
	src StatsSource

	received     *prometheus.Desc
	decodeErrors *prometheus.Desc
	admitted     *prometheus.Desc
	dropped      *prometheus.Desc
}

// NewPipelineCollector creates a collector over src.
func NewPipelineCollector(src StatsSource) *PipelineCollector {
	return &PipelineCollector{
		src: src,
		received: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "pipeline", "frames_total"),
			"Total number of frames offered to the match pipeline", nil, nil),
		decodeErrors: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "pipeline", "decode_errors_total"),
			"Total number of frames whose header chain is partial", nil, nil),
		admitted: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "pipeline", "admitted_total"),
			"Total number of frames admitted by every table", nil, nil),
		dropped: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "pipeline", "dropped_total"),
			"Total number of frames dropped, by the dropping table", []string{"table"}, nil),
	}
}

func (c *PipelineCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.received
	ch <- c.decodeErrors
	ch <- c.admitted
	ch <- c.dropped
}

func (c *PipelineCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()
	ch <- prometheus.MustNewConstMetric(c.received, prometheus.CounterValue, float64(s.Received))
	ch <- prometheus.MustNewConstMetric(c.decodeErrors, prometheus.CounterValue, float64(s.DecodeErrors))
	ch <- prometheus.MustNewConstMetric(c.admitted, prometheus.CounterValue, float64(s.Admitted))
	for table, n := range s.TableDrops {
		if n == 0 {
			continue
		}
		ch <- prometheus.MustNewConstMetric(c.dropped, prometheus.CounterValue, float64(n), table)
	}
}
