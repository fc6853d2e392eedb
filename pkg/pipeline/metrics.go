package pipeline

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// metricsPipeline holds Prometheus metrics for the pipeline subsystem,
// following the same once-guarded registration as the teacher's
// pkg/ingestion/metrics.go.
type metricsPipeline struct {
	once sync.Once

	papersAcquired     prometheus.Counter
	mentionsExtracted  prometheus.Counter
	relationsExtracted prometheus.Counter
	batchErrors        prometheus.Counter

	totalDuration prometheus.Histogram
}

var recordMetrics metricsPipeline

func (m *metricsPipeline) init() {
	m.once.Do(func() {
		m.papersAcquired = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "astro_pipeline_papers_acquired_total", Help: "Papers fetched by the acquisition stage",
		})
		m.mentionsExtracted = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "astro_pipeline_mentions_extracted_total", Help: "Entity mentions produced by the NER stage",
		})
		m.relationsExtracted = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "astro_pipeline_relations_extracted_total", Help: "Relations produced by the relation extraction stage",
		})
		m.batchErrors = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "astro_pipeline_graph_batch_errors_total", Help: "Graph-load batches that failed and rolled back",
		})

		buckets := []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800, 3600}
		m.totalDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "astro_pipeline_run_seconds", Help: "Wall-clock duration of a full pipeline run", Buckets: buckets,
		})

		prometheus.MustRegister(
			m.papersAcquired, m.mentionsExtracted, m.relationsExtracted, m.batchErrors,
			m.totalDuration,
		)
	})
}
