package executor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("github.com/vk/ridgegrow/internal/executor")

var (
	// tasksTotal counts finished tasks. Labels: "grown", "failed".
	tasksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ridgegrow_tasks_total",
		Help: "Growth tasks finished, by result",
	}, []string{"result"})

	taskDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ridgegrow_task_duration_seconds",
		Help:    "Wall time spent growing a single ridge",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
	})

	ridgePoints = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ridgegrow_ridge_points",
		Help:    "Number of vertices in a grown ridge",
		Buckets: []float64{2, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
	})

	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ridgegrow_queue_depth",
		Help: "Tasks waiting in the executor queue",
	})
)
