package spawn

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts what happened during a run. A nil *Metrics is a no-op.
type Metrics struct {
	areas       *prometheus.CounterVec
	candidates  *prometheus.CounterVec
	rejections  *prometheus.CounterVec
	spawns      *prometheus.CounterVec
	clusterSize *prometheus.HistogramVec
}

// NewMetrics registers the run collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		areas: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "navspawn",
			Name:      "areas_total",
			Help:      "Areas visited, by outcome.",
		}, []string{"domain", "status"}),
		candidates: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "navspawn",
			Name:      "candidate_points_total",
			Help:      "Navmesh centroids considered as spawn points.",
		}, []string{"domain"}),
		rejections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "navspawn",
			Name:      "candidate_rejections_total",
			Help:      "Candidate points rejected, by reason.",
		}, []string{"domain", "reason"}),
		spawns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "navspawn",
			Name:      "spawns_total",
			Help:      "Spawn records emitted.",
		}, []string{"domain"}),
		clusterSize: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "navspawn",
			Name:      "cluster_size",
			Help:      "Drawn cluster sizes.",
			Buckets:   prometheus.LinearBuckets(0, 1, 10),
		}, []string{"domain"}),
	}
}

func (m *Metrics) area(domain, status string) {
	if m == nil {
		return
	}
	m.areas.WithLabelValues(domain, status).Inc()
}

func (m *Metrics) candidate(domain string, why Rejection) {
	if m == nil {
		return
	}
	m.candidates.WithLabelValues(domain).Inc()
	if why != Accepted {
		m.rejections.WithLabelValues(domain, why.String()).Inc()
	}
}

func (m *Metrics) cluster(domain string, size, emitted int) {
	if m == nil {
		return
	}
	m.clusterSize.WithLabelValues(domain).Observe(float64(size))
	m.spawns.WithLabelValues(domain).Add(float64(emitted))
}
