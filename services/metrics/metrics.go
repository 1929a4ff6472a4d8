// Package metricsvc defines the Prometheus collectors of the submission pipeline.
package metricsvc

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trezcool/duka/core/ebook"
)

// Metrics records pipeline outcomes.
type Metrics struct {
	SubmissionsAccepted *prometheus.CounterVec
	SubmissionsRejected *prometheus.CounterVec
}

var _ ebook.Recorder = (*Metrics)(nil)

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SubmissionsAccepted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "duka",
				Name:      "ebook_submissions_accepted_total",
				Help:      "Total accepted e-book submissions by academic area.",
			},
			[]string{"academic_area"},
		),
		SubmissionsRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "duka",
				Name:      "ebook_submissions_rejected_total",
				Help:      "Total rejected e-book submissions by offending field.",
			},
			[]string{"field"},
		),
	}

	reg.MustRegister(m.SubmissionsAccepted, m.SubmissionsRejected)
	return m
}

func (m *Metrics) Accepted(area ebook.AcademicArea) {
	m.SubmissionsAccepted.WithLabelValues(string(area)).Inc()
}

func (m *Metrics) Rejected(field string) {
	m.SubmissionsRejected.WithLabelValues(field).Inc()
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
