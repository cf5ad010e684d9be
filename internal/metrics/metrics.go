// Package metrics holds the prometheus collectors of the artifact workflows.
package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Artifacts counts artifact workflow runs and the compensations they needed.
type Artifacts struct {
	runs          *prometheus.CounterVec
	compensations *prometheus.CounterVec
}

// NewArtifacts registers the collectors on reg. Pass prometheus.DefaultRegisterer
// to expose them through Handler.
func NewArtifacts(reg prometheus.Registerer) *Artifacts {
	factory := promauto.With(reg)
	return &Artifacts{
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eventpapers",
			Name:      "artifacts_total",
			Help:      "Artifact workflow runs by artifact kind and outcome.",
		}, []string{"artifact", "outcome"}),
		compensations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eventpapers",
			Name:      "artifact_compensations_total",
			Help:      "Stored artifacts deleted because recording their key failed.",
		}, []string{"artifact"}),
	}
}

func (a *Artifacts) Run(artifact, outcome string) {
	a.runs.WithLabelValues(artifact, outcome).Inc()
}

func (a *Artifacts) Compensated(artifact string) {
	a.compensations.WithLabelValues(artifact).Inc()
}

// Handler exposes the default registry.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
