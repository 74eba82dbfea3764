// Package metrics exposes Prometheus counters for the auth subsystem.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// AuthFailuresTotal counts failed request authentications by reason.
	AuthFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskvault_auth_failures_total",
			Help: "Failed request authentications",
		},
		[]string{"reason"},
	)

	// OwnershipDenialsTotal counts cross-owner access attempts.
	OwnershipDenialsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "taskvault_ownership_denials_total",
			Help: "Requests denied by the ownership check",
		},
	)
)

func init() {
	prometheus.MustRegister(AuthFailuresTotal, OwnershipDenialsTotal)
}
