package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waitlist_submissions_total",
			Help: "Total number of waitlist submissions by HTTP status",
		},
		[]string{"status"},
	)

	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "waitlist_provider_request_duration_seconds",
			Help:    "Duration of contact provider calls in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"operation", "outcome"},
	)

	WelcomeEmailsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waitlist_welcome_emails_total",
			Help: "Total number of welcome email attempts by outcome",
		},
		[]string{"outcome"},
	)
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

func Outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}
