// Package promhook exports captcha9kw request outcomes as Prometheus metrics.
//
//	rec := promhook.New(prometheus.DefaultRegisterer)
//	client, err := captcha9kw.NewClient(captcha9kw.ClientConfig{MetricsHook: rec.Hook})
package promhook

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess     = "success"
	OutcomeError       = "error"
	OutcomeRateLimited = "rate_limited"
)

// Recorder counts API requests by action and outcome.
type Recorder struct {
	requests *prometheus.CounterVec
}

// New registers the request counter with reg. A nil reg leaves the counter
// unregistered.
func New(reg prometheus.Registerer) *Recorder {
	return &Recorder{
		requests: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "captcha9kw",
				Name:      "requests_total",
				Help:      "9kw.eu API requests by action and outcome.",
			},
			[]string{"action", "outcome"},
		),
	}
}

// Hook matches captcha9kw.ClientConfig.MetricsHook.
func (r *Recorder) Hook(action string, success, rateLimited bool) {
	r.requests.WithLabelValues(action, outcome(success, rateLimited)).Inc()
}

func outcome(success, rateLimited bool) string {
	switch {
	case success:
		return OutcomeSuccess
	case rateLimited:
		return OutcomeRateLimited
	}
	return OutcomeError
}
