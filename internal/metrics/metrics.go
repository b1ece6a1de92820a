package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "applybot_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	MatchRunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "applybot_match_run_duration_seconds",
			Help:    "Duration of each full matching run in seconds.",
			Buckets: []float64{1, 5, 15, 60, 300},
		},
	)
	ScoringStepDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "applybot_scoring_step_duration_seconds",
			Help:       "Duration of each step in the job scoring process.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"step"},
	)
	ScoredJobsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "applybot_jobs_scored_total",
			Help: "Total number of jobs scored against the profile.",
		},
	)
	ApplicationsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "applybot_applications_total",
			Help: "Total number of application dispatches by result.",
		},
		[]string{"result"},
	)
)

func StartMetricsServer() {

	prometheus.MustRegister(ErrorsCounter)
	prometheus.MustRegister(MatchRunDuration)
	prometheus.MustRegister(ScoringStepDuration)
	prometheus.MustRegister(ScoredJobsCounter)
	prometheus.MustRegister(ApplicationsCounter)

	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(":8080", nil))
	}()
}
