package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var (
	UsersCreatedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "users_created_total",
			Help: "Total number of users created",
		},
	)

	NotesCreatedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notes_created_total",
			Help: "Total number of notes created",
		},
	)

	ResponseTimeHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_time_seconds",
			Help:    "Response time in seconds",
			Buckets: prometheus.LinearBuckets(0.05, 0.05, 10),
		},
		[]string{"method", "path", "status"},
	)
)

func Init() {
	prometheus.MustRegister(UsersCreatedCounter)
	prometheus.MustRegister(NotesCreatedCounter)
	prometheus.MustRegister(ResponseTimeHistogram)
}

func ObserveRequest(method string, path string, status int, elapsed time.Duration) {
	ResponseTimeHistogram.
		WithLabelValues(method, path, strconv.Itoa(status)).
		Observe(elapsed.Seconds())
}

// StartMetricsServer serves /metrics on its own port so the scrape
// endpoint stays off the public API.
func StartMetricsServer(log *logrus.Logger, port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		addr := ":" + strconv.Itoa(port)
		log.WithField("from", "metrics").Infof("metrics server running on %s", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.WithField("from", "metrics").Errorf("metrics server stopped: %v", err)
		}
	}()
}
