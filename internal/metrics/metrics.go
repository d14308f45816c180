package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SequenceAllocations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spacedesk_sequence_allocations_total",
		Help: "Sequence IDs issued, by entity type",
	}, []string{"entity"})
	SequenceConflicts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spacedesk_sequence_conflicts_total",
		Help: "Counter updates rolled back because the store was busy",
	}, []string{"entity"})
	StatisticsEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spacedesk_statistics_events_total",
		Help: "City statistics events applied, by child type and event",
	}, []string{"child", "event"})
	StatisticsConflicts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spacedesk_statistics_conflicts_total",
		Help: "City statistics updates rolled back because the store was busy",
	}, []string{"child"})
	StatisticsClamped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spacedesk_statistics_clamped_total",
		Help: "Statistics updates that would have gone negative or exceeded the total",
	}, []string{"child"})
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spacedesk_http_requests_total",
		Help: "HTTP requests by route pattern, method and status",
	}, []string{"route", "method", "status"})
	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "spacedesk_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	}, []string{"route", "method"})
)

func init() {
	prometheus.MustRegister(SequenceAllocations)
	prometheus.MustRegister(SequenceConflicts)
	prometheus.MustRegister(StatisticsEvents)
	prometheus.MustRegister(StatisticsConflicts)
	prometheus.MustRegister(StatisticsClamped)
	prometheus.MustRegister(HTTPRequests)
	prometheus.MustRegister(HTTPDuration)
}

// Handler exposes the default registry for scraping.
func Handler() http.Handler { return promhttp.Handler() }
