package prometheus

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector exposes the service metrics through Prometheus
type Collector struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	authFailures *prometheus.CounterVec
	loginsTotal  prometheus.Counter

	entityWrites    *prometheus.CounterVec
	eventsPublished *prometheus.CounterVec

	usersGauge     prometheus.Gauge
	songsGauge     prometheus.Gauge
	favoritesGauge prometheus.Gauge
}

// NewCollector creates a new Prometheus metrics collector
func NewCollector() *Collector {
	return &Collector{
		requestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "musica_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "musica_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"method", "path"},
		),
		authFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "musica_auth_failures_total",
				Help: "Total number of failed authentication attempts",
			},
			[]string{"reason"},
		),
		loginsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "musica_logins_total",
				Help: "Total number of successful logins",
			},
		),
		entityWrites: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "musica_entity_writes_total",
				Help: "Total number of entity write operations",
			},
			[]string{"entity", "op"},
		),
		eventsPublished: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "musica_events_published_total",
				Help: "Total number of catalog events published",
			},
			[]string{"type"},
		),
		usersGauge: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "musica_users",
				Help: "Current number of registered users",
			},
		),
		songsGauge: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "musica_songs",
				Help: "Current number of songs in the catalog",
			},
		),
		favoritesGauge: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "musica_favorites",
				Help: "Current number of favorite links",
			},
		),
	}
}

// RecordRequest records a completed HTTP request
func (c *Collector) RecordRequest(method, path string, status int, duration time.Duration) {
	c.requestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// IncAuthFailure increments the count of failed authentications
func (c *Collector) IncAuthFailure(reason string) {
	c.authFailures.WithLabelValues(reason).Inc()
}

// IncLogins increments the count of successful logins
func (c *Collector) IncLogins() {
	c.loginsTotal.Inc()
}

// IncEntityWrite increments the count of write operations for an entity
func (c *Collector) IncEntityWrite(entity, op string) {
	c.entityWrites.WithLabelValues(entity, op).Inc()
}

// IncEventPublished increments the count of published catalog events
func (c *Collector) IncEventPublished(eventType string) {
	c.eventsPublished.WithLabelValues(eventType).Inc()
}

// SetEntityCounts updates the entity count gauges
func (c *Collector) SetEntityCounts(users, songs, favorites int64) {
	c.usersGauge.Set(float64(users))
	c.songsGauge.Set(float64(songs))
	c.favoritesGauge.Set(float64(favorites))
}
