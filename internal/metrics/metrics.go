package metrics

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Metrics holds all Prometheus collectors for the StudyLoop backend.
var Metrics = struct {
	TogglesTotal     *prometheus.CounterVec
	PostsCreated     prometheus.Counter
	RepliesCreated   *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	DBPoolActive     prometheus.GaugeFunc
	DBPoolIdle       prometheus.GaugeFunc
}{}

var initOnce sync.Once

// Init registers all Prometheus metrics. Safe to call more than once; only
// the first call registers. pool may be nil when running on the memory store.
func Init(pool *pgxpool.Pool) {
	initOnce.Do(func() { register(pool) })
}

func register(pool *pgxpool.Pool) {
	Metrics.TogglesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studyloop_toggles_total",
			Help: "Engagement toggles applied, by kind, dimension and result.",
		},
		[]string{"kind", "dimension", "result"},
	)

	Metrics.PostsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "studyloop_posts_created_total",
			Help: "Total problem posts created.",
		},
	)

	Metrics.RepliesCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studyloop_replies_created_total",
			Help: "Total video replies created, by video source.",
		},
		[]string{"source"},
	)

	Metrics.RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "studyloop_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by endpoint and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	Metrics.RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "studyloop_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	Metrics.CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "studyloop_feed_cache_hits_total",
			Help: "Total feed cache hits.",
		},
	)

	Metrics.CacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "studyloop_feed_cache_misses_total",
			Help: "Total feed cache misses.",
		},
	)

	if pool != nil {
		Metrics.DBPoolActive = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "studyloop_db_connection_pool_active",
				Help: "Number of active database connections.",
			},
			func() float64 {
				return float64(pool.Stat().AcquiredConns())
			},
		)

		Metrics.DBPoolIdle = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "studyloop_db_connection_pool_idle",
				Help: "Number of idle database connections.",
			},
			func() float64 {
				return float64(pool.Stat().IdleConns())
			},
		)

		prometheus.MustRegister(Metrics.DBPoolActive)
		prometheus.MustRegister(Metrics.DBPoolIdle)
	}

	prometheus.MustRegister(
		Metrics.TogglesTotal,
		Metrics.PostsCreated,
		Metrics.RepliesCreated,
		Metrics.RequestDuration,
		Metrics.RequestsInFlight,
		Metrics.CacheHits,
		Metrics.CacheMisses,
	)
}

// RecordToggle counts one applied vote or report toggle.
func RecordToggle(kind, dimension, result string) {
	if Metrics.TogglesTotal == nil {
		return
	}
	Metrics.TogglesTotal.WithLabelValues(kind, dimension, result).Inc()
}

// RecordPostCreated counts one created post.
func RecordPostCreated() {
	if Metrics.PostsCreated == nil {
		return
	}
	Metrics.PostsCreated.Inc()
}

// RecordReplyCreated counts one created reply. source is "upload" or "url".
func RecordReplyCreated(source string) {
	if Metrics.RepliesCreated == nil {
		return
	}
	Metrics.RepliesCreated.WithLabelValues(source).Inc()
}

// RecordCache counts a feed cache lookup.
func RecordCache(hit bool) {
	if Metrics.CacheHits == nil {
		return
	}
	if hit {
		Metrics.CacheHits.Inc()
		return
	}
	Metrics.CacheMisses.Inc()
}

// Middleware records request duration and in-flight count for Prometheus.
func Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		if Metrics.RequestDuration == nil || c.Path() == "/metrics" {
			return c.Next()
		}

		// Copy path and method into owned strings BEFORE c.Next(); fiber
		// returns slices backed by the fasthttp buffer which can be reused.
		path := string([]byte(c.Path()))
		method := string([]byte(c.Method()))
		endpoint := SanitizeEndpoint(path)

		Metrics.RequestsInFlight.Inc()
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())

		Metrics.RequestDuration.WithLabelValues(endpoint, method, status).Observe(duration)
		Metrics.RequestsInFlight.Dec()

		return err
	}
}

// SanitizeEndpoint replaces numeric ids and upload names with placeholders
// to avoid label cardinality explosion.
func SanitizeEndpoint(path string) string {
	parts := strings.Split(path, "/")
	for i := 1; i < len(parts); i++ {
		switch parts[i-1] {
		case "post", "reply":
			parts[i] = ":id"
		case "uploads":
			parts[i] = ":name"
		}
	}
	return strings.Join(parts, "/")
}

// Handler serves the Prometheus /metrics endpoint via fiber.
func Handler() fiber.Handler {
	httpHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c fiber.Ctx) error {
		httpHandler(c.RequestCtx())
		return nil
	}
}
