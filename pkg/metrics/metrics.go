package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yadexhq/yadex/pkg/errcodes"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yadex_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "yadex_http_request_duration_seconds",
			Help:    "Time to answer an HTTP request",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
		[]string{"method"},
	)

	ListingEntries = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "yadex_listing_entries",
			Help:    "Number of entries rendered per directory listing",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	ListingsTruncated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "yadex_listings_truncated_total",
			Help: "Directory listings that hit the configured entry limit",
		},
	)

	EntriesSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "yadex_entries_skipped_total",
			Help: "Directory entries omitted because their metadata couldn't be read",
		},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		ListingEntries,
		ListingsTruncated,
		EntriesSkipped,
	)
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// EchoMiddleware returns Echo middleware that instruments HTTP requests.
// Request paths aren't used as labels since every directory is its own path.
func EchoMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			method := c.Request().Method
			HTTPRequestsTotal.WithLabelValues(method, strconv.Itoa(status(c, err))).Inc()
			HTTPRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

func status(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}
	var e *errcodes.Error
	if errors.As(err, &e) {
		return e.HTTPCode
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}

// NewServer returns a standalone server exposing /metrics on addr.
func NewServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
