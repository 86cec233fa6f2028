package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// HTTPMetrics records request counts, latency and concurrency per route.
type HTTPMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
	inFlight metric.Int64UpDownCounter
}

func NewHTTPMetrics(cfg Config, provider metric.MeterProvider) (*HTTPMetrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "invoicemaker"
	}
	meter := provider.Meter(name + "/http")

	var (
		m   HTTPMetrics
		err error
	)
	if m.requests, err = meter.Int64Counter("http.server.requests"); err != nil {
		return nil, err
	}
	if m.duration, err = meter.Float64Histogram("http.server.request.duration", metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if m.inFlight, err = meter.Int64UpDownCounter("http.server.active_requests"); err != nil {
		return nil, err
	}
	return &m, nil
}

// GinMiddleware records every request against its route template, never the
// raw path, so item ids do not become labels.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		route := routeLabel(c)
		active := metric.WithAttributes(FilterAttributes(attribute.String("endpoint", route))...)

		m.inFlight.Add(ctx, 1, active)
		start := time.Now()
		c.Next()
		m.inFlight.Add(ctx, -1, active)

		status := c.Writer.Status()
		done := metric.WithAttributes(FilterAttributes(
			attribute.String("endpoint", route),
			attribute.String("method", c.Request.Method),
			attribute.String("status_code", strconv.Itoa(status)),
			attribute.String("status_class", StatusClass(status)),
		)...)
		m.requests.Add(ctx, 1, done)
		m.duration.Record(ctx, time.Since(start).Seconds(), done)
	}
}

func routeLabel(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unmatched"
}

// StatusClass buckets an HTTP status, e.g. 404 -> "4xx".
func StatusClass(status int) string {
	if status < 100 || status > 599 {
		return "unknown"
	}
	return strconv.Itoa(status/100) + "xx"
}
