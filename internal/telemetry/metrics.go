package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// InitMeterProvider installs a Prometheus-backed MeterProvider globally.
// It returns the /metrics handler and a shutdown function.
func InitMeterProvider(serviceName, serviceVersion string) (http.Handler, func(context.Context) error, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, nil, err
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(serviceVersion),
	)

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	return promhttp.Handler(), mp.Shutdown, nil
}

// Metrics are the storefront's business counters. A nil *Metrics records nothing.
type Metrics struct {
	orders     metric.Int64Counter
	revenue    metric.Float64Counter
	rejections metric.Int64Counter
	requests   metric.Float64Histogram
}

func NewMetrics() (*Metrics, error) {
	meter := otel.Meter("pixelmart/checkout")

	orders, err := meter.Int64Counter("storefront.orders.placed",
		metric.WithDescription("Orders created at checkout"))
	if err != nil {
		return nil, err
	}
	revenue, err := meter.Float64Counter("storefront.orders.revenue",
		metric.WithDescription("Sum of order totals"), metric.WithUnit("{USD}"))
	if err != nil {
		return nil, err
	}
	rejections, err := meter.Int64Counter("storefront.checkout.rejections",
		metric.WithDescription("Checkout transitions rejected by validation"))
	if err != nil {
		return nil, err
	}
	requests, err := meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("Duration of handled HTTP requests"), metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	return &Metrics{orders: orders, revenue: revenue, rejections: rejections, requests: requests}, nil
}

func (m *Metrics) OrderPlaced(ctx context.Context, method, status string, total float64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("payment_method", method),
		attribute.String("status", status),
	)
	m.orders.Add(ctx, 1, attrs)
	m.revenue.Add(ctx, total, attrs)
}

func (m *Metrics) CheckoutRejected(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.rejections.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

func (m *Metrics) Request(ctx context.Context, method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.response.status_code", status),
	))
}
