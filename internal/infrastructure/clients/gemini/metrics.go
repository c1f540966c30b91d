package gemini

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type geminiMetrics struct {
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
}

var (
	metricsOnce sync.Once
	metricsInst *geminiMetrics
)

func instruments() *geminiMetrics {
	metricsOnce.Do(func() {
		meter := otel.Meter("github.com/eventseekr/backend/internal/infrastructure/clients/gemini")

		requestCount, err := meter.Int64Counter(
			"gemini.request.count",
			metric.WithDescription("Number of Gemini API requests"),
		)
		if err != nil {
			return
		}
		requestDuration, err := meter.Float64Histogram(
			"gemini.request.duration",
			metric.WithDescription("Gemini API request duration in milliseconds"),
			metric.WithUnit("ms"),
		)
		if err != nil {
			return
		}

		metricsInst = &geminiMetrics{
			requestCount:    requestCount,
			requestDuration: requestDuration,
		}
	})
	return metricsInst
}

func recordGeminiMetric(ctx context.Context, model string, statusCode int, duration time.Duration, err error) {
	inst := instruments()
	if inst == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("gemini.model", model),
		attribute.Int("http.status_code", statusCode),
		attribute.Bool("error", err != nil),
	}

	inst.requestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	inst.requestDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}
