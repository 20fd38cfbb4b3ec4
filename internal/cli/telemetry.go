package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/pathsampling"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// setupTracing exports step spans as JSON to w.
// The returned shutdown flushes pending spans.
func setupTracing(w io.Writer) (trace.Tracer, func(context.Context) error, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, nil, fmt.Errorf("create span exporter: %w", err)
	}

	res := resource.NewWithAttributes(semconv.SchemaURL,
		semconv.ServiceName("tps"),
		semconv.ServiceVersion(strings.TrimSpace(pathsampling.Version)),
	)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	return tp.Tracer("github.com/aretw0/pathsampling"), tp.Shutdown, nil
}
