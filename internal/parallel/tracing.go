package parallel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of the spans started by this
// package.
const TracerName = "github.com/agbru/parfor/internal/parallel"

// defaultTracer resolves the global provider at call time so that a provider
// installed after package init is honored.
func defaultTracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

func spanName(dims int) string {
	if dims == 2 {
		return "parallel.For2D"
	}
	return "parallel.For"
}

func startSpan(cfg *config, dims, threads int, plan Plan, inner Range) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.Int("parfor.dims", dims),
		attribute.Int("parfor.low", plan.Range.Low),
		attribute.Int("parfor.high", plan.Range.High),
		attribute.Int("parfor.threads", threads),
		attribute.Int("parfor.workers", plan.Workers),
		attribute.Int("parfor.chunk_size", plan.ChunkSize),
		attribute.String("parfor.spawn_policy", cfg.spawnPolicy.String()),
	}
	if dims == 2 {
		attrs = append(attrs,
			attribute.Int("parfor.inner_low", inner.Low),
			attribute.Int("parfor.inner_high", inner.High),
		)
	}
	return cfg.tracer.Start(cfg.ctx, spanName(dims), trace.WithAttributes(attrs...))
}

func finishSpan(span trace.Span, r Report) {
	span.SetAttributes(
		attribute.String("parfor.run_id", r.RunID.String()),
		attribute.Float64("parfor.seconds", r.Seconds()),
		attribute.Int("parfor.failed_partitions", len(r.Failed())),
		attribute.Int("parfor.fallbacks", r.Fallbacks()),
	)
	if r.Err != nil {
		span.RecordError(r.Err)
		span.SetStatus(codes.Error, r.Err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
