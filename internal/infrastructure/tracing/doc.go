/*
Package tracing provides lightweight request tracing.

Every HTTP request gets a span. Trace and span ids are propagated through
the X-Trace-ID and X-Span-ID headers and stored on the request context so
handlers and the catalog client can attach them to log lines. Completed
spans are buffered and written to the logger by a single collector
goroutine; Close stops it.

# Usage

	tracer := tracing.New("gallery", logger)
	defer tracer.Close()
	router.Use(tracing.HTTPMiddleware(tracer))

	span, ctx := tracer.StartSpan(ctx, "catalog.fetch")
	defer func() {
		span.Finish()
		tracer.Submit(span)
	}()
*/
package tracing
