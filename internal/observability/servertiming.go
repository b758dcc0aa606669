package observability

import (
	"context"

	servertiming "github.com/mitchellh/go-server-timing"
)

// Server-Timing metric names.
const (
	TimingParse    = "galach-parse"
	TimingGenerate = "galach-generate"
	TimingDB       = "galach-db"
)

// ServerTimingMetric wraps the server-timing library's Metric type.
type ServerTimingMetric struct {
	metric *servertiming.Metric
}

// Stop stops the timing metric.
func (m *ServerTimingMetric) Stop() {
	if m != nil && m.metric != nil {
		m.metric.Stop()
	}
}

// NewServerTimingContext attaches an empty Server-Timing header to ctx, for
// callers that are not behind the servertiming HTTP middleware.
func NewServerTimingContext(ctx context.Context) (context.Context, *servertiming.Header) {
	h := &servertiming.Header{}
	return servertiming.NewContext(ctx, h), h
}

// StartServerTiming starts a server-timing metric with the given name.
// Returns a metric that should be stopped when the timed operation completes.
// If the context doesn't contain timing info, returns a no-op metric.
func StartServerTiming(ctx context.Context, name string) *ServerTimingMetric {
	timing := servertiming.FromContext(ctx)
	if timing == nil {
		return &ServerTimingMetric{}
	}

	return &ServerTimingMetric{
		metric: timing.NewMetric(name).Start(),
	}
}

// StartServerTimingWithDesc starts a server-timing metric with the given name and description.
// If the context doesn't contain timing info, returns a no-op metric.
func StartServerTimingWithDesc(ctx context.Context, name, description string) *ServerTimingMetric {
	timing := servertiming.FromContext(ctx)
	if timing == nil {
		return &ServerTimingMetric{}
	}

	return &ServerTimingMetric{
		metric: timing.NewMetric(name).WithDesc(description).Start(),
	}
}
