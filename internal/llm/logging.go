package llm

import (
	"context"
	"log/slog"
	"time"
)

// LoggingProvider is a decorator that records every LLM request via slog.
type LoggingProvider struct {
	inner Provider
}

// WithLogging wraps a Provider with structured request logging.
func WithLogging(p Provider) Provider {
	return &LoggingProvider{inner: p}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	attrs := []any{
		"purpose", purpose,
		"model", l.inner.ModelID(),
		"latency_ms", time.Since(start).Milliseconds(),
	}
	if resp != nil {
		attrs = append(attrs,
			"input_tokens", resp.Usage.InputTokens,
			"output_tokens", resp.Usage.OutputTokens,
		)
	}

	if err != nil {
		slog.Warn("llm request failed", append(attrs, "error", err)...)
	} else {
		slog.Debug("llm request", attrs...)
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
