package api

import (
	"context"
	"log/slog"
)

// CallEvent records one API call, after any retries.
type CallEvent struct {
	Method    string
	Path      string
	RequestID string
	Status    int
	Attempts  int
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer receives events about API calls for logging.
type Observer interface {
	OnCallComplete(event CallEvent)
}

type slogObserver struct {
	logger *slog.Logger
}

// NewSlogObserver logs every call at debug level and failures at warn.
func NewSlogObserver(logger *slog.Logger) Observer {
	if logger == nil {
		return NoopObserver{}
	}
	return &slogObserver{logger: logger}
}

func (o *slogObserver) OnCallComplete(e CallEvent) {
	attrs := []any{
		"method", e.Method,
		"path", e.Path,
		"request_id", e.RequestID,
		"status", e.Status,
		"attempts", e.Attempts,
		"latency_ms", e.LatencyMs,
	}
	if !e.Success {
		o.logger.Log(context.Background(), slog.LevelWarn, "api_call", append(attrs, "error_code", e.ErrorCode)...)
		return
	}
	o.logger.Log(context.Background(), slog.LevelDebug, "api_call", attrs...)
}

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
