package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	draftIDKey   ctxKey = "draft_id"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// WithDraftID tags the context with the draft order being worked on.
func WithDraftID(ctx context.Context, draftID string) context.Context {
	return context.WithValue(ctx, draftIDKey, draftID)
}

func DraftIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(draftIDKey).(string); ok {
		return v
	}
	return ""
}

// FromCtx returns the global logger with request_id and draft_id attached when present.
func FromCtx(ctx context.Context) *zap.Logger {
	l := L()
	if reqID := RequestIDFrom(ctx); reqID != "" {
		l = l.With(zap.String("request_id", reqID))
	}
	if draftID := DraftIDFrom(ctx); draftID != "" {
		l = l.With(zap.String("draft_id", draftID))
	}
	return l
}
