package logger

import (
	"context"
	"time"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey struct{}

var logContextKey = contextKey{}

// LogContext holds operation-scoped logging context propagated through the
// catalog, blob filesystem, and orchestration layers.
type LogContext struct {
	Operation string // commit_part, prune, archive, check, ...
	BucketID  string
	ObjectID  string
	PartID    string
	StartTime time.Time
}

// WithContext returns a new context carrying the given LogContext.
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext from ctx, or nil if not present.
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// NewLogContext creates a new LogContext for the given operation.
func NewLogContext(operation string) *LogContext {
	return &LogContext{Operation: operation, StartTime: time.Now()}
}

// Clone returns a copy of the LogContext.
func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	clone := *lc
	return &clone
}

// WithBucket returns a copy with the bucket id set.
func (lc *LogContext) WithBucket(id string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.BucketID = id
	}
	return clone
}

// WithObject returns a copy with the object id set.
func (lc *LogContext) WithObject(id string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.ObjectID = id
	}
	return clone
}

// WithPart returns a copy with the part id set.
func (lc *LogContext) WithPart(id string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.PartID = id
	}
	return clone
}

// DurationMs returns the duration since StartTime in milliseconds.
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return float64(time.Since(lc.StartTime).Microseconds()) / 1000.0
}

// appendContextFields prepends LogContext fields to args so they appear
// first in the rendered output.
func appendContextFields(ctx context.Context, args []any) []any {
	lc := FromContext(ctx)
	if lc == nil {
		return args
	}

	ctxArgs := make([]any, 0, 8+len(args))
	if lc.Operation != "" {
		ctxArgs = append(ctxArgs, KeyOperation, lc.Operation)
	}
	if lc.BucketID != "" {
		ctxArgs = append(ctxArgs, KeyBucketID, lc.BucketID)
	}
	if lc.ObjectID != "" {
		ctxArgs = append(ctxArgs, KeyObjectID, lc.ObjectID)
	}
	if lc.PartID != "" {
		ctxArgs = append(ctxArgs, KeyPartID, lc.PartID)
	}
	ctxArgs = append(ctxArgs, args...)
	return ctxArgs
}
