// Package log writes leveled records to the default slog handler, attaching
// any key/value tags stored on the context.
package log

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"
)

type contextKey int

const (
	tagKey contextKey = iota
)

// AddTags returns a context carrying kvs in addition to any tags already
// present. Tags are appended to every record logged with the context.
func AddTags(ctx context.Context, kvs ...any) context.Context {
	if len(kvs)%2 != 0 {
		panic("log: AddTags requires an even number of arguments")
	}
	tags, _ := ctx.Value(tagKey).([]any)
	merged := make([]any, 0, len(tags)+len(kvs))
	merged = append(merged, tags...)
	return context.WithValue(ctx, tagKey, append(merged, kvs...))
}

func record(ctx context.Context, level slog.Level, msg string, keyvals []any) {
	handler := slog.Default().Handler()
	if !handler.Enabled(ctx, level) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.Add(keyvals...)
	tags, _ := ctx.Value(tagKey).([]any)
	r.Add(tags...)
	if err := handler.Handle(ctx, r); err != nil {
		slog.ErrorContext(ctx, "error handling log record", "error", err)
	}
}

func Debugf(ctx context.Context, format string, args ...any) {
	record(ctx, slog.LevelDebug, fmt.Sprintf(format, args...), nil)
}

func Infof(ctx context.Context, format string, args ...any) {
	record(ctx, slog.LevelInfo, fmt.Sprintf(format, args...), nil)
}

func Warnf(ctx context.Context, format string, args ...any) {
	record(ctx, slog.LevelWarn, fmt.Sprintf(format, args...), nil)
}

func Errorf(ctx context.Context, format string, args ...any) {
	record(ctx, slog.LevelError, fmt.Sprintf(format, args...), nil)
}

// Debugw logs msg with structured key/value pairs.
func Debugw(ctx context.Context, msg string, keyvals ...any) {
	record(ctx, slog.LevelDebug, msg, keyvals)
}
