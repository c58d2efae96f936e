package logging

import (
	"context"
	"log/slog"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/sieve"
)

// field extracts one event field as a log attribute.
type field func(*capitan.Event) (slog.Attr, bool)

// key is satisfied by capitan's typed keys.
type key[T any] interface {
	From(*capitan.Event) (T, bool)
}

func attr[T any](name string, k key[T]) field {
	return func(e *capitan.Event) (slog.Attr, bool) {
		v, ok := k.From(e)
		if !ok {
			return slog.Attr{}, false
		}
		return slog.Any(name, v), true
	}
}

var (
	input    = attr[string]("input", sieve.KeyInput)
	value    = attr[string]("value", sieve.KeyValue)
	errMsg   = attr[string]("error", sieve.KeyError)
	state    = attr[string]("state", sieve.KeyState)
	oldState = attr[string]("old_state", sieve.KeyOldState)
	newState = attr[string]("new_state", sieve.KeyNewState)
	recordID = attr[string]("record_id", sieve.KeyRecordID)
	version  = attr[int]("version", sieve.KeyVersion)
	size     = attr[int]("size", sieve.KeySize)
	matched  = attr[int]("matched", sieve.KeyMatched)
	count    = attr[int]("count", sieve.KeyCount)
	debounce = attr[time.Duration]("debounce", sieve.KeyDebounce)
	duration = attr[time.Duration]("duration", sieve.KeyDuration)
)

// record returns a capitan listener that writes the event to logger.
func record(logger *slog.Logger, level slog.Level, msg string, fields ...field) func(context.Context, *capitan.Event) {
	return func(ctx context.Context, e *capitan.Event) {
		if !logger.Enabled(ctx, level) {
			return
		}
		attrs := make([]slog.Attr, 0, len(fields))
		for _, f := range fields {
			if a, ok := f(e); ok {
				attrs = append(attrs, a)
			}
		}
		logger.LogAttrs(ctx, level, msg, attrs...)
	}
}

// Bridge hooks every sieve signal into logger. High-frequency events log at
// DEBUG; failures log at WARN.
func Bridge(logger *slog.Logger) {
	capitan.Hook(sieve.StorePublished, record(logger, slog.LevelDebug, "snapshot published", version, size))

	capitan.Hook(sieve.InputStarted, record(logger, slog.LevelDebug, "input started", input, debounce))
	capitan.Hook(sieve.InputSettled, record(logger, slog.LevelInfo, "filter input settled", input, value))
	capitan.Hook(sieve.InputSuppressed, record(logger, slog.LevelDebug, "filter input unchanged", input, value))
	capitan.Hook(sieve.InputStopped, record(logger, slog.LevelDebug, "input stopped", input))

	capitan.Hook(sieve.ViewActivated, record(logger, slog.LevelInfo, "view activated", state))
	capitan.Hook(sieve.ViewDeactivated, record(logger, slog.LevelInfo, "view deactivated", state))
	capitan.Hook(sieve.ViewRecomputed, record(logger, slog.LevelDebug, "view recomputed", version, size, matched, duration))
	capitan.Hook(sieve.RecordSkipped, record(logger, slog.LevelWarn, "record skipped", recordID, errMsg))

	capitan.Hook(sieve.FeedStarted, record(logger, slog.LevelInfo, "feed started", debounce))
	capitan.Hook(sieve.FeedStopped, record(logger, slog.LevelInfo, "feed stopped", state))
	capitan.Hook(sieve.FeedStateChanged, record(logger, slog.LevelInfo, "feed state changed", oldState, newState))
	capitan.Hook(sieve.FeedChangeReceived, record(logger, slog.LevelDebug, "feed change received"))
	capitan.Hook(sieve.FeedDecodeFailed, record(logger, slog.LevelWarn, "feed document rejected", errMsg))
	capitan.Hook(sieve.FeedValidationFailed, record(logger, slog.LevelWarn, "feed document invalid", errMsg))
	capitan.Hook(sieve.FeedApplied, record(logger, slog.LevelInfo, "feed document applied", size))

	capitan.Hook(sieve.PumpStopped, record(logger, slog.LevelInfo, "pump stopped", count))
}
