// Package log provides the logging abstraction used across staffboard.
//
// Every component receives a [Logger] through its configuration and defaults
// to [Noop] when none is provided.
package log

import "context"

// Kv is a helper type for structured logging fields usage.
type Kv = map[string]any

// Logger is the interface that the loggers used by the application will use.
type Logger interface {
	Infof(format string, args ...any)
	Warningf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
	WithValues(values map[string]any) Logger
	WithCtxValues(ctx context.Context) Logger
	SetValuesOnCtx(parent context.Context, values map[string]any) context.Context
}

// Noop logger doesn't log anything.
const Noop = noop(0)

type noop int

func (n noop) Infof(format string, args ...any) {}

func (n noop) Warningf(format string, args ...any) {}

func (n noop) Errorf(format string, args ...any) {}

func (n noop) Debugf(format string, args ...any) {}

func (n noop) WithValues(map[string]any) Logger { return n }

func (n noop) WithCtxValues(context.Context) Logger { return n }

func (n noop) SetValuesOnCtx(parent context.Context, values map[string]any) context.Context {
	return parent
}

type contextKey string

// contextLogValuesKey used as unique key to store log values in the context.
const contextLogValuesKey = contextKey("staffboard-log")

// CtxWithValues returns a copy of parent in which the key values passed have been
// stored ready to be used using log.Logger.
func CtxWithValues(parent context.Context, kv Kv) context.Context {
	// Merge new values with old ones.
	vs := map[string]any{}
	for k, v := range ValuesFromCtx(parent) {
		vs[k] = v
	}
	for k, v := range kv {
		vs[k] = v
	}

	return context.WithValue(parent, contextLogValuesKey, vs)
}

// ValuesFromCtx gets the log Key values from a context.
func ValuesFromCtx(ctx context.Context) Kv {
	values, ok := ctx.Value(contextLogValuesKey).(map[string]any)
	if !ok {
		return Kv{}
	}

	return values
}
