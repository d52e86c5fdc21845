// Package log has the logger accepted by the staffboard SDK.
//
// Applications already using logrus can pass their entry with [NewLogrus].
// Any other logger works by implementing [Logger]:
//
//	type slogLogger struct{ l *slog.Logger }
//
//	func (s slogLogger) Infof(format string, args ...any)  { s.l.Info(fmt.Sprintf(format, args...)) }
//	func (s slogLogger) Debugf(format string, args ...any) { s.l.Debug(fmt.Sprintf(format, args...)) }
//	// ... remaining methods
package log

import (
	"github.com/sirupsen/logrus"

	"github.com/slok/staffboard/internal/log"
	loglogrus "github.com/slok/staffboard/internal/log/logrus"
)

// Logger is the logger used by the SDK.
type Logger = log.Logger

// Kv are structured logging key values.
type Kv = log.Kv

// Noop discards everything, it's the SDK default.
var Noop Logger = log.Noop

// NewLogrus returns a Logger that writes to a logrus entry.
func NewLogrus(e *logrus.Entry) Logger {
	return loglogrus.NewLogrus(e)
}
