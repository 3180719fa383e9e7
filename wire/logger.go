package wire

import (
	"log/slog"
	"sync"
)

// Logger receives warnings raised while decoding, such as values of open
// enumerations that the generated code does not declare. *slog.Logger
// satisfies it.
type Logger interface {
	Warn(msg string, args ...any)
}

var (
	loggerMu sync.RWMutex
	logger   Logger
)

// SetLogger replaces the package logger. A nil logger restores the default,
// which is slog.Default at the time of each warning.
func SetLogger(l Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
}

func currentLogger() Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// WarnUnknown reports an undeclared value accepted by an open type.
func WarnUnknown(typ, value string) {
	currentLogger().Warn("wire: unknown variant", "type", typ, "value", value)
}
