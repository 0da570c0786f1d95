package stratus

import "log/slog"

// NoopLogger discards all log output. It is the default wherever no Logger
// is configured.
type NoopLogger struct{}

// NewNoopLogger creates a logger that discards everything.
func NewNoopLogger() *NoopLogger {
	return &NoopLogger{}
}

// Debug implements Logger.
func (l *NoopLogger) Debug(msg string, fields map[string]interface{}) {}

// Info implements Logger.
func (l *NoopLogger) Info(msg string, fields map[string]interface{}) {}

// Warn implements Logger.
func (l *NoopLogger) Warn(msg string, fields map[string]interface{}) {}

// Error implements Logger.
func (l *NoopLogger) Error(msg string, fields map[string]interface{}) {}

// SlogLogger adapts a *slog.Logger to the Logger interface.
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger wraps the given slog logger; nil selects slog.Default().
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	if logger == nil {
		logger = slog.Default()
	}

	return &SlogLogger{logger: logger}
}

// Debug implements Logger.
func (l *SlogLogger) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, slogArgs(fields)...)
}

// Info implements Logger.
func (l *SlogLogger) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, slogArgs(fields)...)
}

// Warn implements Logger.
func (l *SlogLogger) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, slogArgs(fields)...)
}

// Error implements Logger.
func (l *SlogLogger) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, slogArgs(fields)...)
}

func slogArgs(fields map[string]interface{}) []any {
	args := make([]any, 0, len(fields)*2)
	for key, value := range fields {
		args = append(args, key, value)
	}

	return args
}
