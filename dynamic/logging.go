package dynamic

import "time"

// LogEvent describes one dynamic render attempt.
type LogEvent struct {
	InstanceID  string
	Fingerprint string
	CacheHit    bool
	Duration    time.Duration
	Bytes       int
	Err         error
}

// Logger records dynamic render events.
type Logger interface {
	LogRender(LogEvent)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(LogEvent)

// LogRender implements Logger.
func (f LoggerFunc) LogRender(event LogEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) LogRender(LogEvent) {}
