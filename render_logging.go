package folio

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-folio/dynamic"
)

// RenderLogEvent describes one instance render attempt.
type RenderLogEvent struct {
	InstanceID  string
	Label       string
	Status      Status
	Failure     FailureKind
	Fingerprint string
	Duration    time.Duration
	Err         error
}

// RenderLogger records render events.
type RenderLogger interface {
	LogRender(RenderLogEvent)
}

// RenderLoggerFunc adapts a function to RenderLogger.
type RenderLoggerFunc func(RenderLogEvent)

// LogRender implements RenderLogger.
func (f RenderLoggerFunc) LogRender(event RenderLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopRenderLogger struct{}

func (noopRenderLogger) LogRender(RenderLogEvent) {}

// ZerologRenderLogger writes render events to logger. Failures log at warn,
// successes at debug.
func ZerologRenderLogger(logger zerolog.Logger) RenderLogger {
	return RenderLoggerFunc(func(event RenderLogEvent) {
		var e *zerolog.Event
		if event.Err != nil {
			e = logger.Warn().Err(event.Err).Str("failure", string(event.Failure))
		} else {
			e = logger.Debug()
		}
		if event.Fingerprint != "" {
			e = e.Str("fingerprint", dynamic.ShortFingerprint(event.Fingerprint))
		}
		e.Str("instance", event.InstanceID).
			Str("component", event.Label).
			Stringer("status", event.Status).
			Dur("duration", event.Duration).
			Msg("render instance")
	})
}

// ZerologDynamicLogger writes sandbox evaluation events to logger.
func ZerologDynamicLogger(logger zerolog.Logger) dynamic.Logger {
	return dynamic.LoggerFunc(func(event dynamic.LogEvent) {
		e := logger.Debug()
		if event.Err != nil {
			e = logger.Warn().Err(event.Err)
		}
		e.Str("instance", event.InstanceID).
			Str("fingerprint", dynamic.ShortFingerprint(event.Fingerprint)).
			Bool("cache_hit", event.CacheHit).
			Int("bytes", event.Bytes).
			Dur("duration", event.Duration).
			Msg("evaluate component")
	})
}
