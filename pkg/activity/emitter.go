package activity

import (
	"context"
	"strings"
)

// DefaultChannel tags events that do not name a channel.
const DefaultChannel = "portfolio"

// Config controls emission defaults. An empty Verbs list emits every verb;
// otherwise only the listed verbs reach the hooks.
type Config struct {
	Enabled bool
	Channel string
	Verbs   []string
}

// Emitter applies the channel default and verb filter, then hands events to
// its hooks. A nil Emitter is valid and drops everything.
type Emitter struct {
	hooks   Hooks
	channel string
	verbs   map[string]bool
}

// NewEmitter builds an emitter. It is disabled when cfg.Enabled is false or
// no non-nil hook is given.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	e := &Emitter{channel: strings.TrimSpace(cfg.Channel)}
	if e.channel == "" {
		e.channel = DefaultChannel
	}
	if cfg.Enabled {
		for _, hook := range hooks {
			if hook != nil {
				e.hooks = append(e.hooks, hook)
			}
		}
	}
	for _, verb := range cfg.Verbs {
		if verb = strings.TrimSpace(verb); verb != "" {
			if e.verbs == nil {
				e.verbs = map[string]bool{}
			}
			e.verbs[verb] = true
		}
	}
	return e
}

// Enabled reports whether Emit can reach any hook.
func (e *Emitter) Enabled() bool {
	return e != nil && len(e.hooks) > 0
}

// Channel returns the channel stamped on events that carry none.
func (e *Emitter) Channel() string {
	if e == nil {
		return DefaultChannel
	}
	return e.channel
}

// Accepts reports whether verb passes the configured filter.
func (e *Emitter) Accepts(verb string) bool {
	if e == nil {
		return false
	}
	return e.verbs == nil || e.verbs[strings.TrimSpace(verb)]
}

// Emit forwards event to every hook.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() || !e.Accepts(event.Verb) {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.channel
	}
	return e.hooks.Notify(ctx, event)
}
