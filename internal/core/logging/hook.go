package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook copies the list and command names from an event's context
// into the event. Attach it with zerolog.Logger.Hook and log with Ctx(ctx).
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == nil || ctx == context.Background() {
		return
	}

	if list := GetList(ctx); list != "" {
		e.Str("list", list)
	}

	if command := GetCommand(ctx); command != "" {
		e.Str("command", command)
	}
}
