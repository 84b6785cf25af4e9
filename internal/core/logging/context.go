package logging

import "context"

type contextKey string

const (
	listKey    contextKey = "list"
	commandKey contextKey = "command"
)

// WithList adds the active task list name to the context.
func WithList(ctx context.Context, list string) context.Context {
	return context.WithValue(ctx, listKey, list)
}

// WithCommand adds the invoked subcommand name to the context.
func WithCommand(ctx context.Context, command string) context.Context {
	return context.WithValue(ctx, commandKey, command)
}

// GetList retrieves the task list name from the context.
// Returns empty string if not present.
func GetList(ctx context.Context) string {
	if v, ok := ctx.Value(listKey).(string); ok {
		return v
	}
	return ""
}

// GetCommand retrieves the subcommand name from the context.
// Returns empty string if not present.
func GetCommand(ctx context.Context) string {
	if v, ok := ctx.Value(commandKey).(string); ok {
		return v
	}
	return ""
}
