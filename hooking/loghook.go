package hooking

import (
	"fmt"
	"log"
)

// A Formatter turns a hook context into a single log line. Returning an empty
// string suppresses the line.
type Formatter func(ctx HookCtx) string

// LogHook writes one line per invocation to a logger.
type LogHook struct {
	*log.Logger

	format Formatter
}

// NewLogHook creates a LogHook. A nil formatter prints the hook position and
// the item with %v.
func NewLogHook(logger *log.Logger, format Formatter) *LogHook {
	if format == nil {
		format = defaultFormat
	}

	return &LogHook{
		Logger: logger,
		format: format,
	}
}

// Func logs the context.
func (h *LogHook) Func(ctx HookCtx) {
	line := h.format(ctx)
	if line == "" {
		return
	}

	h.Print(line)
}

func defaultFormat(ctx HookCtx) string {
	pos := "<nil>"
	if ctx.Pos != nil {
		pos = ctx.Pos.Name
	}

	return pos + " " + formatItem(ctx.Item)
}

func formatItem(item any) string {
	if item == nil {
		return "-"
	}

	return fmt.Sprintf("%v", item)
}
