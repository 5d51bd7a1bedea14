package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	RenderID  string    `json:"renderId"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "debug", "info", "warn", "error"
}

// ConsoleHandler is a slog.Handler that forwards records to a console channel.
// Records are dropped rather than blocking when the channel is full.
type ConsoleHandler struct {
	renderID    string
	level       slog.Leveler
	consoleChan chan<- ConsoleMessage
	attrs       []slog.Attr
	group       string
}

// NewConsoleHandler creates a handler for a specific render
func NewConsoleHandler(renderID string, level slog.Leveler, consoleChan chan<- ConsoleMessage) *ConsoleHandler {
	return &ConsoleHandler{
		renderID:    renderID,
		level:       level,
		consoleChan: consoleChan,
	}
}

// Enabled implements slog.Handler
func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler
func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	if h.consoleChan == nil {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(r.Message)
	for _, a := range h.attrs {
		fmt.Fprintf(&sb, " %s=%v", a.Key, a.Value.Resolve())
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&sb, " %s=%v", h.qualify(a.Key), a.Value.Resolve())
		return true
	})

	msg := ConsoleMessage{
		RenderID:  h.renderID,
		Message:   sb.String(),
		Timestamp: r.Time,
		Level:     strings.ToLower(r.Level.String()),
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	select {
	case h.consoleChan <- msg:
	default:
		// Channel full, skip (don't block)
	}
	return nil
}

// WithAttrs implements slog.Handler
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, a := range attrs {
		clone.attrs = append(clone.attrs, slog.Attr{Key: h.qualify(a.Key), Value: a.Value})
	}
	return &clone
}

// WithGroup implements slog.Handler
func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	clone := *h
	if clone.group != "" {
		name = clone.group + "." + name
	}
	clone.group = name
	return &clone
}

// qualify prefixes key with the open group, if any
func (h *ConsoleHandler) qualify(key string) string {
	if h.group == "" {
		return key
	}
	return h.group + "." + key
}
