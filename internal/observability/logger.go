// Package observability provides structured logging and metrics collection
// for the simulation engine.
//
// Logger wraps github.com/rs/zerolog with per-component persistent context,
// replacing the ad hoc textual logging of the original implementation with
// the structured-event style it used in spirit (every call site logs a
// stable set of key=value fields, never a hand-formatted sentence).
package observability

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog with persistent component context.
type Logger struct {
	mu        sync.RWMutex
	inner     zerolog.Logger
	component string
}

// NewLogger creates a structured logger for a given component (e.g. "tick",
// "executor", "pheromone"). Output defaults to os.Stderr if w is nil.
func NewLogger(component string, w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}
	base := zerolog.New(w).With().Timestamp().Str("component", component).Logger()
	return &Logger{inner: base, component: component}
}

// NewConsoleLogger creates a logger writing human-readable, colorized
// output, for use by the CLI entrypoint rather than production runs.
func NewConsoleLogger(component string, w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}
	console := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	base := zerolog.New(console).With().Timestamp().Str("component", component).Logger()
	return &Logger{inner: base, component: component}
}

// With returns a new Logger with an additional persistent field.
func (l *Logger) With(key string, value any) *Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return &Logger{inner: l.inner.With().Interface(key, value).Logger(), component: l.component}
}

// WithTick returns a new Logger with a persistent tick number field, used to
// scope every log line emitted during a single tick.
func (l *Logger) WithTick(tick int) *Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return &Logger{inner: l.inner.With().Int("tick", tick).Logger(), component: l.component}
}

// Debug logs at DEBUG level with the given fields (alternating key, value).
func (l *Logger) Debug(msg string, fields ...any) {
	l.event(l.inner.Debug(), msg, fields)
}

// Info logs at INFO level.
func (l *Logger) Info(msg string, fields ...any) {
	l.event(l.inner.Info(), msg, fields)
}

// Warn logs at WARN level.
func (l *Logger) Warn(msg string, fields ...any) {
	l.event(l.inner.Warn(), msg, fields)
}

// Error logs at ERROR level.
func (l *Logger) Error(msg string, fields ...any) {
	l.event(l.inner.Error(), msg, fields)
}

func (l *Logger) event(e *zerolog.Event, msg string, fields []any) {
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		e = e.Interface(key, fields[i+1])
	}
	e.Msg(msg)
}

// TickSummary logs the outcome of a completed tick.
func (l *Logger) TickSummary(tick int, agentsProcessed, intentsApplied, intentsRejected int) {
	l.inner.Info().
		Int("tick", tick).
		Int("agents_processed", agentsProcessed).
		Int("intents_applied", intentsApplied).
		Int("intents_rejected", intentsRejected).
		Msg("tick complete")
}

// IntentRejected logs a single rejected intent with its reason.
func (l *Logger) IntentRejected(agentID, intentType, reason string) {
	l.inner.Warn().
		Str("agent_id", agentID).
		Str("intent_type", intentType).
		Str("reason", reason).
		Msg("intent rejected")
}

// PheromoneSwap logs the summary statistics of a pheromone field update.
func (l *Logger) PheromoneSwap(ptype string, massBefore, massAfter, deposited float64) {
	l.inner.Debug().
		Str("pheromone_type", ptype).
		Float64("mass_before", massBefore).
		Float64("mass_after", massAfter).
		Float64("deposited", deposited).
		Msg("pheromone field updated")
}

// Component returns the component name associated with this logger.
func (l *Logger) Component() string {
	return l.component
}
