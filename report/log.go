// Package report implements the verifier's named logging channels and the
// driver run report (spec.md §6/§9): a channel map keyed by name with
// append-only per-channel buffers drained on demand, plus the structured
// per-command outcome that cmd/nqpv-verify renders as output.txt.
package report

import (
	"bytes"
	"sort"

	"github.com/rs/zerolog"
)

// Log is a channel map keyed by name (spec.md §9: "a channel map keyed by
// name with append-only per-channel buffers drained by the driver"). A
// channel is created on first use; the driver writes to the "driver"
// channel, and no other subsystem logs.
type Log struct {
	channels map[string]*channel
}

type channel struct {
	buf    *bytes.Buffer
	logger zerolog.Logger
}

// NewLog returns an empty channel map.
func NewLog() *Log {
	return &Log{channels: make(map[string]*channel)}
}

// Channel returns the named logger, creating its buffer on first use.
func (l *Log) Channel(name string) zerolog.Logger {
	c, ok := l.channels[name]
	if !ok {
		buf := &bytes.Buffer{}
		c = &channel{
			buf:    buf,
			logger: zerolog.New(buf).With().Str("channel", name).Logger(),
		}
		l.channels[name] = c
	}
	return c.logger
}

// Dump returns the accumulated log text of the named channel (empty string
// if the channel was never written to).
func (l *Log) Dump(name string) string {
	c, ok := l.channels[name]
	if !ok {
		return ""
	}
	return c.buf.String()
}

// Names returns every channel name that has been opened, sorted.
func (l *Log) Names() []string {
	out := make([]string, 0, len(l.channels))
	for name := range l.channels {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
