package trace

import (
	"io"
	"sync"
	"time"
)

// StreamTracer writes events immediately to an io.Writer.
type StreamTracer struct {
	mu     sync.Mutex
	w      io.Writer
	owned  io.Closer // file opened by New; closed on Close
	level  Level
	format Format
	start  time.Time
}

// NewStreamTracer creates a new StreamTracer. The writer stays open on Close
// unless New opened it.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	if format == FormatAuto {
		format = FormatText
	}
	return &StreamTracer{w: w, level: level, format: format, start: time.Now()}
}

// Emit writes an event to the output. Point events pass at LevelError and
// above; spans are filtered by scope.
func (t *StreamTracer) Emit(ev *Event) {
	if ev == nil || !t.accepts(ev) {
		return
	}
	ev.Seq = NextSeq()
	data := FormatEvent(ev, t.format, t.start)

	t.mu.Lock()
	defer t.mu.Unlock()
	// Best-effort write: a broken trace sink never fails lowering.
	_, _ = t.w.Write(data) //nolint:errcheck
}

func (t *StreamTracer) accepts(ev *Event) bool {
	if ev.Kind == KindPoint && t.level >= LevelError {
		return true
	}
	return t.level.ShouldEmit(ev.Scope)
}

// Flush calls Flush on the writer when it has one.
func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if flusher, ok := t.w.(interface{ Flush() error }); ok {
		return flusher.Flush()
	}
	return nil
}

// Close flushes and closes an owned output file.
func (t *StreamTracer) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}
	if t.owned != nil {
		return t.owned.Close()
	}
	return nil
}

func (t *StreamTracer) Level() Level { return t.level }

func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
