/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package logtest

import (
	"sync"
	"time"

	"github.com/ssgreg/logf"

	"github.com/nautilus-one/synckit/log"
)

// RecordedEntry represents recorded entry which was logged.
type RecordedEntry struct {
	Fields []log.Field
	Level  log.Level
	Time   time.Time
	Text   string
}

// FindField tries to find field in logging entry by key.
func (re *RecordedEntry) FindField(key string) (*log.Field, bool) {
	for i := range re.Fields {
		if re.Fields[i].Key == key {
			return &re.Fields[i], true
		}
	}
	return nil, false
}

type recordingWriter struct {
	sync.RWMutex
	entries []RecordedEntry
}

//nolint:gocritic
func (w *recordingWriter) WriteEntry(e logf.Entry) {
	fields := make([]log.Field, 0, len(e.Fields)+len(e.DerivedFields))
	fields = append(fields, e.Fields...)
	fields = append(fields, e.DerivedFields...)

	w.Lock()
	defer w.Unlock()
	w.entries = append(w.entries, RecordedEntry{
		Fields: fields,
		Level:  fromLogfLevel(e.Level),
		Time:   e.Time,
		Text:   e.Text,
	})
}

// Recorder is an implementation of log.FieldLogger that
// records all logged entries for later inspection in tests.
type Recorder struct {
	*log.LogfAdapter
	writer *recordingWriter
}

// NewRecorder returns an initialized Recorder.
func NewRecorder() *Recorder {
	w := &recordingWriter{}
	return &Recorder{&log.LogfAdapter{Logger: logf.NewLogger(logf.LevelDebug, w)}, w}
}

// With returns a new Recorder with the given additional fields sharing the same entries.
func (r *Recorder) With(fs ...log.Field) log.FieldLogger {
	return &Recorder{r.LogfAdapter.With(fs...).(*log.LogfAdapter), r.writer}
}

// Entries returns all recorded logging entries.
func (r *Recorder) Entries() []RecordedEntry {
	r.writer.RLock()
	defer r.writer.RUnlock()
	return append([]RecordedEntry{}, r.writer.entries...)
}

// FindEntry tries to find recorded logging entry by message.
func (r *Recorder) FindEntry(msg string) (RecordedEntry, bool) {
	r.writer.RLock()
	defer r.writer.RUnlock()
	for _, entry := range r.writer.entries {
		if entry.Text == msg {
			return entry, true
		}
	}
	return RecordedEntry{}, false
}

// CountAtLevel returns the number of entries recorded at the given level.
func (r *Recorder) CountAtLevel(level log.Level) int {
	r.writer.RLock()
	defer r.writer.RUnlock()
	n := 0
	for _, entry := range r.writer.entries {
		if entry.Level == level {
			n++
		}
	}
	return n
}

// Reset resets all recorded logs.
func (r *Recorder) Reset() {
	r.writer.Lock()
	r.writer.entries = nil
	r.writer.Unlock()
}

func fromLogfLevel(value logf.Level) log.Level {
	switch value {
	case logf.LevelError:
		return log.LevelError
	case logf.LevelWarn:
		return log.LevelWarn
	case logf.LevelDebug:
		return log.LevelDebug
	}
	return log.LevelInfo
}
