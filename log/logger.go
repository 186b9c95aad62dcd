/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

// Package log provides structured logging used by all synckit components.
// It is a thin layer over github.com/ssgreg/logf with configurable output (stdout, stderr or rotated file).
package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/ssgreg/logf"
	"github.com/ssgreg/logftext"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Field hold data of a specific field.
type Field = logf.Field

// CloseFunc flushes and closes the underlying channel writer.
type CloseFunc logf.ChannelWriterCloseFunc

// LogFunc allows logging a message with a bound level.
// nolint: revive
type LogFunc = logf.LogFunc

// Field constructors.
var (
	Error    = logf.Error
	String   = logf.String
	Strings  = logf.Strings
	Int      = logf.Int
	Int64    = logf.Int64
	Uint32   = logf.Uint32
	Float64  = logf.Float64
	Duration = logf.Duration
	Bool     = logf.Bool
	Time     = logf.Time
	Any      = logf.Any
)

// FieldLogger is an interface for loggers which writes logs in structured format.
type FieldLogger interface {
	With(...Field) FieldLogger

	Debug(string, ...Field)
	Info(string, ...Field)
	Warn(string, ...Field)
	Error(string, ...Field)

	Debugf(string, ...interface{})
	Infof(string, ...interface{})
	Warnf(string, ...interface{})
	Errorf(string, ...interface{})

	AtLevel(Level, func(LogFunc))
}

// LogfAdapter adapts logf.Logger to FieldLogger interface.
type LogfAdapter struct {
	Logger *logf.Logger
}

var _ FieldLogger = (*LogfAdapter)(nil)

// NewDisabledLogger returns a new logger that logs nothing.
func NewDisabledLogger() FieldLogger {
	return &LogfAdapter{logf.NewDisabledLogger()}
}

// NewLogger returns a new logger built from the configuration.
// The returned CloseFunc must be called before exit to flush buffered entries.
func NewLogger(cfg *Config) (FieldLogger, CloseFunc) {
	channel, closeFunc := logf.NewChannelWriter(logf.ChannelWriterConfig{
		Appender:          newAppender(cfg),
		EnableSyncOnError: true,
	})
	logfLogger := logf.NewLogger(toLogfLevel(cfg.Level), channel).With(logf.Int("pid", os.Getpid()))
	if cfg.AddCaller {
		logfLogger = logfLogger.WithCaller().WithCallerSkip(1)
	}
	return &LogfAdapter{logfLogger}, CloseFunc(closeFunc)
}

// NewWriterLogger returns a synchronous logger writing JSON entries into w.
// It's handy for CLI tools where buffering is not desired.
func NewWriterLogger(w io.Writer, level Level) FieldLogger {
	ew := &syncEntryWriter{
		encoder: logf.NewJSONEncoder(logf.JSONEncoderConfig{EncodeTime: logf.RFC3339NanoTimeEncoder, FieldKeyTime: "time"}),
		output:  w,
	}
	return &LogfAdapter{logf.NewLogger(toLogfLevel(level), ew)}
}

// With returns a new logger with the given additional fields.
func (l *LogfAdapter) With(fs ...Field) FieldLogger {
	return &LogfAdapter{l.Logger.With(fs...)}
}

// Debug logs message at "debug" level.
func (l *LogfAdapter) Debug(s string, fields ...Field) {
	l.Logger.Debug(s, fields...)
}

// Info logs message at "info" level.
func (l *LogfAdapter) Info(s string, fields ...Field) {
	l.Logger.Info(s, fields...)
}

// Warn logs message at "warn" level.
func (l *LogfAdapter) Warn(s string, fields ...Field) {
	l.Logger.Warn(s, fields...)
}

// Error logs message at "error" level.
func (l *LogfAdapter) Error(s string, fields ...Field) {
	l.Logger.Error(s, fields...)
}

// Debugf logs a formatted message at "debug" level.
func (l *LogfAdapter) Debugf(format string, args ...interface{}) {
	l.logf(LevelDebug, format, args...)
}

// Infof logs a formatted message at "info" level.
func (l *LogfAdapter) Infof(format string, args ...interface{}) {
	l.logf(LevelInfo, format, args...)
}

// Warnf logs a formatted message at "warn" level.
func (l *LogfAdapter) Warnf(format string, args ...interface{}) {
	l.logf(LevelWarn, format, args...)
}

// Errorf logs a formatted message at "error" level.
func (l *LogfAdapter) Errorf(format string, args ...interface{}) {
	l.logf(LevelError, format, args...)
}

// AtLevel calls the given fn if logging a message at the specified level
// is enabled, passing a LogFunc with the bound level.
func (l *LogfAdapter) AtLevel(level Level, fn func(logFunc LogFunc)) {
	l.Logger.AtLevel(toLogfLevel(level), fn)
}

func (l *LogfAdapter) logf(level Level, format string, args ...interface{}) {
	l.AtLevel(level, func(write LogFunc) {
		write(fmt.Sprintf(format, args...))
	})
}

func toLogfLevel(value Level) logf.Level {
	switch value {
	case LevelError:
		return logf.LevelError
	case LevelWarn:
		return logf.LevelWarn
	case LevelDebug:
		return logf.LevelDebug
	}
	return logf.LevelInfo
}

func newAppender(cfg *Config) logf.Appender {
	switch cfg.Output {
	case OutputFile:
		return newWriterAppender(cfg.Format, cfg.NoColor, &lumberjack.Logger{
			Filename:   cfg.File.Path,
			MaxSize:    int(cfg.File.Rotation.MaxSize / 1024 / 1024),
			MaxBackups: cfg.File.Rotation.MaxBackups,
			MaxAge:     cfg.File.Rotation.MaxAgeDays,
			Compress:   cfg.File.Rotation.Compress,
		})
	case OutputStderr:
		return newWriterAppender(cfg.Format, cfg.NoColor, os.Stderr)
	}
	return newWriterAppender(cfg.Format, cfg.NoColor, os.Stdout)
}

func newWriterAppender(format Format, noColor bool, w io.Writer) logf.Appender {
	if format == FormatText {
		return logftext.NewAppender(w, logftext.EncoderConfig{
			NoColor:    &noColor,
			EncodeTime: logf.RFC3339NanoTimeEncoder,
		})
	}
	return logf.NewWriteAppender(w, logf.NewJSONEncoder(logf.JSONEncoderConfig{
		EncodeTime:   logf.RFC3339NanoTimeEncoder,
		FieldKeyTime: "time",
	}))
}

// syncEntryWriter encodes and writes every entry immediately.
type syncEntryWriter struct {
	sync.Mutex
	encoder logf.Encoder
	output  io.Writer
}

//nolint:gocritic
func (w *syncEntryWriter) WriteEntry(e logf.Entry) {
	w.Lock()
	defer w.Unlock()

	var buf logf.Buffer
	if err := w.encoder.Encode(&buf, e); err != nil {
		_, _ = fmt.Fprint(w.output, err)
		return
	}
	_, _ = w.output.Write(buf.Data)
}

// DurationIn returns a new Field with the "duration" as key and received duration in unit as value (int64).
func DurationIn(val, unit time.Duration) Field {
	return Int64("duration", val.Nanoseconds()/unit.Nanoseconds())
}
