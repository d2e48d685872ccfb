// Copyright 2024 The cilmeta Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package log is a small leveled logging facade, grounded on the teacher's
// own github.com/saferwall/pe/log package as referenced from file.go
// (log.NewStdLogger, log.NewFilter, log.FilterLevel, log.NewHelper) and
// dotnet.go (pe.logger.Warnf/Errorf/Debugf). That package's source was not
// present in the retrieval pack, so the call surface is rebuilt here to
// match exactly what the teacher's own code already depends on.
package log

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Level is a log severity, ordered Debug < Info < Warn < Error < Fatal.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// Logger is the minimal sink every log call goes through: a level plus an
// alternating key/value list, the same shape kratos-style loggers use.
type Logger interface {
	Log(level Level, keyvals ...interface{}) error
}

// stdLogger writes "time level k=v k=v ..." lines to an io.Writer.
type stdLogger struct {
	w io.Writer
}

// NewStdLogger returns a Logger that writes to os.Stderr.
func NewStdLogger() Logger {
	return &stdLogger{w: os.Stderr}
}

// NewWriterLogger returns a Logger that writes to w, used by tests that
// want to capture log output.
func NewWriterLogger(w io.Writer) Logger {
	return &stdLogger{w: w}
}

func (l *stdLogger) Log(level Level, keyvals ...interface{}) error {
	if len(keyvals)%2 != 0 {
		keyvals = append(keyvals, "MISSING_VALUE")
	}
	line := fmt.Sprintf("%s level=%s", time.Now().Format(time.RFC3339), level)
	for i := 0; i < len(keyvals); i += 2 {
		line += fmt.Sprintf(" %v=%v", keyvals[i], keyvals[i+1])
	}
	_, err := fmt.Fprintln(l.w, line)
	return err
}

// filter wraps a Logger and drops any record below a minimum level.
type filter struct {
	next Logger
	min  Level
}

// FilterOption configures NewFilter.
type FilterOption func(*filter)

// FilterLevel sets the minimum level a record must meet to pass through.
func FilterLevel(level Level) FilterOption {
	return func(f *filter) { f.min = level }
}

// NewFilter wraps logger with level filtering, matching the teacher's own
// log.NewFilter(logger, log.FilterLevel(...)) call shape.
func NewFilter(logger Logger, opts ...FilterOption) Logger {
	f := &filter{next: logger, min: LevelDebug}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *filter) Log(level Level, keyvals ...interface{}) error {
	if level < f.min {
		return nil
	}
	return f.next.Log(level, keyvals...)
}

// Helper adds printf-style convenience methods over a Logger, matching the
// teacher's pe.logger.Warnf/Errorf/Debugf call sites.
type Helper struct {
	logger Logger
}

// NewHelper wraps logger in a Helper.
func NewHelper(logger Logger) *Helper {
	return &Helper{logger: logger}
}

func (h *Helper) log(level Level, format string, args ...interface{}) {
	h.logger.Log(level, "msg", fmt.Sprintf(format, args...))
}

func (h *Helper) Debugf(format string, args ...interface{}) { h.log(LevelDebug, format, args...) }
func (h *Helper) Infof(format string, args ...interface{})  { h.log(LevelInfo, format, args...) }
func (h *Helper) Warnf(format string, args ...interface{})  { h.log(LevelWarn, format, args...) }
func (h *Helper) Errorf(format string, args ...interface{}) { h.log(LevelError, format, args...) }
