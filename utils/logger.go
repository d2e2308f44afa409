package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

// Logger provides leveled logging for the loader, cache, server and CLI.
type Logger struct {
	info  *log.Logger
	warn  *log.Logger
	err   *log.Logger
	debug *log.Logger

	debugEnabled bool
}

// NewLogger creates a Logger writing info/warn/debug to stdout and errors to stderr.
func NewLogger() *Logger {
	return NewLoggerTo(os.Stdout, os.Stderr)
}

// NewLoggerTo creates a Logger over arbitrary writers.
func NewLoggerTo(out, errOut io.Writer) *Logger {
	flags := 0
	return &Logger{
		info:  log.New(out, "", flags),
		warn:  log.New(out, "", flags),
		err:   log.New(errOut, "", flags),
		debug: log.New(out, "", flags),
	}
}

// Discard returns a Logger that drops everything. Used by tests.
func Discard() *Logger {
	return NewLoggerTo(io.Discard, io.Discard)
}

// SetDebug toggles Debug output; it is off by default.
func (l *Logger) SetDebug(on bool) { l.debugEnabled = on }

func (l *Logger) timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

func (l *Logger) line(level, format string, args ...any) string {
	return fmt.Sprintf("[%s] %-5s %s", l.timestamp(), level, fmt.Sprintf(format, args...))
}

func (l *Logger) Info(format string, args ...any) {
	l.info.Println(l.line("INFO", format, args...))
}

func (l *Logger) Warn(format string, args ...any) {
	l.warn.Println(l.line("WARN", format, args...))
}

func (l *Logger) Error(format string, args ...any) {
	l.err.Println(l.line("ERROR", format, args...))
}

func (l *Logger) Debug(format string, args ...any) {
	if !l.debugEnabled {
		return
	}
	l.debug.Println(l.line("DEBUG", format, args...))
}
