// Copyright 2026 The Warden Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package log exports logging primitives that log to stderr.
package log

// We call this log instead of logging for two reasons:
// 1) It's shorter to type;
// 2) it mimics Go's log package and can be used as a drop-in replacement for it.

import (
	"fmt"
	"os"

	charm "github.com/charmbracelet/log"
)

// Logger is the interface for logging messages.
type Logger interface {
	// Printf writes a formatted message to the log.
	Printf(format string, v ...interface{})

	// Print writes a message to the log.
	Print(v ...interface{})

	// Println writes a line to the log.
	Println(v ...interface{})

	// Fatal writes a message to the log and aborts.
	Fatal(v ...interface{})

	// Fatalf writes a formatted message to the log and aborts.
	Fatalf(format string, v ...interface{})
}

// level represents the level of logging.
type level int

// Different levels of logging.
const (
	debug level = iota
	info
	errors
	disabled
)

// backend is the structured logger every Logger writes through.
var backend = charm.NewWithOptions(os.Stderr, charm.Options{
	ReportTimestamp: true,
})

// Pre-allocated Loggers at each logging level.
var (
	Debug = newLogger(debug, charm.DebugLevel)
	Info  = newLogger(info, charm.InfoLevel)
	Error = newLogger(errors, charm.ErrorLevel)

	currentLevel = info
)

type logger struct {
	level      level
	charmLevel charm.Level
}

var _ Logger = (*logger)(nil)

// Printf writes a formatted message to the log.
func (l *logger) Printf(format string, v ...interface{}) {
	if l.level < currentLevel {
		return // Don't log at lower levels.
	}
	backend.Logf(l.charmLevel, format, v...)
}

// Print writes a message to the log.
func (l *logger) Print(v ...interface{}) {
	if l.level < currentLevel {
		return // Don't log at lower levels.
	}
	backend.Log(l.charmLevel, fmt.Sprint(v...))
}

// Println writes a line to the log.
func (l *logger) Println(v ...interface{}) {
	if l.level < currentLevel {
		return // Don't log at lower levels.
	}
	backend.Log(l.charmLevel, fmt.Sprintln(v...))
}

// Fatal writes a message to the log and aborts, regardless of the current log level.
func (l *logger) Fatal(v ...interface{}) {
	backend.Log(l.charmLevel, fmt.Sprint(v...))
	os.Exit(1)
}

// Fatalf writes a formatted message to the log and aborts, regardless of the current log level.
func (l *logger) Fatalf(format string, v ...interface{}) {
	backend.Logf(l.charmLevel, format, v...)
	os.Exit(1)
}

// String returns the name of the logger.
func (l *logger) String() string {
	return toString(l.level)
}

func toString(level level) string {
	switch level {
	case info:
		return "info"
	case debug:
		return "debug"
	case errors:
		return "error"
	case disabled:
		return "disabled"
	}
	return "unknown"
}

// Level returns the current logging level.
func Level() string {
	return toString(currentLevel)
}

func toLevel(s string) (level, error) {
	switch s {
	case "info":
		return info, nil
	case "debug":
		return debug, nil
	case "error":
		return errors, nil
	case "disabled":
		return disabled, nil
	}
	return disabled, fmt.Errorf("invalid log level %q", s)
}

// SetLevel sets the current level of logging.
func SetLevel(s string) error {
	l, err := toLevel(s)
	if err != nil {
		return err
	}
	currentLevel = l
	switch l {
	case debug:
		backend.SetLevel(charm.DebugLevel)
	case info:
		backend.SetLevel(charm.InfoLevel)
	case errors:
		backend.SetLevel(charm.ErrorLevel)
	case disabled:
		backend.SetLevel(charm.FatalLevel)
	}
	return nil
}

// At returns whether the level will be logged currently.
func At(s string) bool {
	l, err := toLevel(s)
	if err != nil {
		return false
	}
	return currentLevel <= l
}

// Printf writes a formatted message to the log.
func Printf(format string, v ...interface{}) {
	Info.Printf(format, v...)
}

// Print writes a message to the log.
func Print(v ...interface{}) {
	Info.Print(v...)
}

// Println writes a line to the log.
func Println(v ...interface{}) {
	Info.Println(v...)
}

// Fatal writes a message to the log and aborts.
func Fatal(v ...interface{}) {
	Info.Fatal(v...)
}

// Fatalf writes a formatted message to the log and aborts.
func Fatalf(format string, v ...interface{}) {
	Info.Fatalf(format, v...)
}

// newLogger instantiates a Logger writing through the shared backend.
func newLogger(level level, charmLevel charm.Level) Logger {
	return &logger{
		level:      level,
		charmLevel: charmLevel,
	}
}
