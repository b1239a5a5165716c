// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package log defines the leveled logging interface shared by every package
// in this module. It opens no output of its own: Backend writes to whatever
// io.Writer a host binary supplies, and the host distributes the resulting
// Logger to each package's UseLogger function.
package log

import (
	"fmt"
	"strings"
)

// Level is a logging priority level.
type Level uint8

// Supported log levels, ordered from most to least verbose.
const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
	LevelOff
)

var levelStrs = [...]string{
	LevelTrace:    "TRC",
	LevelDebug:    "DBG",
	LevelInfo:     "INF",
	LevelWarn:     "WRN",
	LevelError:    "ERR",
	LevelCritical: "CRT",
	LevelOff:      "OFF",
}

// String returns the short string representation of the level.
func (l Level) String() string {
	if int(l) < len(levelStrs) {
		return levelStrs[l]
	}
	return "UNKNOWN"
}

// LevelFromString returns the level matching s, and whether the match
// succeeded. Both short ("dbg") and long ("debug") forms are accepted.
func LevelFromString(s string) (l Level, ok bool) {
	switch strings.ToLower(s) {
	case "trace", "trc":
		return LevelTrace, true
	case "debug", "dbg":
		return LevelDebug, true
	case "info", "inf":
		return LevelInfo, true
	case "warn", "wrn":
		return LevelWarn, true
	case "error", "err":
		return LevelError, true
	case "critical", "crt":
		return LevelCritical, true
	case "off":
		return LevelOff, true
	default:
		return LevelInfo, false
	}
}

// Logger is the interface every package in this module logs through. A
// package never imports a concrete logging library; it holds a Logger set by
// UseLogger and defaulting to Disabled.
type Logger interface {
	Tracef(format string, args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Criticalf(format string, args ...interface{})

	Trace(args ...interface{})
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Critical(args ...interface{})

	Level() Level
	SetLevel(level Level)
}

// disabledLog discards everything. It is the default Logger for every
// package until a host binary calls UseLogger with a real implementation.
type disabledLog struct{}

func (disabledLog) Tracef(string, ...interface{})    {}
func (disabledLog) Debugf(string, ...interface{})    {}
func (disabledLog) Infof(string, ...interface{})     {}
func (disabledLog) Warnf(string, ...interface{})     {}
func (disabledLog) Errorf(string, ...interface{})    {}
func (disabledLog) Criticalf(string, ...interface{}) {}
func (disabledLog) Trace(...interface{})             {}
func (disabledLog) Debug(...interface{})             {}
func (disabledLog) Info(...interface{})              {}
func (disabledLog) Warn(...interface{})              {}
func (disabledLog) Error(...interface{})             {}
func (disabledLog) Critical(...interface{})          {}
func (disabledLog) Level() Level                     { return LevelOff }
func (disabledLog) SetLevel(Level)                   {}

// Disabled is a Logger that discards all log output.
var Disabled Logger = disabledLog{}

// Backend is a simple io.Writer-backed Logger, used by cmd/flokicoind to
// give every package's UseLogger a real destination.
type Backend struct {
	tag   string
	level Level
	out   writer
}

type writer interface {
	Write(p []byte) (n int, err error)
}

// NewBackend returns a Backend that writes lines prefixed with tag to out
// at the given minimum level.
func NewBackend(tag string, out writer, level Level) *Backend {
	return &Backend{tag: tag, level: level, out: out}
}

func (b *Backend) Level() Level      { return b.level }
func (b *Backend) SetLevel(l Level) { b.level = l }

func (b *Backend) write(lvl Level, s string) {
	if lvl < b.level {
		return
	}
	fmt.Fprintf(b.out, "[%s] %s %s\n", lvl, b.tag, s)
}

func (b *Backend) Tracef(format string, args ...interface{}) {
	b.write(LevelTrace, fmt.Sprintf(format, args...))
}
func (b *Backend) Debugf(format string, args ...interface{}) {
	b.write(LevelDebug, fmt.Sprintf(format, args...))
}
func (b *Backend) Infof(format string, args ...interface{}) {
	b.write(LevelInfo, fmt.Sprintf(format, args...))
}
func (b *Backend) Warnf(format string, args ...interface{}) {
	b.write(LevelWarn, fmt.Sprintf(format, args...))
}
func (b *Backend) Errorf(format string, args ...interface{}) {
	b.write(LevelError, fmt.Sprintf(format, args...))
}
func (b *Backend) Criticalf(format string, args ...interface{}) {
	b.write(LevelCritical, fmt.Sprintf(format, args...))
}

func (b *Backend) Trace(args ...interface{})    { b.write(LevelTrace, fmt.Sprint(args...)) }
func (b *Backend) Debug(args ...interface{})    { b.write(LevelDebug, fmt.Sprint(args...)) }
func (b *Backend) Info(args ...interface{})     { b.write(LevelInfo, fmt.Sprint(args...)) }
func (b *Backend) Warn(args ...interface{})     { b.write(LevelWarn, fmt.Sprint(args...)) }
func (b *Backend) Error(args ...interface{})    { b.write(LevelError, fmt.Sprint(args...)) }
func (b *Backend) Critical(args ...interface{}) { b.write(LevelCritical, fmt.Sprint(args...)) }
