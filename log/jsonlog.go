// SPDX-FileCopyrightText: Copyright (c) The go-mimesmtp Authors
//
// SPDX-License-Identifier: MIT

package log

import (
	"io"
	"log/slog"
)

// JSONlog is a structured JSON logger that satisfies the Logger interface
type JSONlog struct {
	level Level
	log   *slog.Logger
}

// NewJSON returns a new JSONlog type that satisfies the Logger interface
func NewJSON(output io.Writer, level Level) *JSONlog {
	logOpts := slog.HandlerOptions{}
	switch level {
	case LevelDebug:
		logOpts.Level = slog.LevelDebug
	case LevelInfo:
		logOpts.Level = slog.LevelInfo
	case LevelWarn:
		logOpts.Level = slog.LevelWarn
	case LevelError:
		logOpts.Level = slog.LevelError
	default:
		logOpts.Level = slog.LevelDebug
	}
	return &JSONlog{
		level: level,
		log:   slog.New(slog.NewJSONHandler(output, &logOpts)),
	}
}

func (l *JSONlog) with(log Log) *slog.Logger {
	return l.log.WithGroup(DirString).With(
		slog.String(DirFromString, log.directionFrom()),
		slog.String(DirToString, log.directionTo()),
	)
}

// Debugf logs a debug message via the structured JSON logger
func (l *JSONlog) Debugf(log Log) {
	if l.level >= LevelDebug {
		l.with(log).Debug(log.message())
	}
}

// Infof logs a info message via the structured JSON logger
func (l *JSONlog) Infof(log Log) {
	if l.level >= LevelInfo {
		l.with(log).Info(log.message())
	}
}

// Warnf logs a warn message via the structured JSON logger
func (l *JSONlog) Warnf(log Log) {
	if l.level >= LevelWarn {
		l.with(log).Warn(log.message())
	}
}

// Errorf logs an error message via the structured JSON logger
func (l *JSONlog) Errorf(log Log) {
	if l.level >= LevelError {
		l.with(log).Error(log.message())
	}
}
