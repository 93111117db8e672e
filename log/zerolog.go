// SPDX-FileCopyrightText: Copyright (c) The go-mimesmtp Authors
//
// SPDX-License-Identifier: MIT

package log

import (
	"io"

	"github.com/rs/zerolog"
)

// Zerolog adapts a zerolog.Logger to the Logger interface. The direction of a
// message is attached as the "from" and "to" fields.
type Zerolog struct {
	level Level
	log   zerolog.Logger
}

// NewZerolog returns a Zerolog writing JSON lines to output.
func NewZerolog(output io.Writer, level Level) *Zerolog {
	return WrapZerolog(zerolog.New(output).With().Timestamp().Logger(), level)
}

// WrapZerolog wraps an existing zerolog.Logger.
func WrapZerolog(logger zerolog.Logger, level Level) *Zerolog {
	return &Zerolog{level: level, log: logger}
}

func (l *Zerolog) emit(ev *zerolog.Event, log Log) {
	ev.Str(DirFromString, log.directionFrom()).
		Str(DirToString, log.directionTo()).
		Msg(log.message())
}

// Debugf logs a debug message via zerolog
func (l *Zerolog) Debugf(log Log) {
	if l.level >= LevelDebug {
		l.emit(l.log.Debug(), log)
	}
}

// Infof logs an info message via zerolog
func (l *Zerolog) Infof(log Log) {
	if l.level >= LevelInfo {
		l.emit(l.log.Info(), log)
	}
}

// Warnf logs a warning via zerolog
func (l *Zerolog) Warnf(log Log) {
	if l.level >= LevelWarn {
		l.emit(l.log.Warn(), log)
	}
}

// Errorf logs an error via zerolog
func (l *Zerolog) Errorf(log Log) {
	if l.level >= LevelError {
		l.emit(l.log.Error(), log)
	}
}
