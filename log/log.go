// SPDX-FileCopyrightText: Copyright (c) The go-mimesmtp Authors
//
// SPDX-License-Identifier: MIT

// Package log implements the logger interface used by the mimesmtp client
// for its traffic log and for its diagnostics.
package log

import (
	"fmt"
	"strings"
)

const (
	DirServerToClient Direction = iota // Server to Client communication
	DirClientToServer                  // Client to Server communication
	DirInternal                        // Client-side diagnostics with no wire direction
)

const (
	// DirString is the group name used by structured loggers for the direction fields
	DirString = "direction"
	// DirFromString is the key of the origin of a log message
	DirFromString = "from"
	// DirToString is the key of the destination of a log message
	DirToString = "to"
)

// Level is the verbosity of a Logger
type Level int

const (
	// LevelError only logs errors
	LevelError Level = iota
	// LevelWarn logs warnings and errors
	LevelWarn
	// LevelInfo logs informational messages, warnings and errors
	LevelInfo
	// LevelDebug logs everything, including the SMTP traffic log
	LevelDebug
)

// Direction is a type wrapper for the direction a debug log message goes
type Direction int

// Log represents a log message type that holds a log Direction, a Format string
// and a slice of Messages
type Log struct {
	Direction Direction
	Format    string
	Messages  []interface{}
}

// Logger is the log interface for mimesmtp
type Logger interface {
	Debugf(Log)
	Infof(Log)
	Warnf(Log)
	Errorf(Log)
}

// ParseLevel converts the textual name of a level into a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return LevelError, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "info", "":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level: %q", s)
}

// String satisfies the fmt.Stringer interface for the Level type
func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// directionPrefix returns the prefix used by line based loggers
func (l Log) directionPrefix() string {
	switch l.Direction {
	case DirClientToServer:
		return "C --> S:"
	case DirServerToClient:
		return "C <-- S:"
	}
	return "C:"
}

func (l Log) directionFrom() string {
	if l.Direction == DirServerToClient {
		return "server"
	}
	return "client"
}

func (l Log) directionTo() string {
	if l.Direction == DirClientToServer {
		return "server"
	}
	return "client"
}

// message renders the Format with its Messages
func (l Log) message() string {
	if len(l.Messages) == 0 {
		return l.Format
	}
	return fmt.Sprintf(l.Format, l.Messages...)
}
