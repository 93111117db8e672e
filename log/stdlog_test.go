// SPDX-FileCopyrightText: Copyright (c) The go-mimesmtp Authors
//
// SPDX-License-Identifier: MIT

package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	var b bytes.Buffer
	l := New(&b, LevelDebug)
	if l.level != LevelDebug {
		t.Error("Expected level to be LevelDebug, got ", l.level)
	}
	if l.err == nil || l.warn == nil || l.info == nil || l.debug == nil {
		t.Error("Loggers not initialized")
	}
}

func TestStdlog_Levels(t *testing.T) {
	tests := []struct {
		name   string
		level  Level
		prefix string
		call   func(*Stdlog, Log)
		muted  Level
	}{
		{"debug", LevelDebug, "DEBUG: ", (*Stdlog).Debugf, LevelInfo},
		{"info", LevelInfo, " INFO: ", (*Stdlog).Infof, LevelWarn},
		{"warn", LevelWarn, " WARN: ", (*Stdlog).Warnf, LevelError},
		{"error", LevelError, "ERROR: ", (*Stdlog).Errorf, LevelError - 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b bytes.Buffer
			l := New(&b, tt.level)
			tt.call(l, Log{Direction: DirServerToClient, Format: "test %s", Messages: []interface{}{"foo"}})
			expected := tt.prefix + "C <-- S: test foo\n"
			if !strings.HasSuffix(b.String(), expected) {
				t.Errorf("Expected %q, got %q", expected, b.String())
			}
			tt.call(l, Log{Direction: DirClientToServer, Format: "test %s", Messages: []interface{}{"foo"}})
			expected = tt.prefix + "C --> S: test foo\n"
			if !strings.HasSuffix(b.String(), expected) {
				t.Errorf("Expected %q, got %q", expected, b.String())
			}
			tt.call(l, Log{Direction: DirInternal, Format: "closing"})
			expected = tt.prefix + "C: closing\n"
			if !strings.HasSuffix(b.String(), expected) {
				t.Errorf("Expected %q, got %q", expected, b.String())
			}

			b.Reset()
			l.level = tt.muted
			tt.call(l, Log{Direction: DirServerToClient, Format: "test %s", Messages: []interface{}{"foo"}})
			if b.String() != "" {
				t.Errorf("%s message was not expected to be logged", tt.name)
			}
		})
	}
}

func TestStdlog_LiteralPercent(t *testing.T) {
	var b bytes.Buffer
	l := New(&b, LevelDebug)
	l.Debugf(Log{Direction: DirServerToClient, Format: "%s", Messages: []interface{}{"250 100% done"}})
	if !strings.HasSuffix(b.String(), "C <-- S: 250 100% done\n") {
		t.Errorf("unexpected log output: %q", b.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"error", LevelError, false},
		{"WARN", LevelWarn, false},
		{"warning", LevelWarn, false},
		{" info ", LevelInfo, false},
		{"", LevelInfo, false},
		{"Debug", LevelDebug, false},
		{"trace", LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %t", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
	if LevelDebug.String() != "debug" {
		t.Errorf("unexpected String() for LevelDebug: %s", LevelDebug)
	}
}
