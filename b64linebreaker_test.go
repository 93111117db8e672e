// SPDX-FileCopyrightText: The go-mimesmtp Authors
//
// SPDX-License-Identifier: MIT

package mail

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestLineBreaker(t *testing.T) {
	t.Run("write splits into lines", func(t *testing.T) {
		buf := &bytes.Buffer{}
		lineBreaker := NewLineBreaker(buf, MaxBodyLength)
		if _, err := lineBreaker.Write([]byte(strings.Repeat("x", 200))); err != nil {
			t.Fatalf("failed to write to line breaker: %s", err)
		}
		if err := lineBreaker.Close(); err != nil {
			t.Fatalf("failed to close line breaker: %s", err)
		}
		want := strings.Repeat("x", 76) + "\r\n" + strings.Repeat("x", 76) + "\r\n" + strings.Repeat("x", 48) + "\r\n"
		if buf.String() != want {
			t.Errorf("unexpected output: %q", buf.String())
		}
	})
	t.Run("many small writes", func(t *testing.T) {
		buf := &bytes.Buffer{}
		lineBreaker := NewLineBreaker(buf, 4)
		for _, chunk := range []string{"a", "bc", "def", "gh"} {
			if _, err := lineBreaker.Write([]byte(chunk)); err != nil {
				t.Fatalf("failed to write to line breaker: %s", err)
			}
		}
		if err := lineBreaker.Close(); err != nil {
			t.Fatalf("failed to close line breaker: %s", err)
		}
		if buf.String() != "abcd\r\nefgh\r\n" {
			t.Errorf("unexpected output: %q", buf.String())
		}
	})
	t.Run("close without data writes nothing", func(t *testing.T) {
		buf := &bytes.Buffer{}
		if err := NewLineBreaker(buf, 0).Close(); err != nil {
			t.Fatalf("failed to close line breaker: %s", err)
		}
		if buf.Len() != 0 {
			t.Errorf("expected no output, got: %q", buf.String())
		}
	})
	t.Run("missing writer", func(t *testing.T) {
		lineBreaker := &LineBreaker{Max: 4}
		if _, err := lineBreaker.Write([]byte("test")); !errors.Is(err, ErrNoOutWriter) {
			t.Errorf("expected ErrNoOutWriter on write, got: %v", err)
		}
		if err := lineBreaker.Close(); !errors.Is(err, ErrNoOutWriter) {
			t.Errorf("expected ErrNoOutWriter on close, got: %v", err)
		}
	})
	t.Run("failing writer", func(t *testing.T) {
		lineBreaker := NewLineBreaker(&failWriter{failAfter: 2}, 4)
		if _, err := lineBreaker.Write([]byte("abcdefgh")); !errors.Is(err, errMockWrite) {
			t.Errorf("expected mock write error, got: %v", err)
		}
	})
}

func TestLineBreaker_MatchesFormatDataIntoLines(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOfN(rapid.Byte(), 1, 2000).Draw(t, "data")
		encoded := base64.StdEncoding.EncodeToString(data)

		buf := &bytes.Buffer{}
		lineBreaker := NewLineBreaker(buf, MaxBodyLength)
		encoder := base64.NewEncoder(base64.StdEncoding, lineBreaker)
		if _, err := encoder.Write(data); err != nil {
			t.Fatalf("failed to write: %s", err)
		}
		if err := encoder.Close(); err != nil {
			t.Fatalf("failed to close encoder: %s", err)
		}
		if err := lineBreaker.Close(); err != nil {
			t.Fatalf("failed to close line breaker: %s", err)
		}
		want := string(FormatDataIntoLines([]byte(encoded), MaxBodyLength)) + SingleNewLine
		if buf.String() != want {
			t.Fatalf("streamed output differs from FormatDataIntoLines")
		}
	})
}
