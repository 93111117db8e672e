// SPDX-FileCopyrightText: The go-mimesmtp Authors
//
// SPDX-License-Identifier: MIT

package mail

import (
	"errors"
	"io"
)

// newlineBytes is a byte slice representation of the SingleNewLine constant used for line breaking
// in encoding processes.
var newlineBytes = []byte(SingleNewLine)

// ErrNoOutWriter is returned when no io.Writer is set for a LineBreaker.
var ErrNoOutWriter = errors.New("no io.Writer set for LineBreaker")

// LineBreaker is an io.WriteCloser that splits the stream written to it into
// lines of Max bytes. Each line, including the last one, is terminated by
// CRLF once Close is called. Writing the base64 of some data through a
// LineBreaker yields FormatDataIntoLines of that base64 followed by CRLF.
type LineBreaker struct {
	Max  int
	line []byte
	out  io.Writer
}

// NewLineBreaker returns a LineBreaker writing to out. A non-positive max
// selects MaxBodyLength.
func NewLineBreaker(out io.Writer, max int) *LineBreaker {
	if max <= 0 {
		max = MaxBodyLength
	}
	return &LineBreaker{Max: max, out: out, line: make([]byte, 0, max)}
}

// Write buffers data and flushes every completed line.
func (l *LineBreaker) Write(data []byte) (int, error) {
	if l.out == nil {
		return 0, ErrNoOutWriter
	}
	numBytes := 0
	for len(data) > 0 {
		if len(l.line) == l.Max {
			if err := l.flush(); err != nil {
				return numBytes, err
			}
		}
		n := min(l.Max-len(l.line), len(data))
		l.line = append(l.line, data[:n]...)
		data = data[n:]
		numBytes += n
	}
	return numBytes, nil
}

// Close writes the pending line, if any.
func (l *LineBreaker) Close() error {
	if l.out == nil {
		return ErrNoOutWriter
	}
	if len(l.line) == 0 {
		return nil
	}
	return l.flush()
}

func (l *LineBreaker) flush() error {
	if _, err := l.out.Write(l.line); err != nil {
		return err
	}
	if _, err := l.out.Write(newlineBytes); err != nil {
		return err
	}
	l.line = l.line[:0]
	return nil
}
