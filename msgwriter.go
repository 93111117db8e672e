// SPDX-FileCopyrightText: The go-mimesmtp Authors
//
// SPDX-License-Identifier: MIT

package mail

import (
	"fmt"
	"io"
)

// msgWriter is the writer used for serializing a Msg and its parts. It counts
// the written bytes and keeps the first error; every later write is skipped.
type msgWriter struct {
	err error
	n   int64
	w   io.Writer
}

// Write implements the io.Writer interface for msgWriter
func (mw *msgWriter) Write(p []byte) (int, error) {
	if mw.err != nil {
		return 0, fmt.Errorf("failed to write due to previous error: %w", mw.err)
	}

	var n int
	n, mw.err = mw.w.Write(p)
	mw.n += int64(n)
	return n, mw.err
}

// writeString writes a string into the msgWriter's io.Writer interface
func (mw *msgWriter) writeString(s string) {
	if mw.err != nil {
		return
	}
	var n int
	n, mw.err = io.WriteString(mw.w, s)
	mw.n += int64(n)
}

func (mw *msgWriter) writeBytes(p []byte) {
	if mw.err != nil {
		return
	}
	var n int
	n, mw.err = mw.w.Write(p)
	mw.n += int64(n)
}

// writeHeader writes a single header line.
func (mw *msgWriter) writeHeader(k Header, v string) {
	mw.writeString(k.String() + ": " + v + SingleNewLine)
}

// writeAddrHeader writes an already encoded address list as header line.
func (mw *msgWriter) writeAddrHeader(k AddrHeader, v []byte) {
	mw.writeString(k.String() + ": ")
	mw.writeBytes(v)
	mw.writeString(SingleNewLine)
}

// writePart serializes p through the msgWriter. A serialization error of
// the part is kept as the writer's error.
func (mw *msgWriter) writePart(p Part) {
	if mw.err != nil {
		return
	}
	if _, err := p.WriteTo(mw); err != nil && mw.err == nil {
		mw.err = err
	}
}
