// SPDX-FileCopyrightText: The go-mimesmtp Authors
//
// SPDX-License-Identifier: MIT

package mail

import (
	"bytes"
	"errors"
	"testing"
)

func TestMsgWriter(t *testing.T) {
	t.Run("headers are counted", func(t *testing.T) {
		buf := &bytes.Buffer{}
		mw := &msgWriter{w: buf}
		mw.writeHeader(HeaderSubject, "test")
		mw.writeAddrHeader(HeaderTo, []byte("toni@example.com"))
		if mw.err != nil {
			t.Fatalf("msgWriter failed: %s", mw.err)
		}
		want := "Subject: test\r\nTo: toni@example.com\r\n"
		if buf.String() != want {
			t.Errorf("unexpected output: %q", buf.String())
		}
		if mw.n != int64(len(want)) {
			t.Errorf("expected %d bytes, got: %d", len(want), mw.n)
		}
	})
	t.Run("first error is kept", func(t *testing.T) {
		fw := &failWriter{failAfter: 5}
		mw := &msgWriter{w: fw}
		mw.writeString("0123456789")
		mw.writeString("more")
		mw.writeBytes([]byte("and more"))
		if !errors.Is(mw.err, errMockWrite) {
			t.Errorf("expected mock write error, got: %v", mw.err)
		}
		if mw.n != 5 {
			t.Errorf("expected 5 bytes, got: %d", mw.n)
		}
		if _, err := mw.Write([]byte("x")); !errors.Is(err, errMockWrite) {
			t.Errorf("expected Write to report the previous error, got: %v", err)
		}
	})
	t.Run("part error is kept", func(t *testing.T) {
		mw := &msgWriter{w: &bytes.Buffer{}}
		mw.writePart(NewTextPart(""))
		if !errors.Is(mw.err, ErrEmptyBody) {
			t.Errorf("expected ErrEmptyBody, got: %v", mw.err)
		}
	})
}
