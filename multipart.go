// SPDX-FileCopyrightText: The go-mimesmtp Authors
//
// SPDX-License-Identifier: MIT

package mail

import "io"

// MultiPartMixed is an ordered multipart/mixed container.
type MultiPartMixed struct {
	partHeader
	parts []Part

	// boundary generates the boundary of a serialization.
	boundary func() string
}

// NewMultiPartMixed returns a container holding parts in order. Nil parts
// are skipped.
func NewMultiPartMixed(parts ...Part) *MultiPartMixed {
	m := &MultiPartMixed{
		partHeader: partHeader{contentType: TypeMultipartMixed},
		boundary:   randomBoundary,
	}
	for _, p := range parts {
		m.Add(p)
	}
	return m
}

// Add appends p.
func (m *MultiPartMixed) Add(p Part) {
	if p == nil {
		return
	}
	m.parts = append(m.parts, p)
}

// Parts returns the parts in order.
func (m *MultiPartMixed) Parts() []Part {
	return append([]Part(nil), m.parts...)
}

// Len returns the number of parts.
func (m *MultiPartMixed) Len() int {
	return len(m.parts)
}

func (m *MultiPartMixed) prepend(p Part) {
	m.parts = append([]Part{p}, m.parts...)
}

func (m *MultiPartMixed) removeFirst() {
	if len(m.parts) == 0 {
		return
	}
	m.parts[0] = nil
	m.parts = m.parts[1:]
}

// WriteTo serializes the container. A single part is written as if it stood
// alone. Two or more parts are separated by a fresh boundary. The first
// failing part aborts the serialization; bytes already written stay written.
func (m *MultiPartMixed) WriteTo(w io.Writer) (int64, error) {
	switch len(m.parts) {
	case 0:
		return 0, ErrNoParts
	case 1:
		return m.parts[0].WriteTo(w)
	}
	if m.contentType == "" {
		return 0, ErrEmptyContentType
	}

	boundary := m.boundary()
	mw := &msgWriter{w: w}
	m.writeHeader(mw, boundary)
	mw.writeString(SingleNewLine)
	for _, p := range m.parts {
		mw.writeString("--" + boundary + SingleNewLine)
		mw.writePart(p)
	}
	mw.writeString("--" + boundary + "--" + SingleNewLine)
	return mw.n, mw.err
}
