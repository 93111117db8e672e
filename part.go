// SPDX-FileCopyrightText: The go-mimesmtp Authors
//
// SPDX-License-Identifier: MIT

package mail

import (
	"io"
	"regexp"
)

var (
	nameWhitespace = regexp.MustCompile(`\s+`)
	nameInvalid    = regexp.MustCompile(`[^A-Za-z0-9\-_.]`)
)

// Part is a node of a MIME document. The set of implementations is closed:
// *TextPart, *HTMLPart, *FilePart and *MultiPartMixed.
type Part interface {
	io.WriterTo

	// ContentType returns the media type of the part.
	ContentType() ContentType

	isPart()
}

// partHeader holds the fields shared by all parts.
type partHeader struct {
	contentType ContentType
	name        string
	charset     Charset
	encoding    Encoding
}

// ContentType returns the media type of the part.
func (h *partHeader) ContentType() ContentType {
	return h.contentType
}

// Name returns the sanitized content name.
func (h *partHeader) Name() string {
	return h.name
}

// Charset returns the charset parameter, if any.
func (h *partHeader) Charset() Charset {
	return h.charset
}

// Encoding returns the transfer encoding.
func (h *partHeader) Encoding() Encoding {
	return h.encoding
}

func (h *partHeader) isPart() {}

// writeHeader writes Content-Type with its parameters and, for base64 and
// quoted-printable parts, Content-Transfer-Encoding.
func (h *partHeader) writeHeader(mw *msgWriter, boundary string) {
	mw.writeString(HeaderContentType.String() + ": " + h.contentType.String())
	if h.name != "" {
		mw.writeString(`;` + SingleNewLine + `  name="` + h.name + `"`)
	}
	if h.charset != "" {
		mw.writeString(";" + SingleNewLine + "  charset=" + h.charset.String())
	}
	if boundary != "" {
		mw.writeString(";" + SingleNewLine + "  boundary=" + boundary)
	}
	mw.writeString(SingleNewLine)
	switch h.encoding {
	case EncodingB64, EncodingQP:
		mw.writeHeader(HeaderContentTransferEnc, h.encoding.String())
	}
}

// sanitizeName replaces whitespace runs by "_" and drops every character
// outside [A-Za-z0-9-_.].
func sanitizeName(name string) string {
	name = nameWhitespace.ReplaceAllString(name, "_")
	return nameInvalid.ReplaceAllString(name, "")
}

// TextPart is a text/plain body.
type TextPart struct {
	partHeader
	body string
}

// NewTextPart returns a UTF-8 text/plain part encoded as quoted-printable.
func NewTextPart(body string) *TextPart {
	return &TextPart{
		partHeader: partHeader{contentType: TypeTextPlain, charset: CharsetUTF8, encoding: EncodingQP},
		body:       body,
	}
}

// Body returns the text of the part.
func (p *TextPart) Body() string {
	return p.body
}

// WriteTo serializes the part to w.
func (p *TextPart) WriteTo(w io.Writer) (int64, error) {
	return writeTextual(w, &p.partHeader, p.body)
}

// HTMLPart is a text/html body.
type HTMLPart struct {
	partHeader
	body string
}

// NewHTMLPart returns a UTF-8 text/html part encoded as quoted-printable.
func NewHTMLPart(body string) *HTMLPart {
	return &HTMLPart{
		partHeader: partHeader{contentType: TypeTextHTML, charset: CharsetUTF8, encoding: EncodingQP},
		body:       body,
	}
}

// Body returns the markup of the part.
func (p *HTMLPart) Body() string {
	return p.body
}

// WriteTo serializes the part to w.
func (p *HTMLPart) WriteTo(w io.Writer) (int64, error) {
	return writeTextual(w, &p.partHeader, p.body)
}

func writeTextual(w io.Writer, h *partHeader, body string) (int64, error) {
	if h.contentType == "" {
		return 0, ErrEmptyContentType
	}
	if body == "" {
		return 0, ErrEmptyBody
	}
	mw := &msgWriter{w: w}
	h.writeHeader(mw, "")
	mw.writeString(SingleNewLine)
	mw.writeBytes(FormatQuotedPrintableIntoLines(EncodeQuotedPrintable(body), MaxBodyLength))
	mw.writeString(SingleNewLine)
	return mw.n, mw.err
}
