// SPDX-FileCopyrightText: The go-mimesmtp Authors
//
// SPDX-License-Identifier: MIT

package mail

import (
	"encoding/base64"
	"io"
	"mime"
	"path/filepath"
)

// Disposition is the Content-Disposition of a FilePart.
type Disposition int

const (
	// DispositionNone omits the Content-Disposition header.
	DispositionNone Disposition = iota
	// DispositionInline marks the file for inline display.
	DispositionInline
	// DispositionAttachment marks the file as attachment with its filename.
	DispositionAttachment
)

// String satisfies the fmt.Stringer interface for the Disposition type
func (d Disposition) String() string {
	switch d {
	case DispositionInline:
		return "inline"
	case DispositionAttachment:
		return "attachment"
	default:
		return ""
	}
}

// TypeGuesser returns the candidate media types for a file name.
type TypeGuesser interface {
	GuessTypes(name string) []string
}

// TypeGuesserFunc adapts a function to the TypeGuesser interface.
type TypeGuesserFunc func(name string) []string

// GuessTypes calls f(name).
func (f TypeGuesserFunc) GuessTypes(name string) []string {
	return f(name)
}

// ExtensionTypeGuesser guesses by file extension from the system MIME table.
// It yields at most one candidate.
var ExtensionTypeGuesser TypeGuesser = TypeGuesserFunc(func(name string) []string {
	ext := filepath.Ext(name)
	if ext == "" {
		return nil
	}
	mediaType, _, err := mime.ParseMediaType(mime.TypeByExtension(ext))
	if err != nil || mediaType == "" {
		return nil
	}
	return []string{mediaType}
})

// FileOption is a function type used to modify properties of a FilePart
type FileOption func(*FilePart)

// FilePart is a base64 encoded file.
type FilePart struct {
	partHeader
	content     []byte
	disposition Disposition
	guesser     TypeGuesser
	typeSet     bool
}

// WithFileDisposition sets the Content-Disposition of the FilePart.
func WithFileDisposition(d Disposition) FileOption {
	return func(f *FilePart) {
		f.disposition = d
	}
}

// WithFileContentType sets the content type of the FilePart and skips the
// guessing by name.
func WithFileContentType(contentType ContentType) FileOption {
	return func(f *FilePart) {
		f.contentType = contentType
		f.typeSet = true
	}
}

// WithTypeGuesser replaces ExtensionTypeGuesser for this FilePart.
func WithTypeGuesser(g TypeGuesser) FileOption {
	return func(f *FilePart) {
		if g != nil {
			f.guesser = g
		}
	}
}

// NewFilePart returns a FilePart for content named name. The name is
// sanitized. The content type is application/octet-stream unless the type
// guesser returns exactly one candidate for the sanitized name.
func NewFilePart(content []byte, name string, opts ...FileOption) *FilePart {
	f := &FilePart{
		partHeader: partHeader{
			contentType: TypeAppOctetStream,
			name:        sanitizeName(name),
			encoding:    EncodingB64,
		},
		content: content,
		guesser: ExtensionTypeGuesser,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(f)
	}
	if !f.typeSet {
		if guesses := f.guesser.GuessTypes(f.name); len(guesses) == 1 && guesses[0] != "" {
			f.contentType = ContentType(guesses[0])
		}
	}
	return f
}

// NewAttachment returns a FilePart with DispositionAttachment.
func NewAttachment(content []byte, name string, opts ...FileOption) *FilePart {
	return NewFilePart(content, name, append([]FileOption{WithFileDisposition(DispositionAttachment)}, opts...)...)
}

// NewInlineFile returns a FilePart with DispositionInline.
func NewInlineFile(content []byte, name string, opts ...FileOption) *FilePart {
	return NewFilePart(content, name, append([]FileOption{WithFileDisposition(DispositionInline)}, opts...)...)
}

// Content returns the raw file content.
func (f *FilePart) Content() []byte {
	return f.content
}

// Disposition returns the Content-Disposition of the FilePart.
func (f *FilePart) Disposition() Disposition {
	return f.disposition
}

// WriteTo serializes the part to w. The base64 content is wrapped at
// MaxBodyLength.
func (f *FilePart) WriteTo(w io.Writer) (int64, error) {
	switch {
	case f.contentType == "":
		return 0, ErrEmptyContentType
	case f.name == "":
		return 0, ErrEmptyFileName
	case len(f.content) == 0:
		return 0, ErrEmptyFileContent
	}

	mw := &msgWriter{w: w}
	f.writeHeader(mw, "")
	switch f.disposition {
	case DispositionAttachment:
		mw.writeString(HeaderContentDisposition.String() + ": attachment;" + SingleNewLine +
			`  filename="` + f.name + `"` + SingleNewLine)
	case DispositionInline:
		mw.writeHeader(HeaderContentDisposition, "inline")
	}
	mw.writeString(SingleNewLine)
	if mw.err != nil {
		return mw.n, mw.err
	}

	lb := NewLineBreaker(mw, MaxBodyLength)
	enc := base64.NewEncoder(base64.StdEncoding, lb)
	if _, err := enc.Write(f.content); err != nil {
		return mw.n, err
	}
	if err := enc.Close(); err != nil {
		return mw.n, err
	}
	if err := lb.Close(); err != nil {
		return mw.n, err
	}
	return mw.n, mw.err
}
