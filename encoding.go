// SPDX-FileCopyrightText: The go-mimesmtp Authors
//
// SPDX-License-Identifier: MIT

package mail

// Encoding represents a MIME transfer encoding.
type Encoding string

// Charset represents a character set for the encoding
type Charset string

// ContentType represents a content type for the Msg
type ContentType string

const (
	// EncodingB64 represents the Base64 encoding as specified in RFC 2045.
	EncodingB64 Encoding = "base64"

	// EncodingQP represents the "quoted-printable" encoding as specified in RFC 2045.
	EncodingQP Encoding = "quoted-printable"

	// NoEncoding omits the Content-Transfer-Encoding header.
	NoEncoding Encoding = ""
)

// CharsetUTF8 represents the "UTF-8" charset.
const CharsetUTF8 Charset = "UTF-8"

// List of content types used by the parts of a Msg
const (
	TypeAppOctetStream ContentType = "application/octet-stream"
	TypeMultipartMixed ContentType = "multipart/mixed"
	TypeTextHTML       ContentType = "text/html"
	TypeTextPlain      ContentType = "text/plain"
)

const (
	// MaxBodyLength is the line length that quoted-printable and base64
	// bodies are folded to.
	MaxBodyLength = 76

	// MaxWordLength is the default maximum length of a single encoded-word.
	MaxWordLength = 60

	// SingleNewLine is the line separator of the SMTP wire format.
	SingleNewLine = "\r\n"
)

const upperhex = "0123456789ABCDEF"

// String satisfies the fmt.Stringer interface for the Encoding type
func (e Encoding) String() string {
	return string(e)
}

// String satisfies the fmt.Stringer interface for the Charset type
func (c Charset) String() string {
	return string(c)
}

// String satisfies the fmt.Stringer interface for the ContentType type
func (c ContentType) String() string {
	return string(c)
}

// EncodeQuotedPrintable encodes the UTF-8 bytes of text as quoted-printable.
// Every byte that is not an ASCII letter or digit is escaped as "=XX". The
// result never contains whitespace, dots or line breaks, so it can be folded
// at any escape boundary and needs no dot-stuffing.
func EncodeQuotedPrintable(text string) []byte {
	out := make([]byte, 0, len(text)*3)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if isAlnum(c) {
			out = append(out, c)
			continue
		}
		out = append(out, '=', upperhex[c>>4], upperhex[c&0x0f])
	}
	return out
}

// FormatQuotedPrintableIntoLines inserts soft line breaks ("=" CRLF) into an
// encoded quoted-printable body so that no line carries more than
// maxLineSize-1 encoded characters. An "=XX" escape is never split. A
// maxLineSize <= 0 disables folding.
func FormatQuotedPrintableIntoLines(encoded []byte, maxLineSize int) []byte {
	if maxLineSize <= 0 {
		return append([]byte(nil), encoded...)
	}
	maxSrc := maxLineSize - 1
	out := make([]byte, 0, len(encoded)+len(encoded)/maxLineSize*3+3)
	last := 0
	for i := 0; i < len(encoded); {
		req := 1
		if encoded[i] == '=' {
			req = min(3, len(encoded)-i)
		}
		if last > 0 && last+req > maxSrc {
			out = append(out, '=', '\r', '\n')
			last = 0
		}
		out = append(out, encoded[i:i+req]...)
		i += req
		last += req
	}
	return out
}

// FormatDataIntoLines inserts a CRLF after every maxLineSize bytes of data.
// No break follows the final line. A maxLineSize <= 0 disables folding.
func FormatDataIntoLines(data []byte, maxLineSize int) []byte {
	if maxLineSize <= 0 {
		return append([]byte(nil), data...)
	}
	out := make([]byte, 0, len(data)+len(data)/maxLineSize*2)
	for len(data) > maxLineSize {
		out = append(out, data[:maxLineSize]...)
		out = append(out, '\r', '\n')
		data = data[maxLineSize:]
	}
	return append(out, data...)
}

func isAlnum(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
