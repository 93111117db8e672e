// SPDX-FileCopyrightText: The go-mimesmtp Authors
//
// SPDX-License-Identifier: MIT

package mail

import (
	"fmt"
	"io"
	"time"
)

// bodyKind records which variant, if any, sits at index 0 of the parts.
type bodyKind int

const (
	bodyNone bodyKind = iota
	bodyText
	bodyHTML
)

// MIMEVersion is the version written to the MIME-Version header
const MIMEVersion = "1.0"

// endOfData terminates the DATA section of the SMTP conversation.
const endOfData = "\r\n.\r\n"

// MsgOption returns a function that can be used for grouping Msg options
type MsgOption func(*Msg)

// Msg is the mail message struct. A Msg is meant to be used by pointer.
type Msg struct {
	sender  Address
	replyTo Address
	to      []Address
	cc      []Address
	subject string
	date    time.Time

	// kind tells what parts holds at index 0
	kind  bodyKind
	parts *MultiPartMixed
}

// WithDate pins the Date header of the Msg instead of using the time of
// serialization.
func WithDate(t time.Time) MsgOption {
	return func(m *Msg) {
		m.date = t
	}
}

// NewMsg returns an empty Msg.
func NewMsg(opts ...MsgOption) *Msg {
	m := &Msg{parts: NewMultiPartMixed()}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(m)
	}
	return m
}

// SetSender sets the From address.
func (m *Msg) SetSender(a Address) {
	m.sender = a
}

// Sender returns the From address.
func (m *Msg) Sender() Address {
	return m.sender
}

// SetReplyTo sets the optional Reply-To address. An empty Address removes it.
func (m *Msg) SetReplyTo(a Address) {
	m.replyTo = a
}

// ReplyTo returns the Reply-To address.
func (m *Msg) ReplyTo() Address {
	return m.replyTo
}

// AddTo appends To recipients.
func (m *Msg) AddTo(addrs ...Address) {
	m.to = append(m.to, addrs...)
}

// To returns the To recipients.
func (m *Msg) To() []Address {
	return append([]Address(nil), m.to...)
}

// AddCc appends Cc recipients. Cc recipients are visible to everybody in
// the Cc header.
func (m *Msg) AddCc(addrs ...Address) {
	m.cc = append(m.cc, addrs...)
}

// Cc returns the Cc recipients.
func (m *Msg) Cc() []Address {
	return append([]Address(nil), m.cc...)
}

// Recipients returns the envelope recipients: every To address followed by
// every Cc address.
func (m *Msg) Recipients() []Address {
	rcpts := make([]Address, 0, len(m.to)+len(m.cc))
	rcpts = append(rcpts, m.to...)
	return append(rcpts, m.cc...)
}

// SetSubject sets the subject.
func (m *Msg) SetSubject(s string) {
	m.subject = s
}

// Subject returns the subject.
func (m *Msg) Subject() string {
	return m.subject
}

// SetDate pins the Date header. A zero time uses the time of serialization.
func (m *Msg) SetDate(t time.Time) {
	m.date = t
}

// SetText replaces the body by a text/plain part. An empty text removes the
// body.
func (m *Msg) SetText(text string) {
	m.setBody(bodyText, text)
}

// SetHTML replaces the body by a text/html part. An empty html removes the
// body.
func (m *Msg) SetHTML(html string) {
	m.setBody(bodyHTML, html)
}

func (m *Msg) setBody(kind bodyKind, body string) {
	if m.kind != bodyNone {
		m.parts.removeFirst()
		m.kind = bodyNone
	}
	if body == "" {
		return
	}
	switch kind {
	case bodyText:
		m.parts.prepend(NewTextPart(body))
	case bodyHTML:
		m.parts.prepend(NewHTMLPart(body))
	}
	m.kind = kind
}

// Text returns the text/plain body, or "" if the body is not text.
func (m *Msg) Text() string {
	if m.kind != bodyText {
		return ""
	}
	return m.parts.parts[0].(*TextPart).Body()
}

// HTML returns the text/html body, or "" if the body is not html.
func (m *Msg) HTML() string {
	if m.kind != bodyHTML {
		return ""
	}
	return m.parts.parts[0].(*HTMLPart).Body()
}

// AddPart appends p after the body and all previously added parts.
func (m *Msg) AddPart(p Part) {
	m.parts.Add(p)
}

// AttachFile appends content as attachment named name.
func (m *Msg) AttachFile(content []byte, name string, opts ...FileOption) {
	m.parts.Add(NewAttachment(content, name, opts...))
}

// EmbedFile appends content as inline file named name.
func (m *Msg) EmbedFile(content []byte, name string, opts ...FileOption) {
	m.parts.Add(NewInlineFile(content, name, opts...))
}

// Parts returns the body part, if set, followed by the added parts.
func (m *Msg) Parts() []Part {
	return m.parts.Parts()
}

// Validate returns nil for a sendable Msg. Otherwise the error wraps
// ErrInvalidMessage and the specific reason.
func (m *Msg) Validate() error {
	invalid := func(reason error) error {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, reason)
	}
	if !m.sender.IsValid() {
		return invalid(ErrInvalidSender)
	}
	if !m.replyTo.IsEmpty() && !m.replyTo.IsValid() {
		return invalid(ErrInvalidReplyTo)
	}
	if len(m.to) == 0 {
		return invalid(ErrNoRecipients)
	}
	for _, a := range m.Recipients() {
		if !a.IsValid() {
			return invalid(fmt.Errorf("%w: %q", ErrInvalidRcpt, a.Email))
		}
	}
	if m.subject == "" {
		return invalid(ErrNoSubject)
	}
	if m.kind == bodyNone {
		return invalid(ErrNoBody)
	}
	return nil
}

// IsValid reports whether Validate succeeds.
func (m *Msg) IsValid() bool {
	return m.Validate() == nil
}

// WriteTo writes the message followed by the end-of-data marker to w. An
// invalid Msg fails before anything is written. A failure later on aborts
// the serialization; bytes already written stay written.
func (m *Msg) WriteTo(w io.Writer) (int64, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}
	date := m.date
	if date.IsZero() {
		date = time.Now()
	}

	mw := &msgWriter{w: w}
	mw.writeHeader(HeaderMIMEVersion, MIMEVersion)
	mw.writeHeader(HeaderDate, date.Format(time.RFC1123Z))
	from, _ := EncodeAddress(m.sender)
	mw.writeAddrHeader(HeaderFrom, from)
	if !m.replyTo.IsEmpty() {
		replyTo, _ := EncodeAddress(m.replyTo)
		mw.writeAddrHeader(HeaderReplyTo, replyTo)
	}
	to, _ := EncodeAddresses(m.to)
	mw.writeAddrHeader(HeaderTo, to)
	if len(m.cc) > 0 {
		cc, _ := EncodeAddresses(m.cc)
		mw.writeAddrHeader(HeaderCc, cc)
	}
	mw.writeHeader(HeaderSubject, string(EncodeMimeWordQ(m.subject, MaxWordLength)))
	mw.writePart(m.parts)
	mw.writeString(endOfData)
	return mw.n, mw.err
}
