// SPDX-FileCopyrightText: The go-mimesmtp Authors
//
// SPDX-License-Identifier: MIT

// Package mail composes MIME messages and submits them over SMTP.
//
// A Msg holds the sender, the recipients, a subject, a text or HTML body and
// any number of attachments or inline files. Msg.WriteTo serializes it as a
// 7-bit clean RFC 5322 message: text bodies are quoted-printable, file parts
// are base64 and non-ASCII header text is carried in RFC 2047 encoded-words.
//
// A Client drives a single SMTP session. Connect dials the server, reads the
// greeting, sends EHLO, upgrades to TLS when configured and authenticates.
// Send then submits one message at a time until Close is called:
//
//	c, err := mail.NewClient("mail.example.com",
//		mail.WithConnectionType(mail.ConnectionTLS),
//		mail.WithSMTPAuth(mail.SMTPAuthPlain),
//		mail.WithUsername("toni"), mail.WithPassword("secret"))
//	if err != nil {
//		return err
//	}
//	msg := mail.NewMsg()
//	msg.SetSender(mail.NewAddress("toni@example.com", "Toni Tester"))
//	msg.AddTo(mail.NewAddress("tina@example.com", ""))
//	msg.SetSubject("Hello")
//	msg.SetText("Hello Tina")
//	return c.ConnectAndSend(ctx, msg)
//
// Every error returned by the Client is an *Error carrying the failed
// operation and an ErrKind, so callers can test it with errors.Is against
// ErrConfiguration, ErrValidation, ErrProtocol or ErrTransport.
package mail
