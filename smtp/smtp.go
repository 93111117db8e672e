// SPDX-FileCopyrightText: Copyright (c) The go-mimesmtp Authors
//
// SPDX-License-Identifier: MIT

// Package smtp implements a strict, synchronous SMTP client connection.
//
// Every command is answered by exactly one expected reply code. A reply with
// any other code, a malformed reply line or server data that arrives while no
// reply is pending are all treated as fatal for the conversation. Pipelining
// is never used.
package smtp

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/mimesmtp/go-mimesmtp/log"
)

// idleProbe is how long CheckIdle waits for unsolicited server data when
// nothing is buffered yet.
const idleProbe = time.Millisecond

// Conn is a single SMTP conversation on top of a net.Conn.
type Conn struct {
	conn   net.Conn
	r      *bufio.Reader
	isTLS  bool
	debug  bool
	logger log.Logger

	// authIsActive indicates that the conversation is inside an AUTH exchange
	// and the traffic log must not reveal its content.
	authIsActive bool

	responseTimeout time.Duration
	sendTimeout     time.Duration
}

// NewConn wraps an established connection. No data is read or written.
func NewConn(conn net.Conn) *Conn {
	_, isTLS := conn.(*tls.Conn)
	return &Conn{
		conn:   conn,
		r:      bufio.NewReader(conn),
		isTLS:  isTLS,
		logger: log.New(io.Discard, log.LevelError),
	}
}

// SetDebugLog enables or disables the SMTP traffic log.
func (c *Conn) SetDebugLog(v bool) {
	c.debug = v
}

// SetLogger sets the logger for the traffic log and for warnings. A nil
// logger is ignored.
func (c *Conn) SetLogger(l log.Logger) {
	if l == nil {
		return
	}
	c.logger = l
}

// SetTimeouts sets the time allowed for a reply to arrive and for a write to
// complete. A zero duration disables the respective deadline.
func (c *Conn) SetTimeouts(response, send time.Duration) {
	c.responseTimeout = response
	c.sendTimeout = send
}

// IsTLS reports whether the conversation is encrypted.
func (c *Conn) IsTLS() bool {
	return c.isTLS
}

// TLSConnectionState returns the TLS state of an encrypted conversation.
func (c *Conn) TLSConnectionState() (tls.ConnectionState, bool) {
	tc, ok := c.conn.(*tls.Conn)
	if !ok {
		return tls.ConnectionState{}, false
	}
	return tc.ConnectionState(), true
}

// Close closes the underlying connection without sending QUIT.
func (c *Conn) Close() error {
	return c.conn.Close()
}

// ReadResponse reads one complete reply and fails unless its code is
// expectCode. Continuation lines are consumed. The text of the final line
// is returned.
func (c *Conn) ReadResponse(expectCode int) (string, error) {
	if c.responseTimeout > 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(c.responseTimeout)); err != nil {
			return "", fmt.Errorf("smtp: failed to set read deadline: %w", err)
		}
		defer func() { _ = c.conn.SetReadDeadline(time.Time{}) }()
	}
	for {
		line, err := c.r.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("smtp: failed to read response: %w", err)
		}
		line = strings.TrimSpace(line)
		if c.authIsActive && strings.HasPrefix(line, "334") {
			c.debugLog(log.DirServerToClient, "%s", "334 <SMTP auth data redacted>")
		} else {
			c.debugLog(log.DirServerToClient, "%s", line)
		}

		code, final, text, err := parseResponseLine(line)
		if err != nil {
			return "", err
		}
		if !final {
			continue
		}
		if code != expectCode {
			return "", &ResponseError{Expected: expectCode, Code: code, Line: line}
		}
		return text, nil
	}
}

// Cmd sends a single command line and reads its reply. The command is only
// sent once CheckIdle confirmed that no unsolicited data is pending.
func (c *Conn) Cmd(expectCode int, format string, args ...interface{}) (string, error) {
	line := fmt.Sprintf(format, args...)
	return c.cmd(expectCode, line, line)
}

// cmd writes line and logs logLine in its place.
func (c *Conn) cmd(expectCode int, line, logLine string) (string, error) {
	if err := validateLine(line); err != nil {
		return "", err
	}
	if err := c.CheckIdle(); err != nil {
		return "", err
	}
	c.debugLog(log.DirClientToServer, "%s", logLine)
	if err := c.write([]byte(line + "\r\n")); err != nil {
		return "", err
	}
	return c.ReadResponse(expectCode)
}

// CheckIdle fails with ErrStrayData if the server sent anything that was not
// asked for. Pending lines are drained and logged as warnings.
func (c *Conn) CheckIdle() error {
	if c.r.Buffered() == 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(idleProbe)); err != nil {
			return fmt.Errorf("smtp: failed to set read deadline: %w", err)
		}
		_, err := c.r.Peek(1)
		_ = c.conn.SetReadDeadline(time.Time{})
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				return nil
			}
			return fmt.Errorf("smtp: connection check failed: %w", err)
		}
	}

	c.logger.Warnf(log.Log{Direction: log.DirInternal, Format: "unexpected data available to be read"})
	_ = c.conn.SetReadDeadline(time.Now().Add(idleProbe))
	for c.r.Buffered() > 0 {
		line, err := c.r.ReadString('\n')
		if line != "" {
			c.logger.Warnf(log.Log{Direction: log.DirServerToClient, Format: "%s", Messages: []interface{}{strings.TrimSpace(line)}})
		}
		if err != nil {
			break
		}
	}
	_ = c.conn.SetReadDeadline(time.Time{})
	return ErrStrayData
}

// Hello sends EHLO and expects 250.
func (c *Conn) Hello(localName string) error {
	_, err := c.Cmd(250, "EHLO %s", localName)
	return err
}

// StartTLS upgrades the conversation. The handshake is bounded by ctx. Data
// that the server sent along with the 220 reply is never carried into the
// encrypted session.
func (c *Conn) StartTLS(ctx context.Context, config *tls.Config) error {
	if c.isTLS {
		return errors.New("smtp: connection is already encrypted")
	}
	if _, err := c.Cmd(220, "STARTTLS"); err != nil {
		return err
	}
	if c.r.Buffered() > 0 {
		return c.CheckIdle()
	}

	tlsConn := tls.Client(c.conn, config)
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		return fmt.Errorf("smtp: TLS handshake failed: %w", err)
	}
	c.conn = tlsConn
	c.r = bufio.NewReader(tlsConn)
	c.isTLS = true
	return nil
}

// Mail sends MAIL FROM for the given address.
func (c *Conn) Mail(from string) error {
	_, err := c.Cmd(250, "MAIL FROM:<%s>", from)
	return err
}

// Rcpt sends RCPT TO for the given address.
func (c *Conn) Rcpt(to string) error {
	_, err := c.Cmd(250, "RCPT TO:<%s>", to)
	return err
}

// Data sends DATA, writes msg verbatim and waits for the server to accept
// it. msg must already carry the end-of-data marker.
func (c *Conn) Data(msg []byte) error {
	if _, err := c.Cmd(354, "DATA"); err != nil {
		return err
	}
	if err := c.CheckIdle(); err != nil {
		return err
	}
	c.debugLog(log.DirClientToServer, "<message data: %d bytes>", len(msg))
	if err := c.write(msg); err != nil {
		return err
	}
	_, err := c.ReadResponse(250)
	return err
}

func (c *Conn) write(p []byte) error {
	if c.sendTimeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.sendTimeout)); err != nil {
			return fmt.Errorf("smtp: failed to set write deadline: %w", err)
		}
		defer func() { _ = c.conn.SetWriteDeadline(time.Time{}) }()
	}
	if _, err := c.conn.Write(p); err != nil {
		return fmt.Errorf("smtp: failed to write: %w", err)
	}
	return nil
}

// debugLog checks if the debug flag is set and if so logs the provided message to
// the log.Logger interface
func (c *Conn) debugLog(d log.Direction, f string, a ...interface{}) {
	if c.debug {
		c.logger.Debugf(log.Log{Direction: d, Format: f, Messages: a})
	}
}

// validateLine checks to see if a line has CR or LF as per RFC 5321.
func validateLine(line string) error {
	if strings.ContainsAny(line, "\n\r") {
		return ErrInvalidLine
	}
	return nil
}
