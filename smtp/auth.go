// SPDX-FileCopyrightText: Copyright (c) The go-mimesmtp Authors
//
// SPDX-License-Identifier: MIT

package smtp

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// ErrUnexpectedServerResponse is returned by a Mechanism that cannot make sense
// of a server challenge.
var ErrUnexpectedServerResponse = errors.New("unexpected server response")

// ErrMechanism wraps every failure raised by a Mechanism itself.
var ErrMechanism = errors.New("smtp: authentication mechanism failed")

const redacted = "<SMTP auth data redacted>"

// Mechanism is a SASL mechanism driven one step at a time.
//
// Each step returns whether it is the last one. After the last step the
// server has to answer 235, after any other step it has to answer 334 with
// the next challenge.
type Mechanism interface {
	// Start returns the mechanism name and an optional initial response that
	// is sent along with the AUTH command.
	Start() (name string, initial []byte, last bool, err error)

	// Next returns the answer to a decoded 334 challenge.
	Next(challenge []byte) (response []byte, last bool, err error)
}

// Auth runs the AUTH exchange for m.
func (c *Conn) Auth(m Mechanism) error {
	name, initial, last, err := m.Start()
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMechanism, name, err)
	}
	line, logLine := "AUTH "+name, "AUTH "+name
	if initial != nil {
		line += " " + base64.StdEncoding.EncodeToString(initial)
		logLine += " " + redacted
	}

	c.authIsActive = true
	defer func() { c.authIsActive = false }()
	for {
		expect := 334
		if last {
			expect = 235
		}
		msg, err := c.cmd(expect, line, logLine)
		if err != nil {
			return err
		}
		if last {
			return nil
		}

		challenge, decErr := base64.StdEncoding.DecodeString(msg)
		if decErr != nil {
			challenge = []byte(msg)
		}
		var resp []byte
		resp, last, err = m.Next(challenge)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrMechanism, name, err)
		}
		line, logLine = base64.StdEncoding.EncodeToString(resp), redacted
	}
}
