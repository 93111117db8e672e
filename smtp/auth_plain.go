// SPDX-FileCopyrightText: Copyright (c) The go-mimesmtp Authors
//
// SPDX-License-Identifier: MIT

package smtp

// plainAuth is the type that satisfies the Mechanism interface for the "SMTP PLAIN" auth
type plainAuth struct {
	username, password string
}

// PlainAuth returns a Mechanism that implements the PLAIN authentication
// mechanism as defined in RFC 4616. The credentials travel in the initial
// response and the server is expected to accept them right away.
func PlainAuth(username, password string) Mechanism {
	return &plainAuth{username: username, password: password}
}

func (a *plainAuth) Start() (string, []byte, bool, error) {
	resp := []byte("\x00" + a.username + "\x00" + a.password)
	return "PLAIN", resp, true, nil
}

func (a *plainAuth) Next(_ []byte) ([]byte, bool, error) {
	return nil, true, ErrUnexpectedServerResponse
}
