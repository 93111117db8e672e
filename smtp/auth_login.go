// SPDX-FileCopyrightText: Copyright (c) The go-mimesmtp Authors
//
// SPDX-License-Identifier: MIT

package smtp

// loginAuth answers the two prompts of AUTH LOGIN in order. The wording of
// the prompts differs between servers and is not inspected.
type loginAuth struct {
	username, password string
	step               int
}

// LoginAuth returns a Mechanism that implements the LOGIN authentication
// mechanism.
func LoginAuth(username, password string) Mechanism {
	return &loginAuth{username: username, password: password}
}

func (a *loginAuth) Start() (string, []byte, bool, error) {
	a.step = 0
	return "LOGIN", nil, false, nil
}

func (a *loginAuth) Next(_ []byte) ([]byte, bool, error) {
	a.step++
	switch a.step {
	case 1:
		return []byte(a.username), false, nil
	case 2:
		return []byte(a.password), true, nil
	}
	return nil, true, ErrUnexpectedServerResponse
}
