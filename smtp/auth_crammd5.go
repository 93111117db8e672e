// SPDX-FileCopyrightText: Copyright (c) The go-mimesmtp Authors
//
// SPDX-License-Identifier: MIT

package smtp

import (
	"crypto/hmac"
	"crypto/md5"
	"encoding/hex"
)

type cramMD5Auth struct {
	username, secret string
}

// CRAMMD5Auth returns a Mechanism that implements the CRAM-MD5 authentication
// mechanism as defined in RFC 2195. The server challenge is signed with
// HMAC-MD5 keyed by secret.
func CRAMMD5Auth(username, secret string) Mechanism {
	return &cramMD5Auth{username: username, secret: secret}
}

func (a *cramMD5Auth) Start() (string, []byte, bool, error) {
	return "CRAM-MD5", nil, false, nil
}

func (a *cramMD5Auth) Next(challenge []byte) ([]byte, bool, error) {
	d := hmac.New(md5.New, []byte(a.secret))
	d.Write(challenge)
	return []byte(a.username + " " + hex.EncodeToString(d.Sum(nil))), true, nil
}
