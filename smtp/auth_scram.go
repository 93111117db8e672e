// SPDX-FileCopyrightText: Copyright (c) The go-mimesmtp Authors
//
// SPDX-License-Identifier: MIT

package smtp

import (
	"bytes"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"hash"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/text/secure/precis"
)

// scramAuth is a SCRAM client (RFC 5802) without channel binding.
//
// The exchange takes three challenges: an empty one, the server-first message
// and the server signature. Only after the signature has been verified the
// server is expected to answer 235.
type scramAuth struct {
	username, password, algorithm               string
	firstBareMsg, nonce, saltedPwd, authMessage []byte
	iterations                                  int
	step                                        int
	h                                           func() hash.Hash
}

// ScramSHA1Auth returns a SCRAM-SHA-1 Mechanism.
func ScramSHA1Auth(username, password string) Mechanism {
	return &scramAuth{
		username:  username,
		password:  password,
		algorithm: "SCRAM-SHA-1",
		h:         sha1.New,
	}
}

// ScramSHA256Auth returns a SCRAM-SHA-256 Mechanism.
func ScramSHA256Auth(username, password string) Mechanism {
	return &scramAuth{
		username:  username,
		password:  password,
		algorithm: "SCRAM-SHA-256",
		h:         sha256.New,
	}
}

func (a *scramAuth) Start() (string, []byte, bool, error) {
	a.reset()
	return a.algorithm, nil, false, nil
}

func (a *scramAuth) Next(challenge []byte) ([]byte, bool, error) {
	a.step++
	var resp []byte
	var err error
	switch {
	case a.step == 1 && len(challenge) == 0:
		resp, err = a.initialClientMessage()
	case a.step == 2 && bytes.HasPrefix(challenge, []byte("r=")):
		resp, err = a.handleServerFirstResponse(challenge)
	case a.step == 3 && bytes.HasPrefix(challenge, []byte("v=")):
		err = a.handleServerValidationMessage(challenge)
		resp = []byte{}
	default:
		err = fmt.Errorf("%w: %s", ErrUnexpectedServerResponse, string(challenge))
	}
	if err != nil {
		a.reset()
		return nil, true, err
	}
	return resp, a.step == 3, nil
}

// reset clears all authentication-related properties in the scramAuth instance.
func (a *scramAuth) reset() {
	a.nonce = nil
	a.firstBareMsg = nil
	a.saltedPwd = nil
	a.authMessage = nil
	a.iterations = 0
	a.step = 0
}

func (a *scramAuth) initialClientMessage() ([]byte, error) {
	username, err := a.normalizeUsername()
	if err != nil {
		return nil, fmt.Errorf("username normalization failed: %w", err)
	}

	nonceBuffer := make([]byte, 24)
	if _, err := io.ReadFull(rand.Reader, nonceBuffer); err != nil {
		return nil, fmt.Errorf("unable to generate client secret: %w", err)
	}
	a.nonce = make([]byte, base64.StdEncoding.EncodedLen(len(nonceBuffer)))
	base64.StdEncoding.Encode(a.nonce, nonceBuffer)

	a.firstBareMsg = []byte("n=" + username + ",r=" + string(a.nonce))
	return []byte("n,," + string(a.firstBareMsg)), nil
}

func (a *scramAuth) handleServerFirstResponse(fromServer []byte) ([]byte, error) {
	parts := bytes.Split(fromServer, []byte(","))
	if len(parts) < 3 {
		return nil, errors.New("not enough fields in the first server response")
	}
	if !bytes.HasPrefix(parts[1], []byte("s=")) {
		return nil, errors.New("second part of the server response does not start with s=")
	}
	if !bytes.HasPrefix(parts[2], []byte("i=")) {
		return nil, errors.New("third part of the server response does not start with i=")
	}

	combinedNonce := parts[0][2:]
	if len(a.nonce) == 0 || !bytes.HasPrefix(combinedNonce, a.nonce) {
		return nil, errors.New("server nonce does not start with our nonce")
	}
	a.nonce = combinedNonce

	salt, err := base64.StdEncoding.DecodeString(string(parts[1][2:]))
	if err != nil {
		return nil, fmt.Errorf("invalid encoded salt: %w", err)
	}
	iterations, err := strconv.Atoi(string(parts[2][2:]))
	if err != nil || iterations <= 0 {
		return nil, fmt.Errorf("invalid iterations: %q", parts[2][2:])
	}
	a.iterations = iterations

	password, err := normalizeString(a.password)
	if err != nil {
		return nil, fmt.Errorf("unable to normalize password: %w", err)
	}
	a.saltedPwd = pbkdf2.Key([]byte(password), salt, a.iterations, a.h().Size(), a.h)

	msgWithoutProof := []byte("c=biws,r=" + string(a.nonce))
	a.authMessage = []byte(string(a.firstBareMsg) + "," + string(fromServer) + "," + string(msgWithoutProof))
	return []byte(string(msgWithoutProof) + ",p=" + string(a.computeClientProof())), nil
}

func (a *scramAuth) handleServerValidationMessage(fromServer []byte) error {
	if !hmac.Equal(fromServer[2:], a.computeServerSignature()) {
		return errors.New("invalid server signature")
	}
	return nil
}

func (a *scramAuth) computeHMAC(key, msg []byte) []byte {
	mac := hmac.New(a.h, key)
	mac.Write(msg)
	return mac.Sum(nil)
}

func (a *scramAuth) computeHash(key []byte) []byte {
	hasher := a.h()
	hasher.Write(key)
	return hasher.Sum(nil)
}

// computeClientProof returns the base64 encoded XOR of ClientKey and
// ClientSignature.
func (a *scramAuth) computeClientProof() []byte {
	clientKey := a.computeHMAC(a.saltedPwd, []byte("Client Key"))
	storedKey := a.computeHash(clientKey)
	clientSignature := a.computeHMAC(storedKey, a.authMessage)
	clientProof := make([]byte, len(clientSignature))
	for i := 0; i < len(clientSignature); i++ {
		clientProof[i] = clientKey[i] ^ clientSignature[i]
	}
	buf := make([]byte, base64.StdEncoding.EncodedLen(len(clientProof)))
	base64.StdEncoding.Encode(buf, clientProof)
	return buf
}

func (a *scramAuth) computeServerSignature() []byte {
	serverKey := a.computeHMAC(a.saltedPwd, []byte("Server Key"))
	serverSignature := a.computeHMAC(serverKey, a.authMessage)
	buf := make([]byte, base64.StdEncoding.EncodedLen(len(serverSignature)))
	base64.StdEncoding.Encode(buf, serverSignature)
	return buf
}

// normalizeUsername escapes ',' and '=' (RFC 5802 section 5.1) and prepares
// the result with the OpaqueString profile of RFC 8265.
func (a *scramAuth) normalizeUsername() (string, error) {
	replacer := strings.NewReplacer("=", "=3D", ",", "=2C")
	username, err := normalizeString(replacer.Replace(a.username))
	if err != nil {
		return "", fmt.Errorf("unable to normalize username: %w", err)
	}
	return username, nil
}

func normalizeString(s string) (string, error) {
	s, err := precis.OpaqueString.String(s)
	if err != nil {
		return "", fmt.Errorf("failed to normalize string: %w", err)
	}
	return s, nil
}
