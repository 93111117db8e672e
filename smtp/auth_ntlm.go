// SPDX-FileCopyrightText: Copyright (c) The go-mimesmtp Authors
//
// SPDX-License-Identifier: MIT

package smtp

import (
	"errors"

	"github.com/Azure/go-ntlmssp"
)

// ErrNTLMChallengeEmpty is returned when the NTLMv2 ChallengeMessage received from the server is empty.
var ErrNTLMChallengeEmpty = errors.New("NTLMv2 ChallengeMessage is empty")

// ntlmAuth represents a NTLM client and satisfies the Mechanism interface.
type ntlmAuth struct {
	domain, password, username, workstation string
	domainNeeded                            bool
}

// NTLMv2Auth returns a Mechanism for NTLMv2. A username of the form
// DOMAIN\user or user@domain selects the domain.
func NTLMv2Auth(username, password, workstation string) Mechanism {
	user, domain, domainNeeded := ntlmssp.GetDomain(username)
	return &ntlmAuth{
		domain:       domain,
		password:     password,
		username:     user,
		workstation:  workstation,
		domainNeeded: domainNeeded,
	}
}

// Start sends the negotiation message as initial response.
func (a *ntlmAuth) Start() (string, []byte, bool, error) {
	negotiateMessage, err := ntlmssp.NewNegotiateMessage(a.domain, a.workstation)
	return "NTLM", negotiateMessage, false, err
}

// Next answers the server challenge with the authenticate message.
func (a *ntlmAuth) Next(challenge []byte) ([]byte, bool, error) {
	if len(challenge) == 0 {
		return nil, true, ErrNTLMChallengeEmpty
	}
	authenticateMessage, err := ntlmssp.ProcessChallenge(challenge, a.username, a.password, a.domainNeeded)
	return authenticateMessage, true, err
}
