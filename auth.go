// SPDX-FileCopyrightText: The go-mimesmtp Authors
//
// SPDX-License-Identifier: MIT

package mail

import (
	"fmt"
	"strings"
)

// SMTPAuthType represents a string to any SMTP AUTH type
type SMTPAuthType string

// Supported SMTP AUTH types
const (
	// SMTPAuthCramMD5 is the "CRAM-MD5" SASL authentication mechanism as described in RFC 4954.
	// https://datatracker.ietf.org/doc/html/rfc4954/
	SMTPAuthCramMD5 SMTPAuthType = "CRAM-MD5"

	// SMTPAuthLogin is the "LOGIN" SASL authentication mechanism.
	SMTPAuthLogin SMTPAuthType = "LOGIN"

	// SMTPAuthNoAuth is equivalent to performing no authentication at all.
	SMTPAuthNoAuth SMTPAuthType = ""

	// SMTPAuthPlain is the "PLAIN" authentication mechanism as described in RFC 4616.
	// https://datatracker.ietf.org/doc/html/rfc4616/
	SMTPAuthPlain SMTPAuthType = "PLAIN"

	// SMTPAuthSCRAMSHA1 is the "SCRAM-SHA-1" SASL authentication mechanism as described in RFC 5802.
	SMTPAuthSCRAMSHA1 SMTPAuthType = "SCRAM-SHA-1"

	// SMTPAuthSCRAMSHA256 is the "SCRAM-SHA-256" SASL authentication mechanism as described in RFC 7677.
	SMTPAuthSCRAMSHA256 SMTPAuthType = "SCRAM-SHA-256"

	// SMTPAuthNTLM is the NTLMv2 authentication mechanism used by Microsoft servers.
	SMTPAuthNTLM SMTPAuthType = "NTLM"

	// SMTPAuthCustom selects the mechanism set with WithSMTPAuthCustom.
	SMTPAuthCustom SMTPAuthType = "CUSTOM"
)

// String satisfies the fmt.Stringer interface for the SMTPAuthType type
func (sa SMTPAuthType) String() string {
	if sa == SMTPAuthNoAuth {
		return "NONE"
	}
	return string(sa)
}

// UnmarshalString satisfies a custom unmarshaler interface for the SMTPAuthType type
func (sa *SMTPAuthType) UnmarshalString(value string) error {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "none", "noauth", "no":
		*sa = SMTPAuthNoAuth
	case "cram-md5", "crammd5", "cram":
		*sa = SMTPAuthCramMD5
	case "login":
		*sa = SMTPAuthLogin
	case "plain":
		*sa = SMTPAuthPlain
	case "scram-sha-1", "scram-sha1", "scramsha1":
		*sa = SMTPAuthSCRAMSHA1
	case "scram-sha-256", "scram-sha256", "scramsha256":
		*sa = SMTPAuthSCRAMSHA256
	case "ntlm", "ntlmv2":
		*sa = SMTPAuthNTLM
	default:
		return fmt.Errorf("unsupported SMTP AUTH type value: %s", value)
	}
	return nil
}

// needsCredentials reports whether the mechanism is driven by username and password.
func (sa SMTPAuthType) needsCredentials() bool {
	return sa != SMTPAuthNoAuth && sa != SMTPAuthCustom
}
