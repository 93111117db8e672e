// SPDX-FileCopyrightText: The go-mimesmtp Authors
//
// SPDX-License-Identifier: MIT

package mail

import (
	"fmt"
	"strings"
)

// ConnectionType selects how the Client secures its connection.
type ConnectionType int

const (
	// ConnectionUnknown is the zero value. It cannot be assigned to a Client.
	ConnectionUnknown ConnectionType = iota

	// ConnectionTCP is a plaintext connection.
	ConnectionTCP

	// ConnectionSSL performs the TLS handshake right after the TCP connect
	// (implicit TLS, usually port 465).
	ConnectionSSL

	// ConnectionTLS upgrades a plaintext connection with STARTTLS (usually
	// port 587).
	ConnectionTLS
)

// String satisfies the fmt.Stringer interface for the ConnectionType type
func (t ConnectionType) String() string {
	switch t {
	case ConnectionTCP:
		return "TCP"
	case ConnectionSSL:
		return "SSL"
	case ConnectionTLS:
		return "TLS"
	default:
		return "Unknown"
	}
}

// UnmarshalString satisfies a custom unmarshaler interface for the ConnectionType type
func (t *ConnectionType) UnmarshalString(value string) error {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "tcp", "plain", "none":
		*t = ConnectionTCP
	case "ssl", "tls-implicit", "smtps":
		*t = ConnectionSSL
	case "tls", "starttls":
		*t = ConnectionTLS
	default:
		return fmt.Errorf("unsupported connection type value: %s", value)
	}
	return nil
}

// defaultPort returns the well-known port for the connection type.
func (t ConnectionType) defaultPort() int {
	switch t {
	case ConnectionSSL:
		return DefaultPortSSL
	case ConnectionTLS:
		return DefaultPortTLS
	default:
		return DefaultPort
	}
}
