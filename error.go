// SPDX-FileCopyrightText: The go-mimesmtp Authors
//
// SPDX-License-Identifier: MIT

package mail

import (
	"errors"
	"fmt"

	"github.com/mimesmtp/go-mimesmtp/smtp"
)

// ErrKind classifies a failure of the Client.
type ErrKind int

const (
	// KindConfiguration is a missing or contradicting setting, detected before any I/O.
	KindConfiguration ErrKind = iota + 1
	// KindValidation is an invalid message or address, detected before any I/O.
	KindValidation
	// KindProtocol is an unexpected reply code, a malformed reply or unsolicited server data.
	KindProtocol
	// KindTransport is a dial, TLS, read or write failure including timeouts.
	KindTransport
)

// Sentinels matching every Error of the respective kind with errors.Is.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrValidation    = errors.New("validation error")
	ErrProtocol      = errors.New("protocol error")
	ErrTransport     = errors.New("transport error")
)

// Configuration failures
var (
	// ErrAlreadyConnected is returned by Connect on a connected Client.
	ErrAlreadyConnected = errors.New("client is already connected")
	// ErrNotConnected is returned by Send on a disconnected Client.
	ErrNotConnected = errors.New("not connected to SMTP server")
	// ErrNoHostname is returned if no server host is set.
	ErrNoHostname = errors.New("hostname for server cannot be empty")
	// ErrInvalidPort should be used if a port is specified that is not valid
	ErrInvalidPort = errors.New("invalid port number")
	// ErrInvalidHELO is returned if no client host for EHLO is set.
	ErrInvalidHELO = errors.New("invalid HELO/EHLO value - must not be empty")
	// ErrInvalidTimeout is returned for a non-positive timeout.
	ErrInvalidTimeout = errors.New("timeout cannot be zero or negative")
	// ErrInvalidTLSConfig is returned for a nil tls.Config.
	ErrInvalidTLSConfig = errors.New("invalid TLS config")
	// ErrNoConnectionType is returned by Connect if no ConnectionType was assigned.
	ErrNoConnectionType = errors.New("connection type is not set")
	// ErrInvalidConnectionType is returned when assigning ConnectionUnknown.
	ErrInvalidConnectionType = errors.New("invalid connection type")
	// ErrConnectionTypeSet is returned when assigning a ConnectionType a second time.
	ErrConnectionTypeSet = errors.New("connection type can only be set once")
	// ErrNoCredentials is returned if authentication is requested without username or password.
	ErrNoCredentials = errors.New("SMTP AUTH requires both username and password")
	// ErrNoAuthMechanism is returned for SMTPAuthCustom without a mechanism.
	ErrNoAuthMechanism = errors.New("custom SMTP AUTH requires a mechanism")
	// ErrInvalidSize is returned for a negative maximum message size.
	ErrInvalidSize = errors.New("maximum message size cannot be negative")
)

// Validation failures
var (
	// ErrInvalidMessage wraps every reason for a Msg to be invalid.
	ErrInvalidMessage = errors.New("invalid message")
	ErrInvalidSender  = errors.New("sender address is invalid")
	ErrInvalidReplyTo = errors.New("reply-to address is invalid")
	ErrNoRecipients   = errors.New("no recipient addresses set")
	ErrInvalidRcpt    = errors.New("recipient address is invalid")
	ErrNoSubject      = errors.New("subject cannot be empty")
	ErrNoBody         = errors.New("neither text nor html body is set")

	// ErrMessageTooLarge is returned when a serialized message exceeds the
	// configured maximum size.
	ErrMessageTooLarge = errors.New("message exceeds maximum size")

	ErrEmptyContentType = errors.New("content type cannot be empty")
	ErrEmptyBody        = errors.New("body cannot be empty")
	ErrEmptyFileName    = errors.New("file name cannot be empty")
	ErrEmptyFileContent = errors.New("file content cannot be empty")
	ErrNoParts          = errors.New("multipart has no parts")
)

// Error is returned by the Client for every failed operation.
type Error struct {
	Op   string
	Kind ErrKind
	Err  error
}

// Error satisfies the error interface for the Error type
func (e *Error) Error() string {
	return fmt.Sprintf("%s failed: %s: %s", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// String satisfies the fmt.Stringer interface for the ErrKind type
func (k ErrKind) String() string {
	if s := k.sentinel(); s != nil {
		return s.Error()
	}
	return "unknown error"
}

// label is the short name used for metric labels.
func (k ErrKind) label() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindValidation:
		return "validation"
	case KindProtocol:
		return "protocol"
	case KindTransport:
		return "transport"
	}
	return "unknown"
}

func (k ErrKind) sentinel() error {
	switch k {
	case KindConfiguration:
		return ErrConfiguration
	case KindValidation:
		return ErrValidation
	case KindProtocol:
		return ErrProtocol
	case KindTransport:
		return ErrTransport
	}
	return nil
}

// classify maps an error of the SMTP conversation to its kind.
func classify(err error) ErrKind {
	var respErr *smtp.ResponseError
	switch {
	case errors.As(err, &respErr),
		errors.Is(err, smtp.ErrMalformedResponse),
		errors.Is(err, smtp.ErrStrayData),
		errors.Is(err, smtp.ErrMechanism):
		return KindProtocol
	case errors.Is(err, smtp.ErrInvalidLine):
		return KindValidation
	}
	return KindTransport
}
