// SPDX-FileCopyrightText: Copyright (c) The go-mimesmtp Authors
//
// SPDX-License-Identifier: MIT

package smtp

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedResponse is returned when a reply line is not of the form
	// "ddd", "ddd text" or "ddd-text".
	ErrMalformedResponse = errors.New("smtp: malformed response")

	// ErrStrayData is returned when the server sent data while no reply was
	// expected.
	ErrStrayData = errors.New("smtp: unexpected data from server")

	// ErrInvalidLine is returned for a command that contains CR or LF.
	ErrInvalidLine = errors.New("smtp: a line must not contain CR or LF")
)

// ResponseError is a complete reply whose code differs from the expected one.
type ResponseError struct {
	Expected int
	Code     int
	Line     string
}

// Error satisfies the error interface for the ResponseError type
func (e *ResponseError) Error() string {
	return fmt.Sprintf("smtp: expected response code %d, got: %s", e.Expected, e.Line)
}

// IsTemporary reports whether the server signalled a transient failure.
func (e *ResponseError) IsTemporary() bool {
	return e.Code >= 400 && e.Code <= 499
}

// parseResponseLine splits a trimmed reply line into its code, its text and
// whether it terminates the reply.
func parseResponseLine(line string) (code int, final bool, text string, err error) {
	if len(line) < 3 {
		return 0, false, "", fmt.Errorf("%w: %q", ErrMalformedResponse, line)
	}
	for i := 0; i < 3; i++ {
		if line[i] < '0' || line[i] > '9' {
			return 0, false, "", fmt.Errorf("%w: %q", ErrMalformedResponse, line)
		}
		code = code*10 + int(line[i]-'0')
	}
	if len(line) == 3 {
		return code, true, "", nil
	}
	switch line[3] {
	case ' ':
		final = true
	case '-':
	default:
		return 0, false, "", fmt.Errorf("%w: %q", ErrMalformedResponse, line)
	}
	return code, final, line[4:], nil
}
