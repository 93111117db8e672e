// SPDX-FileCopyrightText: The go-mimesmtp Authors
//
// SPDX-License-Identifier: MIT

package mail

import (
	"fmt"
	"regexp"
)

// emailPattern is the accepted form of an email address.
var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]+$`)

// Address is a mailbox with an optional display name.
type Address struct {
	Email string
	Name  string
}

// NewAddress returns an Address for email with the optional display name.
func NewAddress(email, name string) Address {
	return Address{Email: email, Name: name}
}

// IsValid reports whether Email is a syntactically acceptable address.
func (a Address) IsValid() bool {
	return emailPattern.MatchString(a.Email)
}

// IsEmpty reports whether neither an email nor a name is set.
func (a Address) IsEmpty() bool {
	return a.Email == "" && a.Name == ""
}

// String satisfies the fmt.Stringer interface for the Address type
func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return fmt.Sprintf("%q <%s>", a.Name, a.Email)
}
