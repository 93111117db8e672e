// SPDX-FileCopyrightText: The go-mimesmtp Authors
//
// SPDX-License-Identifier: MIT

package mail

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// randomBoundary returns a fresh 128 bit multipart boundary as 32 hex digits.
func randomBoundary() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}
