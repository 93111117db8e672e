// SPDX-FileCopyrightText: The go-mimesmtp Authors
//
// SPDX-License-Identifier: MIT

package mail

import (
	"bytes"
	"encoding/base64"
)

// wordSeparator folds consecutive encoded-words onto continuation lines.
var wordSeparator = []byte("\r\n ")

// EncodeMimeWordQ encodes text as one or more "Q" encoded-words (RFC 2047).
func EncodeMimeWordQ(text string, maxWordSize int) []byte {
	return encodeMimeWord(text, maxWordSize, 'Q')
}

// EncodeMimeWordB encodes text as one or more "B" encoded-words (RFC 2047).
func EncodeMimeWordB(text string, maxWordSize int) []byte {
	return encodeMimeWord(text, maxWordSize, 'B')
}

// encodeMimeWord encodes the whole text as one word first. While the longest
// word exceeds maxWordSize, the text is cut into chunks of half the previous
// character count (rounded up) and every chunk becomes its own word. A chunk
// of a single character is accepted whatever its encoded length.
func encodeMimeWord(text string, maxWordSize int, enc byte) []byte {
	if text == "" {
		return nil
	}
	chars := []rune(text)
	size := len(chars)
	for {
		words := make([][]byte, 0, (len(chars)+size-1)/size)
		longest := 0
		for i := 0; i < len(chars); i += size {
			word := encodeWord(string(chars[i:min(i+size, len(chars))]), enc)
			longest = max(longest, len(word))
			words = append(words, word)
		}
		if longest <= maxWordSize || size <= 1 {
			return bytes.Join(words, wordSeparator)
		}
		size = size/2 + size%2
	}
}

func encodeWord(chunk string, enc byte) []byte {
	var payload []byte
	switch enc {
	case 'B':
		payload = []byte(base64.StdEncoding.EncodeToString([]byte(chunk)))
	default:
		payload = EncodeQuotedPrintable(chunk)
	}
	word := make([]byte, 0, len(payload)+12)
	word = append(word, "=?utf-8?"...)
	word = append(word, enc, '?')
	word = append(word, payload...)
	return append(word, "?="...)
}

// EncodeAddress renders a for an address header. A display name becomes a Q
// encoded-word followed by the address in angle brackets on a continuation
// line. ok is false if the address is invalid.
func EncodeAddress(a Address) (encoded []byte, ok bool) {
	if !a.IsValid() {
		return nil, false
	}
	if a.Name == "" {
		return []byte(a.Email), true
	}
	encoded = EncodeMimeWordQ(a.Name, MaxWordLength)
	encoded = append(encoded, "\r\n <"...)
	encoded = append(encoded, a.Email...)
	return append(encoded, '>'), true
}

// EncodeAddresses renders a list of addresses joined by ",\r\n ". ok is false
// if any address is invalid. An empty list yields nil and ok.
func EncodeAddresses(list []Address) (encoded []byte, ok bool) {
	for i, a := range list {
		addr, valid := EncodeAddress(a)
		if !valid {
			return nil, false
		}
		if i > 0 {
			encoded = append(encoded, ",\r\n "...)
		}
		encoded = append(encoded, addr...)
	}
	return encoded, true
}
