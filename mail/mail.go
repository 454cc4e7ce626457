// SPDX-License-Identifier: GPL-3.0-or-later
package mail

import (
	"bytes"
	"fmt"
	"mime"
	stdmail "net/mail"

	"github.com/emersion/go-message/charset"
)

const UnknownSender = "Unknown"

var wordDecoder = &mime.WordDecoder{
	CharsetReader: charset.Reader,
}

// HeaderInfos returns the decoded subject and the sender address of a raw
// mail. A sender that can not be parsed is reported as UnknownSender.
func HeaderInfos(rawMail []byte) (string, string, error) {
	msg, err := stdmail.ReadMessage(bytes.NewReader(rawMail))
	if err != nil {
		return "", UnknownSender, fmt.Errorf("could not parse mail: %w", err)
	}

	sender := Sender(msg.Header.Get("From"))
	subject, err := DecodeHeader(msg.Header.Get("Subject"))
	if err != nil {
		return "", sender, fmt.Errorf("could not decode subject header: %w", err)
	}

	return subject, sender, nil
}

// Sender extracts the address part of a From header value.
func Sender(from string) string {
	if len(from) == 0 {
		return UnknownSender
	}

	parser := stdmail.AddressParser{WordDecoder: wordDecoder}
	address, err := parser.Parse(from)
	if err != nil || len(address.Address) == 0 {
		return UnknownSender
	}

	return address.Address
}

// DecodeHeader decodes RFC 2047 encoded words.
func DecodeHeader(value string) (string, error) {
	decoded, err := wordDecoder.DecodeHeader(value)
	if err != nil {
		return "", fmt.Errorf("could not decode header: %w", err)
	}

	return decoded, nil
}

func ShortSubject(subject string) string {
	runes := []rune(subject)
	if len(runes) > 30 {
		subject = string(runes[:30]) + "..."
	}
	return subject
}
