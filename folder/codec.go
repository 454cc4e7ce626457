// SPDX-License-Identifier: GPL-3.0-or-later
package folder

import (
	"strings"
	"unicode/utf8"

	"github.com/emersion/go-imap/utf7"
)

const (
	// hierarchy separator of the source namespace
	Separator = "/"
	// hierarchy delimiter of the destination namespace
	Delimiter = "."
)

// EncodeName converts a folder name to its modified UTF-7 wire form. When the
// name can not be encoded it is returned unchanged together with false.
func EncodeName(name string) (string, bool) {
	if !utf8.ValidString(name) {
		return name, false
	}

	wire, err := utf7.Encoding.NewEncoder().String(name)
	if err != nil {
		return name, false
	}

	return wire, true
}

// Encode converts a destination folder name to its wire form and rewrites
// the hierarchy separator to the destination delimiter.
func Encode(name string) (string, bool) {
	wire, ok := EncodeName(name)
	return strings.ReplaceAll(wire, Separator, Delimiter), ok
}

// Decode is the inverse of EncodeName. Malformed input is returned as is.
func Decode(wire string) string {
	name, err := utf7.Encoding.NewDecoder().String(wire)
	if err != nil {
		return wire
	}

	return name
}

// Quote returns the protocol string form of a wire name.
func Quote(wire string) string {
	if !needsQuoting(wire) {
		return wire
	}

	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(wire)
	return `"` + escaped + `"`
}

func needsQuoting(wire string) bool {
	for i := 0; i < len(wire); i++ {
		if wire[i] == ' ' || wire[i] > 127 {
			return true
		}
	}
	return false
}
