// SPDX-License-Identifier: GPL-3.0-or-later
package attachments

import (
	stdmail "net/mail"
	"strings"
	"time"
)

var internalDateLayouts = []string{
	"_2-Jan-2006 15:04:05 -0700",
	"02-Jan-2006 15:04:05 -0700",
}

var unsafeChars = strings.NewReplacer(
	"<", "_", ">", "_", ":", "_", `"`, "_", "/", "_",
	`\`, "_", "|", "_", "?", "_", "*", "_",
)

// Extension returns the lower case extension of a filename, ignoring
// anything after a question mark.
func Extension(filename string) string {
	if i := strings.Index(filename, "?"); i >= 0 {
		filename = filename[:i]
	}
	filename = strings.TrimSpace(filename)

	if i := strings.LastIndex(filename, "/"); i >= 0 {
		filename = filename[i+1:]
	}
	// leading dots belong to the name
	name := strings.TrimLeft(filename, ".")
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(name[i:])
}

// SafeFilename strips a file scheme and replaces characters that are not
// allowed in filenames on common systems.
func SafeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "file://", "")
	return strings.TrimSpace(unsafeChars.Replace(filename))
}

// ParseSentDate parses an RFC 2822 date or a quoted internal date. When both
// fail it returns now and false.
func ParseSentDate(value string, now time.Time) (time.Time, bool) {
	value = strings.TrimSpace(strings.Trim(value, `"`))

	if date, err := stdmail.ParseDate(value); err == nil {
		return date, true
	}

	for _, layout := range internalDateLayouts {
		if date, err := time.Parse(layout, value); err == nil {
			return date, true
		}
	}

	return now, false
}
