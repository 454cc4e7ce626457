// SPDX-License-Identifier: GPL-3.0-or-later
package labels

import (
	"sort"
	"strings"

	"github.com/emersion/go-imap"
)

const inbox = "INBOX"

type Rules struct {
	// SystemRoot is the pseudo folder holding the provider's system labels.
	SystemRoot string
	// InboxMarker is the system label of mails in the inbox.
	InboxMarker   string
	FolderPrefix  string
	Delimiter     string
	ArchiveFolder string
	// Folders maps cleaned labels to destination folders, an empty
	// destination drops the mail.
	Folders       map[string]string
	FlaggedLabels []string
}

// Mapper decides the destination folder and flags of a mail from its labels.
type Mapper struct {
	rules   Rules
	flagged map[string]struct{}
}

func NewMapper(rules Rules) *Mapper {
	flagged := make(map[string]struct{}, len(rules.FlaggedLabels))
	for _, label := range rules.FlaggedLabels {
		flagged[label] = struct{}{}
	}

	folders := make(map[string]string, len(rules.Folders))
	for label, destination := range rules.Folders {
		folders[label] = destination
	}
	rules.Folders = folders

	return &Mapper{
		rules:   rules,
		flagged: flagged,
	}
}

// Destination returns the folder a mail with the given labels belongs to, or
// false when the mail has to be dropped.
func (m *Mapper) Destination(labels []string) (string, bool) {
	if len(labels) == 0 {
		return m.rules.ArchiveFolder, true
	}

	for _, label := range labels {
		if label == m.rules.SystemRoot {
			return "", false
		}
	}

	cleaned := make([]string, 0, len(labels))
	for _, label := range labels {
		if label == m.rules.InboxMarker {
			return inbox, true
		}
		cleaned = append(cleaned, m.clean(label))
	}

	for _, label := range cleaned {
		if strings.ToUpper(label) == inbox {
			return inbox, true
		}
	}

	for _, label := range cleaned {
		if destination, found := m.rules.Folders[label]; found {
			if destination == "" {
				return "", false
			}
			return destination, true
		}
	}

	sort.SliceStable(cleaned, func(i, j int) bool {
		return depth(cleaned[i]) > depth(cleaned[j])
	})

	destination := m.rules.FolderPrefix + cleaned[0]
	return strings.ReplaceAll(destination, "/", m.rules.Delimiter), true
}

// Flags derives the protocol flags implied by the labels.
func (m *Mapper) Flags(labels []string) []string {
	for _, label := range labels {
		if _, found := m.flagged[label]; found {
			return []string{imap.FlaggedFlag}
		}
	}
	return nil
}

func (m *Mapper) clean(label string) string {
	if m.rules.SystemRoot != "" {
		label = strings.ReplaceAll(label, m.rules.SystemRoot+"/", "")
	}
	return strings.TrimLeft(label, `\`)
}

func depth(label string) int {
	return strings.Count(label, "/")
}
