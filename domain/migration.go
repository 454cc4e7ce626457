// SPDX-License-Identifier: GPL-3.0-or-later

//go:generate mockgen -destination=mocks/migration.go -package=mocks . AttachmentExtractor
package domain

type FolderMapper interface {
	// Destination returns false when the message has to be dropped.
	Destination(labels []string) (string, bool)
	Flags(labels []string) []string
}

type AttachmentExtractor interface {
	Extract(rawMail []byte, sentDate string, dryRun bool) ([]byte, error)
}

type Progress interface {
	Start(total, done int)
	Increment()
	Finish()
}
