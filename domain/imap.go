// SPDX-License-Identifier: GPL-3.0-or-later
package domain

//go:generate mockgen -destination=mocks/imap.go -package=mocks . ImapSession,SessionProvider
import (
	"context"
	"errors"
	"time"
)

var (
	ErrConnection      = errors.New("imap connection failed")
	ErrLogin           = errors.New("imap login failed")
	ErrSessionAborted  = errors.New("imap session aborted")
	ErrFolderExists    = errors.New("imap folder already exists")
	ErrMessageNotFound = errors.New("imap message not found")
)

// FetchedMail is one source message as returned by a single fetch round trip.
// RawMail is nil when the server answered without a body.
type FetchedMail struct {
	SeqNum       uint32
	RawMail      []byte
	Labels       []string
	Flags        []string
	InternalDate time.Time
	Size         uint32
}

// ImapSession is a logged in connection. Folder arguments are wire names as
// produced by the folder codec.
type ImapSession interface {
	ListFolders() ([]string, error)
	SelectReadOnly(folder string) (uint32, error)
	SearchAll() ([]uint32, error)
	Fetch(seqNum uint32) (*FetchedMail, error)
	CreateFolder(folder string) error
	Subscribe(folder string) error
	// Append returns the destination uid when the server reports it (UIDPLUS), 0 otherwise.
	Append(folder string, flags []string, date time.Time, body []byte) (uint32, error)

	Close() error
}

// SessionProvider owns the current session of one account and can replace it.
type SessionProvider interface {
	Session() ImapSession
	Reconnect(ctx context.Context) error
}
