// SPDX-License-Identifier: GPL-3.0-or-later
package migration

import (
	"fmt"
	"time"

	"github.com/CrawX/go-imap-migrate/domain"
)

const (
	DefaultRootFolder        = "[Gmail]/All Mail"
	DefaultReconnectInterval = 500
)

type ConfigFunc func(c *configuration) error

// DryRun simulates the migration: nothing is created or appended on the
// destination and no attachment is written.
func DryRun() ConfigFunc {
	return func(c *configuration) error {
		c.DryRun = true
		return nil
	}
}

func RootFolder(name string) ConfigFunc {
	return func(c *configuration) error {
		if len(name) == 0 {
			return fmt.Errorf("RootFolder cannot be empty")
		}
		c.RootFolder = name
		return nil
	}
}

// ReconnectInterval forces a reconnect of both sessions every n mails.
func ReconnectInterval(n int) ConfigFunc {
	return func(c *configuration) error {
		if n <= 0 {
			return fmt.Errorf("ReconnectInterval must be positive, got %d", n)
		}
		c.ReconnectInterval = n
		return nil
	}
}

func MessageDelay(d time.Duration) ConfigFunc {
	return func(c *configuration) error {
		if d < 0 {
			return fmt.Errorf("MessageDelay cannot be negative, got %s", d)
		}
		c.MessageDelay = d
		return nil
	}
}

func ExtractAttachments(extractor domain.AttachmentExtractor) ConfigFunc {
	return func(c *configuration) error {
		if extractor == nil {
			return fmt.Errorf("attachment extractor cannot be nil")
		}
		c.Extractor = extractor
		return nil
	}
}

func Ledger(ledger domain.Ledger) ConfigFunc {
	return func(c *configuration) error {
		c.Ledger = ledger
		return nil
	}
}

func Progress(progress domain.Progress) ConfigFunc {
	return func(c *configuration) error {
		c.Progress = progress
		return nil
	}
}

type configuration struct {
	DryRun bool

	RootFolder        string
	ReconnectInterval int
	MessageDelay      time.Duration

	Extractor domain.AttachmentExtractor
	Ledger    domain.Ledger
	Progress  domain.Progress
}
