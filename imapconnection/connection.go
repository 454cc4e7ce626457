// SPDX-License-Identifier: GPL-3.0-or-later
package imapconnection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/CrawX/go-imap-migrate/domain"
	"github.com/CrawX/go-imap-migrate/log"

	"github.com/sirupsen/logrus"
)

const defaultMaxAttempts = 5

type dialFunc func() (domain.ImapSession, error)

// Connection owns the live session to one server. Reconnect replaces the
// session, callers always go through Session to get the current one.
type Connection struct {
	server      string
	dial        dialFunc
	sleep       func(ctx context.Context, d time.Duration) error
	maxAttempts int

	session domain.ImapSession

	l *logrus.Logger
}

// Connect opens the initial session. There is no retry, a failure here
// usually means the configuration is wrong.
func Connect(creds Credentials, opts ...Option) (*Connection, error) {
	l := log.Logger(log.LOG_IMAP)
	l.WithFields(logrus.Fields{"server": creds.Server, "user": creds.User}).Info("Login to server")

	dial := func() (domain.ImapSession, error) {
		return NewImapConnection(creds, opts...)
	}

	return newConnection(creds.Server, dial, l)
}

func newConnection(server string, dial dialFunc, l *logrus.Logger) (*Connection, error) {
	session, err := dial()
	if err != nil {
		return nil, fmt.Errorf("could not connect to %s: %w", server, err)
	}

	return &Connection{
		server:      server,
		dial:        dial,
		sleep:       sleep,
		maxAttempts: defaultMaxAttempts,
		session:     session,
		l:           l,
	}, nil
}

func (c *Connection) Session() domain.ImapSession {
	return c.session
}

// Reconnect opens a fresh session, retrying transient failures with
// exponential backoff. The previous session is closed on success.
func (c *Connection) Reconnect(ctx context.Context) error {
	var err error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		attemptLogger := c.l.WithFields(logrus.Fields{
			"server":  c.server,
			"attempt": fmt.Sprintf("%d/%d", attempt+1, c.maxAttempts),
		})
		attemptLogger.Debug("Reconnecting")

		var session domain.ImapSession
		session, err = c.dial()
		if err == nil {
			stale := c.session
			c.session = session
			if stale != nil {
				if closeErr := stale.Close(); closeErr != nil {
					attemptLogger.WithError(closeErr).Debug("Could not close stale session")
				}
			}
			attemptLogger.Debug("Reconnected")
			return nil
		}

		if !transient(err) {
			return fmt.Errorf("could not reconnect to %s: %w", c.server, err)
		}

		attemptLogger.WithError(err).Debug("Reconnect attempt failed")
		if attempt+1 == c.maxAttempts {
			break
		}

		backoff := time.Duration(1<<uint(attempt)) * time.Second
		if sleepErr := c.sleep(ctx, backoff); sleepErr != nil {
			return fmt.Errorf("reconnect to %s interrupted: %w", c.server, sleepErr)
		}
	}

	return fmt.Errorf("could not reconnect to %s after %d attempts: %w", c.server, c.maxAttempts, err)
}

func (c *Connection) Close() error {
	if c.session == nil {
		return nil
	}
	return c.session.Close()
}

func transient(err error) bool {
	if errors.Is(err, domain.ErrConnection) || errors.Is(err, domain.ErrSessionAborted) ||
		errors.Is(err, io.EOF) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
