// SPDX-License-Identifier: GPL-3.0-or-later
package imapconnection

import (
	"bytes"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net"
	"strings"
	"time"

	"github.com/CrawX/go-imap-migrate/domain"
	"github.com/CrawX/go-imap-migrate/folder"
	"github.com/CrawX/go-imap-migrate/log"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap-compress"
	"github.com/emersion/go-imap-uidplus"
	"github.com/emersion/go-imap/client"
	"github.com/sirupsen/logrus"
)

const (
	defaultPort            = "993"
	defaultTimeout         = 60 * time.Second
	defaultLabelsFetchItem = "X-GM-LABELS"
)

type Credentials struct {
	Server   string
	User     string
	Password string
}

type options struct {
	timeout         time.Duration
	compress        bool
	labelsFetchItem imap.FetchItem
	plaintext       bool
	tlsConfig       *tls.Config
}

type Option func(o *options)

// Timeout bounds dialing and every single command.
func Timeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// Compress enables COMPRESS=DEFLATE when the server advertises it.
func Compress(enabled bool) Option {
	return func(o *options) {
		o.compress = enabled
	}
}

// LabelsFetchItem sets the fetch item carrying the labels of a mail. An
// empty item disables fetching labels.
func LabelsFetchItem(item string) Option {
	return func(o *options) {
		o.labelsFetchItem = imap.FetchItem(strings.ToUpper(item))
	}
}

// Plaintext connects without TLS. Only meant for servers on a trusted network.
func Plaintext() Option {
	return func(o *options) {
		o.plaintext = true
	}
}

func TLSConfig(config *tls.Config) Option {
	return func(o *options) {
		o.tlsConfig = config
	}
}

// ImapConnection is a logged in session on one server. All folder arguments
// are wire names as produced by the folder codec.
type ImapConnection struct {
	connection    *client.Client
	uidPlusClient *uidplus.Client
	uidPlus       bool

	labelsFetchItem imap.FetchItem
	server          string

	l *logrus.Logger
}

func NewImapConnection(creds Credentials, opts ...Option) (*ImapConnection, error) {
	o := &options{
		timeout:         defaultTimeout,
		compress:        true,
		labelsFetchItem: defaultLabelsFetchItem,
	}
	for _, opt := range opts {
		opt(o)
	}

	address := creds.Server
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		host = address
		address = net.JoinHostPort(address, defaultPort)
	}

	l := log.Logger(log.LOG_IMAP)
	baseLogger := l.WithFields(logrus.Fields{"server": address, "user": creds.User})

	dialer := &net.Dialer{Timeout: o.timeout}
	var imapClient *client.Client
	if o.plaintext {
		imapClient, err = client.DialWithDialer(dialer, address)
	} else {
		tlsConfig := o.tlsConfig
		if tlsConfig == nil {
			tlsConfig = &tls.Config{ServerName: host}
		}
		imapClient, err = client.DialWithDialerTLS(dialer, address, tlsConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: could not dial to imap: %w", domain.ErrConnection, err)
	}
	imapClient.Timeout = o.timeout

	err = imapClient.Login(creds.User, creds.Password)
	if err != nil {
		_ = imapClient.Logout()
		return nil, fmt.Errorf("%w: could not login to imap: %w", domain.ErrLogin, err)
	}
	baseLogger.Debug("Logged in to server")

	if o.compress {
		compressClient := compress.NewClient(imapClient)
		compressSupported, err := compressClient.SupportCompress(compress.Deflate)
		if err != nil {
			_ = imapClient.Logout()
			return nil, fmt.Errorf("could not check for COMPRESS support: %w", err)
		}

		if compressSupported {
			err = compressClient.Compress(compress.Deflate)
			if err != nil {
				_ = imapClient.Logout()
				return nil, fmt.Errorf("could not enable compression: %w", err)
			}
			baseLogger.Debug("COMPRESS=DEFLATE enabled")
		} else {
			baseLogger.Debug("COMPRESS not supported on server")
		}
	}

	uidPlusClient := uidplus.NewClient(imapClient)
	uidPlusSupported, err := uidPlusClient.SupportUidPlus()
	if err != nil {
		_ = imapClient.Logout()
		return nil, fmt.Errorf("could not check for UIDPLUS support: %w", err)
	}
	if uidPlusSupported {
		baseLogger.Debug("UIDPLUS supported on server, recording destination uids")
	} else {
		baseLogger.Info("UIDPLUS not supported on server, destination uids are not recorded")
	}

	return &ImapConnection{
		connection:      imapClient,
		uidPlusClient:   uidPlusClient,
		uidPlus:         uidPlusSupported,
		labelsFetchItem: o.labelsFetchItem,
		server:          address,
		l:               l,
	}, nil
}

func (ic *ImapConnection) ListFolders() ([]string, error) {
	mailboxes := make(chan *imap.MailboxInfo, 10)
	done := make(chan error, 1)
	go func() {
		done <- ic.connection.List("", "*", mailboxes)
	}()

	folders := []string{}
	for m := range mailboxes {
		wire, ok := folder.EncodeName(m.Name)
		if !ok {
			ic.l.WithField("folder", m.Name).Warn("Could not encode folder name")
		}
		folders = append(folders, wire)
	}

	err := <-done
	if err != nil {
		return nil, ic.wrap("list folders", err)
	}

	return folders, nil
}

// SelectReadOnly examines a folder and returns its number of mails.
func (ic *ImapConnection) SelectReadOnly(wire string) (uint32, error) {
	status, err := ic.connection.Select(folder.Decode(wire), true)
	if err != nil {
		return 0, ic.wrap("select folder", err)
	}

	return status.Messages, nil
}

func (ic *ImapConnection) SearchAll() ([]uint32, error) {
	// Empty search criteria match every mail
	criteria := imap.NewSearchCriteria()
	ids, err := ic.connection.Search(criteria)
	if err != nil {
		return nil, ic.wrap("search folder", err)
	}

	return ids, nil
}

func (ic *ImapConnection) Fetch(seqNum uint32) (*domain.FetchedMail, error) {
	seqset := &imap.SeqSet{}
	seqset.AddNum(seqNum)

	fullBodySection := &imap.BodySectionName{
		Peek: true,
	}
	fetchItems := []imap.FetchItem{
		imap.FetchFlags,
		imap.FetchInternalDate,
		imap.FetchRFC822Size,
		fullBodySection.FetchItem(),
	}
	if len(ic.labelsFetchItem) > 0 {
		fetchItems = append(fetchItems, ic.labelsFetchItem)
	}

	messages := make(chan *imap.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- ic.connection.Fetch(seqset, fetchItems, messages)
	}()

	var fetched *domain.FetchedMail
	var readErr error
	for msg := range messages {
		if fetched != nil || msg.SeqNum != seqNum {
			continue
		}

		fetched = &domain.FetchedMail{
			SeqNum:       msg.SeqNum,
			Labels:       ic.labels(msg),
			Flags:        msg.Flags,
			InternalDate: msg.InternalDate,
			Size:         msg.Size,
		}

		r := msg.GetBody(fullBodySection)
		if r == nil {
			continue
		}
		rawMail, err := ioutil.ReadAll(r)
		if err != nil {
			readErr = err
			continue
		}
		fetched.RawMail = rawMail
	}

	err := <-done
	if err != nil {
		return nil, ic.wrap("fetch mail", err)
	}
	if readErr != nil {
		return nil, fmt.Errorf("could not read mail body: %w", readErr)
	}
	if fetched == nil {
		return nil, fmt.Errorf("%w: sequence number %d", domain.ErrMessageNotFound, seqNum)
	}

	return fetched, nil
}

func (ic *ImapConnection) labels(msg *imap.Message) []string {
	if len(ic.labelsFetchItem) == 0 {
		return nil
	}

	raw, ok := msg.Items[ic.labelsFetchItem]
	if !ok {
		return nil
	}
	fields, ok := raw.([]interface{})
	if !ok {
		return nil
	}

	labels := []string{}
	for _, field := range fields {
		label, err := imap.ParseString(field)
		if err != nil {
			ic.l.WithError(err).WithField("seqnum", msg.SeqNum).Debug("Ignoring unparsable label")
			continue
		}
		labels = append(labels, folder.Decode(label))
	}

	return labels
}

func (ic *ImapConnection) CreateFolder(wire string) error {
	err := ic.connection.Create(folder.Decode(wire))
	if err != nil {
		if alreadyExists(err) {
			return fmt.Errorf("%w: %s: %w", domain.ErrFolderExists, wire, err)
		}
		return ic.wrap("create folder", err)
	}

	return nil
}

func (ic *ImapConnection) Subscribe(wire string) error {
	err := ic.connection.Subscribe(folder.Decode(wire))
	if err != nil {
		return ic.wrap("subscribe folder", err)
	}

	return nil
}

// Append stores a mail and returns its uid in the folder. The uid is 0 when
// the server does not support UIDPLUS.
func (ic *ImapConnection) Append(wire string, flags []string, date time.Time, body []byte) (uint32, error) {
	appendFlags := []string{}
	for _, flag := range flags {
		if flag != imap.RecentFlag {
			appendFlags = append(appendFlags, flag)
		}
	}

	mailbox := folder.Decode(wire)
	if ic.uidPlus {
		_, uid, err := ic.uidPlusClient.Append(mailbox, appendFlags, date, bytes.NewBuffer(body))
		if err != nil {
			return 0, ic.wrap("append", err)
		}
		return uid, nil
	}

	err := ic.connection.Append(mailbox, appendFlags, date, bytes.NewBuffer(body))
	if err != nil {
		return 0, ic.wrap("append", err)
	}

	return 0, nil
}

// Close logs out. A session whose connection is already gone counts as closed.
func (ic *ImapConnection) Close() error {
	select {
	case <-ic.connection.LoggedOut():
		ic.l.WithField("server", ic.server).Debug("Connection already closed")
		return nil
	default:
	}

	err := ic.connection.Logout()
	if err != nil && !connectionLost(err) {
		return fmt.Errorf("could not logout: %w", err)
	}

	ic.l.WithField("server", ic.server).Debug("Logged out")
	return nil
}

func (ic *ImapConnection) wrap(action string, err error) error {
	if ic.aborted(err) {
		return fmt.Errorf("%w: could not %s: %w", domain.ErrSessionAborted, action, err)
	}
	return fmt.Errorf("could not %s: %w", action, err)
}

func (ic *ImapConnection) aborted(err error) bool {
	select {
	case <-ic.connection.LoggedOut():
		return true
	default:
	}

	return connectionLost(err)
}

func connectionLost(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, client.ErrAlreadyLoggedOut) || errors.Is(err, client.ErrNotLoggedIn) ||
		errors.Is(err, net.ErrClosed) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"connection closed", "broken pipe", "use of closed network connection", "connection reset"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}

	return false
}

func alreadyExists(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "alreadyexists") || strings.Contains(msg, "already exists")
}
