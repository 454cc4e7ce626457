// SPDX-License-Identifier: GPL-3.0-or-later
package attachments

import (
	"bytes"
	"crypto/md5"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/CrawX/go-imap-migrate/domain"
	"github.com/CrawX/go-imap-migrate/log"
	"github.com/CrawX/go-imap-migrate/mail"
)

const (
	linksHeadline = "\n\n[Attachments extracted and stored separately:]\n"

	categoryTypes       = "attachment_types"
	categoryAttachments = "attachments"
)

var copiedHeaders = []string{"Subject", "From", "To", "Date"}

type Policy struct {
	// Whitelist holds lower case extensions including the leading dot.
	Whitelist []string
	// MinSize and MaxSize are exclusive bounds in bytes.
	MinSize     int64
	MaxSize     int64
	StoragePath string
}

// Extractor moves selected attachments of a mail to external storage and
// replaces them by links.
type Extractor struct {
	policy    Policy
	whitelist map[string]struct{}
	fs        afero.Fs
	stats     domain.Statistics
	now       func() time.Time

	l *logrus.Logger
}

func NewExtractor(policy Policy, fs afero.Fs, stats domain.Statistics) *Extractor {
	whitelist := make(map[string]struct{}, len(policy.Whitelist))
	for _, ext := range policy.Whitelist {
		whitelist[strings.ToLower(ext)] = struct{}{}
	}

	return &Extractor{
		policy:    policy,
		whitelist: whitelist,
		fs:        fs,
		stats:     stats,
		now:       time.Now,
		l:         log.Logger(log.LOG_ATTACHMENTS),
	}
}

type leaf struct {
	header   message.Header
	body     []byte
	filename string
}

// Extract rewrites a raw mail. Mails that are not multipart are returned
// unchanged. In dry run mode nothing is written to the storage.
func (e *Extractor) Extract(rawMail []byte, sentDate string, dryRun bool) ([]byte, error) {
	entity, err := message.Read(bytes.NewReader(rawMail))
	if err != nil && !recoverable(err) {
		return nil, fmt.Errorf("could not parse mail: %w", err)
	}

	if entity.MultipartReader() == nil {
		return rawMail, nil
	}

	leaves := []*leaf{}
	err = collectLeaves(entity, &leaves)
	if err != nil {
		return nil, fmt.Errorf("could not walk mail parts: %w", err)
	}

	bodies := []*leaf{}
	kept := []*leaf{}
	links := []string{}
	for _, part := range leaves {
		if len(part.filename) == 0 {
			bodies = append(bodies, part)
			continue
		}

		if !e.selected(part) {
			kept = append(kept, part)
			continue
		}

		link, err := e.store(part, sentDate, dryRun)
		if err != nil {
			return nil, fmt.Errorf("could not store attachment %s: %w", part.filename, err)
		}
		links = append(links, link)
	}

	return rebuild(entity.Header, chooseBody(bodies), kept, links)
}

func (e *Extractor) selected(part *leaf) bool {
	ext := Extension(part.filename)
	e.stats.Add(categoryTypes, ext, 1)

	_, whitelisted := e.whitelist[ext]
	size := int64(len(part.body))
	return whitelisted && size > e.policy.MinSize && size < e.policy.MaxSize
}

func (e *Extractor) store(part *leaf, sentDate string, dryRun bool) (string, error) {
	filename := SafeFilename(part.filename)

	date, ok := ParseSentDate(sentDate, e.now())
	if !ok {
		e.l.WithField("date", sentDate).Warn("Could not parse sent date, storing attachment by current month")
	}

	dir := filepath.Join(e.policy.StoragePath, date.Format("2006_01"))
	storagePath := filepath.Join(dir, hashPrefix(filename)+"_"+filename)

	if !dryRun {
		err := e.fs.MkdirAll(dir, 0755)
		if err != nil {
			return "", fmt.Errorf("could not create storage folder: %w", err)
		}

		err = afero.WriteFile(e.fs, storagePath, part.body, 0644)
		if err != nil {
			return "", fmt.Errorf("could not write attachment: %w", err)
		}
	}

	e.stats.Add(categoryAttachments, "extracted", 1)
	e.l.WithFields(logrus.Fields{"path": storagePath, "dryRun": dryRun}).Debug("Attachment extracted")

	return fileURI(storagePath)
}

func collectLeaves(entity *message.Entity, leaves *[]*leaf) error {
	mr := entity.MultipartReader()
	if mr == nil {
		body, err := ioutil.ReadAll(entity.Body)
		if err != nil {
			return fmt.Errorf("could not read part: %w", err)
		}

		*leaves = append(*leaves, &leaf{
			header:   entity.Header,
			body:     body,
			filename: filename(entity.Header),
		})
		return nil
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil
		}
		converted := err == nil
		if err != nil && (part == nil || !recoverable(err)) {
			return err
		}

		if converted {
			relabelCharset(&part.Header)
		}

		err = collectLeaves(part, leaves)
		if err != nil {
			return err
		}
	}
}

func chooseBody(bodies []*leaf) *leaf {
	for _, part := range bodies {
		mediaType, _, _ := part.header.ContentType()
		if mediaType == "text/plain" {
			return part
		}
	}
	if len(bodies) > 0 {
		return bodies[0]
	}
	return nil
}

func rebuild(original message.Header, body *leaf, kept []*leaf, links []string) ([]byte, error) {
	var h message.Header
	for _, key := range copiedHeaders {
		if value := original.Get(key); len(value) > 0 {
			h.Set(key, value)
		}
	}
	h.Set("MIME-Version", "1.0")
	h.SetContentType("multipart/mixed", nil)

	parts := kept
	if body != nil {
		parts = append([]*leaf{body}, kept...)
	}

	if len(links) > 0 {
		var lh message.Header
		lh.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
		lh.Set("Content-Transfer-Encoding", "quoted-printable")
		parts = append(parts, &leaf{
			header: lh,
			body:   []byte(linksHeadline + strings.Join(links, "\n")),
		})
	}

	buf := &bytes.Buffer{}
	w, err := message.CreateWriter(buf, h)
	if err != nil {
		return nil, fmt.Errorf("could not create mail writer: %w", err)
	}

	for _, part := range parts {
		pw, err := w.CreatePart(part.header)
		if err != nil {
			return nil, fmt.Errorf("could not create part: %w", err)
		}
		_, err = pw.Write(part.body)
		if err != nil {
			return nil, fmt.Errorf("could not write part: %w", err)
		}
		err = pw.Close()
		if err != nil {
			return nil, fmt.Errorf("could not close part: %w", err)
		}
	}

	err = w.Close()
	if err != nil {
		return nil, fmt.Errorf("could not close mail writer: %w", err)
	}

	return buf.Bytes(), nil
}

// relabelCharset marks text parts whose body was converted to UTF-8 while
// parsing.
func relabelCharset(h *message.Header) {
	mediaType, params, err := h.ContentType()
	if err != nil || !strings.HasPrefix(mediaType, "text/") {
		return
	}

	cs, ok := params["charset"]
	if !ok {
		return
	}
	switch strings.ToLower(cs) {
	case "utf-8", "us-ascii":
		return
	}

	params["charset"] = "utf-8"
	h.SetContentType(mediaType, params)
}

func filename(h message.Header) string {
	name := ""
	if _, params, err := h.ContentDisposition(); err == nil {
		name = params["filename"]
	}
	if len(name) == 0 {
		if _, params, err := h.ContentType(); err == nil {
			name = params["name"]
		}
	}
	if len(name) == 0 {
		return ""
	}

	decoded, err := mail.DecodeHeader(name)
	if err != nil {
		return name
	}
	return decoded
}

func recoverable(err error) bool {
	return message.IsUnknownCharset(err) || message.IsUnknownEncoding(err)
}

func hashPrefix(filename string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(filename)))[:8]
}

func fileURI(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("could not resolve storage path: %w", err)
	}

	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), nil
}
