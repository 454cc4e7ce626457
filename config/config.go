// SPDX-License-Identifier: GPL-3.0-or-later
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/CrawX/go-imap-migrate/attachments"
	"github.com/CrawX/go-imap-migrate/folder"
	"github.com/CrawX/go-imap-migrate/labels"
)

type Config struct {
	Loglevel *string
	// LogFile receives every log entry at debug level when set.
	LogFile string

	// Database is the sqlite ledger, an empty name disables it.
	Database       string
	CheckpointFile string
	StatisticsFile string

	ReconnectInterval int
	// MessageDelay is the pause after every mail in seconds.
	MessageDelay    float64
	LabelsFetchItem string
	Compress        bool

	Mapping     Mapping
	Attachments Attachments
}

type Mapping struct {
	RootFolder      string
	ArchiveFolder   string
	FolderPrefix    string
	SystemRoot      string
	InboxMarker     string
	LabelsAsFlagged []string
	// Folders maps cleaned labels to destination folders, an empty value
	// drops the mail.
	Folders map[string]string
}

type Attachments struct {
	Enabled     bool
	Whitelist   []string
	MinSize     int64
	MaxSize     int64
	StoragePath string
}

func ReadConfig(filename string) (*Config, error) {
	config := &Config{
		CheckpointFile:    "migration_checkpoint.json",
		StatisticsFile:    "statistics.json",
		ReconnectInterval: 500,
		LabelsFetchItem:   "X-GM-LABELS",
		Compress:          true,
		Mapping: Mapping{
			RootFolder:      "[Gmail]/All Mail",
			ArchiveFolder:   "Archive",
			FolderPrefix:    "INBOX.",
			SystemRoot:      "[Gmail]",
			InboxMarker:     "[Gmail]/Inbox",
			LabelsAsFlagged: []string{"Important", "[Gmail]/Important", "Starred", "[Gmail]/Starred"},
			Folders:         map[string]string{},
		},
		Attachments: Attachments{
			Whitelist:   []string{".pdf", ".zip", ".docx", ".xlsx"},
			MinSize:     0,
			MaxSize:     100 * 1024 * 1024,
			StoragePath: "~/Downloads/",
		},
	}

	_, err := toml.DecodeFile(filename, config)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}

	err = config.validate()
	if err != nil {
		return nil, err
	}

	config.Attachments.StoragePath, err = expandHome(config.Attachments.StoragePath)
	if err != nil {
		return nil, err
	}

	return config, nil
}

// Delay returns MessageDelay as duration.
func (c *Config) Delay() time.Duration {
	return time.Duration(c.MessageDelay * float64(time.Second))
}

// Rules uses the destination delimiter of the folder codec, derived folder
// names and encoded wire names always agree on it.
func (m Mapping) Rules() labels.Rules {
	return labels.Rules{
		SystemRoot:    m.SystemRoot,
		InboxMarker:   m.InboxMarker,
		FolderPrefix:  m.FolderPrefix,
		Delimiter:     folder.Delimiter,
		ArchiveFolder: m.ArchiveFolder,
		Folders:       m.Folders,
		FlaggedLabels: m.LabelsAsFlagged,
	}
}

func (a Attachments) Policy() attachments.Policy {
	whitelist := make([]string, 0, len(a.Whitelist))
	for _, ext := range a.Whitelist {
		whitelist = append(whitelist, strings.ToLower(ext))
	}

	return attachments.Policy{
		Whitelist:   whitelist,
		MinSize:     a.MinSize,
		MaxSize:     a.MaxSize,
		StoragePath: a.StoragePath,
	}
}

func (c *Config) validate() error {
	if err := validateNonEmptyStringField(c.CheckpointFile, "CheckpointFile must not be empty, set to a filename for the resume checkpoint"); err != nil {
		return err
	}

	if err := validateNonEmptyStringField(c.StatisticsFile, "StatisticsFile must not be empty, set to a filename for the run statistics"); err != nil {
		return err
	}

	if c.ReconnectInterval <= 0 {
		return fmt.Errorf("ReconnectInterval must be positive, got %d", c.ReconnectInterval)
	}

	if c.MessageDelay < 0 {
		return fmt.Errorf("MessageDelay must not be negative, got %v", c.MessageDelay)
	}

	if err := validateNonEmptyStringField(c.Mapping.RootFolder, "Mapping.RootFolder must not be empty, set to the source folder holding all mails"); err != nil {
		return err
	}

	if err := validateNonEmptyStringField(c.Mapping.ArchiveFolder, "Mapping.ArchiveFolder must not be empty, set to the folder of mails without labels"); err != nil {
		return err
	}

	if !c.Attachments.Enabled {
		return nil
	}

	if c.Attachments.MinSize < 0 {
		return fmt.Errorf("Attachments.MinSize must not be negative, got %d", c.Attachments.MinSize)
	}

	if c.Attachments.MinSize >= c.Attachments.MaxSize {
		return fmt.Errorf("Attachments.MinSize (%d) must be smaller than Attachments.MaxSize (%d)", c.Attachments.MinSize, c.Attachments.MaxSize)
	}

	for _, ext := range c.Attachments.Whitelist {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("Attachments.Whitelist entry %q must be an extension with a leading dot", ext)
		}
	}

	if err := validateNonEmptyStringField(c.Attachments.StoragePath, "Attachments.StoragePath must not be empty, set to the directory for extracted attachments"); err != nil {
		return err
	}

	return nil
}

func validateNonEmptyStringField(field string, err string) error {
	if len(strings.TrimSpace(field)) == 0 {
		return errors.New(err)
	}

	return nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not expand %s: %w", path, err)
	}

	expanded := filepath.Join(home, strings.TrimPrefix(path, "~"))
	if strings.HasSuffix(path, "/") {
		expanded += string(filepath.Separator)
	}
	return expanded, nil
}
