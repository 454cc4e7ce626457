// SPDX-License-Identifier: GPL-3.0-or-later
package checkpoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/CrawX/go-imap-migrate/domain"
	"github.com/CrawX/go-imap-migrate/log"
)

// Store keeps the migration progress in a JSON file.
type Store struct {
	fs   afero.Fs
	path string

	l *logrus.Logger
}

func NewStore(fs afero.Fs, path string) *Store {
	return &Store{
		fs:   fs,
		path: path,
		l:    log.Logger(log.LOG_STATE),
	}
}

// Load returns the persisted checkpoint. A missing or unreadable file yields
// the zero checkpoint.
func (s *Store) Load() (domain.Checkpoint, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.Checkpoint{}, nil
	}
	if err != nil {
		return domain.Checkpoint{}, fmt.Errorf("could not read checkpoint: %w", err)
	}

	checkpoint := domain.Checkpoint{}
	err = json.Unmarshal(data, &checkpoint)
	if err != nil {
		s.l.WithError(err).WithField("path", s.path).Warn("Checkpoint is corrupt, starting from the beginning")
		return domain.Checkpoint{}, nil
	}

	if checkpoint.LastProcessedIndex < 0 {
		s.l.WithField("index", checkpoint.LastProcessedIndex).Warn("Checkpoint has a negative index, starting from the beginning")
		return domain.Checkpoint{}, nil
	}

	return checkpoint, nil
}

func (s *Store) Save(checkpoint domain.Checkpoint) error {
	data, err := json.Marshal(checkpoint)
	if err != nil {
		return fmt.Errorf("could not serialize checkpoint: %w", err)
	}

	err = afero.WriteFile(s.fs, s.path, data, 0644)
	if err != nil {
		return fmt.Errorf("could not write checkpoint: %w", err)
	}

	s.l.WithFields(logrus.Fields{
		"index":   checkpoint.LastProcessedIndex,
		"skipped": checkpoint.Skipped,
	}).Debug("Checkpoint saved")
	return nil
}

func (s *Store) Delete() error {
	err := s.fs.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("could not delete checkpoint: %w", err)
	}
	return nil
}
