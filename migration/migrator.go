// SPDX-License-Identifier: GPL-3.0-or-later
package migration

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/CrawX/go-imap-migrate/domain"
	"github.com/CrawX/go-imap-migrate/folder"
	"github.com/CrawX/go-imap-migrate/log"
	"github.com/CrawX/go-imap-migrate/mail"
	"github.com/CrawX/go-imap-migrate/progress"

	"github.com/emersion/go-imap"
	"github.com/sirupsen/logrus"
)

const (
	CheckpointInterval = 100
	// consecutive session aborts on the same mail before the run fails
	maxAbortRetries = 3
	settleDelay     = 500 * time.Millisecond

	inbox = "INBOX"
	mib   = 1024 * 1024
)

const (
	statSender             = "sender"
	statSourceFolders      = "source_folders"
	statDestinationFolders = "destination_folders"
	statOutcomes           = "outcomes"
)

type Summary struct {
	Total   int
	Skipped int
	// SizeMB is the size of all fetched mails in MiB, rounded to 2 decimals.
	SizeMB      float64
	Interrupted bool
}

// Migrator copies every mail of the source root folder to the destination
// folder its labels map to.
type Migrator struct {
	source      domain.SessionProvider
	destination domain.SessionProvider
	mapper      domain.FolderMapper
	checkpoints domain.CheckpointStore
	stats       domain.Statistics

	configuration *configuration

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time

	l *logrus.Logger
}

func NewMigrator(source, destination domain.SessionProvider, mapper domain.FolderMapper, checkpoints domain.CheckpointStore, stats domain.Statistics, configFunc ...ConfigFunc) (*Migrator, error) {
	config := &configuration{
		RootFolder:        DefaultRootFolder,
		ReconnectInterval: DefaultReconnectInterval,
		Progress:          progress.Noop{},
	}
	for _, f := range configFunc {
		err := f(config)
		if err != nil {
			return nil, fmt.Errorf("error applying configuration: %w", err)
		}
	}
	if config.Progress == nil {
		config.Progress = progress.Noop{}
	}

	return &Migrator{
		source:        source,
		destination:   destination,
		mapper:        mapper,
		checkpoints:   checkpoints,
		stats:         stats,
		configuration: config,
		sleep:         sleep,
		now:           time.Now,
		l:             log.Logger(log.LOG_MIGRATION),
	}, nil
}

// Prepare maps every source folder to its destination, creates the missing
// destination folders and returns the mapping sorted by source folder.
func (m *Migrator) Prepare(ctx context.Context) ([]domain.FolderMapping, error) {
	sourceFolders, err := m.source.Session().ListFolders()
	if err != nil {
		return nil, fmt.Errorf("could not list source folders: %w", err)
	}
	destinationFolders, err := m.destination.Session().ListFolders()
	if err != nil {
		return nil, fmt.Errorf("could not list destination folders: %w", err)
	}
	m.l.WithFields(logrus.Fields{"source": len(sourceFolders), "destination": len(destinationFolders)}).Debug("Listed folders")

	existing := make(map[string]struct{}, len(destinationFolders))
	for _, wire := range destinationFolders {
		existing[wire] = struct{}{}
	}

	mappings := []domain.FolderMapping{}
	for _, wire := range sourceFolders {
		name := folder.Decode(wire)
		m.stats.Add(statSourceFolders, name, 1)

		destination, ok := m.mapper.Destination([]string{name})
		if !ok {
			m.l.WithField("folder", name).Debug("Skipping source folder, it maps to no destination")
			continue
		}

		encoded, _ := folder.Encode(destination)
		_, exists := existing[encoded]
		mappings = append(mappings, domain.FolderMapping{
			Source:      name,
			Destination: destination,
			Missing:     !strings.EqualFold(destination, inbox) && !exists,
		})
	}

	sort.SliceStable(mappings, func(i, j int) bool {
		return mappings[i].Source < mappings[j].Source
	})
	m.report(mappings)

	created := map[string]struct{}{}
	for _, mapping := range mappings {
		if !mapping.Missing {
			continue
		}
		if _, done := created[mapping.Destination]; done {
			continue
		}
		created[mapping.Destination] = struct{}{}

		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m.createFolder(mapping.Destination)
	}

	if m.configuration.Ledger != nil {
		err = m.configuration.Ledger.SaveFolderMappings(mappings)
		if err != nil {
			m.l.WithError(err).Warn("Could not record folder mappings")
		}
	}

	return mappings, nil
}

func (m *Migrator) report(mappings []domain.FolderMapping) {
	m.l.Info("=== Folder Mapping ===")
	m.l.Infof("%-30s -> %s", "Source Folder", "Destination Folder")
	m.l.Info(strings.Repeat("-", 50))
	for _, mapping := range mappings {
		marker := ""
		if mapping.Missing {
			marker = "*"
		}
		m.l.Infof("%-30s -> %s%s", mapping.Source, mapping.Destination, marker)
	}
	m.l.Info(strings.Repeat("-", 50))
	m.l.Info("Destination folders with an asterisk (*) at the end are missing and will be created")
}

func (m *Migrator) createFolder(name string) {
	wire, ok := folder.Encode(name)
	folderLogger := m.l.WithFields(logrus.Fields{"folder": name, "wire": folder.Quote(wire)})
	if !ok {
		folderLogger.Warn("Could not encode folder name, using it unchanged")
	}

	if m.configuration.DryRun {
		folderLogger.Debug("Skipping folder creation due to dry-run")
		return
	}

	folderLogger.Debug("Creating folder")
	err := m.destination.Session().CreateFolder(wire)
	if errors.Is(err, domain.ErrFolderExists) {
		folderLogger.Debug("Folder already exists, skipping creation")
		return
	}
	if err != nil {
		folderLogger.WithError(err).Error("Could not create folder")
		return
	}

	err = m.destination.Session().Subscribe(wire)
	if err != nil {
		folderLogger.WithError(err).Debug("Could not subscribe to folder")
		return
	}
	folderLogger.Debug("Folder subscribed")
}

type runState struct {
	index   int
	size    float64
	skipped int
	aborts  int
}

func (s *runState) checkpoint() domain.Checkpoint {
	return domain.Checkpoint{
		LastProcessedIndex: s.index,
		TotalSize:          s.size,
		Skipped:            s.skipped,
	}
}

// Migrate copies all mails of the root folder, resuming at the persisted
// checkpoint. Cancelling ctx stops after the current mail and returns a
// summary with Interrupted set.
func (m *Migrator) Migrate(ctx context.Context) (*Summary, error) {
	checkpoint, err := m.checkpoints.Load()
	if err != nil {
		return nil, fmt.Errorf("could not load checkpoint: %w", err)
	}
	if checkpoint.LastProcessedIndex > 0 {
		err = m.stats.Load()
		if err != nil {
			m.l.WithError(err).Warn("Could not load statistics of the previous run")
		}
	}

	state := &runState{
		index:   checkpoint.LastProcessedIndex,
		size:    checkpoint.TotalSize,
		skipped: checkpoint.Skipped,
	}

	defer func() {
		if r := recover(); r != nil {
			m.l.WithField("panic", r).Error("Unexpected failure, saving checkpoint before exiting")
			m.persist(state, false)
			panic(r)
		}
	}()

	ids, err := m.enumerate()
	if err != nil {
		m.persist(state, false)
		return nil, err
	}

	total := len(ids)
	m.l.WithFields(logrus.Fields{"folder": m.configuration.RootFolder, "mails": total}).Info("Found mails")
	if state.index > 0 {
		m.l.WithField("mail", state.index+1).Info("Resuming")
	}

	m.configuration.Progress.Start(total, minInt(state.index, total))
	err = m.loop(ctx, ids, state)
	m.configuration.Progress.Finish()

	summary := &Summary{
		Total:   total,
		Skipped: state.skipped,
		SizeMB:  math.Round(state.size/mib*100) / 100,
	}

	switch {
	case err == nil:
		m.persist(state, true)
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		m.l.WithField("index", state.index).Warn("Interrupted, saving checkpoint")
		m.persist(state, false)
		summary.Interrupted = true
	default:
		m.l.WithError(err).Error("Unexpected error, saving checkpoint before exiting")
		m.persist(state, false)
		return summary, err
	}

	return summary, nil
}

func (m *Migrator) enumerate() ([]uint32, error) {
	_, err := m.selectSource()
	if err != nil {
		return nil, err
	}

	ids, err := m.source.Session().SearchAll()
	if err != nil {
		return nil, fmt.Errorf("could not search mails in %s: %w", m.configuration.RootFolder, err)
	}

	return ids, nil
}

func (m *Migrator) selectSource() (uint32, error) {
	wire, ok := folder.EncodeName(m.configuration.RootFolder)
	if !ok {
		m.l.WithField("folder", m.configuration.RootFolder).Warn("Could not encode root folder name, using it unchanged")
	}

	count, err := m.source.Session().SelectReadOnly(wire)
	if err != nil {
		return 0, fmt.Errorf("could not select source folder %s: %w", folder.Quote(wire), err)
	}

	return count, nil
}

func (m *Migrator) loop(ctx context.Context, ids []uint32, state *runState) error {
	for state.index < len(ids) {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := m.migrateOne(state, ids[state.index])
		if errors.Is(err, domain.ErrSessionAborted) {
			state.aborts++
			m.l.WithError(err).WithFields(logrus.Fields{"index": state.index, "seqnum": ids[state.index], "attempt": state.aborts}).Error("Connection lost during migration")
			if state.aborts > maxAbortRetries {
				return fmt.Errorf("giving up on mail %d after %d lost connections: %w", ids[state.index], maxAbortRetries, err)
			}

			err = m.reconnect(ctx)
			if err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
		state.aborts = 0

		state.index++
		m.configuration.Progress.Increment()

		if state.index%CheckpointInterval == 0 {
			m.saveCheckpoint(state)
		}

		if state.index%m.configuration.ReconnectInterval == 0 && state.index < len(ids) {
			m.l.WithField("index", state.index).Debug("Forcing periodic reconnection of both sessions")
			err = m.reconnect(ctx)
			if err != nil {
				return err
			}
		}

		if m.configuration.MessageDelay > 0 && state.index < len(ids) {
			err = m.sleep(ctx, m.configuration.MessageDelay)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

// migrateOne handles the mail at the current index. Only a lost session is
// returned as error, everything else is recorded as an outcome.
func (m *Migrator) migrateOne(state *runState, seqNum uint32) error {
	decision := domain.Decision{
		Position: state.index,
		SeqNum:   seqNum,
		DryRun:   m.configuration.DryRun,
	}
	mailLogger := m.l.WithFields(logrus.Fields{"index": state.index, "seqnum": seqNum})

	fetched, err := m.source.Session().Fetch(seqNum)
	if errors.Is(err, domain.ErrSessionAborted) {
		return err
	}
	if err != nil {
		mailLogger.WithError(err).Error("Could not fetch mail")
		decision.Outcome = domain.FetchFailed
		m.record(state, decision, mailLogger)
		return nil
	}

	decision.Labels = fetched.Labels
	decision.Size = fetched.Size
	mailLogger = mailLogger.WithField("labels", fetched.Labels)

	if fetched.RawMail == nil {
		mailLogger.Warn("No raw mail found")
		decision.Outcome = domain.NoBody
		m.record(state, decision, mailLogger)
		return nil
	}

	flags := mergeFlags(fetched.Flags, m.mapper.Flags(fetched.Labels))

	subject, sender, err := mail.HeaderInfos(fetched.RawMail)
	if err != nil {
		mailLogger.WithError(err).Debug("Extracting sender information failed")
	}
	m.stats.Add(statSender, sender, 1)
	mailLogger = mailLogger.WithField("subject", mail.ShortSubject(subject))

	rawMail := fetched.RawMail
	if m.configuration.Extractor != nil {
		date := fetched.InternalDate
		if date.IsZero() {
			mailLogger.Debug("No internal date, storing attachments by current date")
			date = m.now()
		}
		sentDate := `"` + date.Format(imap.DateTimeLayout) + `"`
		rewritten, err := m.configuration.Extractor.Extract(rawMail, sentDate, m.configuration.DryRun)
		if err != nil {
			mailLogger.WithError(err).Warn("Could not extract attachments, migrating mail unchanged")
		} else {
			rawMail = rewritten
		}
	}

	destination, ok := m.mapper.Destination(fetched.Labels)
	if !ok {
		mailLogger.Debug("Skipping mail due to missing target folder configuration")
		decision.Outcome = domain.Dropped
		m.record(state, decision, mailLogger)
		return nil
	}
	decision.Destination = destination
	mailLogger = mailLogger.WithField("destination", destination)

	if m.configuration.DryRun {
		decision.Outcome = domain.Simulated
		m.record(state, decision, mailLogger)
		return nil
	}

	wire, ok := folder.Encode(destination)
	if !ok {
		mailLogger.Warn("Could not encode destination folder name, using it unchanged")
	}

	uid, err := m.destination.Session().Append(wire, flags, fetched.InternalDate, rawMail)
	if errors.Is(err, domain.ErrSessionAborted) {
		return err
	}
	if err != nil {
		mailLogger.WithError(err).Error("Could not append mail")
		decision.Outcome = domain.AppendFailed
		m.record(state, decision, mailLogger)
		return nil
	}

	decision.Outcome = domain.Migrated
	decision.DestinationUid = uid
	m.record(state, decision, mailLogger)
	return nil
}

// record commits the counters of a finished mail.
func (m *Migrator) record(state *runState, decision domain.Decision, mailLogger *logrus.Entry) {
	state.size += float64(decision.Size)
	if decision.Outcome.Skipped() {
		state.skipped++
	}

	m.stats.Add(statOutcomes, string(decision.Outcome), 1)
	if !decision.Outcome.Skipped() {
		m.stats.Add(statDestinationFolders, decision.Destination, 1)
	}

	mailLogger.WithField("outcome", decision.Outcome).Debug("Processed mail")

	if m.configuration.Ledger != nil {
		err := m.configuration.Ledger.SaveDecision(decision)
		if err != nil {
			mailLogger.WithError(err).Warn("Could not record decision")
		}
	}
}

func (m *Migrator) reconnect(ctx context.Context) error {
	err := m.destination.Reconnect(ctx)
	if err != nil {
		return fmt.Errorf("could not reconnect to destination: %w", err)
	}

	err = m.source.Reconnect(ctx)
	if err != nil {
		return fmt.Errorf("could not reconnect to source: %w", err)
	}

	_, err = m.selectSource()
	if err != nil {
		return fmt.Errorf("could not reselect after reconnect: %w", err)
	}

	return m.sleep(ctx, settleDelay)
}

func (m *Migrator) saveCheckpoint(state *runState) {
	err := m.checkpoints.Save(state.checkpoint())
	if err != nil {
		m.l.WithError(err).Error("Could not save checkpoint")
	}
}

// persist writes the final state of a run. A completed run has nothing left
// to resume, its checkpoint is removed.
func (m *Migrator) persist(state *runState, completed bool) {
	err := m.stats.Save()
	if err != nil {
		m.l.WithError(err).Error("Could not save statistics")
	}

	if !completed {
		m.saveCheckpoint(state)
		return
	}

	err = m.checkpoints.Delete()
	if err != nil {
		m.l.WithError(err).Error("Could not delete checkpoint")
	}
}

func mergeFlags(flagSets ...[]string) []string {
	seen := map[string]struct{}{}
	merged := []string{}
	for _, flags := range flagSets {
		for _, flag := range flags {
			if _, ok := seen[flag]; ok {
				continue
			}
			seen[flag] = struct{}{}
			merged = append(merged, flag)
		}
	}
	return merged
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
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
