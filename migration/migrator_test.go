// SPDX-License-Identifier: GPL-3.0-or-later
package migration

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/emersion/go-imap"
	"github.com/golang/mock/gomock"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CrawX/go-imap-migrate/checkpoint"
	"github.com/CrawX/go-imap-migrate/domain"
	"github.com/CrawX/go-imap-migrate/domain/mocks"
	"github.com/CrawX/go-imap-migrate/statistics"
)

const (
	rootFolder = "[Gmail]/All Mail"
	sentDate   = `" 4-Mar-2019 05:06:07 +0000"`
)

var errAborted = fmt.Errorf("%w: connection closed", domain.ErrSessionAborted)

type fixture struct {
	ctrl *gomock.Controller

	source             *mocks.MockSessionProvider
	destination        *mocks.MockSessionProvider
	sourceSession      *mocks.MockImapSession
	destinationSession *mocks.MockImapSession

	fs          afero.Fs
	checkpoints *checkpoint.Store
	stats       *statistics.Recorder
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		ctrl:               ctrl,
		source:             mocks.NewMockSessionProvider(ctrl),
		destination:        mocks.NewMockSessionProvider(ctrl),
		sourceSession:      mocks.NewMockImapSession(ctrl),
		destinationSession: mocks.NewMockImapSession(ctrl),
		fs:                 afero.NewMemMapFs(),
	}
	f.source.EXPECT().Session().Return(f.sourceSession).AnyTimes()
	f.destination.EXPECT().Session().Return(f.destinationSession).AnyTimes()
	f.checkpoints = checkpoint.NewStore(f.fs, "checkpoint.json")
	f.stats = statistics.NewRecorder(f.fs, "statistics.json")

	return f
}

func (f *fixture) migrator(t *testing.T, store domain.CheckpointStore, configs ...ConfigFunc) *Migrator {
	m, err := NewMigrator(f.source, f.destination, testMapper(), store, f.stats, configs...)
	require.NoError(t, err)
	m.sleep = noSleep
	m.l = nullLogger()
	return m
}

func (f *fixture) savedStats(t *testing.T) *statistics.Recorder {
	saved := statistics.NewRecorder(f.fs, "statistics.json")
	require.NoError(t, saved.Load())
	return saved
}

func (f *fixture) enumerate(count int) {
	f.sourceSession.EXPECT().SelectReadOnly(rootFolder).Return(uint32(count), nil)
	f.sourceSession.EXPECT().SearchAll().Return(seqNums(count), nil)
}

func TestMigrateThreeMails(t *testing.T) {
	f := newFixture(t)
	defer f.ctrl.Finish()
	ledger := mocks.NewMockLedger(f.ctrl)

	f.enumerate(3)

	inboxMail := fetchedMail(1, mib/2, "Inbox")
	inboxMail.Flags = []string{imap.SeenFlag}
	f.sourceSession.EXPECT().Fetch(uint32(1)).Return(inboxMail, nil)
	f.sourceSession.EXPECT().Fetch(uint32(2)).Return(fetchedMail(2, mib, "Work/Reports"), nil)
	f.sourceSession.EXPECT().Fetch(uint32(3)).Return(fetchedMail(3, mib/2, "[Gmail]/Trash"), nil)

	f.destinationSession.EXPECT().
		Append("INBOX", []string{imap.SeenFlag}, internalDate, rawMail("Alice <alice@example.com>", 1)).
		Return(uint32(11), nil)
	f.destinationSession.EXPECT().
		Append("INBOX.Work.Reports", []string{}, internalDate, rawMail("Alice <alice@example.com>", 2)).
		Return(uint32(12), nil)

	decisions := []domain.Decision{}
	ledger.EXPECT().
		SaveDecision(gomock.Any()).
		DoAndReturn(func(d domain.Decision) error {
			decisions = append(decisions, d)
			return nil
		}).
		Times(3)

	m := f.migrator(t, f.checkpoints, Ledger(ledger))
	summary, err := m.Migrate(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, &Summary{Total: 3, Skipped: 1, SizeMB: 2}, summary)

	assert.Equal(t, []domain.Decision{
		{Position: 0, SeqNum: 1, Labels: []string{"Inbox"}, Destination: "INBOX", Outcome: domain.Migrated, Size: mib / 2, DestinationUid: 11},
		{Position: 1, SeqNum: 2, Labels: []string{"Work/Reports"}, Destination: "INBOX.Work.Reports", Outcome: domain.Migrated, Size: mib, DestinationUid: 12},
		{Position: 2, SeqNum: 3, Labels: []string{"[Gmail]/Trash"}, Outcome: domain.Dropped, Size: mib / 2},
	}, decisions)

	exists, err := afero.Exists(f.fs, "checkpoint.json")
	assert.NoError(t, err)
	assert.False(t, exists)

	stats := f.savedStats(t)
	assert.Equal(t, 2, stats.Count("outcomes", "migrated"))
	assert.Equal(t, 1, stats.Count("outcomes", "dropped"))
	assert.Equal(t, 1, stats.Count("destination_folders", "INBOX"))
	assert.Equal(t, 1, stats.Count("destination_folders", "INBOX.Work.Reports"))
	assert.Equal(t, 3, stats.Count("sender", "alice@example.com"))
}

func TestMigrateResumesFromCheckpoint(t *testing.T) {
	f := newFixture(t)
	defer f.ctrl.Finish()

	require.NoError(t, f.checkpoints.Save(domain.Checkpoint{LastProcessedIndex: 2, TotalSize: 3 * mib, Skipped: 1}))
	require.NoError(t, afero.WriteFile(f.fs, "statistics.json", []byte(`{"outcomes": {"migrated": 1, "dropped": 1}}`), 0644))

	f.enumerate(3)
	f.sourceSession.EXPECT().Fetch(uint32(3)).Return(fetchedMail(3, mib, "[Gmail]/Trash"), nil)

	m := f.migrator(t, f.checkpoints)
	summary, err := m.Migrate(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, &Summary{Total: 3, Skipped: 2, SizeMB: 4}, summary)

	stats := f.savedStats(t)
	assert.Equal(t, 1, stats.Count("outcomes", "migrated"))
	assert.Equal(t, 2, stats.Count("outcomes", "dropped"))
}

func TestMigrateFreshRunIgnoresOldStatistics(t *testing.T) {
	f := newFixture(t)
	defer f.ctrl.Finish()

	require.NoError(t, afero.WriteFile(f.fs, "statistics.json", []byte(`{"outcomes": {"migrated": 40}}`), 0644))

	f.enumerate(1)
	f.sourceSession.EXPECT().Fetch(uint32(1)).Return(fetchedMail(1, 10, "Inbox"), nil)

	m := f.migrator(t, f.checkpoints, DryRun())
	_, err := m.Migrate(context.Background())
	assert.NoError(t, err)

	stats := f.savedStats(t)
	assert.Equal(t, 0, stats.Count("outcomes", "migrated"))
	assert.Equal(t, 1, stats.Count("outcomes", "simulated"))
}

func TestDryRun(t *testing.T) {
	f := newFixture(t)
	defer f.ctrl.Finish()
	extractor := mocks.NewMockAttachmentExtractor(f.ctrl)

	f.sourceSession.EXPECT().ListFolders().Return([]string{"INBOX", "[Gmail]", "[Gmail]/All Mail", "[Gmail]/Trash", "Work/Reports"}, nil)
	f.destinationSession.EXPECT().ListFolders().Return([]string{"INBOX"}, nil)

	f.enumerate(3)
	f.sourceSession.EXPECT().Fetch(uint32(1)).Return(fetchedMail(1, 10, "Inbox"), nil)
	f.sourceSession.EXPECT().Fetch(uint32(2)).Return(fetchedMail(2, 10, "Work/Reports"), nil)
	f.sourceSession.EXPECT().Fetch(uint32(3)).Return(fetchedMail(3, 10, "[Gmail]/Trash"), nil)

	extractor.EXPECT().
		Extract(gomock.Any(), sentDate, true).
		DoAndReturn(func(raw []byte, date string, dryRun bool) ([]byte, error) {
			return raw, nil
		}).
		Times(3)

	m := f.migrator(t, f.checkpoints, DryRun(), ExtractAttachments(extractor))

	mappings, err := m.Prepare(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []domain.FolderMapping{
		{Source: "INBOX", Destination: "INBOX", Missing: false},
		{Source: "Work/Reports", Destination: "INBOX.Work.Reports", Missing: true},
		{Source: "[Gmail]/All Mail", Destination: "INBOX.All Mail", Missing: true},
	}, mappings)

	summary, err := m.Migrate(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, &Summary{Total: 3, Skipped: 1, SizeMB: 0}, summary)

	stats := f.savedStats(t)
	assert.Equal(t, 1, stats.Count("source_folders", "[Gmail]"))
	assert.Equal(t, 1, stats.Count("source_folders", "[Gmail]/Trash"))
	assert.Equal(t, 2, stats.Count("outcomes", "simulated"))
	assert.Equal(t, 1, stats.Count("outcomes", "dropped"))
	assert.Equal(t, 1, stats.Count("destination_folders", "INBOX.Work.Reports"))
}

func TestPrepareCreatesMissingFolders(t *testing.T) {
	f := newFixture(t)
	defer f.ctrl.Finish()
	ledger := mocks.NewMockLedger(f.ctrl)

	f.sourceSession.EXPECT().ListFolders().Return([]string{
		"INBOX", "[Gmail]", "[Gmail]/All Mail", "[Gmail]/Sent Mail", "Sent", "[Gmail]/Trash", "Work/Reports", "Entw&APw-rfe",
	}, nil)
	f.destinationSession.EXPECT().ListFolders().Return([]string{"INBOX", "INBOX.Work"}, nil)

	gomock.InOrder(
		f.destinationSession.EXPECT().CreateFolder("INBOX.Entw&APw-rfe").Return(nil),
		f.destinationSession.EXPECT().Subscribe("INBOX.Entw&APw-rfe").Return(nil),
		f.destinationSession.EXPECT().CreateFolder("INBOX.Sent").Return(nil),
		f.destinationSession.EXPECT().Subscribe("INBOX.Sent").Return(errors.New("NO subscriptions disabled")),
		f.destinationSession.EXPECT().CreateFolder("INBOX.Work.Reports").Return(fmt.Errorf("%w: INBOX.Work.Reports", domain.ErrFolderExists)),
		f.destinationSession.EXPECT().CreateFolder("INBOX.All Mail").Return(errors.New("NO quota exceeded")),
	)

	expected := []domain.FolderMapping{
		{Source: "Entwürfe", Destination: "INBOX.Entwürfe", Missing: true},
		{Source: "INBOX", Destination: "INBOX", Missing: false},
		{Source: "Sent", Destination: "INBOX.Sent", Missing: true},
		{Source: "Work/Reports", Destination: "INBOX.Work.Reports", Missing: true},
		{Source: "[Gmail]/All Mail", Destination: "INBOX.All Mail", Missing: true},
		{Source: "[Gmail]/Sent Mail", Destination: "INBOX.Sent", Missing: true},
	}
	ledger.EXPECT().SaveFolderMappings(expected).Return(errors.New("disk full"))

	m := f.migrator(t, f.checkpoints, Ledger(ledger))
	mappings, err := m.Prepare(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, expected, mappings)
	assert.Equal(t, 1, f.stats.Count("source_folders", "Entwürfe"))
}

func TestPrepareListFailure(t *testing.T) {
	f := newFixture(t)
	defer f.ctrl.Finish()

	f.sourceSession.EXPECT().ListFolders().Return(nil, errors.New("BAD"))

	m := f.migrator(t, f.checkpoints)
	_, err := m.Prepare(context.Background())
	assert.EqualError(t, err, "could not list source folders: BAD")
}

func TestMigrateRetriesAfterFetchAbort(t *testing.T) {
	f := newFixture(t)
	defer f.ctrl.Finish()

	gomock.InOrder(
		f.sourceSession.EXPECT().SelectReadOnly(rootFolder).Return(uint32(1), nil),
		f.sourceSession.EXPECT().SearchAll().Return(seqNums(1), nil),
		f.sourceSession.EXPECT().Fetch(uint32(1)).Return(nil, errAborted),
		f.destination.EXPECT().Reconnect(gomock.Any()).Return(nil),
		f.source.EXPECT().Reconnect(gomock.Any()).Return(nil),
		f.sourceSession.EXPECT().SelectReadOnly(rootFolder).Return(uint32(1), nil),
		f.sourceSession.EXPECT().Fetch(uint32(1)).Return(fetchedMail(1, mib, "Inbox"), nil),
		f.destinationSession.EXPECT().Append("INBOX", []string{}, internalDate, gomock.Any()).Return(uint32(0), nil),
	)

	m := f.migrator(t, f.checkpoints)
	summary, err := m.Migrate(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, &Summary{Total: 1, Skipped: 0, SizeMB: 1}, summary)
}

func TestMigrateRetriesAfterAppendAbort(t *testing.T) {
	f := newFixture(t)
	defer f.ctrl.Finish()

	gomock.InOrder(
		f.sourceSession.EXPECT().SelectReadOnly(rootFolder).Return(uint32(1), nil),
		f.sourceSession.EXPECT().SearchAll().Return(seqNums(1), nil),
		f.sourceSession.EXPECT().Fetch(uint32(1)).Return(fetchedMail(1, mib, "Inbox"), nil),
		f.destinationSession.EXPECT().Append("INBOX", []string{}, internalDate, gomock.Any()).Return(uint32(0), errAborted),
		f.destination.EXPECT().Reconnect(gomock.Any()).Return(nil),
		f.source.EXPECT().Reconnect(gomock.Any()).Return(nil),
		f.sourceSession.EXPECT().SelectReadOnly(rootFolder).Return(uint32(1), nil),
		f.sourceSession.EXPECT().Fetch(uint32(1)).Return(fetchedMail(1, mib, "Inbox"), nil),
		f.destinationSession.EXPECT().Append("INBOX", []string{}, internalDate, gomock.Any()).Return(uint32(5), nil),
	)

	m := f.migrator(t, f.checkpoints)
	summary, err := m.Migrate(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, &Summary{Total: 1, Skipped: 0, SizeMB: 1}, summary)
	assert.Equal(t, 1, f.savedStats(t).Count("outcomes", "migrated"))
}

func TestMigrateGivesUpOnRepeatedAborts(t *testing.T) {
	f := newFixture(t)
	defer f.ctrl.Finish()
	store := &recordingStore{}

	f.sourceSession.EXPECT().SelectReadOnly(rootFolder).Return(uint32(1), nil).Times(maxAbortRetries + 1)
	f.sourceSession.EXPECT().SearchAll().Return(seqNums(1), nil)
	f.sourceSession.EXPECT().Fetch(uint32(1)).Return(nil, errAborted).Times(maxAbortRetries + 1)
	f.destination.EXPECT().Reconnect(gomock.Any()).Return(nil).Times(maxAbortRetries)
	f.source.EXPECT().Reconnect(gomock.Any()).Return(nil).Times(maxAbortRetries)

	m := f.migrator(t, store)
	_, err := m.Migrate(context.Background())
	assert.True(t, errors.Is(err, domain.ErrSessionAborted))
	assert.Equal(t, domain.Checkpoint{}, store.last())
	assert.Len(t, store.saves, 1)
	assert.False(t, store.deleted)
}

func TestMigrateReconnectFailure(t *testing.T) {
	f := newFixture(t)
	defer f.ctrl.Finish()
	store := &recordingStore{}

	f.enumerate(3)
	f.sourceSession.EXPECT().Fetch(uint32(1)).Return(fetchedMail(1, 10, "Inbox"), nil)
	f.sourceSession.EXPECT().Fetch(uint32(2)).Return(nil, errAborted)
	f.destination.EXPECT().Reconnect(gomock.Any()).Return(fmt.Errorf("%w: refused", domain.ErrConnection))

	m := f.migrator(t, store, DryRun())
	summary, err := m.Migrate(context.Background())
	assert.True(t, errors.Is(err, domain.ErrConnection))
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, domain.Checkpoint{LastProcessedIndex: 1, TotalSize: 10}, store.last())
	assert.False(t, store.deleted)

	exists, err := afero.Exists(f.fs, "statistics.json")
	assert.NoError(t, err)
	assert.True(t, exists)
}

func TestMigratePeriodicReconnect(t *testing.T) {
	f := newFixture(t)
	defer f.ctrl.Finish()

	f.sourceSession.EXPECT().SelectReadOnly(rootFolder).Return(uint32(5), nil).Times(3)
	f.sourceSession.EXPECT().SearchAll().Return(seqNums(5), nil)
	f.sourceSession.EXPECT().
		Fetch(gomock.Any()).
		DoAndReturn(func(seqNum uint32) (*domain.FetchedMail, error) {
			return fetchedMail(seqNum, 10, "Inbox"), nil
		}).
		Times(5)
	f.destination.EXPECT().Reconnect(gomock.Any()).Return(nil).Times(2)
	f.source.EXPECT().Reconnect(gomock.Any()).Return(nil).Times(2)

	m := f.migrator(t, f.checkpoints, DryRun(), ReconnectInterval(2))
	summary, err := m.Migrate(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 5, summary.Total)
}

func TestMigratePeriodicCheckpoint(t *testing.T) {
	f := newFixture(t)
	defer f.ctrl.Finish()
	store := &recordingStore{}

	f.enumerate(150)
	f.sourceSession.EXPECT().
		Fetch(gomock.Any()).
		DoAndReturn(func(seqNum uint32) (*domain.FetchedMail, error) {
			return fetchedMail(seqNum, 10, "Inbox"), nil
		}).
		Times(150)

	m := f.migrator(t, store, DryRun())
	_, err := m.Migrate(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, []domain.Checkpoint{{LastProcessedIndex: 100, TotalSize: 1000}}, store.saves)
	assert.True(t, store.deleted)
}

func TestMigrateInterrupted(t *testing.T) {
	f := newFixture(t)
	defer f.ctrl.Finish()
	store := &recordingStore{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f.enumerate(3)
	f.sourceSession.EXPECT().Fetch(uint32(1)).Return(fetchedMail(1, 10, "Inbox"), nil)
	f.sourceSession.EXPECT().
		Fetch(uint32(2)).
		DoAndReturn(func(seqNum uint32) (*domain.FetchedMail, error) {
			cancel()
			return fetchedMail(seqNum, 10, "[Gmail]/Trash"), nil
		})

	m := f.migrator(t, store, DryRun())
	summary, err := m.Migrate(ctx)
	assert.NoError(t, err)
	assert.Equal(t, &Summary{Total: 3, Skipped: 1, SizeMB: 0, Interrupted: true}, summary)
	assert.Equal(t, domain.Checkpoint{LastProcessedIndex: 2, TotalSize: 20, Skipped: 1}, store.last())
	assert.False(t, store.deleted)
	assert.Equal(t, 1, f.savedStats(t).Count("outcomes", "dropped"))
}

func TestMigrateInterruptedDuringDelay(t *testing.T) {
	f := newFixture(t)
	defer f.ctrl.Finish()
	store := &recordingStore{}

	f.enumerate(3)
	f.sourceSession.EXPECT().Fetch(uint32(1)).Return(fetchedMail(1, 10, "Inbox"), nil)

	m := f.migrator(t, store, DryRun(), MessageDelay(time.Second))
	m.sleep = func(ctx context.Context, d time.Duration) error {
		return context.Canceled
	}

	summary, err := m.Migrate(context.Background())
	assert.NoError(t, err)
	assert.True(t, summary.Interrupted)
	assert.Equal(t, 1, store.last().LastProcessedIndex)
}

func TestMigratePanicSavesCheckpoint(t *testing.T) {
	f := newFixture(t)
	defer f.ctrl.Finish()
	store := &recordingStore{loaded: domain.Checkpoint{LastProcessedIndex: 1, TotalSize: 5, Skipped: 1}}

	f.enumerate(2)
	f.sourceSession.EXPECT().
		Fetch(uint32(2)).
		DoAndReturn(func(seqNum uint32) (*domain.FetchedMail, error) {
			panic("boom")
		})

	m := f.migrator(t, store)
	assert.PanicsWithValue(t, "boom", func() {
		_, _ = m.Migrate(context.Background())
	})
	assert.Equal(t, domain.Checkpoint{LastProcessedIndex: 1, TotalSize: 5, Skipped: 1}, store.last())
	assert.False(t, store.deleted)
}

func TestMigrateSkipsFailedMails(t *testing.T) {
	f := newFixture(t)
	defer f.ctrl.Finish()
	extractor := mocks.NewMockAttachmentExtractor(f.ctrl)

	f.enumerate(4)

	noBody := fetchedMail(2, 20, "Inbox")
	noBody.RawMail = nil

	brokenSender := fetchedMail(3, 30, "Inbox")
	brokenSender.RawMail = rawMail("<<broken", 3)

	starred := fetchedMail(4, 40, "Inbox", "[Gmail]/Starred")
	starred.Flags = []string{imap.SeenFlag, imap.FlaggedFlag}

	f.sourceSession.EXPECT().Fetch(uint32(1)).Return(nil, errors.New("NO message vanished"))
	f.sourceSession.EXPECT().Fetch(uint32(2)).Return(noBody, nil)
	f.sourceSession.EXPECT().Fetch(uint32(3)).Return(brokenSender, nil)
	f.sourceSession.EXPECT().Fetch(uint32(4)).Return(starred, nil)

	extractor.EXPECT().Extract(brokenSender.RawMail, sentDate, false).Return([]byte("rewritten"), nil)
	extractor.EXPECT().Extract(starred.RawMail, sentDate, false).Return(nil, errors.New("broken mime"))

	f.destinationSession.EXPECT().
		Append("INBOX", []string{}, internalDate, []byte("rewritten")).
		Return(uint32(0), errors.New("NO over quota"))
	f.destinationSession.EXPECT().
		Append("INBOX", []string{imap.SeenFlag, imap.FlaggedFlag}, internalDate, starred.RawMail).
		Return(uint32(9), nil)

	m := f.migrator(t, f.checkpoints, ExtractAttachments(extractor))
	summary, err := m.Migrate(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 3, summary.Skipped)

	stats := f.savedStats(t)
	assert.Equal(t, 1, stats.Count("outcomes", "fetch_failed"))
	assert.Equal(t, 1, stats.Count("outcomes", "no_body"))
	assert.Equal(t, 1, stats.Count("outcomes", "append_failed"))
	assert.Equal(t, 1, stats.Count("outcomes", "migrated"))
	assert.Equal(t, 1, stats.Count("sender", "Unknown"))
	assert.Equal(t, 1, stats.Count("sender", "alice@example.com"))
}

func TestMigrateWithoutInternalDate(t *testing.T) {
	f := newFixture(t)
	defer f.ctrl.Finish()
	extractor := mocks.NewMockAttachmentExtractor(f.ctrl)

	f.enumerate(1)
	undated := fetchedMail(1, 10, "Inbox")
	undated.InternalDate = time.Time{}
	f.sourceSession.EXPECT().Fetch(uint32(1)).Return(undated, nil)

	extractor.EXPECT().
		Extract(undated.RawMail, `"12-Jun-2024 08:09:10 +0000"`, true).
		Return(undated.RawMail, nil)

	m := f.migrator(t, f.checkpoints, DryRun(), ExtractAttachments(extractor))
	m.now = func() time.Time {
		return time.Date(2024, 6, 12, 8, 9, 10, 0, time.UTC)
	}

	summary, err := m.Migrate(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, summary.Skipped)
}

func TestMigrateSelectFailure(t *testing.T) {
	f := newFixture(t)
	defer f.ctrl.Finish()
	store := &recordingStore{}

	f.sourceSession.EXPECT().SelectReadOnly(rootFolder).Return(uint32(0), errors.New("NO no such folder"))

	m := f.migrator(t, store)
	summary, err := m.Migrate(context.Background())
	assert.Nil(t, summary)
	assert.EqualError(t, err, `could not select source folder "[Gmail]/All Mail": NO no such folder`)
	assert.Len(t, store.saves, 1)
}

func TestMergeFlags(t *testing.T) {
	assert.Equal(t, []string{}, mergeFlags(nil, nil))
	assert.Equal(t,
		[]string{imap.SeenFlag, imap.FlaggedFlag, imap.AnsweredFlag},
		mergeFlags([]string{imap.SeenFlag, imap.FlaggedFlag}, []string{imap.FlaggedFlag, imap.AnsweredFlag, imap.SeenFlag}),
	)
}
