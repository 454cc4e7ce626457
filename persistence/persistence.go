// SPDX-License-Identifier: GPL-3.0-or-later
package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/CrawX/go-imap-migrate/domain"
	"github.com/CrawX/go-imap-migrate/log"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rubenv/sql-migrate"
	"github.com/sirupsen/logrus"
)

// Persistence records folder mappings and per message decisions of a
// migration run in a sqlite database.
type Persistence struct {
	db *sqlx.DB
	l  *logrus.Logger
}

func NewPersistence(datasource string) (*Persistence, error) {
	db, err := sqlx.Connect("sqlite3", datasource)
	if err != nil {
		return nil, fmt.Errorf("could not open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	l := log.Logger(log.LOG_PERSISTENCE)
	l.WithField("file", datasource).Info("Connected")

	_, err = db.Exec(`PRAGMA journal_mode=WAL`)
	if err != nil {
		return nil, fmt.Errorf("could not set journal mode: %w", err)
	}
	_, err = db.Exec(`PRAGMA synchronous=normal`)
	if err != nil {
		return nil, fmt.Errorf("could not set synchronous mode: %w", err)
	}

	appliedMigrations, err := migrate.Exec(db.DB, "sqlite3", migrationSource, migrate.Up)
	if err != nil {
		return nil, fmt.Errorf("could not migrate to newest version: %w", err)
	}

	l.WithField("migrations", appliedMigrations).Debug("Executed migrations")

	return &Persistence{
		db: db,
		l:  l,
	}, nil
}

func (p *Persistence) Close() error {
	err := p.db.Close()
	if err != nil {
		return fmt.Errorf("could not close db: %w", err)
	}
	p.l.Info("Disconnected")
	return nil
}

func (p *Persistence) SaveFolderMappings(mappings []domain.FolderMapping) error {
	tx, err := p.db.BeginTxx(context.TODO(), nil)
	if err != nil {
		return fmt.Errorf("could not start transaction: %w", err)
	}

	stmt, err := tx.Prepare(
		"INSERT INTO folder_mappings(source, destination, missing) VALUES(?, ?, ?)",
	)
	if err != nil {
		return txEnd(tx, fmt.Errorf("could not prepare statement: %w", err))
	}

	for _, mapping := range mappings {
		_, err := stmt.Exec(mapping.Source, mapping.Destination, mapping.Missing)
		if err != nil {
			return txEnd(tx, fmt.Errorf("could not save folder mapping: %w", err))
		}
	}

	p.l.WithField("count", len(mappings)).Debug("Persisted folder mappings")
	return txEnd(tx, nil)
}

func (p *Persistence) SaveDecision(decision domain.Decision) error {
	if decision.Labels == nil {
		decision.Labels = []string{}
	}
	labels, err := json.Marshal(decision.Labels)
	if err != nil {
		return fmt.Errorf("could not serialize labels: %w", err)
	}

	_, err = p.db.Exec(
		"INSERT INTO decisions(position, seqnum, labels, destination, outcome, size, destinationuid, dryrun) VALUES(?, ?, ?, ?, ?, ?, ?, ?)",
		decision.Position,
		decision.SeqNum,
		string(labels),
		decision.Destination,
		string(decision.Outcome),
		decision.Size,
		decision.DestinationUid,
		decision.DryRun,
	)
	if err != nil {
		return fmt.Errorf("could not save decision: %w", err)
	}

	return nil
}

func (p *Persistence) FolderMappings() ([]domain.FolderMapping, error) {
	dbMappings := []struct {
		Source      string
		Destination string
		Missing     bool
	}{}

	err := p.db.Select(
		&dbMappings,
		`SELECT source, destination, missing FROM folder_mappings ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("could not query db: %w", err)
	}

	mappings := []domain.FolderMapping{}
	for _, m := range dbMappings {
		mappings = append(mappings, domain.FolderMapping{
			Source:      m.Source,
			Destination: m.Destination,
			Missing:     m.Missing,
		})
	}

	return mappings, nil
}

func (p *Persistence) Decisions() ([]domain.Decision, error) {
	dbDecisions := []struct {
		Position       int
		SeqNum         uint32
		Labels         string
		Destination    string
		Outcome        string
		Size           uint32
		DestinationUid uint32
		DryRun         bool
	}{}

	err := p.db.Select(
		&dbDecisions,
		`SELECT position, seqnum, labels, destination, outcome, size, destinationuid, dryrun FROM decisions ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("could not query db: %w", err)
	}

	decisions := []domain.Decision{}
	for _, d := range dbDecisions {
		labels := []string{}
		err := json.Unmarshal([]byte(d.Labels), &labels)
		if err != nil {
			return nil, fmt.Errorf("could not parse labels of decision %d: %w", d.Position, err)
		}

		decisions = append(decisions, domain.Decision{
			Position:       d.Position,
			SeqNum:         d.SeqNum,
			Labels:         labels,
			Destination:    d.Destination,
			Outcome:        domain.Outcome(d.Outcome),
			Size:           d.Size,
			DestinationUid: d.DestinationUid,
			DryRun:         d.DryRun,
		})
	}

	return decisions, nil
}

func txEnd(tx *sqlx.Tx, err error) error {
	if err == nil {
		err = tx.Commit()
		if err != nil {
			return fmt.Errorf("could not commit tx: %w", err)
		}
	} else {
		rollbackErr := tx.Rollback()
		if rollbackErr != nil {
			errStr := err.Error()
			return fmt.Errorf("%s, could not rollback tx: %w", errStr, rollbackErr)
		} else {
			return err
		}
	}

	return nil
}
