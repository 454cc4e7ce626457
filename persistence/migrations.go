// SPDX-License-Identifier: GPL-3.0-or-later
package persistence

import (
	"github.com/rubenv/sql-migrate"
)

var migrationSource = &migrate.MemoryMigrationSource{
	Migrations: []*migrate.Migration{
		{
			Id: "0001_ledger",
			Up: []string{
				`CREATE TABLE folder_mappings (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					source TEXT NOT NULL,
					destination TEXT NOT NULL,
					missing BOOLEAN NOT NULL,
					created DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE TABLE decisions (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					position INTEGER NOT NULL,
					seqnum INTEGER NOT NULL,
					labels TEXT NOT NULL,
					destination TEXT NOT NULL,
					outcome TEXT NOT NULL,
					size INTEGER NOT NULL,
					destinationuid INTEGER NOT NULL,
					dryrun BOOLEAN NOT NULL,
					created DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX decisions_position ON decisions (position)`,
			},
			Down: []string{
				`DROP INDEX decisions_position`,
				`DROP TABLE decisions`,
				`DROP TABLE folder_mappings`,
			},
		},
	},
}
