// SPDX-License-Identifier: GPL-3.0-or-later
package domain

//go:generate mockgen -destination=mocks/persistence.go -package=mocks . Ledger

type Outcome string

const (
	Migrated     = Outcome("migrated")
	Simulated    = Outcome("simulated")
	Dropped      = Outcome("dropped")
	FetchFailed  = Outcome("fetch_failed")
	NoBody       = Outcome("no_body")
	AppendFailed = Outcome("append_failed")
)

// Skipped reports whether the outcome counts towards the skipped total.
func (o Outcome) Skipped() bool {
	switch o {
	case Dropped, FetchFailed, NoBody, AppendFailed:
		return true
	}
	return false
}

type FolderMapping struct {
	Source      string
	Destination string
	Missing     bool
}

type Decision struct {
	Position       int
	SeqNum         uint32
	Labels         []string
	Destination    string
	Outcome        Outcome
	Size           uint32
	DestinationUid uint32
	DryRun         bool
}

// Ledger is the audit trail of a migration run.
type Ledger interface {
	SaveFolderMappings(mappings []FolderMapping) error
	SaveDecision(decision Decision) error
	Close() error
}

type Checkpoint struct {
	LastProcessedIndex int `json:"last_processed_index"`
	// TotalSize is counted in bytes, the key name is kept for existing checkpoint files.
	TotalSize float64 `json:"total_size_mb"`
	Skipped   int     `json:"skipped"`
}

type CheckpointStore interface {
	Load() (Checkpoint, error)
	Save(checkpoint Checkpoint) error
	Delete() error
}

type Statistics interface {
	Add(category, key string, amount int)
	Load() error
	Save() error
}
