// SPDX-License-Identifier: GPL-3.0-or-later
package statistics

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// Recorder counts events per category and key. It is owned by a single
// control flow and does no locking.
type Recorder struct {
	fs   afero.Fs
	path string

	table map[string]map[string]int
}

func NewRecorder(fs afero.Fs, path string) *Recorder {
	return &Recorder{
		fs:    fs,
		path:  path,
		table: map[string]map[string]int{},
	}
}

func (r *Recorder) Add(category, key string, amount int) {
	keys, ok := r.table[category]
	if !ok {
		keys = map[string]int{}
		r.table[category] = keys
	}
	keys[key] += amount
}

func (r *Recorder) Count(category, key string) int {
	return r.table[category][key]
}

// Load replaces the in memory table with the persisted snapshot. A missing
// file leaves an empty table.
func (r *Recorder) Load() error {
	data, err := afero.ReadFile(r.fs, r.path)
	if errors.Is(err, os.ErrNotExist) {
		r.table = map[string]map[string]int{}
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not read statistics: %w", err)
	}

	table := map[string]map[string]int{}
	err = json.Unmarshal(data, &table)
	if err != nil {
		return fmt.Errorf("could not parse statistics: %w", err)
	}

	r.table = table
	return nil
}

func (r *Recorder) Save() error {
	data, err := json.MarshalIndent(r.table, "", "    ")
	if err != nil {
		return fmt.Errorf("could not serialize statistics: %w", err)
	}

	err = afero.WriteFile(r.fs, r.path, data, 0644)
	if err != nil {
		return fmt.Errorf("could not write statistics: %w", err)
	}

	return nil
}

type entry struct {
	key   string
	count int
}

// Format renders the table for humans, most frequent keys first.
func (r *Recorder) Format() string {
	categories := make([]string, 0, len(r.table))
	for category := range r.table {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	sb := &strings.Builder{}
	for _, category := range categories {
		entries := []entry{}
		for key, count := range r.table[category] {
			entries = append(entries, entry{key, count})
		}
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].count != entries[j].count {
				return entries[i].count > entries[j].count
			}
			return entries[i].key < entries[j].key
		})

		fmt.Fprintf(sb, "%s:\n", category)
		for _, e := range entries {
			fmt.Fprintf(sb, "\t%s: %d\n", e.key, e.count)
		}
	}

	return sb.String()
}
