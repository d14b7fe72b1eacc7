package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Storage-boundary errors. Handlers map these onto HTTP statuses.
var (
	// ErrNotFound indicates a referenced record id does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateName indicates a unique-name constraint was violated.
	ErrDuplicateName = errors.New("name already exists")

	// ErrFieldMissing indicates a profile field targeted for removal is absent.
	ErrFieldMissing = errors.New("field does not exist")
)

// Table is one CSV-backed record table with a fixed header row.
//
// Deletes and updates rewrite the whole file, so every operation holds the
// table mutex for the full read-then-write sequence. The lock is per process;
// the files are not safe against concurrent writers from other processes.
type Table struct {
	mu     sync.Mutex
	path   string
	header []string
}

// NewTable creates a handle for the CSV file at path. The file itself is
// created lazily by Ensure or the first mutation.
func NewTable(path string, header []string) *Table {
	return &Table{path: path, header: header}
}

// Ensure creates the table file with its header row if it does not exist yet.
// Idempotent.
func (t *Table) Ensure() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ensureLocked()
}

func (t *Table) ensureLocked() error {
	if _, err := os.Stat(t.path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(t.path), 0755); err != nil {
		return fmt.Errorf("failed to create table directory: %w", err)
	}
	return t.writeAllLocked(nil)
}

// List returns every data row in file order, excluding the header.
func (t *Table) List() ([][]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.readLocked()
}

// Append adds one row. The only schema check is the field count against the
// header.
func (t *Table) Append(row []string) error {
	if len(row) != len(t.header) {
		return fmt.Errorf("row has %d fields, table %s expects %d", len(row), filepath.Base(filepath.Dir(t.path)), len(t.header))
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.ensureLocked(); err != nil {
		return err
	}
	f, err := os.OpenFile(t.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open table %s: %w", t.path, err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(row); err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}
	w.Flush()
	return w.Error()
}

// DeleteWhere rewrites the table omitting every row for which match returns
// true. It reports how many rows were removed; the caller decides whether a
// zero count is an error.
func (t *Table) DeleteWhere(match func(row []string) bool) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rows, err := t.readLocked()
	if err != nil {
		return 0, err
	}
	kept := rows[:0:0]
	removed := 0
	for _, row := range rows {
		if match(row) {
			removed++
			continue
		}
		kept = append(kept, row)
	}
	if removed == 0 {
		return 0, nil
	}
	if err := t.writeAllLocked(kept); err != nil {
		return 0, err
	}
	return removed, nil
}

// UpdateWhere rewrites the table applying apply to every row for which match
// returns true, reporting how many rows were touched.
func (t *Table) UpdateWhere(match func(row []string) bool, apply func(row []string) []string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rows, err := t.readLocked()
	if err != nil {
		return 0, err
	}
	updated := 0
	for i, row := range rows {
		if match(row) {
			rows[i] = apply(row)
			updated++
		}
	}
	if updated == 0 {
		return 0, nil
	}
	if err := t.writeAllLocked(rows); err != nil {
		return 0, err
	}
	return updated, nil
}

func (t *Table) readLocked() ([][]string, error) {
	if err := t.ensureLocked(); err != nil {
		return nil, err
	}
	f, err := os.Open(t.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open table %s: %w", t.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", t.path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[1:], nil
}

func (t *Table) writeAllLocked(rows [][]string) error {
	f, err := os.Create(t.path)
	if err != nil {
		return fmt.Errorf("failed to write table %s: %w", t.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
