// Package blockdb persists outparse row sets to a SQLite table. It is
// a convenience storage layer behind the outparse.RowStore interface;
// the engine itself defines no persistence format.
package blockdb

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"

	"github.com/outparse/outparse"
)

// Schema for the blocks table. Applied by Store.Init.
const Schema = `
CREATE TABLE IF NOT EXISTS blocks (
	id INTEGER NOT NULL,
	type TEXT NOT NULL,
	subtype TEXT NOT NULL,
	readable_name TEXT NOT NULL,
	raw_data TEXT,
	char_start INTEGER NOT NULL,
	char_end INTEGER NOT NULL,
	line_start INTEGER NOT NULL,
	line_end INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_blocks_subtype ON blocks(subtype);
CREATE INDEX IF NOT EXISTS idx_blocks_char ON blocks(char_start);
`

// Store writes row sets to one SQLite database.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Open creates a store on the SQLite database at path. Use ":memory:"
// for a transient store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open block db %s: %w", path, err)
	}
	s := &Store{db: db, log: slog.Default()}
	if err = s.Init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Init creates the blocks table if it does not exist.
func (s *Store) Init() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return fmt.Errorf("init block db: %w", err)
	}
	return nil
}

// Put appends the rows in one transaction. Rows with unavailable raw
// data are stored with a NULL raw_data column.
func (s *Store) Put(rows []outparse.Row) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("block db: begin: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO blocks
		(id, type, subtype, readable_name, raw_data,
		 char_start, char_end, line_start, line_end)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("block db: prepare: %w", err)
	}
	defer stmt.Close()
	for _, r := range rows {
		var raw sql.NullString
		if r.RawData != nil {
			raw = sql.NullString{String: *r.RawData, Valid: true}
		} else if r.Diag != "" {
			s.log.Warn("block db: storing row without raw data",
				"id", r.ID, "diag", r.Diag)
		}
		_, err = stmt.Exec(r.ID, r.Type, r.Subtype, r.Name, raw,
			r.Pos.Char.Start, r.Pos.Char.End,
			r.Pos.Line.Start, r.Pos.Line.End)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("block db: insert row %d: %w", r.ID, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("block db: commit: %w", err)
	}
	return nil
}

// Count returns the number of stored rows.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM blocks`).Scan(&n)
	return n, err
}

func (s *Store) Close() error { return s.db.Close() }
