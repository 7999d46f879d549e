// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/wikt-scanner/pkg/types"
)

const defaultSQLiteBatch = 5000

// SQLite stores records in a records table keyed by word, with one row per
// label in a labels table. Inserts are grouped into transactions of batch
// records.
type SQLite struct {
	db      *sql.DB
	tx      *sql.Tx
	insRec  *sql.Stmt
	insLab  *sql.Stmt
	batch   int
	pending int
}

// OpenSQLite opens or creates the database at path and its schema.
func OpenSQLite(path string, batch int) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if batch <= 0 {
		batch = defaultSQLiteBatch
	}
	s := &SQLite{db: db, batch: batch}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

func (s *SQLite) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS records (
			word TEXT PRIMARY KEY,
			word_count INTEGER NOT NULL,
			pos TEXT NOT NULL,
			is_phrase INTEGER NOT NULL,
			is_abbreviation INTEGER NOT NULL,
			is_proper_noun INTEGER NOT NULL,
			is_vulgar INTEGER NOT NULL,
			is_archaic INTEGER NOT NULL,
			is_rare INTEGER NOT NULL,
			is_informal INTEGER NOT NULL,
			is_technical INTEGER NOT NULL,
			is_regional INTEGER NOT NULL,
			is_inflected INTEGER NOT NULL,
			is_dated INTEGER NOT NULL,
			syllables INTEGER,
			phrase_type TEXT,
			lemma TEXT,
			spelling_region TEXT,
			morphology TEXT,
			sources TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS labels (
			word TEXT NOT NULL REFERENCES records(word) ON DELETE CASCADE,
			category TEXT NOT NULL,
			tag TEXT NOT NULL,
			PRIMARY KEY (word, category, tag)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_labels_tag ON labels(category, tag)`,
		`CREATE INDEX IF NOT EXISTS idx_records_lemma ON records(lemma)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

func (s *SQLite) begin() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	insRec, err := tx.Prepare(
		`INSERT OR REPLACE INTO records (word, word_count, pos,
			is_phrase, is_abbreviation, is_proper_noun, is_vulgar, is_archaic, is_rare,
			is_informal, is_technical, is_regional, is_inflected, is_dated,
			syllables, phrase_type, lemma, spelling_region, morphology, sources)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("preparing record insert: %w", err)
	}
	insLab, err := tx.Prepare(`INSERT OR IGNORE INTO labels (word, category, tag) VALUES (?, ?, ?)`)
	if err != nil {
		insRec.Close()
		tx.Rollback()
		return fmt.Errorf("preparing label insert: %w", err)
	}
	s.tx, s.insRec, s.insLab = tx, insRec, insLab
	return nil
}

func (s *SQLite) commit() error {
	if s.tx == nil {
		return nil
	}
	s.insRec.Close()
	s.insLab.Close()
	err := s.tx.Commit()
	s.tx, s.insRec, s.insLab, s.pending = nil, nil, nil, 0
	if err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}
	return nil
}

// Write inserts rec into the open batch, committing when the batch is full.
func (s *SQLite) Write(rec *types.Record) error {
	if s.tx == nil {
		if err := s.begin(); err != nil {
			return err
		}
	}

	pos, _ := json.Marshal(rec.POS)
	sources, _ := json.Marshal(rec.Sources)
	var morph any
	if rec.Morphology != nil {
		data, err := json.Marshal(rec.Morphology)
		if err != nil {
			return fmt.Errorf("encoding morphology of %q: %w", rec.Word, err)
		}
		morph = string(data)
	}
	var phrase any
	if rec.PhraseType != nil {
		phrase = string(*rec.PhraseType)
	}

	_, err := s.insRec.Exec(
		rec.Word, rec.WordCount, string(pos),
		rec.IsPhrase, rec.IsAbbreviation, rec.IsProperNoun, rec.IsVulgar, rec.IsArchaic, rec.IsRare,
		rec.IsInformal, rec.IsTechnical, rec.IsRegional, rec.IsInflected, rec.IsDated,
		nullable(rec.Syllables), phrase, nullable(rec.Lemma), nullable(rec.SpellingRegion),
		morph, string(sources),
	)
	if err != nil {
		return fmt.Errorf("inserting %q: %w", rec.Word, err)
	}

	for cat, tags := range map[types.LabelCategory][]string{
		types.CategoryRegister: rec.Labels.Register,
		types.CategoryTemporal: rec.Labels.Temporal,
		types.CategoryDomain:   rec.Labels.Domain,
		types.CategoryRegion:   rec.Labels.Region,
	} {
		for _, tag := range tags {
			if _, err := s.insLab.Exec(rec.Word, string(cat), tag); err != nil {
				return fmt.Errorf("inserting label %s/%s of %q: %w", cat, tag, rec.Word, err)
			}
		}
	}

	s.pending++
	if s.pending >= s.batch {
		return s.commit()
	}
	return nil
}

// Close commits the open batch and closes the database.
func (s *SQLite) Close() error {
	err := s.commit()
	if cerr := s.db.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("closing database: %w", cerr)
	}
	return err
}

func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
