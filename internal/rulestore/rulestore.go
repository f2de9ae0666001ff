// Validra is a declarative data-validation engine.
// Copyright (C) 2026 Matthew Burns
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package rulestore implements the optional sqlite-backed rule set
// persistence described in SPEC_FULL.md §12.4: a host program that
// wants to version and reuse compiled-once rule sets (e.g. the
// cmd/validra-lint CLI, or a long-lived service that loads its rules
// from a shared store rather than its own binary) can save and fetch
// named RuleSetRecords keyed by name or content fingerprint.
//
// It is grounded in, and follows the shape of, the teacher module's
// internal/database package: a *sql.DB wrapped in a thin Store type,
// a Migrate step that is safe to call repeatedly, and one method per
// access pattern taking a context.Context first. Unlike the teacher's
// database package this store never touches secrets, so it carries no
// encryption layer.
package rulestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mattburns/validra/internal/ruledef"
)

// ErrNotFound is returned by the single-record getters when no rule set
// matches the given key.
var ErrNotFound = errors.New("rulestore: rule set not found")

// RuleSetRecord is a persisted, named rule set plus its content
// fingerprint and storage timestamp.
type RuleSetRecord struct {
	Name        string
	Fingerprint string
	Rules       []ruledef.Rule
	CreatedAt   time.Time
}

// Store wraps a sqlite connection holding persisted rule sets.
type Store struct {
	conn *sql.DB
}

// Open opens (creating if necessary) a sqlite database at path and
// verifies the connection. Callers must call Migrate before using the
// store against a fresh file.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("rulestore: open: %w", err)
	}
	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("rulestore: ping: %w", err)
	}
	return &Store{conn: conn}, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Migrate creates the rule_sets table if it does not already exist.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.conn.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS rule_sets (
		name TEXT PRIMARY KEY,
		fingerprint TEXT NOT NULL,
		rules_json TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("rulestore: migrate: %w", err)
	}
	return nil
}

// Save inserts or replaces the named rule set.
func (s *Store) Save(ctx context.Context, rec RuleSetRecord) error {
	blob, err := json.Marshal(rec.Rules)
	if err != nil {
		return fmt.Errorf("rulestore: marshal rules: %w", err)
	}
	_, err = s.conn.ExecContext(ctx,
		`INSERT INTO rule_sets (name, fingerprint, rules_json, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET fingerprint = excluded.fingerprint, rules_json = excluded.rules_json, created_at = excluded.created_at`,
		rec.Name, rec.Fingerprint, string(blob), rec.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("rulestore: save %q: %w", rec.Name, err)
	}
	return nil
}

// Get fetches the rule set stored under name.
func (s *Store) Get(ctx context.Context, name string) (*RuleSetRecord, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT name, fingerprint, rules_json, created_at FROM rule_sets WHERE name = ?`, name)
	return scanRecord(row)
}

// GetByFingerprint fetches the first rule set whose content fingerprint
// matches, useful for cache-style lookups keyed by RuleSet.Fingerprint()
// rather than by name.
func (s *Store) GetByFingerprint(ctx context.Context, fingerprint string) (*RuleSetRecord, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT name, fingerprint, rules_json, created_at FROM rule_sets WHERE fingerprint = ? LIMIT 1`, fingerprint)
	return scanRecord(row)
}

// List returns every stored rule set, ordered by name.
func (s *Store) List(ctx context.Context) ([]RuleSetRecord, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT name, fingerprint, rules_json, created_at FROM rule_sets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("rulestore: list: %w", err)
	}
	defer rows.Close()

	var out []RuleSetRecord
	for rows.Next() {
		var (
			rec       RuleSetRecord
			rulesJSON string
		)
		if err := rows.Scan(&rec.Name, &rec.Fingerprint, &rulesJSON, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("rulestore: scan: %w", err)
		}
		if err := json.Unmarshal([]byte(rulesJSON), &rec.Rules); err != nil {
			return nil, fmt.Errorf("rulestore: unmarshal rules for %q: %w", rec.Name, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rulestore: list: %w", err)
	}
	return out, nil
}

// Delete removes the rule set stored under name. Deleting a name that
// does not exist is not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	_, err := s.conn.ExecContext(ctx, `DELETE FROM rule_sets WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("rulestore: delete %q: %w", name, err)
	}
	return nil
}

func scanRecord(row *sql.Row) (*RuleSetRecord, error) {
	var (
		rec       RuleSetRecord
		rulesJSON string
	)
	if err := row.Scan(&rec.Name, &rec.Fingerprint, &rulesJSON, &rec.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("rulestore: scan: %w", err)
	}
	if err := json.Unmarshal([]byte(rulesJSON), &rec.Rules); err != nil {
		return nil, fmt.Errorf("rulestore: unmarshal rules for %q: %w", rec.Name, err)
	}
	return &rec, nil
}
