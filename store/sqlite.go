// seehuhn.de/go/colouring - a boundary-constrained colouring canvas
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"seehuhn.de/go/colouring/scoring"
)

//go:embed schema.sql
var schema string

// SQLite is a [scoring.Store] backed by a SQLite database.
// It is safe for concurrent use.
type SQLite struct {
	db  *sql.DB
	log zerolog.Logger
}

var _ scoring.Store = (*SQLite)(nil)

// SQLiteOption configures a [SQLite] store.
type SQLiteOption func(*SQLite)

// WithLogger sets the logger of the store.  The default discards all
// output.
func WithLogger(l zerolog.Logger) SQLiteOption {
	return func(s *SQLite) {
		s.log = l
	}
}

// OpenSQLite opens the database file at path, creating it and its parent
// directory if needed, and makes sure the schema exists.
func OpenSQLite(path string, opts ...SQLiteOption) (*SQLite, error) {
	s := &SQLite{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	// Write transactions take the lock at BEGIN, so that concurrent
	// writers wait for the busy timeout instead of failing on upgrade.
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	dsn := path + sep + "_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	s.db = db

	s.log.Debug().Str("path", path).Msg("database opened")
	return s, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Bool implements [scoring.Flags].
func (s *SQLite) Bool(ctx context.Context, key scoring.Key) (bool, error) {
	var value bool
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM flags WHERE user_id=? AND achievement=? AND kind=?`,
		key.User, key.Achievement, int(key.Kind)).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("read %s flag: %w", key.Kind, err)
	}
	return value, nil
}

// SetBool implements [scoring.Flags].
func (s *SQLite) SetBool(ctx context.Context, key scoring.Key, value bool) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO flags (user_id, achievement, kind, value) VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, achievement, kind) DO UPDATE SET value = excluded.value`,
		key.User, key.Achievement, int(key.Kind), value)
	if err != nil {
		return fmt.Errorf("write %s flag: %w", key.Kind, err)
	}
	return nil
}

// RecordAttempt implements [scoring.Ledger].  The attempt and the new
// cumulative score are written in one transaction.
func (s *SQLite) RecordAttempt(ctx context.Context, a scoring.Attempt) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO attempts
			(id, user_id, task_id, score, time_spent_ns, coverage, stroke_count, created_at_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.User, a.TaskID, a.Score, int64(a.TimeSpent), a.Coverage,
		a.StrokeCount, a.CreatedAt.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("insert attempt: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO totals (user_id, score) VALUES (?, ?)
		ON CONFLICT (user_id) DO UPDATE SET score = score + excluded.score`,
		a.User, a.Score)
	if err != nil {
		return 0, fmt.Errorf("update total: %w", err)
	}
	var total int
	err = tx.QueryRowContext(ctx, `SELECT score FROM totals WHERE user_id=?`, a.User).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("read total: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit attempt: %w", err)
	}
	s.log.Debug().Str("user", a.User).Str("attempt", a.ID).Int("total", total).Msg("attempt stored")
	return total, nil
}

const attemptColumns = `id, user_id, task_id, score, time_spent_ns, coverage, stroke_count, created_at_ns`

type scanner interface {
	Scan(dest ...any) error
}

func scanAttempt(row scanner) (scoring.Attempt, error) {
	var a scoring.Attempt
	var spent, created int64
	err := row.Scan(&a.ID, &a.User, &a.TaskID, &a.Score, &spent, &a.Coverage, &a.StrokeCount, &created)
	if err != nil {
		return scoring.Attempt{}, err
	}
	a.TimeSpent = time.Duration(spent)
	a.CreatedAt = time.Unix(0, created)
	return a, nil
}

// Attempts implements [scoring.Ledger].
func (s *SQLite) Attempts(ctx context.Context, user string) ([]scoring.Attempt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+attemptColumns+` FROM attempts WHERE user_id=? ORDER BY rowid`, user)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var res []scoring.Attempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

// Attempt returns the attempt with the given ID.
func (s *SQLite) Attempt(ctx context.Context, id string) (scoring.Attempt, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+attemptColumns+` FROM attempts WHERE id=?`, id)
	a, err := scanAttempt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return scoring.Attempt{}, ErrNotFound
	} else if err != nil {
		return scoring.Attempt{}, fmt.Errorf("attempt %s: %w", id, err)
	}
	return a, nil
}

// Cumulative implements [scoring.Ledger].
func (s *SQLite) Cumulative(ctx context.Context, user string) (int, error) {
	var total int
	err := s.db.QueryRowContext(ctx, `SELECT score FROM totals WHERE user_id=?`, user).Scan(&total)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	} else if err != nil {
		return 0, fmt.Errorf("read total: %w", err)
	}
	return total, nil
}

// RecordUnlock implements [scoring.Ledger].
func (s *SQLite) RecordUnlock(ctx context.Context, user, achievement string, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO unlocks (user_id, achievement, unlocked_at_ns) VALUES (?, ?, ?)`,
		user, achievement, at.UnixNano())
	if err != nil {
		return fmt.Errorf("record unlock: %w", err)
	}
	return nil
}

// Unlocks implements [scoring.Ledger].
func (s *SQLite) Unlocks(ctx context.Context, user string) (map[string]time.Time, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT achievement, unlocked_at_ns FROM unlocks WHERE user_id=?`, user)
	if err != nil {
		return nil, fmt.Errorf("query unlocks: %w", err)
	}
	defer rows.Close()

	res := make(map[string]time.Time)
	for rows.Next() {
		var id string
		var at int64
		if err := rows.Scan(&id, &at); err != nil {
			return nil, fmt.Errorf("scan unlock: %w", err)
		}
		res[id] = time.Unix(0, at)
	}
	return res, rows.Err()
}
