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

// Package store provides implementations of [scoring.Store].
//
// [Memory] keeps everything in maps and forgets it when the process exits.
// [SQLite] keeps the state in a SQLite database file.
package store

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
	"time"

	"seehuhn.de/go/colouring/scoring"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Memory is an in-memory [scoring.Store].  It is safe for concurrent use.
type Memory struct {
	mu       sync.RWMutex
	flags    map[scoring.Key]bool
	attempts map[string][]scoring.Attempt // by user, oldest first
	byID     map[string]scoring.Attempt
	totals   map[string]int
	unlocks  map[string]map[string]time.Time // user -> achievement -> time
}

var _ scoring.Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		flags:    make(map[scoring.Key]bool),
		attempts: make(map[string][]scoring.Attempt),
		byID:     make(map[string]scoring.Attempt),
		totals:   make(map[string]int),
		unlocks:  make(map[string]map[string]time.Time),
	}
}

// Bool implements [scoring.Flags].
func (m *Memory) Bool(_ context.Context, key scoring.Key) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.flags[key], nil
}

// SetBool implements [scoring.Flags].
func (m *Memory) SetBool(_ context.Context, key scoring.Key, value bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if value {
		m.flags[key] = true
	} else {
		delete(m.flags, key)
	}
	return nil
}

// RecordAttempt implements [scoring.Ledger].
func (m *Memory) RecordAttempt(_ context.Context, a scoring.Attempt) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts[a.User] = append(m.attempts[a.User], a)
	m.byID[a.ID] = a
	m.totals[a.User] += a.Score
	return m.totals[a.User], nil
}

// Attempts implements [scoring.Ledger].
func (m *Memory) Attempts(_ context.Context, user string) ([]scoring.Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.attempts[user]), nil
}

// Attempt returns the attempt with the given ID.
func (m *Memory) Attempt(_ context.Context, id string) (scoring.Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.byID[id]
	if !ok {
		return scoring.Attempt{}, ErrNotFound
	}
	return a, nil
}

// Cumulative implements [scoring.Ledger].
func (m *Memory) Cumulative(_ context.Context, user string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totals[user], nil
}

// RecordUnlock implements [scoring.Ledger].
func (m *Memory) RecordUnlock(_ context.Context, user, achievement string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.unlocks[user]
	if u == nil {
		u = make(map[string]time.Time)
		m.unlocks[user] = u
	}
	if _, seen := u[achievement]; !seen {
		u[achievement] = at
	}
	return nil
}

// Unlocks implements [scoring.Ledger].
func (m *Memory) Unlocks(_ context.Context, user string) (map[string]time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := maps.Clone(m.unlocks[user])
	if res == nil {
		res = make(map[string]time.Time)
	}
	return res, nil
}
