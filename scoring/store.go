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

package scoring

import (
	"context"
	"time"
)

// Kind selects one of the per-achievement flags of a user.
type Kind int

// These are the flags kept for every (user, achievement) pair.
const (
	// Unlocked is set once the cumulative score reached the requirement.
	Unlocked Kind = iota + 1

	// Notified is set once the unlock has been presented to the user.
	Notified
)

func (k Kind) String() string {
	switch k {
	case Unlocked:
		return "unlocked"
	case Notified:
		return "notified"
	default:
		return "unknown"
	}
}

// Key addresses a boolean flag in a [Flags] store.
type Key struct {
	User        string
	Achievement string
	Kind        Kind
}

// Flags is a key-value store for boolean flags.  Flags which were never
// set read as false.
type Flags interface {
	Bool(ctx context.Context, key Key) (bool, error)
	SetBool(ctx context.Context, key Key, value bool) error
}

// Ledger keeps attempts, cumulative scores and unlock times.
type Ledger interface {
	// RecordAttempt stores a and adds a.Score to the cumulative score of
	// a.User, as one atomic step.  It returns the new cumulative score.
	RecordAttempt(ctx context.Context, a Attempt) (int, error)

	// Attempts returns the attempts of a user, oldest first.
	Attempts(ctx context.Context, user string) ([]Attempt, error)

	// Cumulative returns the cumulative score of a user, or 0 for a
	// user without attempts.
	Cumulative(ctx context.Context, user string) (int, error)

	// RecordUnlock stores the time an achievement was unlocked.  If a
	// time is already stored, it is kept.
	RecordUnlock(ctx context.Context, user, achievement string, at time.Time) error

	// Unlocks returns the unlock times of a user, by achievement ID.
	Unlocks(ctx context.Context, user string) (map[string]time.Time, error)
}

// Store is the persistent state used by an [Engine].
// Implementations must be safe for concurrent use.
type Store interface {
	Flags
	Ledger
}

// Notifier presents a newly unlocked achievement to the user.
//
// The engine never holds a lock of its own while calling Notify, so
// implementations may call back into the engine, for example to query the
// level of the user.
type Notifier interface {
	Notify(ctx context.Context, user string, a Achievement) error
}

// NotifierFunc adapts a function to the [Notifier] interface.
type NotifierFunc func(ctx context.Context, user string, a Achievement) error

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, user string, a Achievement) error {
	return f(ctx, user, a)
}
