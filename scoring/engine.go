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
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrUnknownAchievement is returned for achievement IDs which the engine
// was not configured with.
var ErrUnknownAchievement = errors.New("unknown achievement")

// Engine scores submissions and maintains the achievements of all users.
// Engine is safe for concurrent use.
type Engine struct {
	store        Store
	achievements []Achievement // sorted by requirement
	byID         map[string]Achievement

	notifier Notifier
	log      zerolog.Logger
	now      func() time.Time

	users keyedMutex

	mu        sync.Mutex
	notifying map[Key]bool // notifications in progress
}

// Option configures an [Engine].
type Option func(*Engine)

// WithNotifier sets the collaborator which presents newly unlocked
// achievements.  Without a notifier, unlocks stay pending until they are
// marked as notified.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) {
		e.notifier = n
	}
}

// WithLogger sets the logger.  The default discards all output.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// WithClock replaces time.Now as the source of timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine returns an engine which keeps its state in st and knows the
// given achievements.  Achievement IDs must be unique; later duplicates
// are ignored.
func NewEngine(st Store, achievements []Achievement, opts ...Option) *Engine {
	e := &Engine{
		store: st,
		byID:  make(map[string]Achievement, len(achievements)),
		log:   zerolog.Nop(),
		now:   time.Now,

		notifying: make(map[Key]bool),
	}
	for _, a := range achievements {
		if _, dup := e.byID[a.ID]; dup {
			continue
		}
		e.byID[a.ID] = a
		e.achievements = append(e.achievements, a)
	}
	slices.SortStableFunc(e.achievements, func(a, b Achievement) int {
		return cmp.Compare(a.Requirement, b.Requirement)
	})
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Achievements returns the configured achievements, ordered by
// requirement.
func (e *Engine) Achievements() []Achievement {
	return slices.Clone(e.achievements)
}

// Submission is a finished attempt, as reported by the canvas.
type Submission struct {
	User        string
	Task        Task
	Coverage    float64
	TimeSpent   time.Duration
	StrokeCount int
}

// Result describes the outcome of a submission.
type Result struct {
	Attempt    Attempt
	Cumulative int

	// Unlocked lists the achievements which were unlocked by this
	// submission, ordered by requirement.
	Unlocked []Achievement

	// Level is the level of the user after the submission, or 0 if it
	// could not be read from the store.
	Level int
}

// Submit scores a finished attempt and updates the state of the user.
//
// The attempt is stored and its score added to the cumulative score of the
// user.  Every achievement whose requirement is now met is unlocked and
// then passed to the notifier.  No other submission of the same user can
// run between storing the attempt and unlocking the achievements.
//
// An error is returned only if the attempt could not be stored.  Once the
// attempt is stored, Submit succeeds: failures while unlocking or
// notifying are logged, and the affected achievements are picked up again
// by the next call to Submit or NotifyPending for the same user.  Callers
// must therefore not resubmit an attempt after a nil error.
func (e *Engine) Submit(ctx context.Context, sub Submission) (Result, error) {
	res, err := e.record(ctx, sub)
	if err != nil {
		return Result{}, err
	}

	for _, ach := range res.Unlocked {
		if _, err := e.notify(ctx, sub.User, ach); err != nil {
			e.log.Warn().Err(err).
				Str("user", sub.User).
				Str("achievement", ach.ID).
				Msg("notification failed, achievement stays pending")
		}
	}
	return res, nil
}

// record does the part of Submit which runs under the lock of the user.
func (e *Engine) record(ctx context.Context, sub Submission) (Result, error) {
	unlock := e.users.lock(sub.User)
	defer unlock()

	a := Attempt{
		ID:          uuid.NewString(),
		User:        sub.User,
		TaskID:      sub.Task.ID,
		Score:       Score(sub.Coverage, sub.Task.MaxPoints, sub.TimeSpent, sub.Task.TimeLimit),
		TimeSpent:   sub.TimeSpent,
		Coverage:    clampUnit(sub.Coverage),
		StrokeCount: sub.StrokeCount,
		CreatedAt:   e.now(),
	}
	total, err := e.store.RecordAttempt(ctx, a)
	if err != nil {
		return Result{}, fmt.Errorf("record attempt: %w", err)
	}
	e.log.Info().
		Str("user", a.User).
		Str("task", a.TaskID).
		Int("score", a.Score).
		Int("cumulative", total).
		Float64("coverage", a.Coverage).
		Msg("attempt recorded")

	res := Result{Attempt: a, Cumulative: total}

	res.Unlocked, err = e.unlockReached(ctx, a.User, total)
	if err != nil {
		e.log.Warn().Err(err).
			Str("user", a.User).
			Int("cumulative", total).
			Msg("unlocking incomplete, retried later")
	}

	res.Level, err = e.level(ctx, a.User)
	if err != nil {
		e.log.Warn().Err(err).Str("user", a.User).Msg("cannot read level")
		res.Level = 0
	}
	return res, nil
}

// unlockReached unlocks all achievements whose requirement is met by the
// cumulative score total.  Achievements which are already unlocked are
// left alone, so that unlocks are never repeated or revoked.  On error,
// the achievements unlocked so far are returned together with the error.
//
// The unlock time is stored before the flag is set.  If setting the flag
// fails, the next call finds the flag unset and completes the unlock,
// while the store keeps the first unlock time.
func (e *Engine) unlockReached(ctx context.Context, user string, total int) ([]Achievement, error) {
	var newly []Achievement
	for _, ach := range e.achievements {
		if total < ach.Requirement {
			continue
		}
		key := Key{User: user, Achievement: ach.ID, Kind: Unlocked}
		done, err := e.store.Bool(ctx, key)
		if err != nil {
			return newly, fmt.Errorf("achievement %q: %w", ach.ID, err)
		}
		if done {
			continue
		}

		if err := e.store.RecordUnlock(ctx, user, ach.ID, e.now()); err != nil {
			return newly, fmt.Errorf("achievement %q: %w", ach.ID, err)
		}
		if err := e.store.SetBool(ctx, key, true); err != nil {
			return newly, fmt.Errorf("achievement %q: %w", ach.ID, err)
		}
		e.log.Info().Str("user", user).Str("achievement", ach.ID).Msg("achievement unlocked")
		newly = append(newly, ach)
	}
	return newly, nil
}

// Notify presents the achievement with the given ID to the user, unless
// it is locked or has been presented before.  The return value reports
// whether the notifier was called successfully.
func (e *Engine) Notify(ctx context.Context, user, id string) (bool, error) {
	ach, ok := e.byID[id]
	if !ok {
		return false, fmt.Errorf("achievement %q: %w", id, ErrUnknownAchievement)
	}

	// Unlocked flags never go back to false, so no lock is needed here.
	unlocked, err := e.store.Bool(ctx, Key{User: user, Achievement: id, Kind: Unlocked})
	if err != nil {
		return false, fmt.Errorf("achievement %q: %w", id, err)
	}
	if !unlocked {
		return false, nil
	}
	return e.notify(ctx, user, ach)
}

// NotifyPending presents all unlocked achievements of the user which have
// not been presented yet, for example after a restart.  Achievements whose
// requirement is met by the cumulative score but which were not unlocked,
// because an earlier submission failed half way, are unlocked first.
//
// It returns the achievements which were presented.  A notifier error for
// one achievement does not stop the others.
func (e *Engine) NotifyPending(ctx context.Context, user string) ([]Achievement, error) {
	pending, err := e.catchUp(ctx, user)
	if err != nil {
		return nil, err
	}

	var sent []Achievement
	var errs []error
	for _, ach := range pending {
		ok, err := e.notify(ctx, user, ach)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			sent = append(sent, ach)
		}
	}
	return sent, errors.Join(errs...)
}

// catchUp completes missing unlocks for the user and returns the pending
// achievements.
func (e *Engine) catchUp(ctx context.Context, user string) ([]Achievement, error) {
	unlock := e.users.lock(user)
	defer unlock()

	total, err := e.store.Cumulative(ctx, user)
	if err != nil {
		return nil, err
	}
	if _, err := e.unlockReached(ctx, user, total); err != nil {
		return nil, err
	}
	return e.pending(ctx, user)
}

// notify calls the notifier for ach, unless the notified flag is already
// set or another goroutine is presenting the same achievement.  The flag
// is only set after the notifier succeeded.
//
// The caller must not hold the lock of the user, since the notifier may
// call back into the engine.
func (e *Engine) notify(ctx context.Context, user string, ach Achievement) (bool, error) {
	if e.notifier == nil {
		return false, nil
	}

	key := Key{User: user, Achievement: ach.ID, Kind: Notified}
	e.mu.Lock()
	if e.notifying[key] {
		e.mu.Unlock()
		return false, nil
	}
	e.notifying[key] = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		delete(e.notifying, key)
		e.mu.Unlock()
	}()

	done, err := e.store.Bool(ctx, key)
	if err != nil {
		return false, fmt.Errorf("achievement %q: %w", ach.ID, err)
	}
	if done {
		return false, nil
	}

	if err := e.notifier.Notify(ctx, user, ach); err != nil {
		return false, fmt.Errorf("notify %q: %w", ach.ID, err)
	}
	if err := e.store.SetBool(ctx, key, true); err != nil {
		return false, fmt.Errorf("achievement %q: %w", ach.ID, err)
	}
	e.log.Debug().Str("user", user).Str("achievement", ach.ID).Msg("achievement notified")
	return true, nil
}

// MarkNotified records that the achievement has been presented to the
// user by other means.  Later calls to Notify and NotifyPending skip it.
// MarkNotified may be called from within a [Notifier].
func (e *Engine) MarkNotified(ctx context.Context, user, id string) error {
	if _, ok := e.byID[id]; !ok {
		return fmt.Errorf("achievement %q: %w", id, ErrUnknownAchievement)
	}

	err := e.store.SetBool(ctx, Key{User: user, Achievement: id, Kind: Notified}, true)
	if err != nil {
		return fmt.Errorf("achievement %q: %w", id, err)
	}
	return nil
}

// Pending returns the achievements which are unlocked for the user but
// have not been presented yet.
func (e *Engine) Pending(ctx context.Context, user string) ([]Achievement, error) {
	unlock := e.users.lock(user)
	defer unlock()
	return e.pending(ctx, user)
}

func (e *Engine) pending(ctx context.Context, user string) ([]Achievement, error) {
	var res []Achievement
	for _, ach := range e.achievements {
		unlocked, err := e.store.Bool(ctx, Key{User: user, Achievement: ach.ID, Kind: Unlocked})
		if err != nil {
			return nil, err
		}
		if !unlocked {
			continue
		}
		notified, err := e.store.Bool(ctx, Key{User: user, Achievement: ach.ID, Kind: Notified})
		if err != nil {
			return nil, err
		}
		if !notified {
			res = append(res, ach)
		}
	}
	return res, nil
}

// Unlock is an achievement together with the time it was unlocked.
type Unlock struct {
	Achievement
	At time.Time
}

// Unlocked returns the achievements the user has unlocked, as recorded in
// the unlock ledger of the store.  Configured achievements come first,
// ordered by requirement.  Achievements which were unlocked under an
// earlier configuration of the engine follow, ordered by ID, and carry
// only their ID.
func (e *Engine) Unlocked(ctx context.Context, user string) ([]Unlock, error) {
	times, err := e.store.Unlocks(ctx, user)
	if err != nil {
		return nil, err
	}

	res := make([]Unlock, 0, len(times))
	for _, ach := range e.achievements {
		if at, ok := times[ach.ID]; ok {
			res = append(res, Unlock{Achievement: ach, At: at})
		}
	}
	var retired []string
	for id := range times {
		if _, ok := e.byID[id]; !ok {
			retired = append(retired, id)
		}
	}
	slices.Sort(retired)
	for _, id := range retired {
		res = append(res, Unlock{Achievement: Achievement{ID: id}, At: times[id]})
	}
	return res, nil
}

// Level returns the level of the user, which is the number of unlocked
// achievements but at least 1.  Achievements count even if they are no
// longer configured, so that a level never drops.
func (e *Engine) Level(ctx context.Context, user string) (int, error) {
	return e.level(ctx, user)
}

func (e *Engine) level(ctx context.Context, user string) (int, error) {
	times, err := e.store.Unlocks(ctx, user)
	if err != nil {
		return 0, err
	}
	return max(1, len(times)), nil
}

// Cumulative returns the cumulative score of the user.
func (e *Engine) Cumulative(ctx context.Context, user string) (int, error) {
	return e.store.Cumulative(ctx, user)
}

// Attempts returns the attempts of the user, oldest first.
func (e *Engine) Attempts(ctx context.Context, user string) ([]Attempt, error) {
	return e.store.Attempts(ctx, user)
}
