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

// Package colouring implements one attempt of a colouring game.
//
// A [Session] ties together the pieces provided by the sub-packages: a
// [canvas.Canvas] restricted to the outline of a shape from the
// [shapes] catalogue, the [coverage] estimator which measures how much of
// the shape has been painted, and a [scoring.Engine] which turns the
// finished attempt into points and achievements.
//
// A session starts in progress.  Pointer input is fed to the canvas
// returned by [Session.Canvas].  [Session.Submit] ends the attempt; it can
// succeed only once.
package colouring

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"seehuhn.de/go/colouring/canvas"
	"seehuhn.de/go/colouring/coverage"
	"seehuhn.de/go/colouring/scoring"
	"seehuhn.de/go/colouring/shapes"
)

// ErrSubmitted is returned by Submit if the attempt has already been
// submitted.
var ErrSubmitted = errors.New("attempt already submitted")

// Session is one attempt of one user at one task.
//
// The canvas must only be used by one goroutine at a time.  Submit may be
// called from any goroutine, but not while the canvas is in use.
type Session struct {
	user      string
	task      scoring.Task
	engine    *scoring.Engine
	canvas    *canvas.Canvas
	estimator *coverage.Estimator
	log       zerolog.Logger
	now       func() time.Time
	started   time.Time

	mu       sync.Mutex
	finished time.Time // zero while in progress
}

// Option configures a [Session].
type Option func(*Session)

// WithEstimator replaces the default coverage estimator.
func WithEstimator(e *coverage.Estimator) Option {
	return func(s *Session) {
		s.estimator = e
	}
}

// WithClock replaces time.Now for measuring the time spent.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithLogger sets the logger.  The default discards all output.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) {
		s.log = l
	}
}

// NewSession starts an attempt of user at task, on a canvas of the given
// size.  The canvas is restricted to the shape task.ShapeID; if the shape
// ID is empty, the whole canvas can be painted.
func NewSession(user string, task scoring.Task, width, height int, engine *scoring.Engine, opts ...Option) (*Session, error) {
	s := &Session{
		user:      user,
		task:      task,
		engine:    engine,
		canvas:    canvas.New(width, height),
		estimator: coverage.New(),
		log:       zerolog.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if task.ShapeID != "" {
		b, err := shapes.Boundary(task.ShapeID, width, height)
		if err != nil {
			return nil, fmt.Errorf("task %q: %w", task.ID, err)
		}
		s.canvas.SetBoundary(b)
	}

	s.started = s.now()
	s.log.Debug().
		Str("user", user).
		Str("task", task.ID).
		Str("shape", task.ShapeID).
		Msg("session started")
	return s, nil
}

// Canvas returns the drawing surface of the session.
func (s *Session) Canvas() *canvas.Canvas {
	return s.canvas
}

// Task returns the task of the session.
func (s *Session) Task() scoring.Task {
	return s.task
}

// Elapsed returns the time spent on the attempt.  After a successful
// submission, the value no longer changes.
func (s *Session) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.finished.IsZero() {
		return s.finished.Sub(s.started)
	}
	return s.now().Sub(s.started)
}

// Coverage returns the current fraction of the shape which is painted.
func (s *Session) Coverage() float64 {
	return s.estimator.Estimate(s.canvas.Buffer(), s.canvas.Boundary())
}

// Submitted reports whether the attempt has been submitted.
func (s *Session) Submitted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.finished.IsZero()
}

// Submit ends the attempt and passes it to the scoring engine.
//
// Coverage is measured completely before scoring starts.  If the engine
// cannot store the attempt, the attempt stays in progress and Submit can be
// called again.  Once the attempt is stored, the session is finished and
// later calls return ErrSubmitted.
func (s *Session) Submit(ctx context.Context) (scoring.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.finished.IsZero() {
		return scoring.Result{}, ErrSubmitted
	}

	s.canvas.CancelStroke()
	now := s.now()
	cov := s.estimator.Sample(s.canvas.Buffer(), s.canvas.Boundary())
	sub := scoring.Submission{
		User:        s.user,
		Task:        s.task,
		Coverage:    cov.Ratio(),
		TimeSpent:   now.Sub(s.started),
		StrokeCount: s.canvas.StrokeCount(),
	}
	s.log.Debug().
		Str("user", s.user).
		Int("painted", cov.Painted).
		Int("samples", cov.Total).
		Dur("spent", sub.TimeSpent).
		Msg("submitting attempt")

	res, err := s.engine.Submit(ctx, sub)
	if err != nil {
		return scoring.Result{}, err
	}
	s.finished = now
	return res, nil
}
