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

// Package scoring turns the coverage of a finished colouring attempt into
// points, keeps the cumulative score of every user, and unlocks
// achievements once the cumulative score reaches their requirement.
//
// All state is kept in a [Store].  Submissions of the same user are
// serialised by the [Engine]; submissions of different users run
// independently.
package scoring

import (
	"math"
	"time"
)

// BonusRate is the fraction of the raw score which is added when an
// attempt finishes within the time limit of its task.
const BonusRate = 0.10

// Task describes what the user was asked to colour.
type Task struct {
	ID        string
	ShapeID   string
	MaxPoints int
	TimeLimit time.Duration
}

// Attempt is the record of one submitted colouring.  Attempts are never
// modified after they have been stored.
type Attempt struct {
	ID          string
	User        string
	TaskID      string
	Score       int
	TimeSpent   time.Duration
	Coverage    float64
	StrokeCount int
	CreatedAt   time.Time
}

// Achievement is unlocked once the cumulative score of a user reaches
// Requirement.  Titles and icons are the business of the caller.
type Achievement struct {
	ID          string
	Requirement int
}

// Score computes the points for an attempt.
//
// The raw score is coverage*maxPoints, rounded to the nearest integer.
// If the attempt finished within the time limit, BonusRate times the raw
// score (again rounded) is added.  The result is clamped to the range
// [0, maxPoints].  Coverage values outside [0, 1] are clamped first, NaN
// counts as no coverage, and a non-positive maxPoints gives 0.
func Score(coverage float64, maxPoints int, timeSpent, timeLimit time.Duration) int {
	if maxPoints <= 0 {
		return 0
	}

	raw := math.Round(clampUnit(coverage) * float64(maxPoints))
	if timeSpent <= timeLimit {
		raw += math.Round(raw * BonusRate)
	}
	return int(min(max(raw, 0), float64(maxPoints)))
}

func clampUnit(x float64) float64 {
	if math.IsNaN(x) || x < 0 {
		return 0
	}
	return min(x, 1)
}
