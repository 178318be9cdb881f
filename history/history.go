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

// Package history implements a linear undo/redo history.
package history

// History is an ordered list of items together with a cursor.  Items up to
// and including the cursor are active; items after the cursor can be
// brought back with Redo until a new item is pushed, at which point they
// are discarded for good.
//
// The zero value is an empty history with cursor -1.
// A History is not safe for concurrent use.
type History[T any] struct {
	items  []T
	active int // number of active items, i.e. cursor+1
}

// Push appends v after the cursor and makes it the last active item.
// Any items which were available for redo are discarded.
func (h *History[T]) Push(v T) {
	if h.active < len(h.items) {
		clear(h.items[h.active:])
		h.items = h.items[:h.active]
	}
	h.items = append(h.items, v)
	h.active++
}

// Undo moves the cursor back by one item.  It reports false and does
// nothing if no items are active.
func (h *History[T]) Undo() bool {
	if h.active == 0 {
		return false
	}
	h.active--
	return true
}

// Redo moves the cursor forward by one item.  It reports false and does
// nothing if there is nothing to redo.
func (h *History[T]) Redo() bool {
	if h.active == len(h.items) {
		return false
	}
	h.active++
	return true
}

// Clear removes all items, including those available for redo.
func (h *History[T]) Clear() {
	clear(h.items)
	h.items = h.items[:0]
	h.active = 0
}

// Cursor returns the index of the last active item, or -1 if there is none.
func (h *History[T]) Cursor() int {
	return h.active - 1
}

// Len returns the number of active items.
func (h *History[T]) Len() int {
	return h.active
}

// CanUndo reports whether Undo would change the history.
func (h *History[T]) CanUndo() bool {
	return h.active > 0
}

// CanRedo reports whether Redo would change the history.
func (h *History[T]) CanRedo() bool {
	return h.active < len(h.items)
}

// Active returns the active items, oldest first.  The returned slice
// shares storage with the history and must not be modified.  It is
// only valid until the next call to Push or Clear.
func (h *History[T]) Active() []T {
	return h.items[:h.active:h.active]
}

// Last returns the last active item.
func (h *History[T]) Last() (T, bool) {
	if h.active == 0 {
		var zero T
		return zero, false
	}
	return h.items[h.active-1], true
}
