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
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"seehuhn.de/go/colouring/scoring"
)

type testStore interface {
	scoring.Store
	Attempt(ctx context.Context, id string) (scoring.Attempt, error)
}

func openSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "data", "colouring.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func forEachStore(t *testing.T, test func(t *testing.T, st testStore)) {
	t.Run("memory", func(t *testing.T) {
		test(t, NewMemory())
	})
	t.Run("sqlite", func(t *testing.T) {
		test(t, openSQLite(t))
	})
}

func TestFlags(t *testing.T) {
	forEachStore(t, func(t *testing.T, st testStore) {
		ctx := context.Background()
		unlocked := scoring.Key{User: "ann", Achievement: "first", Kind: scoring.Unlocked}
		notified := scoring.Key{User: "ann", Achievement: "first", Kind: scoring.Notified}

		if v, err := st.Bool(ctx, unlocked); err != nil || v {
			t.Fatalf("unset flag: got %t, %v", v, err)
		}
		if err := st.SetBool(ctx, unlocked, true); err != nil {
			t.Fatal(err)
		}
		if v, _ := st.Bool(ctx, unlocked); !v {
			t.Error("flag was not set")
		}
		if v, _ := st.Bool(ctx, notified); v {
			t.Error("flags of different kinds are not independent")
		}
		if v, _ := st.Bool(ctx, scoring.Key{User: "bob", Achievement: "first", Kind: scoring.Unlocked}); v {
			t.Error("flags of different users are not independent")
		}

		if err := st.SetBool(ctx, unlocked, false); err != nil {
			t.Fatal(err)
		}
		if v, _ := st.Bool(ctx, unlocked); v {
			t.Error("flag was not cleared")
		}
	})
}

func TestLedger(t *testing.T) {
	forEachStore(t, func(t *testing.T, st testStore) {
		ctx := context.Background()
		created := time.Date(2026, 3, 14, 15, 9, 26, 535897000, time.UTC)

		a := scoring.Attempt{
			ID:          "a1",
			User:        "ann",
			TaskID:      "t1",
			Score:       88,
			TimeSpent:   120 * time.Second,
			Coverage:    0.8,
			StrokeCount: 17,
			CreatedAt:   created,
		}
		total, err := st.RecordAttempt(ctx, a)
		if err != nil {
			t.Fatal(err)
		}
		if total != 88 {
			t.Errorf("total = %d, want 88", total)
		}

		b := a
		b.ID, b.Score = "a2", 12
		if total, _ = st.RecordAttempt(ctx, b); total != 100 {
			t.Errorf("total = %d, want 100", total)
		}
		if got, _ := st.Cumulative(ctx, "ann"); got != 100 {
			t.Errorf("Cumulative = %d, want 100", got)
		}
		if got, _ := st.Cumulative(ctx, "bob"); got != 0 {
			t.Errorf("Cumulative of a new user = %d, want 0", got)
		}

		list, err := st.Attempts(ctx, "ann")
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 2 || list[0].ID != "a1" || list[1].ID != "a2" {
			t.Fatalf("Attempts = %v", list)
		}

		got, err := st.Attempt(ctx, "a1")
		if err != nil {
			t.Fatal(err)
		}
		if !got.CreatedAt.Equal(created) {
			t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created)
		}
		got.CreatedAt = created
		if got != a {
			t.Errorf("Attempt = %+v, want %+v", got, a)
		}
		if _, err := st.Attempt(ctx, "missing"); !errors.Is(err, ErrNotFound) {
			t.Errorf("missing attempt: got %v, want ErrNotFound", err)
		}
	})
}

func TestUnlocksKeepFirstTime(t *testing.T) {
	forEachStore(t, func(t *testing.T, st testStore) {
		ctx := context.Background()
		first := time.Unix(1700000000, 0)
		if err := st.RecordUnlock(ctx, "ann", "gold", first); err != nil {
			t.Fatal(err)
		}
		if err := st.RecordUnlock(ctx, "ann", "gold", first.Add(time.Hour)); err != nil {
			t.Fatal(err)
		}

		u, err := st.Unlocks(ctx, "ann")
		if err != nil {
			t.Fatal(err)
		}
		if len(u) != 1 || !u["gold"].Equal(first) {
			t.Errorf("Unlocks = %v", u)
		}
		if u, _ := st.Unlocks(ctx, "bob"); len(u) != 0 {
			t.Errorf("Unlocks of a new user = %v", u)
		}
	})
}

func TestConcurrentAttempts(t *testing.T) {
	forEachStore(t, func(t *testing.T, st testStore) {
		ctx := context.Background()
		const n = 20

		var wg sync.WaitGroup
		errs := make(chan error, n)
		for i := range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := st.RecordAttempt(ctx, scoring.Attempt{
					ID:    "a" + string(rune('A'+i)),
					User:  "ann",
					Score: i,
				})
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			if err != nil {
				t.Fatal(err)
			}
		}

		if got, _ := st.Cumulative(ctx, "ann"); got != n*(n-1)/2 {
			t.Errorf("Cumulative = %d, want %d", got, n*(n-1)/2)
		}
	})
}

func TestSQLiteReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "colouring.db")

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.RecordAttempt(ctx, scoring.Attempt{ID: "a1", User: "ann", Score: 42}); err != nil {
		t.Fatal(err)
	}
	key := scoring.Key{User: "ann", Achievement: "first", Kind: scoring.Notified}
	if err := s.SetBool(ctx, key, true); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if got, _ := s.Cumulative(ctx, "ann"); got != 42 {
		t.Errorf("Cumulative after reopen = %d, want 42", got)
	}
	if v, _ := s.Bool(ctx, key); !v {
		t.Error("flag lost after reopen")
	}
}
