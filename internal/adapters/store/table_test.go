package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

type row struct {
	ID    string
	Count int
}

func TestTable_PutGet(t *testing.T) {
	ctx := context.Background()
	tbl := NewTable[row]("rows")

	if count := tbl.Count(ctx); count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}

	tbl.Put(ctx, "a", row{ID: "a", Count: 1})
	got, err := tbl.Get(ctx, "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Count != 1 {
		t.Errorf("expected count 1, got %d", got.Count)
	}

	// Replace keeps a single row.
	tbl.Put(ctx, "a", row{ID: "a", Count: 2})
	if count := tbl.Count(ctx); count != 1 {
		t.Errorf("expected count 1 after replace, got %d", count)
	}
	got, _ = tbl.Get(ctx, "a")
	if got.Count != 2 {
		t.Errorf("expected count 2 after replace, got %d", got.Count)
	}
}

func TestTable_GetMissing(t *testing.T) {
	ctx := context.Background()
	tbl := NewTable[row]("rows")

	_, err := tbl.Get(ctx, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTable_ListOrder(t *testing.T) {
	ctx := context.Background()
	tbl := NewTable[row]("rows")

	for _, id := range []string{"charlie", "alpha", "bravo"} {
		tbl.Put(ctx, id, row{ID: id})
	}

	got := tbl.List(ctx)
	want := []string{"alpha", "bravo", "charlie"}
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], got[i].ID)
		}
	}
}

func TestTable_Update(t *testing.T) {
	ctx := context.Background()
	tbl := NewTable[row]("rows")
	tbl.Put(ctx, "a", row{ID: "a", Count: 1})

	got, err := tbl.Update(ctx, "a", func(r row) (row, error) {
		r.Count++
		return r, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Count != 2 {
		t.Errorf("expected count 2, got %d", got.Count)
	}

	// Errors from fn leave the row untouched.
	sentinel := errors.New("refused")
	_, err = tbl.Update(ctx, "a", func(r row) (row, error) {
		return row{}, sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Errorf("expected sentinel error, got %v", err)
	}
	got, _ = tbl.Get(ctx, "a")
	if got.Count != 2 {
		t.Errorf("expected count 2 after failed update, got %d", got.Count)
	}

	// Missing keys are ErrNotFound.
	_, err = tbl.Update(ctx, "nope", func(r row) (row, error) { return r, nil })
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTable_UpdateSingleWinner(t *testing.T) {
	ctx := context.Background()
	tbl := NewTable[row]("rows")
	tbl.Put(ctx, "tip", row{ID: "tip", Count: 0})

	refused := errors.New("already settled")
	var wg sync.WaitGroup
	wins := make(chan struct{}, 64)

	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := tbl.Update(ctx, "tip", func(r row) (row, error) {
				if r.Count != 0 {
					return row{}, refused
				}
				r.Count = 1
				return r, nil
			})
			if err == nil {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	var winners int
	for range wins {
		winners++
	}
	if winners != 1 {
		t.Errorf("expected exactly one winning transition, got %d", winners)
	}
}

func TestTable_Delete(t *testing.T) {
	ctx := context.Background()
	tbl := NewTable[row]("rows")
	tbl.Put(ctx, "a", row{ID: "a"})
	tbl.Put(ctx, "b", row{ID: "b"})

	if err := tbl.Delete(ctx, "a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count := tbl.Count(ctx); count != 1 {
		t.Errorf("expected count 1 after delete, got %d", count)
	}
	got := tbl.List(ctx)
	if len(got) != 1 || got[0].ID != "b" {
		t.Errorf("expected only row b to remain, got %v", got)
	}

	if err := tbl.Delete(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestTable_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	tbl := NewTable[row]("rows")

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				key := fmt.Sprintf("w%d-%d", w, i)
				tbl.Put(ctx, key, row{ID: key, Count: i})
				if _, err := tbl.Get(ctx, key); err != nil {
					t.Errorf("get %s: %v", key, err)
				}
				_ = tbl.List(ctx)
			}
		}(w)
	}
	wg.Wait()

	if count := tbl.Count(ctx); count != 800 {
		t.Errorf("expected 800 rows, got %d", count)
	}
}

func TestTable_ListIsACopy(t *testing.T) {
	ctx := context.Background()
	tbl := NewTable[row]("rows")
	tbl.Put(ctx, "a", row{ID: "a", Count: 1})

	list := tbl.List(ctx)
	list[0].Count = 99

	got, _ := tbl.Get(ctx, "a")
	if got.Count != 1 {
		t.Errorf("mutating the listed slice leaked into the table: count %d", got.Count)
	}
}
