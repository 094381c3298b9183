package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cognicore/piiscan/pkg/piiscan/internalerr"
	"github.com/cognicore/piiscan/pkg/piiscan/store"
)

func TestMemstoreSaveAndGet(t *testing.T) {
	ctx := context.Background()
	s := New()

	run := store.Run{
		ID:         "a",
		Language:   "en",
		CreatedAt:  time.Now(),
		TextLength: 10,
		Entities:   []string{"BIRTHDAY"},
		Findings:   []store.Finding{{EntityType: "BIRTHDAY", Start: 0, End: 4, Score: 0.7}},
	}
	if err := s.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	run.Findings[0].Score = 0 // caller mutation must not leak into the store

	got, err := s.GetRun(ctx, "a")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Findings[0].Score != 0.7 {
		t.Errorf("stored finding was mutated: %+v", got.Findings[0])
	}

	if err := s.SaveRun(ctx, run); !errors.Is(err, internalerr.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
	if _, err := s.GetRun(ctx, "zzz"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemstoreListRuns(t *testing.T) {
	ctx := context.Background()
	s := New()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"r1", "r2", "r3"} {
		if err := s.SaveRun(ctx, store.Run{ID: id, CreatedAt: base.Add(time.Duration(i) * time.Hour)}); err != nil {
			t.Fatal(err)
		}
	}
	runs, err := s.ListRuns(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0].ID != "r3" || runs[1].ID != "r2" {
		t.Errorf("ListRuns(2) = %+v", runs)
	}
	if all, _ := s.ListRuns(ctx, 0); len(all) != 3 {
		t.Errorf("ListRuns(0) = %d runs, want 3", len(all))
	}
}

func TestMemstoreClosed(t *testing.T) {
	s := New()
	s.Close()
	if err := s.SaveRun(context.Background(), store.Run{ID: "x"}); !errors.Is(err, internalerr.ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got %v", err)
	}
	if _, err := s.ListRuns(context.Background(), 0); !errors.Is(err, internalerr.ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got %v", err)
	}
}
