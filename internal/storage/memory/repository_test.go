package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"radio-content-parser/internal/extract"
	"radio-content-parser/internal/observability"
	"radio-content-parser/internal/storage"
)

func TestSaveAndLatest(t *testing.T) {
	repo := NewRepository(observability.NewNopLogger())
	ctx := context.Background()

	if _, err := repo.LatestSnapshot(ctx, "events"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	snap := &storage.Snapshot{
		Kind:      "events",
		Events:    []extract.Event{{Title: "Noite de Forró"}},
		CheckSum:  "abc",
		UpdatedAt: time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC),
	}

	changed, err := repo.SaveSnapshot(ctx, snap)
	if err != nil || !changed {
		t.Fatalf("first save: changed=%v err=%v", changed, err)
	}

	changed, err = repo.SaveSnapshot(ctx, snap)
	if err != nil || changed {
		t.Fatalf("same checksum should report unchanged: changed=%v err=%v", changed, err)
	}

	got, err := repo.LatestSnapshot(ctx, "events")
	if err != nil {
		t.Fatalf("LatestSnapshot: %v", err)
	}
	if got.Len() != 1 || got.Events[0].Title != "Noite de Forró" {
		t.Fatalf("unexpected snapshot %+v", got)
	}

	sum, err := repo.GetCheckSum(ctx, "events")
	if err != nil || sum != "abc" {
		t.Fatalf("GetCheckSum() = %q, %v", sum, err)
	}
	if sum, _ := repo.GetCheckSum(ctx, "news"); sum != "" {
		t.Fatalf("missing kind should have empty checksum, got %q", sum)
	}
}

func TestSnapshotReplacedNotMerged(t *testing.T) {
	repo := NewRepository(observability.NewNopLogger())
	ctx := context.Background()

	_, _ = repo.SaveSnapshot(ctx, &storage.Snapshot{Kind: "ticker", Ticker: []string{"a", "b"}, CheckSum: "1"})
	_, _ = repo.SaveSnapshot(ctx, &storage.Snapshot{Kind: "ticker", Ticker: []string{"c"}, CheckSum: "2"})

	got, _ := repo.LatestSnapshot(ctx, "ticker")
	if len(got.Ticker) != 1 || got.Ticker[0] != "c" {
		t.Fatalf("expected replaced snapshot, got %v", got.Ticker)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	repo := NewRepository(observability.NewNopLogger())
	ctx := context.Background()

	lines := []string{"original"}
	_, _ = repo.SaveSnapshot(ctx, &storage.Snapshot{Kind: "ticker", Ticker: lines})
	lines[0] = "mutated"

	got, _ := repo.LatestSnapshot(ctx, "ticker")
	got.Ticker[0] = "changed by reader"

	again, _ := repo.LatestSnapshot(ctx, "ticker")
	if again.Ticker[0] != "original" {
		t.Fatalf("stored snapshot was mutated: %q", again.Ticker[0])
	}
}

func TestSaveSnapshotValidation(t *testing.T) {
	repo := NewRepository(observability.NewNopLogger())
	if _, err := repo.SaveSnapshot(context.Background(), &storage.Snapshot{}); err == nil {
		t.Error("expected error for empty kind")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := repo.SaveSnapshot(ctx, &storage.Snapshot{Kind: "news"}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
