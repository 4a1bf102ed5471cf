package worker

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"qrpass/internal/memory"
)

func TestSweeper_PurgesExpiredClaims(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	store := memory.NewReplayStore()
	ctx := context.Background()

	if err := store.Claim(ctx, "stale", time.Now().Add(-2*time.Hour)); err != nil {
		t.Fatalf("seed claim: %v", err)
	}
	if err := store.Claim(ctx, "fresh", time.Now()); err != nil {
		t.Fatalf("seed claim: %v", err)
	}

	sweeper := NewSweeper(store, time.Minute, time.Hour, logger)

	if err := sweeper.Sweep(ctx); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	if store.Len() != 1 {
		t.Errorf("expected 1 live claim after sweep, got %d", store.Len())
	}

	seen, err := store.Seen(ctx, "fresh")
	if err != nil {
		t.Fatalf("seen: %v", err)
	}
	if !seen {
		t.Errorf("fresh claim should survive the sweep")
	}
}

func TestSweeper_StopsOnContextCancel(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	store := memory.NewReplayStore()

	sweeper := NewSweeper(store, 10*time.Millisecond, time.Hour, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Start(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after context cancellation")
	}
}
