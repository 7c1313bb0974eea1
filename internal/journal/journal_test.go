package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(context.Background(), filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestLastRun_EmptyJournal(t *testing.T) {
	j := newTestJournal(t)

	run, err := j.LastRun(context.Background(), 100, "close")
	if err != nil {
		t.Fatalf("last run: %v", err)
	}
	if run != nil {
		t.Fatalf("run = %+v", run)
	}
}

func TestRecordAndLastRun(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC)
	runs := []Run{
		{ChatID: 100, Action: "close", Topics: 2, Failed: 0, At: base},
		{ChatID: 100, Action: "open", Topics: 2, Failed: 1, At: base.Add(9 * time.Hour)},
		{ChatID: 100, Action: "close", Topics: 3, Failed: 0, At: base.Add(24 * time.Hour)},
		{ChatID: 200, Action: "close", Topics: 1, Failed: 0, At: base},
	}
	for _, r := range runs {
		if err := j.Record(ctx, r); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	last, err := j.LastRun(ctx, 100, "close")
	if err != nil {
		t.Fatalf("last run: %v", err)
	}
	if last == nil || last.Topics != 3 || !last.At.Equal(base.Add(24*time.Hour)) {
		t.Fatalf("last close = %+v", last)
	}

	last, err = j.LastRun(ctx, 100, "open")
	if err != nil {
		t.Fatalf("last run: %v", err)
	}
	if last == nil || last.Failed != 1 {
		t.Fatalf("last open = %+v", last)
	}
}

func TestRecent(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		run := Run{ChatID: 100, Action: "close", Topics: i, At: base.Add(time.Duration(i) * time.Hour)}
		if err := j.Record(ctx, run); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	recent, err := j.Recent(ctx, 100, 3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("recent = %v", recent)
	}
	// Newest first.
	if recent[0].Topics != 4 || recent[2].Topics != 2 {
		t.Fatalf("recent order = %v", recent)
	}
}
