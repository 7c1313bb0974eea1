package scheduler

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

func waitFired(t *testing.T, ch <-chan string, want string) {
	t.Helper()
	select {
	case got := <-ch:
		if got != want {
			t.Fatalf("fired %q, want %q", got, want)
		}
	case <-time.After(time.Second):
		t.Fatalf("job %q did not fire", want)
	}
}

func assertQuiet(t *testing.T, ch <-chan string) {
	t.Helper()
	select {
	case got := <-ch:
		t.Fatalf("unexpected fire: %q", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestAdd_ReplacesExistingID(t *testing.T) {
	s := New(time.UTC, zap.NewNop())
	s.Add("close_1", 10, 0, func(context.Context) {})
	s.Add("close_1", 11, 30, func(context.Context) {})

	jobs := s.List()
	if len(jobs) != 1 {
		t.Fatalf("jobs = %v", jobs)
	}
	if jobs[0].Hour != 11 || jobs[0].Minute != 30 {
		t.Fatalf("old trigger survived: %+v", jobs[0])
	}
}

func TestRemoveChat(t *testing.T) {
	s := New(time.UTC, zap.NewNop())
	s.Add(CloseJobID(1), 22, 0, func(context.Context) {})
	s.Add(OpenJobID(1), 7, 0, func(context.Context) {})
	s.Add(CloseJobID(2), 23, 0, func(context.Context) {})

	s.RemoveChat(1)

	jobs := s.List()
	if len(jobs) != 1 || jobs[0].ID != CloseJobID(2) {
		t.Fatalf("jobs = %v", jobs)
	}

	// Removing again is a no-op.
	s.RemoveChat(1)
	if len(s.List()) != 1 {
		t.Fatalf("jobs = %v", s.List())
	}
}

func TestTick_FiresOncePerMinute(t *testing.T) {
	now := time.Date(2025, 3, 10, 22, 0, 5, 0, time.UTC)
	s := New(time.UTC, zap.NewNop(), WithNow(func() time.Time { return now }))

	fired := make(chan string, 4)
	s.Add("close_100", 22, 0, func(context.Context) { fired <- "close_100" })

	ctx := context.Background()
	s.tick(ctx)
	waitFired(t, fired, "close_100")

	// Same minute again: the stamp holds the job back.
	now = now.Add(20 * time.Second)
	s.tick(ctx)
	assertQuiet(t, fired)

	// Next day, same wall-clock minute: fires again.
	now = now.Add(24 * time.Hour)
	s.tick(ctx)
	waitFired(t, fired, "close_100")
}

func TestTick_OtherMinutesAreQuiet(t *testing.T) {
	now := time.Date(2025, 3, 10, 21, 59, 0, 0, time.UTC)
	s := New(time.UTC, zap.NewNop(), WithNow(func() time.Time { return now }))

	fired := make(chan string, 1)
	s.Add("close_100", 22, 0, func(context.Context) { fired <- "close_100" })

	s.tick(context.Background())
	assertQuiet(t, fired)
}

func TestTick_PanickingJobStaysRegistered(t *testing.T) {
	now := time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC)
	s := New(time.UTC, zap.NewNop(), WithNow(func() time.Time { return now }))

	fired := make(chan string, 2)
	s.Add("close_100", 22, 0, func(context.Context) {
		fired <- "close_100"
		panic("boom")
	})

	ctx := context.Background()
	s.tick(ctx)
	waitFired(t, fired, "close_100")

	if len(s.List()) != 1 {
		t.Fatalf("panicking job was deregistered: %v", s.List())
	}

	now = now.Add(24 * time.Hour)
	s.tick(ctx)
	waitFired(t, fired, "close_100")
}

func TestTick_SlowJobDoesNotBlockOthers(t *testing.T) {
	now := time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC)
	s := New(time.UTC, zap.NewNop(), WithNow(func() time.Time { return now }))

	release := make(chan struct{})
	fired := make(chan string, 2)
	s.Add("close_1", 22, 0, func(context.Context) {
		<-release
		fired <- "close_1"
	})
	s.Add("close_2", 22, 0, func(context.Context) { fired <- "close_2" })

	s.tick(context.Background())

	// close_2 completes while close_1 is still hanging.
	waitFired(t, fired, "close_2")
	close(release)
	waitFired(t, fired, "close_1")
}

func TestRun_StopsOnCancel(t *testing.T) {
	s := New(time.UTC, zap.NewNop(), WithInterval(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}
