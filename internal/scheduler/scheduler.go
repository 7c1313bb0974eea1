package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Action is a job body. It receives the scheduler's run context and must do
// its own error handling; a returned panic is recovered and logged.
type Action func(ctx context.Context)

// JobInfo describes a registered job.
type JobInfo struct {
	ID     string
	Hour   int
	Minute int
}

type job struct {
	id     string
	hour   int
	minute int
	action Action

	lastFired string // minute stamp of the last invocation
}

// Scheduler holds a registry of named minute-granular jobs and fires them
// from a single polling loop. Job ids are unique: adding an existing id
// replaces the old job in the same critical section, so the registry never
// holds two jobs for one id.
type Scheduler struct {
	log      *zap.Logger
	loc      *time.Location
	interval time.Duration
	now      func() time.Time
	slots    chan struct{} // bounds concurrently running actions

	mu   sync.Mutex
	jobs map[string]*job
}

// Option tweaks scheduler construction.
type Option func(*Scheduler)

// WithInterval overrides the polling interval.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) { s.interval = d }
}

// WithNow overrides the clock source.
func WithNow(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// New creates a scheduler evaluating jobs against wall-clock time in loc.
func New(loc *time.Location, log *zap.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		log:      log,
		loc:      loc,
		interval: 30 * time.Second,
		now:      time.Now,
		slots:    make(chan struct{}, 8),
		jobs:     make(map[string]*job),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CloseJobID is the registry id of a chat's close job.
func CloseJobID(chatID int64) string { return fmt.Sprintf("close_%d", chatID) }

// OpenJobID is the registry id of a chat's open job.
func OpenJobID(chatID int64) string { return fmt.Sprintf("open_%d", chatID) }

// Add registers a job. An existing job with the same id is replaced.
func (s *Scheduler) Add(id string, hour, minute int, fn Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[id] = &job{id: id, hour: hour, minute: minute, action: fn}
}

// Remove deletes a job if present.
func (s *Scheduler) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, id)
}

// RemoveChat deletes both of a chat's jobs if present.
func (s *Scheduler) RemoveChat(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, CloseJobID(chatID))
	delete(s.jobs, OpenJobID(chatID))
}

// Clear deletes every job.
func (s *Scheduler) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = make(map[string]*job)
}

// List returns descriptors of all registered jobs, sorted by id.
func (s *Scheduler) List() []JobInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]JobInfo, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, JobInfo{ID: j.id, Hour: j.hour, Minute: j.minute})
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out
}

// Run polls until ctx is canceled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopping")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick fires every job whose (hour, minute) matches the current minute and
// that has not fired in this minute yet. Actions are dispatched to their own
// goroutines behind a bounded semaphore so one slow chat cannot delay others.
func (s *Scheduler) tick(ctx context.Context) {
	now := s.now().In(s.loc)
	stamp := now.Format("2006-01-02 15:04")

	s.mu.Lock()
	var due []*job
	for _, j := range s.jobs {
		if j.hour == now.Hour() && j.minute == now.Minute() && j.lastFired != stamp {
			j.lastFired = stamp
			due = append(due, j)
		}
	}
	s.mu.Unlock()

	for _, j := range due {
		select {
		case s.slots <- struct{}{}:
		case <-ctx.Done():
			return
		}
		go func(j *job) {
			defer func() {
				if r := recover(); r != nil {
					// The job stays registered; it will fire again next time.
					s.log.Error("job panicked", zap.String("job", j.id), zap.Any("panic", r))
				}
				<-s.slots
			}()
			s.log.Info("firing job", zap.String("job", j.id))
			j.action(ctx)
		}(j)
	}
}
