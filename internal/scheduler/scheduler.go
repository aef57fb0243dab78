package scheduler

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/example/kidvocab/internal/database"
	"github.com/go-co-op/gocron"
)

// DefaultSweepIntervalHours is how often stale session records are swept
const DefaultSweepIntervalHours = 1

// Scheduler manages background maintenance tasks for the session storage
type Scheduler struct {
	scheduler *gocron.Scheduler
	sessions  *database.SessionRepository
	maxAge    time.Duration
}

// New creates a scheduler sweeping records older than maxAge
func New(sessions *database.SessionRepository, maxAge time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		sessions:  sessions,
		maxAge:    maxAge,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	interval := DefaultSweepIntervalHours
	if intervalStr := os.Getenv("SESSION_SWEEP_INTERVAL_HOURS"); intervalStr != "" {
		if h, err := strconv.Atoi(intervalStr); err == nil && h > 0 {
			interval = h
		}
	}

	s.scheduler.Every(interval).Hours().Do(s.sweepExpired)

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// sweepExpired deletes session records past the staleness cutoff. Stores
// already discard expired records on load; the sweep clears records whose
// owner never returns.
func (s *Scheduler) sweepExpired() {
	count, err := s.sessions.DeleteOlderThan(s.maxAge)
	if err != nil {
		log.Printf("Error sweeping expired session records: %v", err)
		return
	}
	if count > 0 {
		log.Printf("Swept %d expired session record(s)", count)
	}
}

// RunManualSweep forces an immediate sweep
func (s *Scheduler) RunManualSweep() (int64, error) {
	return s.sessions.DeleteOlderThan(s.maxAge)
}
