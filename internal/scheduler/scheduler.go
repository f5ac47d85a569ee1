package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Sweeper is anything that can drop its expired entries.
type Sweeper interface {
	Sweep() int
}

// Scheduler periodically removes expired entries from the response cache.
// It never talks to NASA; fetches only happen on user requests.
type Scheduler struct {
	scheduler *gocron.Scheduler
	target    Sweeper
	interval  time.Duration
}

// New creates a new Scheduler.
func New(target Sweeper, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		target:    target,
		interval:  interval,
	}
}

// Start schedules the sweep job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	interval := s.interval
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	// The first sweep would find nothing, so wait one interval before running.
	_, err := s.scheduler.Every(interval).WaitForSchedule().Do(s.runSweep)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) runSweep() {
	removed := s.target.Sweep()
	log.Printf("scheduler: cache sweep removed %d expired entries", removed)
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
