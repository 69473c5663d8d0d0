// Package scheduler runs recurring jobs on robfig/cron.
package scheduler

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/DeafMist/newsdesk/internal/store"
)

// Cron hands out one cron instance per recurring job.
type Cron struct {
	log *slog.Logger
}

// New creates a Cron scheduler.
func New(logger *slog.Logger) *Cron {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Cron{log: logger}
}

// Every runs fn every d until the returned timer is stopped.
// A tick is skipped while the previous run of fn is still going.
// cron rounds intervals below one second up to one second.
func (s *Cron) Every(d time.Duration, fn func()) store.Timer {
	c := cron.New(cron.WithChain(
		cron.Recover(cron.DiscardLogger),
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))
	c.Schedule(cron.Every(d), cron.FuncJob(fn))
	c.Start()

	s.log.Debug("recurring job started", slog.Duration("interval", d))
	return &job{cron: c, log: s.log, interval: d}
}

type job struct {
	once     sync.Once
	cron     *cron.Cron
	log      *slog.Logger
	interval time.Duration
}

// Stop halts future ticks. A run already in progress is left to finish.
func (j *job) Stop() {
	j.once.Do(func() {
		j.cron.Stop()
		j.log.Debug("recurring job stopped", slog.Duration("interval", j.interval))
	})
}
